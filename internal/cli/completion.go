package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/onboarding"
	"github.com/alexanderramin/onboard/internal/repository"
)

// completionFor describes a finished engine run for the local history.
func completionFor(app *App, e *onboarding.Engine) *repository.Completion {
	c := &repository.Completion{
		ID:          app.newID(),
		UserID:      e.Identity().UserID,
		UserType:    e.UserType(),
		Saved:       e.Saved(),
		CompletedAt: app.now(),
	}
	if err := e.SaveErr(); err != nil {
		c.Error = err.Error()
	}
	return c
}

// recordCompletion stores c. Failures are logged; the run already ended.
func recordCompletion(ctx context.Context, app *App, c *repository.Completion) {
	if app.Completions == nil {
		return
	}
	if err := app.Completions.Create(ctx, c); err != nil {
		app.logger().Warn("recording completion", zap.String("user_id", c.UserID), zap.Error(err))
	}
}
