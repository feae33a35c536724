package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
)

const (
	startPath  = "/accounts/start-onboarding/"
	savePath   = "/accounts/onboarding/save/"
	statusPath = "/accounts/onboarding/status/"
)

var optionPaths = map[onboarding.Query]string{
	onboarding.QueryStudentCurricula:  "/accounts/onboarding/student/curricula/",
	onboarding.QueryStudentGrades:     "/accounts/onboarding/student/grades/",
	onboarding.QueryStudentSubjects:   "/accounts/onboarding/student/subjects/",
	onboarding.QueryLearningInterests: "/accounts/onboarding/student/learning-interests/",
	onboarding.QueryLearningStyles:    "/accounts/onboarding/student/learning-styles/",
	onboarding.QueryHelpPreferences:   "/accounts/onboarding/student/help-preferences/",
	onboarding.QueryLearningGoals:     "/accounts/onboarding/student/learning-goals/",

	onboarding.QueryTeacherCurricula: "/accounts/onboarding/teacher/curricula/",
	onboarding.QueryTeacherGrades:    "/accounts/onboarding/teacher/grade-levels/",
	onboarding.QueryTeacherSubjects:  "/accounts/onboarding/teacher/subjects/",
	onboarding.QueryTeachingGoals:    "/accounts/onboarding/teacher/teaching-goals/",
	onboarding.QueryTechComfort:      "/accounts/onboarding/teacher/tech-comfort/",
	onboarding.QueryLessonPlans:      "/accounts/onboarding/teacher/lesson-plan-preferences/",
	onboarding.QueryDeviceAccess:     "/accounts/onboarding/teacher/device-access/",
}

// StartResult is the backend's acknowledgement of a start-onboarding call.
type StartResult struct {
	UserID           string          `json:"user_id"`
	UserType         domain.UserType `json:"user_type"`
	OnboardingStatus string          `json:"onboarding_status"`
}

// Client talks to the onboarding REST backend. It implements
// onboarding.OptionProvider and onboarding.ProfileGateway. Every call is a
// single attempt.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
	newID    func() string
}

var (
	_ onboarding.OptionProvider = (*Client)(nil)
	_ onboarding.ProfileGateway = (*Client)(nil)
)

// NewClient creates a Client for cfg. Requests go through an otelhttp
// transport; spans are recorded only when a tracer provider is installed.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: otelhttp.NewTransport(&http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			}),
		},
		observer: observer,
		newID:    uuid.NewString,
	}
}

// envelope is the {success, data, error} wrapper used by start and status.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Detail  string          `json:"detail"`
	Message string          `json:"message"`
}

func (e envelope) message() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Detail != "":
		return e.Detail
	default:
		return e.Message
	}
}

// Start registers the onboarding attempt for id.
func (c *Client) Start(ctx context.Context, id domain.Identity) (*StartResult, error) {
	if !id.Valid() {
		return nil, ErrMissingIdentity
	}
	var env envelope
	if err := c.call(ctx, "start", http.MethodGet, startPath, identityQuery(id), nil, &env); err != nil {
		return nil, err
	}
	if !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		msg := env.message()
		if msg == "" {
			msg = "Invalid response format"
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: msg}
	}
	var res StartResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if res.UserID == "" {
		res.UserID = id.UserID
	}
	if res.UserType == "" {
		res.UserType = id.UserType
	}
	return &res, nil
}

// Options fetches the option list for q.
func (c *Client) Options(ctx context.Context, q onboarding.OptionQuery) ([]string, error) {
	path, ok := optionPaths[q.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownQuery, q.Kind)
	}
	body := make(map[string]domain.Choice, len(q.Params))
	for k, v := range q.Params {
		body[k] = v
	}
	var resp struct {
		Options []string `json:"options"`
	}
	if err := c.call(ctx, string(q.Kind), http.MethodPost, path, nil, body, &resp); err != nil {
		return nil, err
	}
	return resp.Options, nil
}

// SaveComplete persists the finished profile.
func (c *Client) SaveComplete(ctx context.Context, req onboarding.SaveRequest) error {
	if !req.Identity.Valid() || req.Draft == nil {
		return ErrMissingIdentity
	}
	return c.call(ctx, "save", http.MethodPost, savePath, nil, req.Body(), nil)
}

// Status reads the stored onboarding status for id.
func (c *Client) Status(ctx context.Context, id domain.Identity) (*domain.Status, error) {
	if !id.Valid() {
		return nil, ErrMissingIdentity
	}
	var env envelope
	if err := c.call(ctx, "status", http.MethodGet, statusPath, identityQuery(id), nil, &env); err != nil {
		return nil, err
	}
	if !env.Success || len(env.Data) == 0 || string(env.Data) == "null" {
		msg := env.message()
		if msg == "" {
			msg = "Failed to get onboarding status"
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: msg}
	}
	var st domain.Status
	if err := json.Unmarshal(env.Data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &st, nil
}

func identityQuery(id domain.Identity) url.Values {
	return url.Values{
		"user_id":   {id.UserID},
		"user_type": {string(id.UserType)},
	}
}

func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	start := time.Now()
	reqID := c.newID()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	status, err := c.do(ctx, method, path, query, reqID, body, out)
	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		err = ErrTimeout
	case errors.Is(ctx.Err(), context.Canceled):
		err = ctx.Err()
	case isConnectionError(err):
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.observer.OnCallComplete(CallEvent{
		Operation:  op,
		Method:     method,
		Path:       path,
		RequestID:  reqID,
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    err == nil,
		ErrorCode:  errorCode(err),
	})
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, reqID string, body, out any) (int, error) {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", reqID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return httpResp.StatusCode, decodeFailure(httpResp.StatusCode, respBody)
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return httpResp.StatusCode, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return httpResp.StatusCode, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return httpResp.StatusCode, nil
}

// decodeFailure turns a non-2xx body into an APIError, or a ValidationError
// when field-level errors are present.
func decodeFailure(code int, body []byte) error {
	var payload struct {
		Error            string                     `json:"error"`
		Detail           string                     `json:"detail"`
		Message          string                     `json:"message"`
		ValidationErrors map[string]json.RawMessage `json:"validation_errors"`
	}
	apiErr := APIError{StatusCode: code}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = fmt.Sprintf("backend returned status %d: %s", code, strings.TrimSpace(string(body)))
		return &apiErr
	}
	apiErr.Message = envelope{Error: payload.Error, Detail: payload.Detail, Message: payload.Message}.message()
	if len(payload.ValidationErrors) == 0 {
		return &apiErr
	}
	fields := make(map[string]string, len(payload.ValidationErrors))
	for k, raw := range payload.ValidationErrors {
		fields[k] = flattenMessage(raw)
	}
	return &ValidationError{APIError: apiErr, Fields: fields}
}

// flattenMessage renders a validation entry, which may be a string or a
// list of strings.
func flattenMessage(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	return string(raw)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.As(err, &vErr):
		return "VALIDATION"
	case errors.Is(err, ErrStatus):
		return "STATUS"
	case errors.Is(err, ErrInvalidResponse):
		return "INVALID_RESPONSE"
	default:
		return "UNKNOWN"
	}
}
