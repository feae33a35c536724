package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/cli/formatter"
	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/onboarding"
)

// replayScript is a scripted onboarding run.
//
//	user_id: u1
//	user_type: student
//	name: Asha
//	answers:
//	  - India
//	  - [CBSE]
//	  - pick: ["Others (please specify)"]
//	    other: Home school
type replayScript struct {
	UserID   string         `yaml:"user_id"`
	UserType string         `yaml:"user_type"`
	Name     string         `yaml:"name"`
	Answers  []scriptAnswer `yaml:"answers"`
}

// scriptAnswer accepts a plain string (typed text), a list (picked options)
// or a mapping with text, pick and other keys.
type scriptAnswer struct {
	Text  string   `yaml:"text"`
	Pick  []string `yaml:"pick"`
	Other string   `yaml:"other"`
}

func (a *scriptAnswer) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&a.Text)
	case yaml.SequenceNode:
		return node.Decode(&a.Pick)
	case yaml.MappingNode:
		type plain scriptAnswer
		return node.Decode((*plain)(a))
	default:
		return fmt.Errorf("line %d: answer must be text, a list or a mapping", node.Line)
	}
}

func (a scriptAnswer) answer() onboarding.Answer {
	return onboarding.Answer{Text: a.Text, Selected: a.Pick, Other: a.Other}
}

func (a scriptAnswer) echo() string {
	if len(a.Pick) == 0 {
		return a.Text
	}
	out := make([]string, 0, len(a.Pick))
	for _, p := range a.Pick {
		if p == onboarding.OthersOption {
			p = a.Other
		}
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

func parseReplayScript(data []byte) (*replayScript, error) {
	var s replayScript
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing replay script: %w", err)
	}
	return &s, nil
}

func newReplayCmd(app *App) *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "replay FILE",
		Short: "Run the onboarding conversation from a YAML answer script",
		Long: `Runs the same conversation as the interactive chat, answering each
question from the script, then saves the profile. Useful for testing a
backend or seeding accounts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading replay script: %w", err)
			}
			script, err := parseReplayScript(data)
			if err != nil {
				return err
			}
			return runReplay(app.ctx(), app, script, fresh, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&fresh, "fresh", false, "Ignore any stored progress and start from the name prompt")
	return cmd
}

// replayIdentity takes the identity from the script, falling back to the
// saved session.
func replayIdentity(ctx context.Context, app *App, s *replayScript) (domain.Identity, error) {
	if s.UserID != "" || s.UserType != "" {
		t, err := domain.ParseUserType(s.UserType)
		if err != nil {
			return domain.Identity{}, err
		}
		if s.UserID == "" {
			return domain.Identity{}, errors.New("replay script sets user_type without user_id")
		}
		return domain.Identity{UserID: s.UserID, UserType: t}, nil
	}
	if app.Session == nil {
		return domain.Identity{}, errors.New("replay script has no user_id and no session store is configured")
	}
	return app.Session.Stored(ctx)
}

func runReplay(ctx context.Context, app *App, s *replayScript, fresh bool, out io.Writer) error {
	id, err := replayIdentity(ctx, app, s)
	if err != nil {
		return err
	}
	engine := onboarding.NewEngine(id, onboarding.WithObserver(app.observer()))
	ports := app.ports()

	entry := onboarding.Entry{Kind: onboarding.EntryFresh}
	if !fresh {
		entry = bootstrapEntry(ctx, app, id)
	}
	eff, err := engine.Start(entry)
	if err != nil {
		return err
	}
	printPrompt(out, engine.Settle(ctx, ports, eff))

	if engine.Phase() == onboarding.PhaseComplete {
		fmt.Fprintln(out, formatter.FormatProfile(engine.StoredProfile(), id.UserType))
		return nil
	}

	if engine.Phase() == onboarding.PhaseName {
		if strings.TrimSpace(s.Name) == "" {
			return errors.New("replay script has no name")
		}
		if err := engine.SubmitName(s.Name); err != nil {
			return err
		}
		fmt.Fprintln(out, formatter.FormatUser(s.Name))
		printPrompt(out, engine.Prompt())
	}

	used := 0
	for _, a := range s.Answers {
		if engine.Phase() != onboarding.PhaseStep {
			break
		}
		step := engine.Cursor()
		prompt, err := engine.Answer(ctx, ports, a.answer())
		if err != nil {
			return fmt.Errorf("answer %d (%s): %w", used+1, engine.Table().Title(step), err)
		}
		used++
		fmt.Fprintln(out, formatter.FormatUser(a.echo()))
		printPrompt(out, prompt)
	}

	if engine.Phase() != onboarding.PhaseComplete {
		return fmt.Errorf("replay script ran out of answers at step %d of %d", engine.Cursor(), engine.Table().LastStep())
	}
	if extra := len(s.Answers) - used; extra > 0 {
		app.logger().Warn("replay script has unused answers", zap.Int("count", extra))
	}

	if err := engine.SaveErr(); err != nil {
		fmt.Fprintln(out, formatter.FormatNotice("Your profile could not be saved: "+err.Error()))
	}
	recordCompletion(ctx, app, completionFor(app, engine))

	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.FormatProfile(draftProfile(engine.Identity(), engine.Draft()), id.UserType))
	fmt.Fprintln(out, formatter.SavedPill(engine.Saved()))
	if engine.Saved() {
		if link := formatter.FormatHandoff(app.handoff(id.UserType)); link != "" {
			fmt.Fprintln(out, link)
		}
	}
	return nil
}

func printPrompt(out io.Writer, p onboarding.Prompt) {
	if p.Intro != "" {
		fmt.Fprintln(out, formatter.FormatBot(p.Intro))
	}
	if p.Notice != "" {
		fmt.Fprintln(out, formatter.FormatNotice(p.Notice))
	}
	if p.Text != "" {
		fmt.Fprintln(out, formatter.FormatBot(p.Text))
	}
	for _, o := range p.Options {
		fmt.Fprintln(out, formatter.Dim("   · "+o))
	}
}

// draftProfile presents a draft through the profile formatter.
func draftProfile(id domain.Identity, d *domain.Draft) *domain.Profile {
	p := &domain.Profile{
		UserID:   id.UserID,
		UserType: d.UserType,
		Name:     d.Name,
		Values:   make(map[domain.Field]domain.Choice, d.Len()),
	}
	for _, f := range d.Fields() {
		p.Values[f] = d.Value(f)
	}
	return p
}
