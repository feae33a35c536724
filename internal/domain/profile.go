package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Profile is a persisted onboarding profile as returned by the backend.
type Profile struct {
	ID        string
	UserID    string
	UserType  UserType
	Name      string
	Values    map[Field]Choice
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Value returns the stored choice for f or an empty choice.
func (p *Profile) Value(f Field) Choice {
	if p == nil {
		return Choice{}
	}
	return p.Values[f]
}

// AnsweredFields returns the fields of t that carry a value, in display order.
func (p *Profile) AnsweredFields(t UserType) []Field {
	var out []Field
	for _, f := range ProfileFields(t) {
		if !p.Value(f).IsEmpty() {
			out = append(out, f)
		}
	}
	return out
}

type profileJSON struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserType  string `json:"user_type"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UnmarshalJSON decodes the backend's flat profile object. Answer fields may
// arrive as strings or arrays; each is normalised to its catalog shape.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var head profileJSON
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("decoding profile: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding profile fields: %w", err)
	}

	*p = Profile{
		ID:        head.ID,
		UserID:    head.UserID,
		UserType:  UserType(head.UserType),
		Name:      head.Name,
		Completed: head.Completed,
		CreatedAt: parseTimestamp(head.CreatedAt),
		UpdatedAt: parseTimestamp(head.UpdatedAt),
		Values:    make(map[Field]Choice),
	}
	for f := range fieldSpecs {
		if f == FieldName {
			continue
		}
		msg, ok := raw[string(f)]
		if !ok {
			continue
		}
		var c Choice
		if err := c.UnmarshalJSON(msg); err != nil {
			return fmt.Errorf("decoding profile field %s: %w", f, err)
		}
		if c = c.As(f.Shape()); !c.IsEmpty() {
			p.Values[f] = c
		}
	}
	return nil
}

func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Status is the backend's view of a user's onboarding progress.
type Status struct {
	UserID    string   `json:"user_id"`
	UserType  UserType `json:"user_type"`
	Completed bool     `json:"completed"`
	HasData   bool     `json:"has_data"`
	Profile   *Profile `json:"profile,omitempty"`
}
