package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire and storage layout of a session date.
const DateLayout = "2006-01-02"

// validate is shared by every entity Validate method; validator caches struct
// metadata per type, so a single instance is reused.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Client is a person whose behaviors are recorded.
type Client struct {
	ClientID   string     `json:"client_id"`
	Name       string     `json:"name" validate:"required,max=200"`
	Identifier string     `json:"identifier,omitempty" validate:"max=64"`
	Notes      string     `json:"notes,omitempty" validate:"max=4000"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// Validate checks the user-supplied fields. Returns an error wrapping
// ErrInvalidData naming the failing fields.
func (c *Client) Validate() error {
	return validateEntity(c)
}

// Behavior is one column of the grid: an operationally defined behavior
// tracked for a client. Order of the behavior list defines column order.
type Behavior struct {
	BehaviorID  string     `json:"behavior_id"`
	ClientID    string     `json:"client_id" validate:"required"`
	Name        string     `json:"name" validate:"required,max=200"`
	Description string     `json:"description,omitempty" validate:"max=4000"`
	Color       string     `json:"color,omitempty" validate:"omitempty,hexcolor"`
	CreatedAt   time.Time  `json:"created_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// Validate checks the user-supplied fields. Returns an error wrapping
// ErrInvalidData naming the failing fields.
func (b *Behavior) Validate() error {
	return validateEntity(b)
}

// BehaviorUpdate lists the behavior fields to change. Nil fields are left
// as they are; an empty Description or Color clears the field.
type BehaviorUpdate struct {
	Name        *string
	Description *string
	Color       *string
}

// Apply trims and copies the set fields onto b and validates the result.
// A name that is empty after trimming is rejected with ErrInvalidData.
func (u BehaviorUpdate) Apply(b *Behavior) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return fmt.Errorf("%w: name cannot be empty", ErrInvalidData)
		}
		b.Name = name
	}
	if u.Description != nil {
		b.Description = strings.TrimSpace(*u.Description)
	}
	if u.Color != nil {
		b.Color = strings.TrimSpace(*u.Color)
	}
	return b.Validate()
}

// Empty reports whether the update changes nothing.
func (u BehaviorUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Color == nil
}

// Archived reports whether the behavior has an end date.
func (b *Behavior) Archived() bool {
	return b.ArchivedAt != nil
}

// Session is one observation day for one client. There is at most one
// session per (client, date).
type Session struct {
	SessionID string           `json:"session_id"`
	ClientID  string           `json:"client_id"`
	Date      string           `json:"session_date"`
	Notes     string           `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Intervals []IntervalRecord `json:"intervals,omitempty"`
}

// MaxNotesLength bounds session notes, in characters.
const MaxNotesLength = 4000

// NormalizeNotes trims session notes and checks their length.
func NormalizeNotes(notes string) (string, error) {
	notes = strings.TrimSpace(notes)
	if err := validate.Var(notes, fmt.Sprintf("max=%d", MaxNotesLength)); err != nil {
		return "", fmt.Errorf("%w: notes: %v", ErrInvalidData, err)
	}
	return notes, nil
}

// IntervalRecord is the persisted unit of the grid: one non-empty cell. When
// sent to a PersistenceSink a record with Value CellEmpty is a deletion.
type IntervalRecord struct {
	BehaviorID    string    `json:"behavior_id"`
	IntervalIndex int       `json:"interval_index"`
	Value         CellValue `json:"value"`
}

// Check validates the record as part of a save payload.
func (r IntervalRecord) Check() error {
	if r.BehaviorID == "" {
		return ErrInvalidID
	}
	if r.IntervalIndex < 0 || r.IntervalIndex >= IntervalsPerDay {
		return fmt.Errorf("%w: %d", ErrInvalidInterval, r.IntervalIndex)
	}
	if !r.Value.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidValue, string(r.Value))
	}
	return nil
}

// SessionFilter narrows Store.ListSessions. Zero fields match everything.
type SessionFilter struct {
	ClientID string
	From     string // Inclusive, DateLayout.
	To       string // Inclusive, DateLayout.
}

// ParseDate normalizes a session date to DateLayout.
// Returns ErrInvalidDate if s is not a calendar date.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DateLayout), nil
}

func validateEntity(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	return nil
}
