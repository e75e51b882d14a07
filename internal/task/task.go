package task

import (
	"fmt"
	"unicode/utf16"

	"github.com/google/uuid"
)

// MaxDescriptionLength is the longest description the creation form accepts,
// measured by DescriptionLength. Characters outside the Basic Multilingual
// Plane, such as most emoji, count twice.
const MaxDescriptionLength = 100

// DescriptionLength returns the length of s in UTF-16 code units.
func DescriptionLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Task represents a single to-do item.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Draft holds the creation form input before a task exists.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ValidationError reports a form field that failed validation.
type ValidationError struct {
	Field   string // Form field name: title or description
	Message string // User-facing message
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Validate checks the draft the way the creation form does. Only the first
// failure is reported, title before description.
func (d Draft) Validate() error {
	if len(d.Title) == 0 {
		return &ValidationError{
			Field:   "title",
			Message: "You must enter a title",
		}
	}
	if DescriptionLength(d.Description) > MaxDescriptionLength {
		return &ValidationError{
			Field:   "description",
			Message: fmt.Sprintf("Description cannot exceed %d characters", MaxDescriptionLength),
		}
	}
	return nil
}

// IDGenerator returns a fresh task ID.
type IDGenerator func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// New validates the draft and builds an incomplete task with a fresh ID.
func New(d Draft) (Task, error) {
	return NewWithID(d, NewID)
}

// NewWithID is New with a caller-supplied ID source.
func NewWithID(d Draft, gen IDGenerator) (Task, error) {
	if err := d.Validate(); err != nil {
		return Task{}, err
	}
	if gen == nil {
		gen = NewID
	}
	id := gen()
	if id == "" {
		return Task{}, fmt.Errorf("id generator returned an empty id")
	}
	return Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Completed:   false,
	}, nil
}
