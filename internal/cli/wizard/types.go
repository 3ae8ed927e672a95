// Package wizard provides the interactive question flow for workspace
// creation, built on huh forms.
package wizard

import (
	"errors"

	"github.com/multi-llm/bootstrap/pkg/models"
)

// Result holds the answers collected from the create wizard.
type Result struct {
	Name     string      // workspace name
	Tier     models.Tier // selected tier
	Provider string      // assistant provider name
	Git      bool        // initialize a git repository
}

// QuestionType represents the type of wizard question.
type QuestionType int

const (
	// QuestionTypeSelect is a single-choice selection question.
	QuestionTypeSelect QuestionType = iota
	// QuestionTypeInput is a text input question.
	QuestionTypeInput
)

// Question defines a single wizard question.
type Question struct {
	ID          string             // Unique identifier
	Type        QuestionType       // Select or Input
	Title       string             // Question title
	Description string             // Additional description
	Options     []Option           // Options for select questions
	Default     string             // Default value
	Required    bool               // Whether the field is required
	Validate    func(string) error // Extra validation for input answers
	Condition   func(*Result) bool // Condition for showing this question
}

// Option represents a selectable option.
type Option struct {
	Label string // Display label
	Value string // Actual value stored
	Desc  string // Optional description
}

// Error definitions for the wizard package.
var (
	// ErrCancelled is returned when the user cancels the wizard.
	ErrCancelled = errors.New("wizard cancelled by user")
	// ErrNoQuestions is returned when no questions are provided.
	ErrNoQuestions = errors.New("no questions provided")
)
