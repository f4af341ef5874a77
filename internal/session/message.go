package session

import (
	"fmt"

	"github.com/example/mintin/pkg/models"
)

// Kind tells the driver what to do with a message
type Kind int

const (
	// Display shows the item with its answer; the driver continues without an answer
	Display Kind = iota + 1
	// Assess shows the prompt; the driver replies with the user's answer
	Assess
	// NotifyAssessment announces a self-check round
	NotifyAssessment
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Display:
		return "Display"
	case Assess:
		return "Assess"
	case NotifyAssessment:
		return "NotifyAssessment"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Message is the next step the driver has to present.
// Index refers to the catalog and is meaningless for NotifyAssessment.
type Message struct {
	Kind  Kind
	Index int
}

// String implements fmt.Stringer.
func (m Message) String() string {
	if m.Kind == NotifyAssessment {
		return m.Kind.String()
	}
	return fmt.Sprintf("%s(%d)", m.Kind, m.Index)
}

// Change describes the effect of an answer on the progress table
type Change struct {
	Index    int
	Pass     bool
	Distrust models.Score
}
