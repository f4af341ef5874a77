package models

// Item is a single catalog pair the user is drilled on
type Item struct {
	Prompt string `json:"lhs" db:"prompt"` // Shown to the user
	Answer string `json:"rhs" db:"answer"` // Expected reply
}

// Assess reports whether the user's input reproduces the expected answer
func (i Item) Assess(input string) bool {
	return input == i.Answer
}
