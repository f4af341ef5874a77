package models

// Statistics summarises the review journal of a deck
type Statistics struct {
	Deck   string `json:"deck" db:"deck"`
	Total  int    `json:"total" db:"total"`
	Passed int    `json:"passed" db:"passed"`
	Failed int    `json:"failed" db:"failed"`
}

// Accuracy returns the share of passed reviews in percent
func (s Statistics) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total) * 100
}
