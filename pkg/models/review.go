package models

import "time"

// Review records a single assessment made during a drill session
type Review struct {
	ID        int64     `json:"id" db:"id"`
	Deck      string    `json:"deck" db:"deck"`             // Name the progress table is stored under
	ItemIndex int       `json:"item_index" db:"item_index"` // Catalog index of the assessed item
	Prompt    string    `json:"prompt" db:"prompt"`
	Pass      bool      `json:"pass" db:"pass"`
	Distrust  Score     `json:"distrust" db:"distrust"` // Distrust after the assessment
	Age       int       `json:"age" db:"age"`           // Table age after the assessment
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
