package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/mintin/pkg/models"
)

// ReviewRepository journals the assessments of one deck.
// It implements session.Journal.
type ReviewRepository struct {
	db   *sqlx.DB
	deck string
}

// NewReviewRepository creates a new repository instance for deck
func NewReviewRepository(db *sqlx.DB, deck string) *ReviewRepository {
	return &ReviewRepository{db: db, deck: deck}
}

// Append inserts a review and fills in its ID
func (r *ReviewRepository) Append(review *models.Review) error {
	if review.Deck == "" {
		review.Deck = r.deck
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	review.CreatedAt = review.CreatedAt.UTC()

	query := `
		INSERT INTO reviews (deck, item_index, prompt, pass, distrust, age, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`
	err := r.db.QueryRowx(r.db.Rebind(query),
		review.Deck,
		review.ItemIndex,
		review.Prompt,
		review.Pass,
		int64(review.Distrust),
		review.Age,
		review.CreatedAt,
	).Scan(&review.ID)
	if err != nil {
		return errors.Wrap(err, "failed to create review")
	}
	return nil
}

// ListByDeck returns the latest reviews of deck, newest first.
// A non-positive limit returns all of them.
func (r *ReviewRepository) ListByDeck(deck string, limit int) ([]models.Review, error) {
	query := "SELECT id, deck, item_index, prompt, pass, distrust, age, created_at FROM reviews WHERE deck = ? ORDER BY id DESC"
	args := []interface{}{deck}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var reviews []models.Review
	if err := r.db.Select(&reviews, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to get reviews")
	}
	return reviews, nil
}
