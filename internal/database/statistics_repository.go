package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/mintin/pkg/models"
)

// StatisticsRepository aggregates the review journal
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// ForDeck counts the passed and failed reviews of deck
func (r *StatisticsRepository) ForDeck(deck string) (*models.Statistics, error) {
	stats := models.Statistics{Deck: deck}
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN pass THEN 1 ELSE 0 END), 0) AS passed
		FROM reviews
		WHERE deck = ?
	`
	if err := r.db.QueryRowx(r.db.Rebind(query), deck).Scan(&stats.Total, &stats.Passed); err != nil {
		return nil, errors.Wrap(err, "failed to get statistics")
	}
	stats.Failed = stats.Total - stats.Passed
	return &stats, nil
}
