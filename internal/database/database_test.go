package database

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mintin/internal/progress"
	"github.com/example/mintin/pkg/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Connect(Config{Type: TypeSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

var catalog = []models.Item{
	{Prompt: "a", Answer: "1"},
	{Prompt: "b", Answer: "2"},
	{Prompt: "c", Answer: "3"},
}

func TestConnectCreatesDataDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mintin.db")
	db, err := Connect(Config{Type: TypeSQLite, Path: path})
	require.NoError(t, err)
	defer db.Close()

	// schema creation is idempotent
	require.NoError(t, initializeSchema(db))
	assert.FileExists(t, path)
}

func TestConnectUnknownType(t *testing.T) {
	_, err := Connect(Config{Type: "oracle"})
	assert.Error(t, err)
}

func TestSnapshotRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewSnapshotRepository(db, "deck")

	_, err := repo.Load(catalog)
	assert.ErrorIs(t, err, progress.ErrNoSnapshot)

	table := progress.New(len(catalog), models.DefaultScoreArgs)
	table.Set(1, true)
	table.Step()
	require.NoError(t, repo.Save(table, catalog))

	table.Set(2, true)
	table.Step()
	require.NoError(t, repo.Save(table, catalog))

	loaded, err := repo.Load(catalog)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Age())
	for i := range catalog {
		assert.Equal(t, table.Entry(i), loaded.Entry(i))
	}
	require.NoError(t, loaded.Verify())

	var age int
	require.NoError(t, db.Get(&age, "SELECT age FROM progress_snapshots WHERE deck = ?", "deck"))
	assert.Equal(t, 2, age)

	// decks are independent
	_, err = NewSnapshotRepository(db, "other").Load(catalog)
	assert.ErrorIs(t, err, progress.ErrNoSnapshot)

	require.NoError(t, repo.Delete())
	_, err = repo.Load(catalog)
	assert.ErrorIs(t, err, progress.ErrNoSnapshot)
}

func TestSnapshotRepositoryOpen(t *testing.T) {
	db := openTestDB(t)
	table, err := progress.Open(NewSnapshotRepository(db, "deck"), catalog, models.DefaultScoreArgs)
	require.NoError(t, err)
	assert.Equal(t, len(catalog), table.Len())
	assert.Equal(t, len(catalog), table.FailedCount())
}

func TestReviewRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewReviewRepository(db, "deck")

	for i := 0; i < 3; i++ {
		review := &models.Review{ItemIndex: i, Prompt: catalog[i].Prompt, Pass: i != 1, Distrust: models.Score(1000 * i), Age: i + 1}
		require.NoError(t, repo.Append(review))
		assert.Equal(t, "deck", review.Deck)
		assert.NotZero(t, review.ID)
	}
	require.NoError(t, NewReviewRepository(db, "other").Append(&models.Review{Prompt: "x"}))

	reviews, err := repo.ListByDeck("deck", 2)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 2, reviews[0].ItemIndex)
	assert.Equal(t, "c", reviews[0].Prompt)
	assert.True(t, reviews[0].Pass)
	assert.Equal(t, models.Score(2000), reviews[0].Distrust)
	assert.Equal(t, 3, reviews[0].Age)
	assert.False(t, reviews[1].Pass)

	all, err := repo.ListByDeck("deck", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestStatisticsRepository(t *testing.T) {
	db := openTestDB(t)
	stats := NewStatisticsRepository(db)

	empty, err := stats.ForDeck("deck")
	require.NoError(t, err)
	assert.Equal(t, models.Statistics{Deck: "deck"}, *empty)

	journal := NewReviewRepository(db, "deck")
	for _, pass := range []bool{true, true, false, true} {
		require.NoError(t, journal.Append(&models.Review{Prompt: "a", Pass: pass}))
	}

	got, err := stats.ForDeck("deck")
	require.NoError(t, err)
	assert.Equal(t, models.Statistics{Deck: "deck", Total: 4, Passed: 3, Failed: 1}, *got)
	assert.InDelta(t, 75.0, got.Accuracy(), 1e-9)
}

func TestChatRepository(t *testing.T) {
	db := openTestDB(t)
	repo := NewChatRepository(db)

	_, err := repo.GetByID(42)
	assert.ErrorIs(t, err, ErrChatNotFound)
	assert.ErrorIs(t, repo.SetNotification(42, true, 9), ErrChatNotFound)

	require.NoError(t, repo.Upsert(&models.Chat{ChatID: 42, Deck: "chat:42", NotificationEnabled: true, NotificationHour: 9}))
	require.NoError(t, repo.Upsert(&models.Chat{ChatID: 7, Deck: "chat:7", NotificationEnabled: false, NotificationHour: 9}))

	chat, err := repo.GetByID(42)
	require.NoError(t, err)
	assert.Equal(t, "chat:42", chat.Deck)
	assert.True(t, chat.NotificationEnabled)
	assert.Equal(t, 9, chat.NotificationHour)

	chats, err := repo.ListForNotification(9)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, int64(42), chats[0].ChatID)

	require.NoError(t, repo.SetNotification(42, true, 18))
	// registering again keeps the notification settings
	require.NoError(t, repo.Upsert(&models.Chat{ChatID: 42, Deck: "chat:42", NotificationEnabled: false, NotificationHour: 3}))

	chats, err = repo.ListForNotification(18)
	require.NoError(t, err)
	require.Len(t, chats, 1)
	chats, err = repo.ListForNotification(9)
	require.NoError(t, err)
	assert.Empty(t, chats)
}
