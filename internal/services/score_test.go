package services

import (
	"sync"
	"testing"

	"github.com/zwinkle/eduslide/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled :memory: database gives every connection its own empty DB;
	// pin the pool to one connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Presentation{},
		&models.Slide{},
		&models.Session{},
		&models.Score{},
	))
	return db
}

func TestScoreService_GetOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db)

	first, err := svc.GetOrCreate("sess-1", "student-1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Points)
	assert.Equal(t, "Alice", first.StudentName)

	second, err := svc.GetOrCreate("sess-1", "student-1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Score{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestScoreService_AddPoints_SumsDeltas(t *testing.T) {
	db := newTestDB(t)
	svc := NewScoreService(db)

	deltas := []int{100, 10, 15, 75, 10}
	total := 0
	for _, d := range deltas {
		score, err := svc.AddPoints("sess-1", "student-1", "Alice", d)
		require.NoError(t, err)
		total += d
		assert.Equal(t, total, score.Points)
	}
}

func TestScoreService_AddPoints_RejectsNonPositiveDelta(t *testing.T) {
	svc := NewScoreService(newTestDB(t))

	_, err := svc.AddPoints("sess-1", "student-1", "Alice", 0)
	assert.Error(t, err)
	_, err = svc.AddPoints("sess-1", "student-1", "Alice", -5)
	assert.Error(t, err)
}

func TestScoreService_AddPoints_ConcurrentSameKey(t *testing.T) {
	svc := NewScoreService(newTestDB(t))

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := svc.AddPoints("sess-1", "student-1", "Alice", 10)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	score, err := svc.GetOrCreate("sess-1", "student-1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker*10, score.Points)
}

func TestScoreService_Leaderboard_SortedDescending(t *testing.T) {
	svc := NewScoreService(newTestDB(t))

	_, err := svc.AddPoints("sess-1", "student-1", "Alice", 30)
	require.NoError(t, err)
	_, err = svc.AddPoints("sess-1", "student-2", "Bob", 100)
	require.NoError(t, err)
	_, err = svc.AddPoints("sess-1", "student-3", "Cara", 55)
	require.NoError(t, err)
	// Not in this session; must not appear.
	_, err = svc.AddPoints("sess-2", "student-4", "Dan", 999)
	require.NoError(t, err)

	entries, err := svc.Leaderboard("sess-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Bob", entries[0].StudentName)
	assert.Equal(t, "Cara", entries[1].StudentName)
	assert.Equal(t, "Alice", entries[2].StudentName)
	for i := 1; i < len(entries); i++ {
		assert.GreaterOrEqual(t, entries[i-1].Points, entries[i].Points)
	}
}

func TestScoreService_Leaderboard_TiesKeepInsertionOrder(t *testing.T) {
	svc := NewScoreService(newTestDB(t))

	_, err := svc.AddPoints("sess-1", "student-1", "Alice", 50)
	require.NoError(t, err)
	_, err = svc.AddPoints("sess-1", "student-2", "Bob", 50)
	require.NoError(t, err)

	entries, err := svc.Leaderboard("sess-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Alice", entries[0].StudentName)
	assert.Equal(t, "Bob", entries[1].StudentName)
}

func TestScoreService_Leaderboard_Limit(t *testing.T) {
	svc := NewScoreService(newTestDB(t))

	for i := 0; i < 15; i++ {
		_, err := svc.AddPoints("sess-1", string(rune('a'+i)), "Student", (i+1)*10)
		require.NoError(t, err)
	}

	entries, err := svc.Leaderboard("sess-1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, defaultLeaderboardLimit)

	entries, err = svc.Leaderboard("sess-1", 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 150, entries[0].Points)
}
