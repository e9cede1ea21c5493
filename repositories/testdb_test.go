package repositories

import (
	"testing"

	"dream-journal/db"
	"dream-journal/entities"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) db.Database {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled :memory: connection per goroutine would mean separate
	// databases; pin the pool to a single connection.
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&entities.User{}, &entities.Dream{}, &entities.Interpretation{}))
	return &db.GormDatabase{DB: gdb}
}

func mustCreateDream(t *testing.T, repo DreamRepository, userID, title, dreamType string, lucid bool, rating *int, emotions ...string) *entities.Dream {
	t.Helper()
	if len(emotions) == 0 {
		emotions = []string{"joy"}
	}
	d := &entities.Dream{
		UserID:      userID,
		Title:       title,
		Description: "a dream",
		Emotions:    emotions,
		Tags:        []string{},
		Type:        dreamType,
		Lucid:       lucid,
		Rating:      rating,
	}
	require.NoError(t, repo.Create(d))
	return d
}

func intPtr(v int) *int { return &v }
