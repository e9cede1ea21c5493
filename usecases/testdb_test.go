package usecases

import (
	"testing"
	"time"

	"dream-journal/auth"
	"dream-journal/db"
	"dream-journal/entities"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) db.Database {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(&entities.User{}, &entities.Dream{}, &entities.Interpretation{}))
	return &db.GormDatabase{DB: gdb}
}

func newTestTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", time.Hour)
}

// capturedEvent records one Publish call.
type capturedEvent struct {
	UserID string
	Event  any
}

type fakePublisher struct {
	events []capturedEvent
}

func (f *fakePublisher) Publish(userID string, event any) {
	f.events = append(f.events, capturedEvent{UserID: userID, Event: event})
}

func validDreamInput() *entities.Dream {
	rating := 4
	return &entities.Dream{
		Title:       "Flying Dream",
		Description: "Soaring high",
		Emotions:    []string{"joy"},
		Tags:        []string{"sky"},
		Type:        "adventure",
		Lucid:       false,
		Rating:      &rating,
	}
}
