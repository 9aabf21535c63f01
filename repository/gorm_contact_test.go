package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/daeho-materials/daeho-web/domains/contact"
)

func newTestRepository(t *testing.T) *ContactGormRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on", filepath.Join(t.TempDir(), "contact.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	repo := NewContactGormRepository(db)
	require.NoError(t, repo.InitSchema(context.Background()))
	return repo
}

func testMessage(created time.Time) *contact.Message {
	return &contact.Message{
		ID:        uuid.NewString(),
		Name:      "김대호",
		Email:     "kim@example.com",
		Phone:     "010-1234-5678",
		Company:   "Daeho Materials",
		Subject:   "견적 문의",
		Body:      "외장재 견적 부탁드립니다.",
		Locale:    "ko",
		CreatedAt: created,
	}
}

func TestContactRepository_SaveAndList(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	msg := testMessage(time.Now().UTC())
	require.NoError(t, repo.Save(ctx, msg))

	messages, total, err := repo.List(ctx, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, messages, 1)
	require.Equal(t, msg.ID, messages[0].ID)
	require.Equal(t, "김대호", messages[0].Name)
	require.False(t, messages[0].Mailed)
}

func TestContactRepository_SaveUpdatesExistingRow(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	msg := testMessage(time.Now().UTC())
	require.NoError(t, repo.Save(ctx, msg))

	msg.Mailed = true
	require.NoError(t, repo.Save(ctx, msg))

	messages, total, err := repo.List(ctx, 20, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total, "re-save must update, not duplicate")
	require.True(t, messages[0].Mailed)
}

func TestContactRepository_ListNewestFirst(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	var ids []string
	for i := 0; i < 5; i++ {
		msg := testMessage(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, repo.Save(ctx, msg))
		ids = append(ids, msg.ID)
	}

	messages, total, err := repo.List(ctx, 2, 0)
	require.NoError(t, err)
	require.EqualValues(t, 5, total)
	require.Len(t, messages, 2)
	require.Equal(t, ids[4], messages[0].ID)
	require.Equal(t, ids[3], messages[1].ID)

	// Degenerate inputs fall back to defaults.
	messages, _, err = repo.List(ctx, -1, -10)
	require.NoError(t, err)
	require.Len(t, messages, 5)
}
