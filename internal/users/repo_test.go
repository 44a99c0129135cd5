package users

import (
	"context"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/godchat/internal/common"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestRepo(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	u, err := repo.Create(ctx, "a@x.com", "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	created, err := time.Parse(TimeLayout, u.CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), created, time.Minute)

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = repo.FindByID(ctx, u.ID+100)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRepo_DuplicateEmail(t *testing.T) {
	repo := NewRepo(openTestDB(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, "a@x.com", "h1")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "a@x.com", "h2")
	require.ErrorIs(t, err, ErrEmailTaken)
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}
