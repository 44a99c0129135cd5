package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/godchat/internal/common"
	"github.com/suPer8Hu/godchat/internal/session"
	"github.com/suPer8Hu/godchat/internal/users"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) (*Service, *session.MemoryStore, *gorm.DB) {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&users.User{}))

	store := session.NewMemoryStore()
	svc := NewService(users.NewRepo(db), store, Options{Secret: testSecret, TTL: time.Hour, HashCost: bcrypt.MinCost})
	return svc, store, db
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "  A@X.com ", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", reg.Email)
	assert.NotEmpty(t, reg.Token)
	assert.Len(t, reg.ID, 26)

	login, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, login.UserID)
	assert.NotEqual(t, reg.ID, login.ID)

	var u users.User
	require.NoError(t, db.First(&u, reg.UserID).Error)
	assert.NotEqual(t, "pw1", u.PasswordHash)
	assert.True(t, CheckPassword(u.PasswordHash, "pw1"))
}

func TestRegister_Errors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, " ", "pw")
	require.ErrorIs(t, err, common.ErrValidation)
	_, err = svc.Register(ctx, "a@x.com", "")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Register(ctx, "A@X.com", "pw1")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "a@x.com", "pw2")
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@x.com", "wrong")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	_, err = svc.Login(ctx, "nobody@x.com", "pw1")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestCurrentUserAndLogout(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	u, err := svc.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, sess.UserID, u.ID)

	for _, token := range []string{"", "garbage", sess.Token + "x"} {
		u, err := svc.CurrentUser(ctx, token)
		require.NoError(t, err)
		assert.Nil(t, u)
	}

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, err = store.Load(ctx, sess.ID)
	require.ErrorIs(t, err, session.ErrNotFound)

	u, err = svc.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, u)

	require.NoError(t, svc.Logout(ctx, ""))
	require.NoError(t, svc.Logout(ctx, "garbage"))
}

func TestCurrentUser_DeletedUser(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	sess, err := svc.Register(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	require.NoError(t, db.Delete(&users.User{}, sess.UserID).Error)

	u, err := svc.CurrentUser(ctx, sess.Token)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestSessionToken(t *testing.T) {
	tok, err := SignSessionToken("01SID", testSecret, time.Hour)
	require.NoError(t, err)

	c, err := ParseSessionToken(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "01SID", c.SessionID)

	_, err = ParseSessionToken(tok, "other-secret")
	require.Error(t, err)

	expired, err := SignSessionToken("01SID", testSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseSessionToken(expired, testSecret)
	require.Error(t, err)

	c, err = parseIgnoringExpiry(expired, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "01SID", c.SessionID)
}

func TestRegisterThenLogin_LongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	long := strings.Repeat("p", 100)
	reg, err := svc.Register(ctx, "long@x.com", long)
	require.NoError(t, err)

	login, err := svc.Login(ctx, "long@x.com", long)
	require.NoError(t, err)
	assert.Equal(t, reg.UserID, login.UserID)

	// a shared 72 byte prefix must not be enough
	_, err = svc.Login(ctx, "long@x.com", strings.Repeat("p", 72)+"q")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
}
