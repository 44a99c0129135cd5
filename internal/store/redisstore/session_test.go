package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/godchat/internal/session"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestSessionRoundTrip(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "01SID", session.Data{UserID: 9, Email: "a@x.com"}, time.Hour))
	assert.True(t, mr.Exists("godchat:session:01SID"))
	assert.Equal(t, time.Hour, mr.TTL("godchat:session:01SID"))

	d, err := s.Load(ctx, "01SID")
	require.NoError(t, err)
	assert.Equal(t, session.Data{UserID: 9, Email: "a@x.com"}, d)

	require.NoError(t, s.Delete(ctx, "01SID"))
	_, err = s.Load(ctx, "01SID")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionExpires(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "x", session.Data{UserID: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := s.Load(ctx, "x")
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestSessionCorruptValue(t *testing.T) {
	s, mr := newTestStore(t)
	require.NoError(t, mr.Set("godchat:session:bad", "{nope"))

	_, err := s.Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrNotFound)
}

func TestNew_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = New(Options{Addr: addr}, "")
	require.Error(t, err)
}
