// Package session maps opaque session ids to the identity of a logged-in
// user. The mapping lives outside the relational store.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Data is the identity bound to a session. Both fields are set and
// cleared together.
type Data struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
}

type Store interface {
	Save(ctx context.Context, id string, d Data, ttl time.Duration) error
	// Load returns ErrNotFound for unknown or expired ids.
	Load(ctx context.Context, id string) (Data, error)
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id string) error
}
