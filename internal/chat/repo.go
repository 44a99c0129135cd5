package chat

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("chat message not found")

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// AppendMessage inserts one row and commits before returning.
func (r *Repo) AppendMessage(ctx context.Context, userID uint64, persona, role, text string) (*Message, error) {
	m := &Message{
		UserID:    userID,
		Persona:   persona,
		Role:      role,
		Text:      text,
		CreatedAt: now(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns the (user, persona) conversation in ASC id order.
func (r *Repo) ListMessages(ctx context.Context, userID uint64, persona string) ([]Message, error) {
	var msgs []Message
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND god = ?", userID, persona).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *Repo) GetMessage(ctx context.Context, id uint64) (*Message, error) {
	var m Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &m, nil
}
