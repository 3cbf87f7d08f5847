package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository provides access to message history.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Save(room, username, content string) error {
	msg := &Message{
		ID:        uuid.NewString(),
		Room:      room,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// RecentByRoom returns up to limit messages for a room, oldest first.
func (r *MessageRepository) RecentByRoom(room string, limit int) ([]*Message, error) {
	var newest []*Message
	if err := r.db.Where("room = ?", room).
		Order("created_at desc").
		Limit(limit).
		Find(&newest).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	// Query runs newest-first to apply the limit; flip back to chat order.
	out := make([]*Message, len(newest))
	for i, m := range newest {
		out[len(newest)-1-i] = m
	}
	return out, nil
}
