package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrRoomNotFound is returned when no room with that name exists.
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned when a room with that name already exists.
	ErrRoomExists = errors.New("room already exists")
)

// RoomRepository provides access to persisted rooms. It also serves the relay
// as its room directory when strict room validation is enabled.
type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) Create(name, createdBy string) (*Room, error) {
	var count int64
	if err := r.db.Model(&Room{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing room: %w", err)
	}
	if count > 0 {
		return nil, ErrRoomExists
	}

	room := &Room{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	if err := r.db.Create(room).Error; err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (r *RoomRepository) FindByName(name string) (*Room, error) {
	var room Room
	if err := r.db.First(&room, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

func (r *RoomRepository) FindAll() ([]*Room, error) {
	var rooms []*Room
	if err := r.db.Order("created_at").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (r *RoomRepository) Delete(name string) error {
	result := r.db.Where("name = ?", name).Delete(&Room{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete room: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// RoomExists implements the relay's room directory contract.
func (r *RoomRepository) RoomExists(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&Room{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check room: %w", err)
	}
	return count > 0, nil
}
