package store

import "time"

// User is a registered account. The relay itself never consults it; accounts
// exist for the REST surface.
type User struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

// Room is a persisted room record, independent of live membership.
type Room struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	CreatedBy string
	CreatedAt time.Time
}

// Message is one persisted chat message.
type Message struct {
	ID        string `gorm:"primaryKey"`
	Room      string `gorm:"index;not null"`
	Username  string `gorm:"not null"`
	Content   string `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}
