package users

import "time"

// TimeLayout is the UTC ISO-8601 form stored in every created_at column.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password;type:varchar(255);not null" json:"-"`
	CreatedAt    string `gorm:"type:varchar(40);not null" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Now returns the current time in TimeLayout.
func Now() string {
	return time.Now().UTC().Format(TimeLayout)
}
