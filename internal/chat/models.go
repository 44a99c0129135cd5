package chat

import "github.com/suPer8Hu/godchat/internal/users"

const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Message is one row of a conversation. The god column keeps the name the
// browser client and existing databases use for the persona tag.
type Message struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64 `gorm:"not null;index:idx_chats_user_god,priority:1" json:"-"`
	Persona   string `gorm:"column:god;type:varchar(128);not null;index:idx_chats_user_god,priority:2" json:"god"`
	Role      string `gorm:"type:varchar(8);not null" json:"role"`
	Text      string `gorm:"column:message;type:text;not null" json:"message"`
	CreatedAt string `gorm:"type:varchar(40);not null" json:"created_at"`
}

func (Message) TableName() string { return "chats" }

// Entry is the history view of a Message.
type Entry struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

func (m Message) Entry() Entry {
	return Entry{Role: m.Role, Message: m.Text, CreatedAt: m.CreatedAt}
}

func now() string { return users.Now() }
