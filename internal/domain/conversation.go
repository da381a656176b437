package domain

import (
	"time"

	"gorm.io/gorm"
)

// Conversation groups direct messages between two users. Delivery is
// polling only; there is no push channel.
type Conversation struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Participants []ConversationParticipant `json:"participants" gorm:"foreignKey:ConversationID"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// ConversationParticipant links a user into a conversation.
type ConversationParticipant struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_conv_user"`
	UserID         string    `json:"user_id"         gorm:"type:char(36);not null;index;uniqueIndex:ux_conv_user"`
	CreatedAt      time.Time `json:"created_at"`

	User User `json:"user" gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the database table name for ConversationParticipant.
func (ConversationParticipant) TableName() string { return "conversation_participants" }

// Message is a single direct message within a conversation.
type Message struct {
	ID             string `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID string `json:"conversation_id" gorm:"type:char(36);not null;index"`
	SenderID       string `json:"sender_id"       gorm:"type:char(36);not null"`
	Content        string `json:"content"         gorm:"type:text;not null"`

	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Sender       User         `json:"sender" gorm:"foreignKey:SenderID;references:ID"`
	Conversation Conversation `json:"-"      gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }
