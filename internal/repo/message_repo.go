// Package repo – direct-message conversations.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
)

// CreateConversation opens a conversation between two users.
func CreateConversation(ctx context.Context, db *gorm.DB, userA, userB string) (*domain.Conversation, error) {
	conv := &domain.Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, uid := range []string{userA, userB} {
			p := &domain.ConversationParticipant{
				ID:             uuid.NewString(),
				ConversationID: conv.ID,
				UserID:         uid,
				CreatedAt:      time.Now().UTC(),
			}
			if err := tx.Create(p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Preload("Participants.User").Where("id = ?", conv.ID).First(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

// FindConversationBetween returns the existing conversation whose two
// participants are exactly userA and userB, or nil when none exists.
func FindConversationBetween(ctx context.Context, db *gorm.DB, userA, userB string) (*domain.Conversation, error) {
	var id string
	err := db.WithContext(ctx).Model(&domain.ConversationParticipant{}).
		Select("conversation_id").
		Where("user_id IN ?", []string{userA, userB}).
		Group("conversation_id").
		Having("COUNT(DISTINCT user_id) = 2").
		Limit(1).
		Scan(&id).Error
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}

	var conv domain.Conversation
	if err := db.WithContext(ctx).Preload("Participants.User").Where("id = ?", id).First(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations returns every conversation the user participates in,
// most recently updated first.
func ListConversations(ctx context.Context, db *gorm.DB, userID string) ([]domain.Conversation, error) {
	var ids []string
	err := db.WithContext(ctx).Model(&domain.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Pluck("conversation_id", &ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Conversation{}, nil
	}

	var out []domain.Conversation
	err = db.WithContext(ctx).
		Preload("Participants.User").
		Where("id IN ?", ids).
		Order("updated_at DESC").
		Find(&out).Error
	return out, err
}

// IsParticipant reports whether userID belongs to the conversation.
func IsParticipant(ctx context.Context, db *gorm.DB, conversationID, userID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Count(&n).Error
	return n > 0, err
}

// CreateMessage appends a message and touches the conversation's
// updated_at so listings sort by activity.
func CreateMessage(ctx context.Context, db *gorm.DB, conversationID, senderID, content string) (*domain.Message, error) {
	m := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Conversation{}).Where("id = ?", conversationID).
			Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMessages returns the conversation history, oldest first, with
// senders preloaded.
func ListMessages(ctx context.Context, db *gorm.DB, conversationID string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// LatestMessage returns the newest message of a conversation, or nil when
// it has none.
func LatestMessage(ctx context.Context, db *gorm.DB, conversationID string) (*domain.Message, error) {
	var m domain.Message
	err := db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
