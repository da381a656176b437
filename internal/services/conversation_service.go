// Package services – ConversationService
//
// This file implements direct messaging between two users: starting a
// conversation, sending into it, and reading history. Delivery is
// polling-based; there is no push channel.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/Abroon25/ideax/internal/domain"
	"github.com/Abroon25/ideax/internal/repo"
)

// ConversationView pairs a conversation with its most recent message.
type ConversationView struct {
	domain.Conversation
	LastMessage *domain.Message `json:"last_message,omitempty"`
}

// ConversationService owns direct-message operations.
type ConversationService struct {
	DB *gorm.DB

	// MaxMessageRunes caps message length.
	MaxMessageRunes int
}

// NewConversationService constructs a ConversationService.
func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{DB: db, MaxMessageRunes: 2000}
}

// Start opens a conversation between the caller and otherID. An existing
// conversation between the pair is returned instead of duplicated.
func (s *ConversationService) Start(ctx context.Context, userID, otherID string) (*domain.Conversation, error) {
	if otherID == "" || otherID == userID {
		return nil, ErrInvalidInput
	}
	if _, err := repo.GetUser(ctx, s.DB, otherID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if existing, err := repo.FindConversationBetween(ctx, s.DB, userID, otherID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}
	return repo.CreateConversation(ctx, s.DB, userID, otherID)
}

// List returns the caller's conversations, most recently active first,
// each with its latest message.
func (s *ConversationService) List(ctx context.Context, userID string) ([]ConversationView, error) {
	convs, err := repo.ListConversations(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := make([]ConversationView, 0, len(convs))
	for _, c := range convs {
		last, err := repo.LatestMessage(ctx, s.DB, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ConversationView{Conversation: c, LastMessage: last})
	}
	return out, nil
}

// Send appends a message to a conversation the caller participates in.
func (s *ConversationService) Send(ctx context.Context, userID, conversationID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > s.MaxMessageRunes {
		content = string([]rune(content)[:s.MaxMessageRunes])
	}

	ok, err := repo.IsParticipant(ctx, s.DB, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConversationNotFound
	}
	return repo.CreateMessage(ctx, s.DB, conversationID, userID, content)
}

// History returns the full message history of a conversation the caller
// participates in, oldest first.
func (s *ConversationService) History(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	ok, err := repo.IsParticipant(ctx, s.DB, conversationID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConversationNotFound
	}
	return repo.ListMessages(ctx, s.DB, conversationID)
}
