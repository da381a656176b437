package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStartConversation_ReusesExistingPair(t *testing.T) {
	db := newServiceDB(t)
	svc := NewConversationService(db)
	ctx := context.Background()
	a := newTestUser(t, db, "opener")
	b := newTestUser(t, db, "answerer")

	if _, err := svc.Start(ctx, a.ID, a.ID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("self conversation: %v", err)
	}
	if _, err := svc.Start(ctx, a.ID, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty target: %v", err)
	}
	if _, err := svc.Start(ctx, a.ID, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown target: %v", err)
	}

	first, err := svc.Start(ctx, a.ID, b.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	// Starting again from either side returns the same conversation.
	again, err := svc.Start(ctx, b.ID, a.ID)
	if err != nil || again.ID != first.ID {
		t.Fatalf("pair should be reused: %+v, %v", again, err)
	}
}

func TestSend_ParticipantOnlyAndClipped(t *testing.T) {
	db := newServiceDB(t)
	svc := NewConversationService(db)
	ctx := context.Background()
	a := newTestUser(t, db, "talker")
	b := newTestUser(t, db, "listener")
	outsider := newTestUser(t, db, "eaves")
	conv, _ := svc.Start(ctx, a.ID, b.ID)

	if _, err := svc.Send(ctx, a.ID, conv.ID, "   "); !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("blank message: %v", err)
	}
	if _, err := svc.Send(ctx, outsider.ID, conv.ID, "hello?"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("outsider send: %v", err)
	}

	m, err := svc.Send(ctx, a.ID, conv.ID, strings.Repeat("m", 2500))
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len([]rune(m.Content)) != svc.MaxMessageRunes {
		t.Fatalf("message not clipped: %d runes", len([]rune(m.Content)))
	}
}

func TestConversationList_WithLastMessage(t *testing.T) {
	db := newServiceDB(t)
	svc := NewConversationService(db)
	ctx := context.Background()
	a := newTestUser(t, db, "hublike")
	b := newTestUser(t, db, "penpal")
	c := newTestUser(t, db, "recent")

	old, _ := svc.Start(ctx, a.ID, b.ID)
	_, _ = svc.Send(ctx, a.ID, old.ID, "hi b")
	time.Sleep(5 * time.Millisecond)
	fresh, _ := svc.Start(ctx, a.ID, c.ID)
	_, _ = svc.Send(ctx, c.ID, fresh.ID, "hi a")

	out, err := svc.List(ctx, a.ID)
	if err != nil || len(out) != 2 {
		t.Fatalf("List: %d, %v", len(out), err)
	}
	if out[0].ID != fresh.ID {
		t.Fatalf("activity order wrong: %+v", out)
	}
	if out[0].LastMessage == nil || out[0].LastMessage.Content != "hi a" {
		t.Fatalf("last message missing: %+v", out[0].LastMessage)
	}

	// A conversation with no messages lists with a nil last message.
	d := newTestUser(t, db, "silent")
	_, _ = svc.Start(ctx, a.ID, d.ID)
	out, _ = svc.List(ctx, a.ID)
	if out[0].LastMessage != nil {
		t.Fatalf("empty conversation should have nil last message")
	}
}

func TestHistory_ParticipantOnly(t *testing.T) {
	db := newServiceDB(t)
	svc := NewConversationService(db)
	ctx := context.Background()
	a := newTestUser(t, db, "archiver")
	b := newTestUser(t, db, "correspondent")
	outsider := newTestUser(t, db, "snooper")
	conv, _ := svc.Start(ctx, a.ID, b.ID)
	_, _ = svc.Send(ctx, a.ID, conv.ID, "one")
	_, _ = svc.Send(ctx, b.ID, conv.ID, "two")

	if _, err := svc.History(ctx, outsider.ID, conv.ID); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("outsider history: %v", err)
	}
	msgs, err := svc.History(ctx, b.ID, conv.ID)
	if err != nil || len(msgs) != 2 || msgs[0].Content != "one" {
		t.Fatalf("History: %+v, %v", msgs, err)
	}
}
