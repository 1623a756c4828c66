package store

import (
	"path/filepath"
	"testing"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestChatsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	chats := []models.Chat{
		{ChatUserID: "222222", Username: "bob"},
		{ChatUserID: "333333", Username: "carol", AvatarURL: "https://example.com/c.png"},
	}
	if err := s.ReplaceChats(chats); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.Chats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(loaded))
	}
	if loaded[1].AvatarURL != "https://example.com/c.png" {
		t.Errorf("expected avatar url preserved, got %q", loaded[1].AvatarURL)
	}

	// Replace swaps, it does not accumulate.
	if err := s.ReplaceChats(chats[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loaded, err = s.Chats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 1 {
		t.Errorf("expected 1 chat after replace, got %d", len(loaded))
	}
}

func TestMessagesPerPeer(t *testing.T) {
	s := openTestStore(t)

	bob := []models.Message{
		{ID: 1, SenderID: "222222", ReceiverID: "111111", Text: "hi", CreatedAt: "2024-01-01 10:00:00"},
		{ID: 3, SenderID: "111111", ReceiverID: "222222", Text: "hello"},
	}
	carol := []models.Message{
		{ID: 2, SenderID: "333333", ReceiverID: "111111", Text: "hey"},
	}

	if err := s.ReplaceMessages("222222", bob); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.ReplaceMessages("333333", carol); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := s.Messages("222222")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 messages for bob, got %d", len(loaded))
	}
	if loaded[0].ID != 1 || loaded[1].ID != 3 {
		t.Errorf("expected ascending ids 1,3, got %d,%d", loaded[0].ID, loaded[1].ID)
	}
	if loaded[0].CreatedAt != "2024-01-01 10:00:00" {
		t.Errorf("expected timestamp preserved, got %q", loaded[0].CreatedAt)
	}

	other, err := s.Messages("333333")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(other) != 1 || other[0].Text != "hey" {
		t.Errorf("expected carol's conversation isolated, got %+v", other)
	}
}

func TestPurge(t *testing.T) {
	s := openTestStore(t)

	if err := s.ReplaceChats([]models.Chat{{ChatUserID: "222222", Username: "bob"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.ReplaceMessages("222222", []models.Message{{ID: 1, SenderID: "222222", Text: "hi"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Purge(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	chats, err := s.Chats()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chats) != 0 {
		t.Errorf("expected no chats after purge, got %d", len(chats))
	}

	messages, err := s.Messages("222222")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 0 {
		t.Errorf("expected no messages after purge, got %d", len(messages))
	}
}
