// Package store is a local sqlite cache of the last fetch results.
//
// Screens read the cache before their first network round-trip so the
// UI paints immediately and degrades to stale data when the services
// are unreachable. Fetches write through; logout purges everything.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pr-poehali-dev/digo-messenger-project/internal/models"
)

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS chats (
	chat_user_id TEXT PRIMARY KEY,
	username     TEXT NOT NULL,
	avatar_url   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS messages (
	id          INTEGER NOT NULL,
	peer_id     TEXT NOT NULL,
	sender_id   TEXT NOT NULL,
	receiver_id TEXT NOT NULL,
	message     TEXT NOT NULL,
	sender_name TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (peer_id, id)
);
`

// Open opens (or creates) the cache database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceChats swaps the cached chat list for the given one.
func (s *Store) ReplaceChats(chats []models.Chat) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM chats"); err != nil {
		return fmt.Errorf("failed to clear cached chats: %w", err)
	}

	for _, chat := range chats {
		_, err := tx.Exec(
			"INSERT INTO chats (chat_user_id, username, avatar_url) VALUES (?, ?, ?)",
			chat.ChatUserID, chat.Username, chat.AvatarURL,
		)
		if err != nil {
			return fmt.Errorf("failed to cache chat: %w", err)
		}
	}

	return tx.Commit()
}

// Chats returns the cached chat list.
func (s *Store) Chats() ([]models.Chat, error) {
	rows, err := s.db.Query("SELECT chat_user_id, username, avatar_url FROM chats ORDER BY chat_user_id")
	if err != nil {
		return nil, fmt.Errorf("failed to read cached chats: %w", err)
	}
	defer rows.Close()

	var chats []models.Chat
	for rows.Next() {
		var chat models.Chat
		if err := rows.Scan(&chat.ChatUserID, &chat.Username, &chat.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan cached chat: %w", err)
		}
		chats = append(chats, chat)
	}

	return chats, rows.Err()
}

// ReplaceMessages swaps the cached conversation with the given peer.
func (s *Store) ReplaceMessages(peerID string, messages []models.Message) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE peer_id = ?", peerID); err != nil {
		return fmt.Errorf("failed to clear cached messages: %w", err)
	}

	for _, msg := range messages {
		_, err := tx.Exec(
			"INSERT INTO messages (id, peer_id, sender_id, receiver_id, message, sender_name, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			msg.ID, peerID, msg.SenderID, msg.ReceiverID, msg.Text, msg.SenderName, msg.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to cache message: %w", err)
		}
	}

	return tx.Commit()
}

// Messages returns the cached conversation with the given peer,
// ascending by message id.
func (s *Store) Messages(peerID string) ([]models.Message, error) {
	rows, err := s.db.Query(
		"SELECT id, sender_id, receiver_id, message, sender_name, created_at FROM messages WHERE peer_id = ? ORDER BY id ASC",
		peerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.Text, &msg.SenderName, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cached message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// Purge drops all cached data. Called on logout.
func (s *Store) Purge() error {
	if _, err := s.db.Exec("DELETE FROM chats"); err != nil {
		return fmt.Errorf("failed to purge cached chats: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM messages"); err != nil {
		return fmt.Errorf("failed to purge cached messages: %w", err)
	}
	return nil
}
