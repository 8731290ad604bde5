// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package archive

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/consult-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotFound = errors.New("chat not in archive")
	ErrClosed   = errors.New("archive is closed")
)

// =============================================================================
// ARCHIVE
// =============================================================================

// Archive is the permanent store for deleted chats. Deleting a chat in the
// session removes it from the live snapshot; the archive keeps a searchable
// copy so nothing is ever silently lost.
type Archive struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the standard archive location (~/.consult/archive.db).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".consult", "archive.db"), nil
}

// Open opens (creating if needed) the archive database at path.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent archiving.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Archive{db: db, path: path}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// =============================================================================
// WRITE PATH
// =============================================================================

// ArchiveChat stores a full copy of the chat. Archiving the same chat id
// again replaces the earlier copy, so re-deleting a restored chat is safe.
func (a *Archive) ArchiveChat(chat *model.Chat) error {
	if a.db == nil {
		return ErrClosed
	}
	if chat == nil || chat.ID == "" {
		return errors.New("cannot archive a chat without an id")
	}

	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	// Replace any previous copy. The cascade removes its messages, and the
	// FTS trigger keeps the search table in sync.
	if _, err := tx.Exec(`DELETE FROM chats WHERE id = ?`, chat.ID); err != nil {
		return fmt.Errorf("clear previous copy: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO chats (id, title, created_at, archived_at, message_count) VALUES (?, ?, ?, ?, ?)`,
		chat.ID, chat.DisplayTitle(), chat.CreatedAt.Unix(), time.Now().Unix(), len(chat.Messages),
	)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (chat_id, message_id, sender, content, is_bot, mentions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare message insert: %w", err)
	}
	defer stmt.Close()

	for _, msg := range chat.Messages {
		var mentions any
		if len(msg.Mentions) > 0 {
			data, err := json.Marshal(msg.Mentions)
			if err != nil {
				return fmt.Errorf("encode mentions: %w", err)
			}
			mentions = string(data)
		}
		isBot := 0
		if msg.IsBot {
			isBot = 1
		}
		if _, err := stmt.Exec(chat.ID, msg.ID, msg.Sender, msg.Content, isBot, mentions, msg.Timestamp.Unix()); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// READ PATH
// =============================================================================

// Entry summarizes an archived chat.
type Entry struct {
	ID           string
	Title        string
	CreatedAt    time.Time
	ArchivedAt   time.Time
	MessageCount int
}

// List returns archived chats, most recently archived first.
func (a *Archive) List() ([]Entry, error) {
	if a.db == nil {
		return nil, ErrClosed
	}

	rows, err := a.db.Query(
		`SELECT id, title, created_at, archived_at, message_count
		 FROM chats ORDER BY archived_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created, archived int64
		if err := rows.Scan(&e.ID, &e.Title, &created, &archived, &e.MessageCount); err != nil {
			return nil, fmt.Errorf("scan archive entry: %w", err)
		}
		e.CreatedAt = time.Unix(created, 0)
		e.ArchivedAt = time.Unix(archived, 0)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Restore rebuilds a full chat from its archived copy.
func (a *Archive) Restore(chatID string) (*model.Chat, error) {
	if a.db == nil {
		return nil, ErrClosed
	}

	var title string
	var created int64
	err := a.db.QueryRow(`SELECT title, created_at FROM chats WHERE id = ?`, chatID).
		Scan(&title, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load chat: %w", err)
	}

	chat := &model.Chat{
		ID:        chatID,
		Title:     title,
		CreatedAt: time.Unix(created, 0),
	}

	rows, err := a.db.Query(
		`SELECT message_id, sender, content, is_bot, mentions, created_at
		 FROM messages WHERE chat_id = ? ORDER BY id`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg model.Message
		var isBot int
		var mentions sql.NullString
		var ts int64
		if err := rows.Scan(&msg.ID, &msg.Sender, &msg.Content, &isBot, &mentions, &ts); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.IsBot = isBot != 0
		msg.Timestamp = time.Unix(ts, 0)
		if mentions.Valid {
			if err := json.Unmarshal([]byte(mentions.String), &msg.Mentions); err != nil {
				return nil, fmt.Errorf("decode mentions: %w", err)
			}
		}
		chat.Messages = append(chat.Messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chat, nil
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchResult is one message hit from a content search.
type SearchResult struct {
	ChatID    string
	ChatTitle string
	MessageID string
	Sender    string
	Content   string
	Timestamp time.Time
}

// Search runs a full-text query over archived message content.
func (a *Archive) Search(query string, limit int) ([]SearchResult, error) {
	if a.db == nil {
		return nil, ErrClosed
	}
	query = ftsQuote(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := a.db.Query(
		`SELECT m.chat_id, c.title, m.message_id, m.sender, m.content, m.created_at
		 FROM messages_fts fts
		 JOIN messages m ON m.id = fts.rowid
		 JOIN chats c ON c.id = m.chat_id
		 WHERE messages_fts MATCH ?
		 ORDER BY fts.rank
		 LIMIT ?`, query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search archive: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var ts int64
		if err := rows.Scan(&r.ChatID, &r.ChatTitle, &r.MessageID, &r.Sender, &r.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		r.Timestamp = time.Unix(ts, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ftsQuote turns free text into a safe FTS5 query: each term quoted, ANDed.
func ftsQuote(query string) string {
	fields := strings.Fields(query)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, "") + `"`
	}
	return strings.Join(fields, " ")
}
