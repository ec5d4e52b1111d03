// Package store は絵コンテとパネルの永続化を SQLite で提供します。
// 外部サービスを持たない単一バイナリ構成なので、組み込みDBで完結させるのだ。
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound は対象のレコードが存在しないことを表します。
	ErrNotFound = errors.New("レコードが見つかりません")
	// ErrAlreadyExists は一意制約に衝突したことを表します。
	ErrAlreadyExists = errors.New("レコードが既に存在します")
)

const schema = `
CREATE TABLE IF NOT EXISTS storyboards (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    title       TEXT NOT NULL,
    description TEXT NOT NULL,
    created_at  INTEGER NOT NULL,
    updated_at  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS panels (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    storyboard_id   INTEGER NOT NULL REFERENCES storyboards(id) ON DELETE CASCADE,
    panel_number    INTEGER NOT NULL,
    description     TEXT NOT NULL,
    notes           TEXT NOT NULL,
    image_path      TEXT NOT NULL DEFAULT '',
    image_prompt    TEXT NOT NULL DEFAULT '',
    prompt_approved INTEGER NOT NULL DEFAULT 0,
    created_at      INTEGER NOT NULL,
    updated_at      INTEGER NOT NULL,
    UNIQUE (storyboard_id, panel_number)
);

CREATE INDEX IF NOT EXISTS idx_panels_storyboard ON panels(storyboard_id);
`

// Store は SQLite に永続化するストアです。
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// now はミリ秒精度に丸めた現在時刻を返します。
// DBにはミリ秒で保存するため、丸めておくと読み戻した値と一致するのだ。
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Open は SQLite ストアを開き、スキーマを適用します。
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("DBファイルのパスが指定されていません")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("SQLite DBのオープンに失敗しました: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("SQLite DBへの接続確認に失敗しました: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("スキーマの適用に失敗しました: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close は SQLite のハンドルを閉じます。
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// isUniqueViolation は一意制約違反かどうかを判定します。
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
