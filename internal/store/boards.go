package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// CreateStoryboard は絵コンテを1件登録して返します。
func (s *Store) CreateStoryboard(ctx context.Context, title, description string) (domain.Storyboard, error) {
	if err := ctx.Err(); err != nil {
		return domain.Storyboard{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Storyboard{}, fmt.Errorf("タイトルが指定されていません")
	}

	createdAt := now()
	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO storyboards (title, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		title,
		description,
		toMillis(createdAt),
		toMillis(createdAt),
	)
	if err != nil {
		return domain.Storyboard{}, fmt.Errorf("絵コンテの登録に失敗しました: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Storyboard{}, fmt.Errorf("絵コンテIDの取得に失敗しました: %w", err)
	}

	return domain.Storyboard{
		ID:          id,
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}, nil
}

// GetStoryboard は ID で絵コンテを1件取得します。
func (s *Store) GetStoryboard(ctx context.Context, id int64) (domain.Storyboard, error) {
	if err := ctx.Err(); err != nil {
		return domain.Storyboard{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, title, description, created_at, updated_at
		   FROM storyboards
		  WHERE id = ?`,
		id,
	)

	board, err := scanStoryboard(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Storyboard{}, ErrNotFound
		}
		return domain.Storyboard{}, fmt.Errorf("絵コンテの取得に失敗しました: %w", err)
	}
	return board, nil
}

// ListStoryboards は全ての絵コンテを新しい順に返します。
func (s *Store) ListStoryboards(ctx context.Context) ([]domain.Storyboard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, title, description, created_at, updated_at
		   FROM storyboards
		  ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("絵コンテ一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	boards := make([]domain.Storyboard, 0)
	for rows.Next() {
		board, err := scanStoryboard(rows)
		if err != nil {
			return nil, fmt.Errorf("絵コンテ一覧の読み取りに失敗しました: %w", err)
		}
		boards = append(boards, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("絵コンテ一覧の取得に失敗しました: %w", err)
	}
	return boards, nil
}

// DeleteStoryboard は絵コンテを削除します。
// 紐づくパネルは外部キーのカスケードでまとめて消えるのだ。
func (s *Store) DeleteStoryboard(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM storyboards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("絵コンテの削除に失敗しました: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner は sql.Row と sql.Rows の共通部分です。
type scanner interface {
	Scan(dest ...any) error
}

func scanStoryboard(row scanner) (domain.Storyboard, error) {
	var board domain.Storyboard
	var createdAt, updatedAt int64
	if err := row.Scan(&board.ID, &board.Title, &board.Description, &createdAt, &updatedAt); err != nil {
		return domain.Storyboard{}, err
	}
	board.CreatedAt = fromMillis(createdAt)
	board.UpdatedAt = fromMillis(updatedAt)
	return board, nil
}
