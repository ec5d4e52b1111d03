package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// PanelDraft はパネル作成時の入力です。番号は登録順から採番されます。
type PanelDraft struct {
	Description string
	Notes       string
}

// CreatePanels は絵コンテ配下にパネル群を一括登録します。
// パネル番号は 1 始まりの連番で、全件が1トランザクションで確定するのだ。
func (s *Store) CreatePanels(ctx context.Context, boardID int64, drafts []PanelDraft) (domain.Panels, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := s.GetStoryboard(ctx, boardID); err != nil {
		return nil, err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("トランザクションの開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	createdAt := now()
	panels := make(domain.Panels, 0, len(drafts))
	for i, draft := range drafts {
		res, err := tx.ExecContext(
			ctx,
			`INSERT INTO panels (storyboard_id, panel_number, description, notes, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			boardID,
			i+1,
			draft.Description,
			draft.Notes,
			toMillis(createdAt),
			toMillis(createdAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrAlreadyExists
			}
			return nil, fmt.Errorf("パネルの登録に失敗しました: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("パネルIDの取得に失敗しました: %w", err)
		}
		panels = append(panels, domain.Panel{
			ID:           id,
			StoryboardID: boardID,
			PanelNumber:  i + 1,
			Description:  draft.Description,
			Notes:        draft.Notes,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("トランザクションの確定に失敗しました: %w", err)
	}
	return panels, nil
}

// GetPanel は ID でパネルを1件取得します。
func (s *Store) GetPanel(ctx context.Context, id int64) (domain.Panel, error) {
	if err := ctx.Err(); err != nil {
		return domain.Panel{}, err
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT id, storyboard_id, panel_number, description, notes,
		        image_path, image_prompt, prompt_approved, created_at, updated_at
		   FROM panels
		  WHERE id = ?`,
		id,
	)

	panel, err := scanPanel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Panel{}, ErrNotFound
		}
		return domain.Panel{}, fmt.Errorf("パネルの取得に失敗しました: %w", err)
	}
	return panel, nil
}

// ListPanels は絵コンテ配下のパネルをパネル番号順に返します。
func (s *Store) ListPanels(ctx context.Context, boardID int64) (domain.Panels, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, storyboard_id, panel_number, description, notes,
		        image_path, image_prompt, prompt_approved, created_at, updated_at
		   FROM panels
		  WHERE storyboard_id = ?
		  ORDER BY panel_number ASC`,
		boardID,
	)
	if err != nil {
		return nil, fmt.Errorf("パネル一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	panels := make(domain.Panels, 0)
	for rows.Next() {
		panel, err := scanPanel(rows)
		if err != nil {
			return nil, fmt.Errorf("パネル一覧の読み取りに失敗しました: %w", err)
		}
		panels = append(panels, panel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("パネル一覧の取得に失敗しました: %w", err)
	}
	return panels, nil
}

// UpdatePanelPrompt はパネルのプロンプトと承認状態を更新します。
func (s *Store) UpdatePanelPrompt(ctx context.Context, id int64, prompt string, approved bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE panels SET image_prompt = ?, prompt_approved = ?, updated_at = ? WHERE id = ?`,
		prompt,
		approved,
		toMillis(now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("プロンプトの更新に失敗しました: %w", err)
	}
	return requireAffected(res)
}

// UpdatePanelImage は生成済み画像のパスをパネルに記録します。
func (s *Store) UpdatePanelImage(ctx context.Context, id int64, imagePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE panels SET image_path = ?, updated_at = ? WHERE id = ?`,
		imagePath,
		toMillis(now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("画像パスの更新に失敗しました: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPanel(row scanner) (domain.Panel, error) {
	var panel domain.Panel
	var createdAt, updatedAt int64
	if err := row.Scan(
		&panel.ID,
		&panel.StoryboardID,
		&panel.PanelNumber,
		&panel.Description,
		&panel.Notes,
		&panel.ImagePath,
		&panel.ImagePrompt,
		&panel.PromptApproved,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.Panel{}, err
	}
	panel.CreatedAt = fromMillis(createdAt)
	panel.UpdatedAt = fromMillis(updatedAt)
	return panel, nil
}
