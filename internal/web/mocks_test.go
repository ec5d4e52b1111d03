package web

import (
	"context"

	"github.com/shouni/go-storyboard-kit/internal/runner"
	"github.com/shouni/go-storyboard-kit/internal/store"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// mockStore は Store インターフェースのテスト用実装なのだ。
type mockStore struct {
	boards  []domain.Storyboard
	panels  map[int64]domain.Panels
	deleted []int64
	listErr error
}

func (m *mockStore) ListStoryboards(_ context.Context) ([]domain.Storyboard, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.boards, nil
}

func (m *mockStore) GetStoryboard(_ context.Context, id int64) (domain.Storyboard, error) {
	for _, board := range m.boards {
		if board.ID == id {
			return board, nil
		}
	}
	return domain.Storyboard{}, store.ErrNotFound
}

func (m *mockStore) DeleteStoryboard(_ context.Context, id int64) error {
	for _, board := range m.boards {
		if board.ID == id {
			m.deleted = append(m.deleted, id)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockStore) ListPanels(_ context.Context, boardID int64) (domain.Panels, error) {
	return m.panels[boardID], nil
}

// mockBoardRunner は作成リクエストを記録して固定結果を返すのだ。
type mockBoardRunner struct {
	result   *runner.CreateResult
	err      error
	lastOpts runner.CreateOptions
	calls    int
}

func (m *mockBoardRunner) Create(_ context.Context, opts runner.CreateOptions) (*runner.CreateResult, error) {
	m.calls++
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockImageRunner は生成リクエストを記録して固定の結果を返すのだ。
type mockImageRunner struct {
	outcome runner.ImageOutcome
	err     error
	calls   []generateCall
}

type generateCall struct {
	panelID  int64
	override string
	approve  bool
}

func (m *mockImageRunner) Generate(_ context.Context, panelID int64, promptOverride string, approve bool) (runner.ImageOutcome, error) {
	m.calls = append(m.calls, generateCall{panelID: panelID, override: promptOverride, approve: approve})
	if m.err != nil {
		return runner.ImageOutcome{}, m.err
	}
	outcome := m.outcome
	outcome.PanelID = panelID
	return outcome, nil
}
