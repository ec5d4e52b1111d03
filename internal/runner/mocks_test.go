package runner

import (
	"context"
	"io"
	"strings"

	"github.com/shouni/go-storyboard-kit/internal/store"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/stability"
)

// --- Mocks ---

type mockBoardStore struct {
	nextBoardID int64
	nextPanelID int64
	boards      []domain.Storyboard
	lastDrafts  []store.PanelDraft
	createErr   error
	panelsErr   error
}

func (m *mockBoardStore) CreateStoryboard(ctx context.Context, title, description string) (domain.Storyboard, error) {
	if m.createErr != nil {
		return domain.Storyboard{}, m.createErr
	}
	m.nextBoardID++
	board := domain.Storyboard{ID: m.nextBoardID, Title: strings.TrimSpace(title), Description: description}
	m.boards = append(m.boards, board)
	return board, nil
}

func (m *mockBoardStore) CreatePanels(ctx context.Context, boardID int64, drafts []store.PanelDraft) (domain.Panels, error) {
	if m.panelsErr != nil {
		return nil, m.panelsErr
	}
	m.lastDrafts = drafts
	created := make(domain.Panels, 0, len(drafts))
	for i, draft := range drafts {
		m.nextPanelID++
		created = append(created, domain.Panel{
			ID:           m.nextPanelID,
			StoryboardID: boardID,
			PanelNumber:  i + 1,
			Description:  draft.Description,
			Notes:        draft.Notes,
		})
	}
	return created, nil
}

type mockPanelStore struct {
	panels        map[int64]domain.Panel
	promptUpdates int
	imageUpdates  int
	promptErr     error
	imageErr      error
}

func newMockPanelStore(panels ...domain.Panel) *mockPanelStore {
	m := &mockPanelStore{panels: make(map[int64]domain.Panel)}
	for _, p := range panels {
		m.panels[p.ID] = p
	}
	return m
}

func (m *mockPanelStore) GetPanel(ctx context.Context, id int64) (domain.Panel, error) {
	panel, ok := m.panels[id]
	if !ok {
		return domain.Panel{}, store.ErrNotFound
	}
	return panel, nil
}

func (m *mockPanelStore) UpdatePanelPrompt(ctx context.Context, id int64, prompt string, approved bool) error {
	if m.promptErr != nil {
		return m.promptErr
	}
	panel, ok := m.panels[id]
	if !ok {
		return store.ErrNotFound
	}
	panel.ImagePrompt = prompt
	panel.PromptApproved = approved
	m.panels[id] = panel
	m.promptUpdates++
	return nil
}

func (m *mockPanelStore) UpdatePanelImage(ctx context.Context, id int64, imagePath string) error {
	if m.imageErr != nil {
		return m.imageErr
	}
	panel, ok := m.panels[id]
	if !ok {
		return store.ErrNotFound
	}
	panel.ImagePath = imagePath
	m.panels[id] = panel
	m.imageUpdates++
	return nil
}

type mockImageClient struct {
	configured   bool
	result       stability.Result
	calls        int
	lastPositive string
	lastNegative string
}

func (m *mockImageClient) Generate(ctx context.Context, positive, negative string) stability.Result {
	m.calls++
	m.lastPositive = positive
	m.lastNegative = negative
	return m.result
}

func (m *mockImageClient) IsConfigured() bool {
	return m.configured
}

type mockImageWriter struct {
	paths []string
	data  map[string][]byte
	mimes map[string]string
	err   error
}

func newMockImageWriter() *mockImageWriter {
	return &mockImageWriter{
		data:  make(map[string][]byte),
		mimes: make(map[string]string),
	}
}

func (m *mockImageWriter) Write(ctx context.Context, path string, r io.Reader, mimeType string) error {
	if m.err != nil {
		return m.err
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.paths = append(m.paths, path)
	m.data[path] = content
	m.mimes[path] = mimeType
	return nil
}

type mockHTTPClient struct {
	data    []byte
	err     error
	lastURL string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.lastURL = url
	return m.data, m.err
}

type mockReader struct {
	content string
	err     error
	lastURI string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.lastURI = uri
	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(strings.NewReader(m.content)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	return nil
}

type generateCall struct {
	panelID  int64
	override string
	approve  bool
}

type mockImageRunner struct {
	outcomes map[int64]ImageOutcome
	err      error
	calls    []generateCall
}

func (m *mockImageRunner) Generate(ctx context.Context, panelID int64, promptOverride string, approve bool) (ImageOutcome, error) {
	m.calls = append(m.calls, generateCall{panelID: panelID, override: promptOverride, approve: approve})
	if m.err != nil {
		return ImageOutcome{}, m.err
	}
	if outcome, ok := m.outcomes[panelID]; ok {
		return outcome, nil
	}
	return ImageOutcome{PanelID: panelID, Success: true, Prompt: promptOverride, Approved: true}, nil
}

type mockExportStore struct {
	board  domain.Storyboard
	panels domain.Panels
	getErr error
}

func (m *mockExportStore) GetStoryboard(ctx context.Context, id int64) (domain.Storyboard, error) {
	if m.getErr != nil {
		return domain.Storyboard{}, m.getErr
	}
	return m.board, nil
}

func (m *mockExportStore) ListPanels(ctx context.Context, boardID int64) (domain.Panels, error) {
	return m.panels, nil
}
