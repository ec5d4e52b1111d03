package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-storyboard-kit/internal/runner"
	"github.com/shouni/go-storyboard-kit/internal/store"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/stability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func sampleBoards() []domain.Storyboard {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	return []domain.Storyboard{
		{ID: 2, Title: "二本目", Description: "...", CreatedAt: now, UpdatedAt: now},
		{ID: 1, Title: "探偵の夜", Description: "...", CreatedAt: now.Add(-time.Hour), UpdatedAt: now.Add(-time.Hour)},
	}
}

func TestListStoryboards(t *testing.T) {
	t.Run("一覧を返す", func(t *testing.T) {
		st := &mockStore{boards: sampleBoards()}
		srv := NewServer(st, &mockBoardRunner{}, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodGet, "/api/storyboards", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Storyboards []domain.Storyboard `json:"storyboards"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Storyboards, 2)
		assert.Equal(t, int64(2), resp.Storyboards[0].ID)
	})

	t.Run("空のときは空配列を返す", func(t *testing.T) {
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodGet, "/api/storyboards", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"storyboards":[]`)
	})
}

func TestCreateStoryboard(t *testing.T) {
	newResult := func() *runner.CreateResult {
		return &runner.CreateResult{
			Board: domain.Storyboard{ID: 5, Title: "探偵の夜"},
			Panels: domain.Panels{
				{ID: 51, StoryboardID: 5, PanelNumber: 1, Description: "A detective enters."},
			},
		}
	}

	t.Run("作成に成功したら201を返す", func(t *testing.T) {
		boards := &mockBoardRunner{result: newResult()}
		srv := NewServer(&mockStore{}, boards, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/storyboards", gin.H{
			"title":         "探偵の夜",
			"description":   "A detective enters a dimly lit office.",
			"auto_generate": true,
		})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, boards.calls)
		assert.Equal(t, "探偵の夜", boards.lastOpts.Title)
		assert.True(t, boards.lastOpts.AutoGenerate)

		var resp struct {
			Storyboard domain.Storyboard `json:"storyboard"`
			Panels     domain.Panels     `json:"panels"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(5), resp.Storyboard.ID)
		require.Len(t, resp.Panels, 1)
	})

	t.Run("titleが無ければ400", func(t *testing.T) {
		boards := &mockBoardRunner{result: newResult()}
		srv := NewServer(&mockStore{}, boards, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/storyboards", gin.H{
			"description": "A detective enters.",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, boards.calls, "runner should not run on invalid input")
	})

	t.Run("空白だけのdescriptionは400", func(t *testing.T) {
		boards := &mockBoardRunner{result: newResult()}
		srv := NewServer(&mockStore{}, boards, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/storyboards", gin.H{
			"title":       "無題",
			"description": "   ",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, boards.calls)
	})

	t.Run("壊れたJSONは400", func(t *testing.T) {
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, &mockImageRunner{}, false)

		req := httptest.NewRequest(http.MethodPost, "/api/storyboards", bytes.NewReader([]byte("{broken")))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetStoryboard(t *testing.T) {
	t.Run("詳細にはパネルと設定フラグが含まれる", func(t *testing.T) {
		st := &mockStore{
			boards: sampleBoards(),
			panels: map[int64]domain.Panels{
				1: {{ID: 11, StoryboardID: 1, PanelNumber: 1, Description: "A detective enters."}},
			},
		}
		srv := NewServer(st, &mockBoardRunner{}, &mockImageRunner{}, true)

		w := performRequest(t, srv.Handler(), http.MethodGet, "/api/storyboards/1", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Storyboard domain.Storyboard `json:"storyboard"`
			Panels     domain.Panels     `json:"panels"`
			Configured bool              `json:"image_generation_configured"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(1), resp.Storyboard.ID)
		require.Len(t, resp.Panels, 1)
		assert.True(t, resp.Configured)
	})

	t.Run("パネル未登録でも空配列を返す", func(t *testing.T) {
		st := &mockStore{boards: sampleBoards()}
		srv := NewServer(st, &mockBoardRunner{}, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodGet, "/api/storyboards/2", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"panels":[]`)
		assert.Contains(t, w.Body.String(), `"image_generation_configured":false`)
	})

	t.Run("存在しないIDは404", func(t *testing.T) {
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodGet, "/api/storyboards/99", nil)

		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("数値でないIDは400", func(t *testing.T) {
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodGet, "/api/storyboards/abc", nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteStoryboard(t *testing.T) {
	t.Run("削除したら204", func(t *testing.T) {
		st := &mockStore{boards: sampleBoards()}
		srv := NewServer(st, &mockBoardRunner{}, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodDelete, "/api/storyboards/1", nil)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []int64{1}, st.deleted)
	})

	t.Run("存在しないIDは404", func(t *testing.T) {
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, &mockImageRunner{}, false)

		w := performRequest(t, srv.Handler(), http.MethodDelete, "/api/storyboards/7", nil)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGeneratePanelImage(t *testing.T) {
	t.Run("成功したら200とアウトカムを返す", func(t *testing.T) {
		images := &mockImageRunner{outcome: runner.ImageOutcome{
			Success:   true,
			Prompt:    "Cinematic storyboard sketch",
			Approved:  true,
			ImagePath: "output/images/panel_11.png",
		}}
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, images, true)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/panels/11/image", gin.H{
			"prompt":  "custom prompt",
			"approve": true,
		})

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, images.calls, 1)
		assert.Equal(t, generateCall{panelID: 11, override: "custom prompt", approve: true}, images.calls[0])
		assert.Contains(t, w.Body.String(), "panel_11.png")
	})

	t.Run("ボディ無しでも保存済みプロンプトで動く", func(t *testing.T) {
		images := &mockImageRunner{outcome: runner.ImageOutcome{Success: true, ImagePath: "output/images/panel_3.png"}}
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, images, true)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/panels/3/image", nil)

		require.Equal(t, http.StatusOK, w.Code)
		require.Len(t, images.calls, 1)
		assert.Equal(t, generateCall{panelID: 3, override: "", approve: false}, images.calls[0])
	})

	t.Run("未承認プロンプトは409", func(t *testing.T) {
		images := &mockImageRunner{outcome: runner.ImageOutcome{
			Kind:    stability.FailurePolicy,
			Message: "prompt is not yet approved",
			Prompt:  "Cinematic storyboard sketch",
		}}
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, images, true)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/panels/4/image", nil)

		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "not yet approved")
		assert.Contains(t, w.Body.String(), "Cinematic storyboard sketch")
	})

	t.Run("APIキー未設定は503", func(t *testing.T) {
		images := &mockImageRunner{outcome: runner.ImageOutcome{
			Kind:    stability.FailureConfiguration,
			Message: "image generation is not configured",
		}}
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, images, false)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/panels/4/image", nil)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("生成APIの失敗は502", func(t *testing.T) {
		images := &mockImageRunner{outcome: runner.ImageOutcome{
			Kind:    stability.FailureTransport,
			Message: "context deadline exceeded",
		}}
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, images, true)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/panels/4/image", nil)

		require.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("存在しないパネルは404", func(t *testing.T) {
		images := &mockImageRunner{err: store.ErrNotFound}
		srv := NewServer(&mockStore{}, &mockBoardRunner{}, images, true)

		w := performRequest(t, srv.Handler(), http.MethodPost, "/api/panels/999/image", nil)

		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
