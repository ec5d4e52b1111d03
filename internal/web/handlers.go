package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shouni/go-storyboard-kit/internal/runner"
	"github.com/shouni/go-storyboard-kit/internal/store"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/stability"
)

type createStoryboardRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	AutoGenerate bool   `json:"auto_generate"`
}

type generateImageRequest struct {
	Prompt  string `json:"prompt"`
	Approve bool   `json:"approve"`
}

func (s *Server) listStoryboards(c *gin.Context) {
	boards, err := s.store.ListStoryboards(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if boards == nil {
		boards = []domain.Storyboard{}
	}
	c.JSON(http.StatusOK, gin.H{"storyboards": boards})
}

func (s *Server) createStoryboard(c *gin.Context) {
	var req createStoryboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// binding:required は空白だけの文字列を通すため、明示的に弾くのだ
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title と description は必須なのだ"})
		return
	}

	result, err := s.boards.Create(c.Request.Context(), runner.CreateOptions{
		Title:        req.Title,
		Description:  req.Description,
		AutoGenerate: req.AutoGenerate,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"storyboard": result.Board,
		"panels":     result.Panels,
		"outcomes":   result.Outcomes,
	})
}

func (s *Server) getStoryboard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	board, err := s.store.GetStoryboard(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "storyboard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	panels, err := s.store.ListPanels(c.Request.Context(), board.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if panels == nil {
		panels = domain.Panels{}
	}

	c.JSON(http.StatusOK, gin.H{
		"storyboard":                  board,
		"panels":                      panels,
		"image_generation_configured": s.configured,
	})
}

func (s *Server) deleteStoryboard(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteStoryboard(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "storyboard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) generatePanelImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// ボディは省略可能なのだ（保存済みプロンプトでの再生成）
	var req generateImageRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	outcome, err := s.images.Generate(c.Request.Context(), id, req.Prompt, req.Approve)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "panel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !outcome.Success {
		c.JSON(statusForFailure(outcome.Kind), gin.H{
			"error":   outcome.Message,
			"outcome": outcome,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"outcome": outcome})
}

// statusForFailure は画像生成の失敗種別を HTTP ステータスへ写すのだ。
func statusForFailure(kind stability.FailureKind) int {
	switch kind {
	case stability.FailurePolicy:
		return http.StatusConflict
	case stability.FailureConfiguration:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
