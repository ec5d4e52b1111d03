// Package web は絵コンテ管理の JSON API を提供するのだ。
// CLI と同じランナー層を gin のハンドラから呼び出す薄い皮なのだ。
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-storyboard-kit/internal/runner"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// shutdownTimeout は処理中のリクエストを待つ猶予なのだ。
const shutdownTimeout = 10 * time.Second

// Store は API が必要とするストア操作です。
type Store interface {
	ListStoryboards(ctx context.Context) ([]domain.Storyboard, error)
	GetStoryboard(ctx context.Context, id int64) (domain.Storyboard, error)
	DeleteStoryboard(ctx context.Context, id int64) error
	ListPanels(ctx context.Context, boardID int64) (domain.Panels, error)
}

// Server は gin ベースの JSON API サーバーです。
type Server struct {
	engine     *gin.Engine
	store      Store
	boards     runner.BoardRunner
	images     runner.ImageRunner
	configured bool
}

// NewServer は依存を注入してルーティングを登録した Server を返すのだ。
// configured には画像生成APIキーの有無を渡すのだ。
func NewServer(st Store, boards runner.BoardRunner, images runner.ImageRunner, configured bool) *Server {
	engine := gin.Default()
	engine.Use(cors.Default())

	s := &Server{
		engine:     engine,
		store:      st,
		boards:     boards,
		images:     images,
		configured: configured,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/storyboards", s.listStoryboards)
		api.POST("/storyboards", s.createStoryboard)
		api.GET("/storyboards/:id", s.getStoryboard)
		api.DELETE("/storyboards/:id", s.deleteStoryboard)
		api.POST("/panels/:id/image", s.generatePanelImage)
	}
}

// Handler はテストや別サーバーへの組み込み用に http.Handler を公開します。
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run は addr で待ち受け、ctx のキャンセルで猶予付きシャットダウンを行うのだ。
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})
	return eg.Wait()
}
