package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/publisher"
)

// ExportRunner は絵コンテのドキュメント書き出しのインターフェースです。
type ExportRunner interface {
	Export(ctx context.Context, boardID int64, format publisher.Format, outputDir string) (publisher.PublishResult, error)
}

// ExportStore はドキュメント書き出しが必要とする読み取り操作です。
type ExportStore interface {
	GetStoryboard(ctx context.Context, id int64) (domain.Storyboard, error)
	ListPanels(ctx context.Context, boardID int64) (domain.Panels, error)
}

// StoryboardExportRunner は pkg/publisher を利用した標準実装です。
type StoryboardExportRunner struct {
	store     ExportStore
	publisher *publisher.StoryboardPublisher
}

func NewStoryboardExportRunner(exportStore ExportStore, pub *publisher.StoryboardPublisher) *StoryboardExportRunner {
	return &StoryboardExportRunner{
		store:     exportStore,
		publisher: pub,
	}
}

// Export は絵コンテとパネルを読み出し、指定形式のドキュメントとして書き出すのだ。
func (er *StoryboardExportRunner) Export(ctx context.Context, boardID int64, format publisher.Format, outputDir string) (publisher.PublishResult, error) {
	board, err := er.store.GetStoryboard(ctx, boardID)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("絵コンテの取得に失敗したのだ: %w", err)
	}
	panels, err := er.store.ListPanels(ctx, boardID)
	if err != nil {
		return publisher.PublishResult{}, fmt.Errorf("パネル一覧の取得に失敗したのだ: %w", err)
	}

	slog.Info("絵コンテを書き出すのだ",
		"board", boardID,
		"panels", len(panels),
		"images", len(panels.ImagePaths()),
		"format", format)

	return er.publisher.Publish(ctx, board, panels, publisher.Options{
		OutputDir: outputDir,
		Format:    format,
	})
}
