package builder

import (
	"golang.org/x/time/rate"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/runner"
	"github.com/shouni/go-storyboard-kit/pkg/notes"
	"github.com/shouni/go-storyboard-kit/pkg/prompt"
	"github.com/shouni/go-storyboard-kit/pkg/publisher"
	"github.com/shouni/go-storyboard-kit/pkg/script"
)

// BuildBoardRunner は絵コンテ作成を担当する Runner を構築します。
// 自動生成経路のために ImageRunner も内部で組み立てるのだ。
func BuildBoardRunner(appCtx *AppContext) (runner.BoardRunner, error) {
	images, err := BuildImageRunner(appCtx)
	if err != nil {
		return nil, err
	}

	return runner.NewStoryboardRunner(
		appCtx.Store,
		script.NewComposer(script.NewSceneDetector()),
		notes.NewInferencer(nil),
		prompt.NewBuilder(),
		images,
		appCtx.httpClient,
		appCtx.Reader,
		rate.NewLimiter(rate.Every(config.DefaultGenerateInterval), 1),
	), nil
}

// BuildImageRunner は個別パネル画像生成を担当する Runner を構築します。
func BuildImageRunner(appCtx *AppContext) (runner.ImageRunner, error) {
	return runner.NewPanelImageRunner(
		appCtx.Store,
		prompt.NewBuilder(),
		appCtx.imageClient,
		appCtx.Writer,
		appCtx.Options.OutputDir,
	), nil
}

// BuildExportRunner はドキュメント書き出しを担当する Runner を構築します。
func BuildExportRunner(appCtx *AppContext) (runner.ExportRunner, error) {
	return runner.NewStoryboardExportRunner(
		appCtx.Store,
		publisher.NewStoryboardPublisher(appCtx.Writer),
	), nil
}
