package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"

	"github.com/shouni/go-storyboard-kit/internal/builder"
	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/runner"
	"github.com/shouni/go-storyboard-kit/internal/store"
	"github.com/shouni/go-storyboard-kit/internal/web"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/publisher"
	"github.com/shouni/go-storyboard-kit/pkg/stability"
)

// ExecuteCreate は台本から絵コンテを作成し、パネルの一覧を表示するのだ。
func ExecuteCreate(ctx context.Context, cfg *config.Config) error {
	appCtx, cleanup, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	boardRunner, err := builder.BuildBoardRunner(appCtx)
	if err != nil {
		return fmt.Errorf("BoardRunnerの構築に失敗したのだ: %w", err)
	}

	result, err := boardRunner.Create(ctx, runner.CreateOptions{
		Title:           cfg.Options.Title,
		Description:     cfg.Options.Description,
		DescriptionFile: cfg.Options.DescriptionFile,
		AutoGenerate:    cfg.Options.AutoGenerate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("絵コンテ #%d 「%s」を作成したのだ（%dパネル）\n", result.Board.ID, result.Board.Title, len(result.Panels))
	printPanels(result.Panels)

	for _, outcome := range result.Outcomes {
		if outcome.Success {
			fmt.Printf("  パネル %d: 画像を生成したのだ -> %s\n", outcome.PanelID, outcome.ImagePath)
		} else {
			fmt.Printf("  パネル %d: 生成に失敗したのだ (%s): %s\n", outcome.PanelID, outcome.Kind, outcome.Message)
		}
	}
	return nil
}

// ExecuteImage は単一パネルの画像生成を実行するのだ。
// 生成に失敗した場合はエラーを返し、終了コードを非ゼロにするのだ。
func ExecuteImage(ctx context.Context, cfg *config.Config) error {
	appCtx, cleanup, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	imageRunner, err := builder.BuildImageRunner(appCtx)
	if err != nil {
		return fmt.Errorf("ImageRunnerの構築に失敗したのだ: %w", err)
	}

	outcome, err := imageRunner.Generate(ctx, cfg.Options.PanelID, cfg.Options.Prompt, cfg.Options.Approve)
	if err != nil {
		return err
	}

	if !outcome.Success {
		if outcome.Kind == stability.FailurePolicy {
			fmt.Printf("プロンプトはまだ承認されていないのだ。レビュー用に保存したのだ:\n  %s\n", outcome.Prompt)
			fmt.Println("承認するには --approve を付けて再実行するのだ。")
		}
		return fmt.Errorf("画像生成に失敗したのだ (%s): %s", outcome.Kind, outcome.Message)
	}

	fmt.Printf("パネル %d の画像を生成したのだ -> %s\n", outcome.PanelID, outcome.ImagePath)
	return nil
}

// ExecuteShow は絵コンテの一覧または詳細を表示するのだ。
func ExecuteShow(ctx context.Context, cfg *config.Config) error {
	appCtx, cleanup, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// --board 指定が無ければ一覧を表示するのだ
	if cfg.Options.BoardID <= 0 {
		boards, err := appCtx.Store.ListStoryboards(ctx)
		if err != nil {
			return err
		}
		if len(boards) == 0 {
			fmt.Println("絵コンテはまだ無いのだ。create で作るのだ。")
			return nil
		}
		for _, board := range boards {
			fmt.Printf("#%d  %s  (%s)\n", board.ID, board.Title, board.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	}

	board, err := appCtx.Store.GetStoryboard(ctx, cfg.Options.BoardID)
	if err != nil {
		return err
	}
	panels, err := appCtx.Store.ListPanels(ctx, board.ID)
	if err != nil {
		return err
	}

	fmt.Printf("絵コンテ #%d 「%s」（%dパネル）\n", board.ID, board.Title, len(panels))
	if !appCtx.ImageConfigured() {
		fmt.Println("  ※ STABILITY_API_KEY が未設定のため画像生成は使えないのだ")
	}
	if pending := len(panels.NeedingApproval()); pending > 0 {
		fmt.Printf("  ※ レビュー待ちのプロンプトが%d件あるのだ\n", pending)
	}
	printPanels(panels)
	return nil
}

// ExecuteExport は絵コンテをドキュメントとして書き出すのだ。
func ExecuteExport(ctx context.Context, cfg *config.Config) error {
	appCtx, cleanup, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	exportRunner, err := builder.BuildExportRunner(appCtx)
	if err != nil {
		return fmt.Errorf("ExportRunnerの構築に失敗したのだ: %w", err)
	}

	result, err := exportRunner.Export(ctx, cfg.Options.BoardID, publisher.Format(cfg.Options.Format), cfg.Options.OutputDir)
	if err != nil {
		return err
	}

	slog.Info("絵コンテを書き出したのだ", "board", cfg.Options.BoardID, "path", result.DocumentPath)
	fmt.Printf("書き出したのだ -> %s\n", result.DocumentPath)
	return nil
}

// ExecuteServe は JSON API サーバーを起動し、シグナルで停止するまで動かし続けるのだ。
func ExecuteServe(ctx context.Context, cfg *config.Config) error {
	appCtx, cleanup, err := setupAppContext(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	boardRunner, err := builder.BuildBoardRunner(appCtx)
	if err != nil {
		return fmt.Errorf("BoardRunnerの構築に失敗したのだ: %w", err)
	}
	imageRunner, err := builder.BuildImageRunner(appCtx)
	if err != nil {
		return fmt.Errorf("ImageRunnerの構築に失敗したのだ: %w", err)
	}

	srv := web.NewServer(appCtx.Store, boardRunner, imageRunner, appCtx.ImageConfigured())
	slog.Info("APIサーバーを起動するのだ", "addr", cfg.Options.Addr)
	return srv.Run(ctx, cfg.Options.Addr)
}

// setupAppContext は、提供された設定と共有コンポーネントを使用して、アプリケーションコンテキストを初期化して返すのだ。
// 2番目の戻り値はストア等を閉じるクリーンアップ関数なのだ。
func setupAppContext(ctx context.Context, cfg *config.Config) (*builder.AppContext, func(), error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)
	imageClient := stability.NewClient(stability.Config{
		APIKey:   cfg.StabilityAPIKey,
		Endpoint: cfg.StabilityEndpoint,
		Timeout:  cfg.Options.HTTPTimeout,
	})

	st, err := store.Open(cfg.Options.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("ストアのオープンに失敗したのだ: %w", err)
	}

	gcsFactory, err := gcsfactory.NewGCSClientFactory(ctx)
	if err != nil {
		_ = st.Close()
		return nil, nil, fmt.Errorf("failed to create GCS client factory: %w", err)
	}
	reader, err := gcsFactory.NewInputReader()
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	writer, err := gcsFactory.NewOutputWriter()
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}

	appCtx := builder.NewAppContext(cfg, httpClient, imageClient, st, reader, writer)
	cleanup := func() {
		if err := st.Close(); err != nil {
			slog.Warn("ストアのクローズに失敗したのだ", "error", err)
		}
	}
	return &appCtx, cleanup, nil
}

// printPanels はパネル一覧を人間向けに整形して表示するのだ。
func printPanels(panels domain.Panels) {
	for _, panel := range panels {
		status := ""
		if panel.ImagePrompt != "" {
			if panel.PromptApproved {
				status = " [承認済み]"
			} else {
				status = " [レビュー待ち]"
			}
		}
		if panel.HasImage() {
			status += " [画像あり]"
		}
		fmt.Printf("  %d. (id=%d)%s %s\n     notes: %s\n", panel.PanelNumber, panel.ID, status, panel.Description, panel.Notes)
	}
}
