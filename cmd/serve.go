package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/pipeline"
)

// serveCmd は、絵コンテ管理のJSON APIサーバーを起動するサブコマンドなのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "絵コンテ管理のJSON APIサーバーを起動するのだ。",
	Long: `HTTPサーバーを起動して、絵コンテの作成・閲覧・削除と
パネル画像の生成をJSON APIとして公開するのだ。
Ctrl+C（SIGINT/SIGTERM）で猶予付きシャットダウンするのだよ。`,
	Example: `  storyboard-kit serve
  storyboard-kit serve --addr :3000`,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&opts.Addr, "addr", config.DefaultServeAddr, "待ち受けアドレスなのだ。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig(cmd)

	slog.Info("APIサーバーを準備するのだ！",
		"addr", cfg.Options.Addr,
		"db", cfg.Options.DBPath)

	return pipeline.ExecuteServe(ctx, cfg)
}
