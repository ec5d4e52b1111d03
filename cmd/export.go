package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-storyboard-kit/internal/pipeline"
)

// exportCmd は、保存済みの絵コンテをドキュメントとして書き出すサブコマンドなのだ。
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "絵コンテをMarkdownまたはHTMLに書き出すのだ。",
	Long: `保存済みの絵コンテを、画像への参照を含むレビュー用ドキュメントとして書き出すのだ。
出力先は --output-dir（ローカル or gs://...）で、形式は --format で選ぶのだよ。`,
	Example: `  storyboard-kit export -b 1
  storyboard-kit export -b 1 --format html -o gs://my-bucket/boards`,
	RunE: exportCommand,
}

func init() {
	exportCmd.Flags().Int64VarP(&opts.BoardID, "board", "b", 0, "書き出す絵コンテのIDなのだ。")
	exportCmd.Flags().StringVar(&opts.Format, "format", "markdown", "出力形式（markdown または html）なのだ。")
}

// exportCommand は、export サブコマンドの実行ロジック本体なのだ。
func exportCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.BoardID <= 0 {
		return fmt.Errorf("書き出す絵コンテ（--board）を指定してほしいのだ")
	}

	cfg := loadConfig(cmd)

	slog.Info("書き出しを開始するのだ！",
		"board", opts.BoardID,
		"format", opts.Format,
		"output_dir", cfg.Options.OutputDir)

	return pipeline.ExecuteExport(ctx, cfg)
}
