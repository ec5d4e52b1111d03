package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-storyboard-kit/internal/pipeline"
)

// imageCmd は、既存パネル1枚の画像生成を実行するためのサブコマンドなのだ。
// プロンプトのレビューと承認を挟みつつ、画像の再生成や調整を行いたい場合に便利なのだ。
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "パネル1枚の画像を生成して保存するのだ。",
	Long: `保存済みまたは --prompt で指定したプロンプトを使って、パネルの画像を生成するのだ。
プロンプトは承認されるまで画像生成APIには送られないのだ。
--approve で承認、--prompt での上書きは保存と同時に承認扱いになるのだよ。`,
	Example: `  storyboard-kit image -p 3
  storyboard-kit image -p 3 --approve
  storyboard-kit image -p 3 --prompt "Close-up of the detective's eyes" `,
	RunE: imageCommand,
}

func init() {
	imageCmd.Flags().Int64VarP(&opts.PanelID, "panel", "p", 0, "対象パネルのIDなのだ。")
	imageCmd.Flags().StringVar(&opts.Prompt, "prompt", "", "プロンプトの上書き（保存と同時に承認されるのだ）。")
	imageCmd.Flags().BoolVar(&opts.Approve, "approve", false, "対象パネルのプロンプトを承認するのだ。")
}

// imageCommand は、image サブコマンドの実行ロジック本体なのだ。
func imageCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if opts.PanelID <= 0 {
		return fmt.Errorf("対象パネル（--panel）を指定してほしいのだ")
	}

	cfg := loadConfig(cmd)

	slog.Info("画像生成を開始するのだ！",
		"panel", opts.PanelID,
		"approve", opts.Approve,
		"output_dir", cfg.Options.OutputDir)

	return pipeline.ExecuteImage(ctx, cfg)
}
