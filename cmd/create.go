package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-storyboard-kit/internal/pipeline"
)

// createCmd は、シーン記述を読み込んで絵コンテを作成するサブコマンドなのだ。
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "シーン記述を分割して絵コンテを作成するのだ。",
	Long: `シーン記述のテキストを文単位に分割し、場面転換の合図でパネルへまとめて、
演出ノート付きの絵コンテとして保存するのだ。
--auto-generate を付けると、作成直後に全パネルの画像生成まで一気に行うのだよ。`,
	Example: `  storyboard-kit create -t "探偵の夜" -d "A detective enters a dimly lit office. He looks around."
  storyboard-kit create -t "探偵の夜" -f examples/detective_scene.txt --auto-generate
  cat scene.txt | storyboard-kit create -t "探偵の夜" -f -`,
	RunE: createCommand,
}

func init() {
	createCmd.Flags().StringVarP(&opts.Title, "title", "t", "", "絵コンテのタイトルなのだ。")
	createCmd.Flags().StringVarP(&opts.Description, "description", "d", "", "シーン記述のテキストそのものなのだ。")
	createCmd.Flags().StringVarP(&opts.DescriptionFile, "description-file", "f", "", "シーン記述の読み込み元（ローカルパス、gs://、http(s)://、'-'で標準入力）なのだ。")
	createCmd.Flags().BoolVar(&opts.AutoGenerate, "auto-generate", false, "作成直後に全パネルの画像生成まで行うのだ。")
}

// createCommand は、create サブコマンドの実行ロジック本体なのだ。
func createCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// 1. 必須チェック
	if opts.Title == "" {
		return fmt.Errorf("タイトル（--title）を指定してほしいのだ")
	}
	if opts.Description == "" && opts.DescriptionFile == "" && !isStdin() {
		return fmt.Errorf("シーン記述（--description または --description-file）を指定してほしいのだ")
	}
	// パイプ入力だけが来ている場合は標準入力を読み込み元にするのだ
	if opts.Description == "" && opts.DescriptionFile == "" {
		opts.DescriptionFile = "-"
	}

	// 2. 環境変数とフラグをマージした設定をロードするのだ
	cfg := loadConfig(cmd)

	slog.Info("絵コンテ作成を開始するのだ！",
		"title", opts.Title,
		"auto_generate", opts.AutoGenerate,
		"db", cfg.Options.DBPath)

	return pipeline.ExecuteCreate(ctx, cfg)
}

func isStdin() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}
