package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shouni/go-storyboard-kit/internal/config"
)

// opts は全サブコマンドで共有するフラグ値の集約なのだ。
var opts config.Options

var rootCmd = &cobra.Command{
	Use:   "storyboard-kit",
	Short: "シーン記述から映画の絵コンテを組み立てるツールキットなのだ。",
	Long: `シーン記述のテキストを文単位に分割してパネルへまとめ、
演出ノートを付けた絵コンテとしてSQLiteに保存するのだ。
Stability AI による画像生成、Markdown/HTMLへの書き出し、
JSON APIサーバーの起動までを1つのバイナリで行うのだよ。`,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&opts.DBPath, "db", config.DefaultDBPath, "絵コンテを保存するSQLiteファイルのパスなのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", config.DefaultOutputDir, "画像とドキュメントの出力先（ローカル or gs://...）なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "Webリクエストのタイムアウトなのだ。")
}

// loadConfig は環境変数とフラグをマージした実行時設定を返すのだ。
// フラグが明示されたらフラグ優先、省略時は環境変数（無ければ既定値）なのだ。
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.LoadConfig()
	if !cmd.Flags().Changed("db") {
		opts.DBPath = cfg.DBPath
	}
	if !cmd.Flags().Changed("output-dir") {
		opts.OutputDir = cfg.OutputDir
	}
	if !cmd.Flags().Changed("addr") {
		opts.Addr = cfg.ServeAddr
	}
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(
		createCmd,
		imageCmd,
		showCmd,
		exportCmd,
		serveCmd,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
