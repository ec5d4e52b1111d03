package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shouni/go-storyboard-kit/internal/pipeline"
)

// showCmd は、保存済みの絵コンテを一覧・閲覧するサブコマンドなのだ。
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "絵コンテの一覧または詳細を表示するのだ。",
	Long: `--board を省略すると保存済みの絵コンテを新しい順に一覧表示するのだ。
IDを指定すると、そのパネルと演出ノート、プロンプトの承認状態まで表示するのだよ。`,
	Example: `  storyboard-kit show
  storyboard-kit show -b 1`,
	RunE: showCommand,
}

func init() {
	showCmd.Flags().Int64VarP(&opts.BoardID, "board", "b", 0, "詳細表示する絵コンテのIDなのだ（省略時は一覧）。")
}

func showCommand(cmd *cobra.Command, args []string) error {
	return pipeline.ExecuteShow(cmd.Context(), loadConfig(cmd))
}
