package main

import (
	"log/slog"
	"os"

	"github.com/shouni/go-storyboard-kit/cmd"
)

// main はアプリケーションの唯一のエントリーポイントなのだ！
// ログの既定ハンドラだけをここで整え、コマンドライン引数の解析と実行は
// すべて cmd パッケージに委ねるのだよ。
func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	cmd.Execute()
}
