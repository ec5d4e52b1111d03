// Package asset は絵コンテの成果物（画像・ドキュメント）の
// 出力パス解決を一箇所に集約します。
package asset

import (
	"fmt"
	"path"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// DefaultImageDir は生成された画像を格納するデフォルトのディレクトリ名です。
	DefaultImageDir = "images"
	// DefaultBoardFileName は書き出される絵コンテのデフォルト Markdown ファイル名です。
	DefaultBoardFileName = "storyboard.md"
	// DefaultBoardHTMLName は書き出される絵コンテのデフォルト HTML ファイル名です。
	DefaultBoardHTMLName = "storyboard.html"
)

// PanelImageName はパネルIDから画像ファイル名を導出します。
// 例: 7 -> "panel_7.png"
func PanelImageName(panelID int64) string {
	return fmt.Sprintf("panel_%d.png", panelID)
}

// PanelImageRelPath はドキュメントから参照する画像の相対パスを返します。
// Markdown/HTML 内の参照なので、OSに依らずスラッシュ区切りで組み立てるのだ。
func PanelImageRelPath(panelID int64) string {
	return path.Join(DefaultImageDir, PanelImageName(panelID))
}

// ResolvePanelImagePath は出力ルートとパネルIDから、
// GCS/ローカルを考慮した画像の最終出力パスを生成します。
func ResolvePanelImagePath(outputDir string, panelID int64) (string, error) {
	imageDir, err := urlpath.ResolveOutputPath(outputDir, DefaultImageDir)
	if err != nil {
		return "", fmt.Errorf("画像ディレクトリの解決に失敗しました: %w", err)
	}
	return urlpath.ResolveOutputPath(imageDir, PanelImageName(panelID))
}

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から、
// GCS/ローカルを考慮した最終的な出力パスを生成します。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	return urlpath.ResolveOutputPath(baseDir, fileName)
}
