// Package publisher は絵コンテをドキュメント（Markdown / HTML）として
// 書き出す処理を担います。画像はパネル生成時に保存済みなので、
// ここでは参照のみを組み立てるのだ。
package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-storyboard-kit/pkg/asset"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// Format は書き出すドキュメントの形式です。
type Format string

const (
	// FormatMarkdown は Markdown 形式での書き出しです。
	FormatMarkdown Format = "markdown"
	// FormatHTML は HTML 形式での書き出しです。
	FormatHTML Format = "html"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	Format    Format
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	DocumentPath string // 生成されたドキュメントのパス
}

// StoryboardPublisher は絵コンテのドキュメント書き出しを担います。
type StoryboardPublisher struct {
	writer remoteio.OutputWriter
}

// NewStoryboardPublisher は指定された writer を使う StoryboardPublisher を返します。
func NewStoryboardPublisher(writer remoteio.OutputWriter) *StoryboardPublisher {
	return &StoryboardPublisher{writer: writer}
}

// Publish は絵コンテとそのパネル群を指定形式のドキュメントに変換して書き出します。
// ドキュメントは出力ルート直下に置かれ、画像は images/ 配下の相対参照になるのだ。
func (p *StoryboardPublisher) Publish(ctx context.Context, board domain.Storyboard, panels domain.Panels, opts Options) (PublishResult, error) {
	result := PublishResult{}

	var fileName, content, mimeType string
	switch opts.Format {
	case FormatMarkdown, "":
		fileName = asset.DefaultBoardFileName
		content = buildMarkdown(board, panels)
		mimeType = "text/markdown; charset=utf-8"
	case FormatHTML:
		fileName = asset.DefaultBoardHTMLName
		html, err := renderHTML(board, panels)
		if err != nil {
			return result, fmt.Errorf("HTMLの構築に失敗しました: %w", err)
		}
		content = html
		mimeType = "text/html; charset=utf-8"
	default:
		return result, fmt.Errorf("未対応の出力形式です: %q", opts.Format)
	}

	docPath, err := asset.ResolveOutputPath(opts.OutputDir, fileName)
	if err != nil {
		return result, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	if err := p.writer.Write(ctx, docPath, strings.NewReader(content), mimeType); err != nil {
		return result, fmt.Errorf("ドキュメントの書き込みに失敗しました: %w", err)
	}

	result.DocumentPath = docPath
	return result, nil
}
