// Package prompt は画像生成APIへ渡すプロンプトの整形と構築を担います。
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MaxDescriptionLength はプロンプトに埋め込む記述の最大文字数です。
	// 切り詰めはフィルタリングより先に行うため、巨大な入力でも安全なのだ。
	MaxDescriptionLength = 500

	// stylePrefix と styleSuffix が記述を挟み、絵コンテらしい画風を固定します。
	stylePrefix = "Cinematic storyboard sketch, black and white pencil drawing"
	styleSuffix = "professional film storyboard style, clear composition, dramatic lighting"

	// NegativePrompt は全リクエスト共通で付与する抑制指示です。
	NegativePrompt = "blurry, bad anatomy, text, watermarks, signatures, low quality, color, colored"
)

// disallowedChars は英数字・空白・一般的な叙述記号以外を除去します。
// 通常の文章の句読点が失われないよう、許可セットは広めに取ってあるのだ。
var disallowedChars = regexp.MustCompile(`[^\w\s.,!?\-():'"]`)

// Sanitize は記述テキストを切り詰めてから不許可文字を取り除き、前後の空白を落とします。
// 空文字列に対しては空文字列を返し、決して失敗しません。
func Sanitize(text string) string {
	runes := []rune(text)
	if len(runes) > MaxDescriptionLength {
		text = string(runes[:MaxDescriptionLength])
	}
	cleaned := disallowedChars.ReplaceAllString(text, "")
	return strings.TrimSpace(cleaned)
}

// Builder はパネル記述から最終的なプロンプト文字列を組み立てます。
type Builder struct {
	prefix string
	suffix string
}

// NewBuilder は標準の画風指定を持つ Builder を生成します。
func NewBuilder() *Builder {
	return &Builder{
		prefix: stylePrefix,
		suffix: styleSuffix,
	}
}

// Build はサニタイズ済みの記述を画風指定で挟んだプロンプトを返します。
// 記述が空でも結果は空にならないのだ。
func (b *Builder) Build(description string) string {
	return fmt.Sprintf("%s, %s, %s", b.prefix, Sanitize(description), b.suffix)
}
