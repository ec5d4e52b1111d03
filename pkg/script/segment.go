package script

import (
	"regexp"
	"strings"
)

// terminatorRegex は文末記号（. ! ?）の連続を1つの区切りとして扱います。
// "What?!" のような連打も単一の文境界になるのだ。
var terminatorRegex = regexp.MustCompile(`[.!?]+`)

// SplitSentences はシーン記述を文単位に分割します。
// 各断片は前後の空白を取り除き、空になったものは捨てるのだ。
// 文の内容が無い入力に対しては空のスライスを返します。
func SplitSentences(text string) []string {
	fragments := terminatorRegex.Split(text, -1)
	sentences := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		trimmed := strings.TrimSpace(fragment)
		if trimmed == "" {
			continue
		}
		sentences = append(sentences, trimmed)
	}
	return sentences
}
