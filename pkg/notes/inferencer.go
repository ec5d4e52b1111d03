package notes

import "strings"

// Inferencer はルールテーブルに基づいてショットメモを推定します。
type Inferencer struct {
	rules []Rule
}

// NewInferencer は Inferencer を生成します。
// rules が空の場合は DefaultRules を使うのだ。
func NewInferencer(rules []Rule) *Inferencer {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Inferencer{rules: rules}
}

// Infer はパネルテキストに一致した全カテゴリのメモをテーブル順に連結して返します。
// どれにも一致しない場合は DefaultNote を返すため、結果が空になることはありません。
func (inf *Inferencer) Infer(text string) string {
	lowered := strings.ToLower(text)

	matched := make([]string, 0, len(inf.rules))
	for _, rule := range inf.rules {
		if containsAny(lowered, rule.Keywords) {
			matched = append(matched, rule.Note)
		}
	}

	if len(matched) == 0 {
		return DefaultNote
	}
	return strings.Join(matched, NoteDelimiter)
}

// containsAny はいずれかのキーワードが部分一致するかを調べます。
func containsAny(lowered string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}
