package script

import "strings"

// DefaultMaxSentences は1パネルに収める文数の上限です。
const DefaultMaxSentences = 2

// Composer は文の並びをパネル単位のテキストにまとめ上げます。
// 文数の上限か場面転換の合図のどちらかでパネルを区切るのだ。
type Composer struct {
	detector     *SceneDetector
	maxSentences int
}

// NewComposer は標準の文数上限を持つ Composer を生成します。
func NewComposer(detector *SceneDetector) *Composer {
	if detector == nil {
		detector = NewSceneDetector()
	}
	return &Composer{
		detector:     detector,
		maxSentences: DefaultMaxSentences,
	}
}

// Compose はシーン記述をパネルテキストの列に変換します。
// 文を順に蓄積し、上限に達するか場面転換を検知した時点でパネルを閉じ、
// 末尾に残った文はサイズに関わらず最後のパネルとして出力するのだ。
// 文が1つでもあれば、結果は必ず1パネル以上になります。
func (c *Composer) Compose(text string) []string {
	sentences := SplitSentences(text)

	panels := make([]string, 0, (len(sentences)+1)/2)
	var current []string

	for _, sentence := range sentences {
		current = append(current, sentence)
		if len(current) >= c.maxSentences || c.detector.Detect(sentence) {
			panels = append(panels, closePanel(current))
			current = nil
		}
	}
	if len(current) > 0 {
		panels = append(panels, closePanel(current))
	}
	return panels
}

// closePanel は蓄積した文をピリオドで連結し直します。
// SplitSentences が終端記号を落としているので、ここで補うのだ。
func closePanel(sentences []string) string {
	return strings.Join(sentences, ". ") + "."
}
