package script

import "strings"

// DefaultSceneCues は場面転換の合図とみなすフレーズの標準セットです。
// 部分一致で判定するため、無関係な文に含まれる "then" などへの
// 誤検知は仕様として許容しているのだ。
var DefaultSceneCues = []string{
	"meanwhile",
	"later",
	"suddenly",
	"then",
	"next",
	"cut to",
	"fade to",
	"transition",
	"elsewhere",
	"back to",
	"hours later",
	"days later",
	"the next",
}

// SceneDetector は1文が場面転換の合図を含むかを判定します。
// 構文解析ではなく小文字化した部分一致だけを使う粗いヒューリスティックなのだ。
type SceneDetector struct {
	cues []string
}

// NewSceneDetector は SceneDetector を生成します。
// cues を省略した場合は DefaultSceneCues を使うのだ。
func NewSceneDetector(cues ...string) *SceneDetector {
	if len(cues) == 0 {
		cues = DefaultSceneCues
	}
	return &SceneDetector{cues: cues}
}

// Detect は文中にいずれかの合図フレーズが含まれていれば true を返します。
func (d *SceneDetector) Detect(sentence string) bool {
	lowered := strings.ToLower(sentence)
	for _, cue := range d.cues {
		if strings.Contains(lowered, cue) {
			return true
		}
	}
	return false
}
