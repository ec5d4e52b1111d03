// Package notes はパネルのテキストからカメラ・ショットの指示メモを導出します。
// 判定はルールテーブル駆動で、テーブルを差し替えれば独立にテストできるのだ。
package notes

// Rule は1カテゴリ分のキーワード集合と、一致した場合に付与するメモを保持します。
type Rule struct {
	Category string
	Keywords []string
	Note     string
}

// DefaultRules は評価順に並んだ標準のルールテーブルです。
// 一致したカテゴリはすべて採用され、この並び順のままメモに連結されるのだ。
var DefaultRules = []Rule{
	{
		Category: "action",
		Keywords: []string{"runs", "chases", "fights", "action"},
		Note:     "Dynamic shot with motion",
	},
	{
		Category: "perception",
		Keywords: []string{"looks", "sees", "watches", "observes"},
		Note:     "POV or close-up on eyes/face",
	},
	{
		Category: "speech",
		Keywords: []string{"speaks", "says", "tells", "whispers", "shouts"},
		Note:     "Close-up or medium shot for dialogue",
	},
	{
		Category: "entrance",
		Keywords: []string{"enters", "arrives", "walks in"},
		Note:     "Establishing shot or wide angle",
	},
}

// DefaultNote はどのカテゴリにも一致しなかった場合の既定メモです。
const DefaultNote = "Standard shot - adjust as needed"

// NoteDelimiter は複数カテゴリのメモを連結する区切り文字列です。
const NoteDelimiter = " | "
