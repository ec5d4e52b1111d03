package publisher

import (
	"bytes"
	"html/template"

	"github.com/shouni/go-storyboard-kit/pkg/asset"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// boardTemplateText は HTML 書き出し用のテンプレートです。
// 外部CSSに依存しない自己完結のページを生成するのだ。
const boardTemplateText = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 960px; margin: 0 auto; padding: 1rem; }
.panel { border: 1px solid #ccc; border-radius: 6px; padding: 1rem; margin-bottom: 1.5rem; }
.panel img { max-width: 100%; }
.notes { color: #555; font-size: 0.9rem; }
.prompt { color: #777; font-size: 0.8rem; word-break: break-all; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{range .Panels}}<div class="panel">
<h2>Panel {{.Number}}</h2>
<p>{{.Description}}</p>
<p class="notes">{{.Notes}}</p>
{{if .Prompt}}<p class="prompt">{{.Prompt}} (approved: {{if .Approved}}yes{{else}}no{{end}})</p>
{{end}}{{if .ImageRef}}<img src="{{.ImageRef}}" alt="Panel {{.Number}}">
{{end}}</div>
{{end}}</body>
</html>
`

var boardTemplate = template.Must(template.New("storyboard").Parse(boardTemplateText))

type boardView struct {
	Title  string
	Panels []panelView
}

type panelView struct {
	Number      int
	Description string
	Notes       string
	Prompt      string
	Approved    bool
	ImageRef    string
}

// renderHTML は絵コンテをテンプレートに流し込み、HTML文字列を返します。
func renderHTML(board domain.Storyboard, panels domain.Panels) (string, error) {
	view := boardView{Title: board.Title}
	for _, panel := range panels {
		pv := panelView{
			Number:      panel.PanelNumber,
			Description: panel.Description,
			Notes:       panel.Notes,
			Prompt:      panel.ImagePrompt,
			Approved:    panel.PromptApproved,
		}
		if panel.HasImage() {
			pv.ImageRef = asset.PanelImageRelPath(panel.ID)
		}
		view.Panels = append(view.Panels, pv)
	}

	var buf bytes.Buffer
	if err := boardTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}
