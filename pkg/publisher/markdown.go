package publisher

import (
	"fmt"
	"strings"

	"github.com/shouni/go-storyboard-kit/pkg/asset"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
)

// buildMarkdown は絵コンテ全体を1枚の Markdown 文書に組み立てます。
// パネル番号順に、説明・演出ノート・プロンプトの状態・画像参照を並べるのだ。
func buildMarkdown(board domain.Storyboard, panels domain.Panels) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", board.Title))

	for _, panel := range panels {
		sb.WriteString(fmt.Sprintf("## Panel %d\n\n", panel.PanelNumber))
		sb.WriteString(panel.Description + "\n\n")
		sb.WriteString(fmt.Sprintf("- notes: %s\n", panel.Notes))

		if panel.ImagePrompt != "" {
			sb.WriteString(fmt.Sprintf("- prompt: %s\n", panel.ImagePrompt))
			sb.WriteString(fmt.Sprintf("- approved: %s\n", yesNo(panel.PromptApproved)))
		}

		if panel.HasImage() {
			sb.WriteString(fmt.Sprintf("\n![Panel %d](%s)\n", panel.PanelNumber, asset.PanelImageRelPath(panel.ID)))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func yesNo(approved bool) string {
	if approved {
		return "yes"
	}
	return "no"
}
