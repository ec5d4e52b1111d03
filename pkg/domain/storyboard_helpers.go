package domain

// WithImages は生成済み画像を持つパネルだけを抽出します。
func (ps Panels) WithImages() Panels {
	filtered := make(Panels, 0, len(ps))
	for _, panel := range ps {
		if panel.HasImage() {
			filtered = append(filtered, panel)
		}
	}
	return filtered
}

// NeedingApproval はプロンプトが未承認のパネルだけを抽出します。
// レビュー待ちの一覧表示に使うのだ。
func (ps Panels) NeedingApproval() Panels {
	filtered := make(Panels, 0, len(ps))
	for _, panel := range ps {
		if !panel.PromptApproved {
			filtered = append(filtered, panel)
		}
	}
	return filtered
}

// ImagePaths は生成済み画像のパスを表示順に抽出します。
func (ps Panels) ImagePaths() []string {
	paths := make([]string, 0, len(ps))
	for _, panel := range ps {
		if panel.HasImage() {
			paths = append(paths, panel.ImagePath)
		}
	}
	return paths
}
