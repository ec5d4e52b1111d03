package domain

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestPanel_JSON(t *testing.T) {
	t.Run("Panel構造体が正しくJSON変換できるのだ", func(t *testing.T) {
		now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		panel := Panel{
			ID:             42,
			StoryboardID:   7,
			PanelNumber:    1,
			Description:    "A detective enters a dimly lit office.",
			Notes:          "Establishing shot or wide angle",
			ImagePath:      "output/images/panel_42.png",
			ImagePrompt:    "Cinematic storyboard sketch",
			PromptApproved: true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		data, err := json.Marshal(panel)
		if err != nil {
			t.Fatalf("Marshal失敗なのだ: %v", err)
		}

		var decoded Panel
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal失敗なのだ: %v", err)
		}

		if !reflect.DeepEqual(panel, decoded) {
			t.Errorf("変換前後でデータが一致しないのだ。期待: %+v, 実際: %+v", panel, decoded)
		}
	})

	t.Run("画像が未設定ならimage_pathはJSONに含まれないのだ", func(t *testing.T) {
		data, err := json.Marshal(Panel{ID: 1, PanelNumber: 1})
		if err != nil {
			t.Fatalf("Marshal失敗なのだ: %v", err)
		}
		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("Unmarshal失敗なのだ: %v", err)
		}
		if _, ok := raw["image_path"]; ok {
			t.Error("空のimage_pathが出力に含まれているのだ")
		}
	})
}

func TestPanels_Helpers(t *testing.T) {
	panels := Panels{
		{ID: 1, PanelNumber: 1, ImagePath: "output/images/panel_1.png", PromptApproved: true},
		{ID: 2, PanelNumber: 2},
		{ID: 3, PanelNumber: 3, ImagePath: "output/images/panel_3.png"},
	}

	t.Run("WithImagesは画像を持つパネルだけを返すのだ", func(t *testing.T) {
		withImages := panels.WithImages()
		if len(withImages) != 2 {
			t.Fatalf("期待したパネル数と違うのだ: %d", len(withImages))
		}
		if withImages[0].ID != 1 || withImages[1].ID != 3 {
			t.Errorf("抽出されたパネルが違うのだ: %+v", withImages)
		}
	})

	t.Run("NeedingApprovalは未承認パネルだけを返すのだ", func(t *testing.T) {
		pending := panels.NeedingApproval()
		if len(pending) != 2 {
			t.Fatalf("期待したパネル数と違うのだ: %d", len(pending))
		}
		if pending[0].ID != 2 || pending[1].ID != 3 {
			t.Errorf("抽出されたパネルが違うのだ: %+v", pending)
		}
	})

	t.Run("ImagePathsは表示順のままパスを返すのだ", func(t *testing.T) {
		paths := panels.ImagePaths()
		want := []string{"output/images/panel_1.png", "output/images/panel_3.png"}
		if !reflect.DeepEqual(paths, want) {
			t.Errorf("パスの一覧が一致しないのだ。期待: %v, 実際: %v", want, paths)
		}
	})

	t.Run("HasImageは空文字列のときfalseなのだ", func(t *testing.T) {
		if (Panel{}).HasImage() {
			t.Error("画像が無いのにtrueを返したのだ")
		}
	})
}
