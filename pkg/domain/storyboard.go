package domain

import "time"

// Storyboard は1本のシーン記述から組み立てられる絵コンテ全体を表します。
// 作成後は本文を変更せず、パネル群を 1:N で所有します。
type Storyboard struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Panel は絵コンテの1コマを表します。
// PanelNumber は絵コンテ内で1始まりの連番で、表示順を定義するのだ。
type Panel struct {
	ID           int64  `json:"id"`
	StoryboardID int64  `json:"storyboard_id"`
	PanelNumber  int    `json:"panel_number"`
	Description  string `json:"description"`
	Notes        string `json:"notes"`

	// ImagePath は生成に成功した画像の保存先。成功するまでは空文字列のままなのだ。
	ImagePath string `json:"image_path,omitempty"`

	// ImagePrompt は画像生成APIに送る（または送る予定の）プロンプト文字列。
	ImagePrompt string `json:"image_prompt"`

	// PromptApproved は生成を許可する承認ゲート。一度 true になったら戻さない。
	PromptApproved bool `json:"prompt_approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Panels は表示順（PanelNumber昇順）に並んだパネルの集合です。
type Panels []Panel

// HasImage は生成済み画像が記録されているかを返します。
func (p Panel) HasImage() bool {
	return p.ImagePath != ""
}
