package runner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/go-storyboard-kit/pkg/asset"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/prompt"
	"github.com/shouni/go-storyboard-kit/pkg/stability"
)

// msgNotApproved はポリシー拒否のときに返すメッセージなのだ。
// API側の409応答とCLIの表示で同じ文言を使います。
const msgNotApproved = "prompt is not yet approved"

// ImageRunner は、単一パネルの画像生成を実行するためのインターフェース。
type ImageRunner interface {
	// Generate はプロンプトの確定・承認ゲート・画像生成・保存までを一気に行うのだ。
	Generate(ctx context.Context, panelID int64, promptOverride string, approve bool) (ImageOutcome, error)
}

// PanelStore は画像生成がパネルに対して必要とする永続化操作です。
type PanelStore interface {
	GetPanel(ctx context.Context, id int64) (domain.Panel, error)
	UpdatePanelPrompt(ctx context.Context, id int64, prompt string, approved bool) error
	UpdatePanelImage(ctx context.Context, id int64, imagePath string) error
}

// ImageClient は text-to-image クライアントの抽象です。
type ImageClient interface {
	Generate(ctx context.Context, positive, negative string) stability.Result
	IsConfigured() bool
}

// ImageOutcome は1回の生成試行の構造化された結果なのだ。
// Success が false でもエラーにはならず、Kind が失敗の分類を示します。
type ImageOutcome struct {
	PanelID   int64                 `json:"panel_id"`
	Success   bool                  `json:"success"`
	Kind      stability.FailureKind `json:"kind,omitempty"`
	Message   string                `json:"message,omitempty"`
	Prompt    string                `json:"prompt"`
	Approved  bool                  `json:"approved"`
	ImagePath string                `json:"image_path,omitempty"`
}

// PanelImageRunner は、プロンプトの承認状態を尊重しながら1パネルの画像を生成する実体。
type PanelImageRunner struct {
	store     PanelStore            // パネルの読み書き
	prompts   *prompt.Builder       // 説明文からのプロンプト導出
	client    ImageClient           // text-to-image クライアント
	writer    remoteio.OutputWriter // 画像の保存先（ローカル/GCS）
	outputDir string                // 出力ルート
}

// NewPanelImageRunner は、PanelImageRunnerの新しいインスタンスを生成して返すのだ。
func NewPanelImageRunner(
	store PanelStore,
	prompts *prompt.Builder,
	client ImageClient,
	writer remoteio.OutputWriter,
	outputDir string,
) *PanelImageRunner {
	return &PanelImageRunner{
		store:     store,
		prompts:   prompts,
		client:    client,
		writer:    writer,
		outputDir: outputDir,
	}
}

// Generate は単一パネルの画像生成を実行するのだ。
// プロンプトの確定と承認は先に永続化され、生成が失敗しても巻き戻さないのだ。
func (ir *PanelImageRunner) Generate(ctx context.Context, panelID int64, promptOverride string, approve bool) (ImageOutcome, error) {
	panel, err := ir.store.GetPanel(ctx, panelID)
	if err != nil {
		return ImageOutcome{}, fmt.Errorf("パネルの取得に失敗したのだ: %w", err)
	}

	// 1. 今回使うプロンプトと承認状態を確定するのだ
	promptText, approved := ir.resolvePrompt(panel, promptOverride, approve)
	if promptText != panel.ImagePrompt || approved != panel.PromptApproved {
		if err := ir.store.UpdatePanelPrompt(ctx, panel.ID, promptText, approved); err != nil {
			return ImageOutcome{}, fmt.Errorf("プロンプトの保存に失敗したのだ: %w", err)
		}
	}

	outcome := ImageOutcome{PanelID: panel.ID, Prompt: promptText, Approved: approved}

	// 2. 承認ゲート。未承認ならネットワークに出る前に拒否するのだ
	if !approved {
		slog.Info("未承認のプロンプトなので生成を拒否したのだ", "panel", panel.ID)
		outcome.Kind = stability.FailurePolicy
		outcome.Message = msgNotApproved
		return outcome, nil
	}

	// 3. クライアントに生成を依頼するのだ（失敗はすべて Result に畳まれている）
	result := ir.client.Generate(ctx, promptText, prompt.NegativePrompt)
	if !result.Success {
		outcome.Kind = result.Kind
		outcome.Message = result.Message
		return outcome, nil
	}

	// 4. 画像を保存してパスを記録するのだ
	imagePath, err := asset.ResolvePanelImagePath(ir.outputDir, panel.ID)
	if err != nil {
		outcome.Kind = stability.FailureUnexpected
		outcome.Message = fmt.Sprintf("failed to resolve image path: %v", err)
		return outcome, nil
	}
	if err := ir.writer.Write(ctx, imagePath, bytes.NewReader(result.Image), "image/png"); err != nil {
		slog.Error("画像の書き込みに失敗したのだ", "panel", panel.ID, "path", imagePath, "error", err)
		outcome.Kind = stability.FailureUnexpected
		outcome.Message = fmt.Sprintf("failed to write image: %v", err)
		return outcome, nil
	}
	if err := ir.store.UpdatePanelImage(ctx, panel.ID, imagePath); err != nil {
		return ImageOutcome{}, fmt.Errorf("画像パスの記録に失敗したのだ: %w", err)
	}

	slog.Info("パネル画像を生成したのだ", "panel", panel.ID, "path", imagePath)
	outcome.Success = true
	outcome.ImagePath = imagePath
	return outcome, nil
}

// resolvePrompt は上書き指定・保存済みプロンプト・承認フラグから
// 今回の試行で使うプロンプトと承認状態を決めるのだ。
func (ir *PanelImageRunner) resolvePrompt(panel domain.Panel, override string, approve bool) (string, bool) {
	// 上書きは保存と同時に承認される。レビュー済みの文言が来る前提なのだ
	if override != "" {
		return override, true
	}
	// 保存済みプロンプトが無ければ説明文から導出する。
	// 承認は明示された場合だけで、既定ではレビュー待ちのまま残すのだ
	if panel.ImagePrompt == "" {
		return ir.prompts.Build(panel.Description), approve
	}
	return panel.ImagePrompt, panel.PromptApproved || approve
}
