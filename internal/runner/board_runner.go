package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"golang.org/x/time/rate"

	"github.com/shouni/go-storyboard-kit/internal/store"
	"github.com/shouni/go-storyboard-kit/pkg/domain"
	"github.com/shouni/go-storyboard-kit/pkg/notes"
	"github.com/shouni/go-storyboard-kit/pkg/prompt"
	"github.com/shouni/go-storyboard-kit/pkg/script"
	"github.com/shouni/go-storyboard-kit/pkg/stability"
)

// BoardRunner は、台本から絵コンテ一式を組み立てるためのインターフェースなのだ。
type BoardRunner interface {
	// Create は台本の読み込み、パネル分割、演出ノート付与、永続化を一気に行うのだ。
	Create(ctx context.Context, opts CreateOptions) (*CreateResult, error)
}

// BoardStore は絵コンテ作成が必要とする永続化操作です。
type BoardStore interface {
	CreateStoryboard(ctx context.Context, title, description string) (domain.Storyboard, error)
	CreatePanels(ctx context.Context, boardID int64, drafts []store.PanelDraft) (domain.Panels, error)
}

// CreateOptions は絵コンテ作成の入力なのだ。
type CreateOptions struct {
	Title           string
	Description     string // 台本テキストそのもの（指定があればファイルより優先）
	DescriptionFile string // パス、gs://、http(s)://、または "-"（標準入力）
	AutoGenerate    bool   // 作成直後に全パネルの画像生成まで行うレガシー経路
}

// CreateResult は作成された絵コンテとパネル、および自動生成の結果です。
type CreateResult struct {
	Board    domain.Storyboard
	Panels   domain.Panels
	Outcomes []ImageOutcome // AutoGenerate のときだけ埋まるのだ
}

// StoryboardRunner は、台本をパネルに分割して絵コンテを作成する核となる構造体なのだ。
type StoryboardRunner struct {
	store      BoardStore              // 絵コンテとパネルの永続化
	composer   *script.Composer        // 文のグルーピング
	inferencer *notes.Inferencer       // 演出ノートの推定
	prompts    *prompt.Builder         // 自動生成経路でのプロンプト導出
	images     ImageRunner             // 自動生成経路で使う画像生成
	httpClient httpkit.ClientInterface // URL指定の台本の取得
	reader     remoteio.InputReader    // ローカル/GCSのファイル読み込み
	limiter    *rate.Limiter           // 自動生成時のAPI呼び出し間隔の制御
}

// NewStoryboardRunner は、StoryboardRunnerの新しいインスタンスを生成して返すのだ。
func NewStoryboardRunner(
	boardStore BoardStore,
	composer *script.Composer,
	inferencer *notes.Inferencer,
	prompts *prompt.Builder,
	images ImageRunner,
	httpClient httpkit.ClientInterface,
	reader remoteio.InputReader,
	limiter *rate.Limiter,
) *StoryboardRunner {
	return &StoryboardRunner{
		store:      boardStore,
		composer:   composer,
		inferencer: inferencer,
		prompts:    prompts,
		images:     images,
		httpClient: httpClient,
		reader:     reader,
		limiter:    limiter,
	}
}

// Create は台本から絵コンテを作成するのだ。
// 画像生成の失敗はパネル作成を巻き戻さず、結果の中に記録されるだけなのだ。
func (br *StoryboardRunner) Create(ctx context.Context, opts CreateOptions) (*CreateResult, error) {
	if strings.TrimSpace(opts.Title) == "" {
		return nil, fmt.Errorf("タイトルが指定されていないのだ")
	}

	// 1. 台本テキストを読み込むのだ
	description, err := br.readDescription(ctx, opts)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("台本が空なのだ")
	}

	// 2. 絵コンテ本体を登録するのだ
	board, err := br.store.CreateStoryboard(ctx, opts.Title, description)
	if err != nil {
		return nil, fmt.Errorf("絵コンテの作成に失敗したのだ: %w", err)
	}

	// 3. 文の分割とグルーピングでパネル原稿を組み立てるのだ
	texts := br.composer.Compose(description)
	drafts := make([]store.PanelDraft, 0, len(texts))
	for _, text := range texts {
		drafts = append(drafts, store.PanelDraft{
			Description: text,
			Notes:       br.inferencer.Infer(text),
		})
	}

	panels, err := br.store.CreatePanels(ctx, board.ID, drafts)
	if err != nil {
		return nil, fmt.Errorf("パネルの作成に失敗したのだ: %w", err)
	}
	slog.Info("絵コンテを作成したのだ", "board", board.ID, "title", board.Title, "panels", len(panels))

	result := &CreateResult{Board: board, Panels: panels}

	// 4. レガシーの自動生成経路。順番に、間隔を空けながら生成するのだ
	if opts.AutoGenerate {
		result.Outcomes = br.generateAll(ctx, panels)
	}

	return result, nil
}

// generateAll は作成直後の全パネルに対して画像生成を試みるのだ。
// 個々の失敗は記録して先へ進み、絵コンテ作成自体は成功のまま返すのだ。
func (br *StoryboardRunner) generateAll(ctx context.Context, panels domain.Panels) []ImageOutcome {
	outcomes := make([]ImageOutcome, 0, len(panels))
	slog.Info("全パネルの自動画像生成を開始するのだ", "count", len(panels))

	for _, panel := range panels {
		// レートリミットに従って、自分の番が来るまで待機するのだ
		if err := br.limiter.Wait(ctx); err != nil {
			slog.Warn("自動生成が中断されたのだ", "panel", panel.ID, "error", err)
			break
		}

		// 導出したプロンプトを上書き指定として渡す。上書き経路は保存と同時に
		// 承認されるため、生成前のゲートを通過できるのだ
		outcome, err := br.images.Generate(ctx, panel.ID, br.prompts.Build(panel.Description), false)
		if err != nil {
			slog.Error("パネル生成でエラーが発生したのだ", "panel", panel.ID, "error", err)
			outcome = ImageOutcome{
				PanelID: panel.ID,
				Kind:    stability.FailureUnexpected,
				Message: err.Error(),
			}
		}
		if !outcome.Success {
			slog.Warn("パネル生成に失敗したのだ", "panel", panel.ID, "kind", outcome.Kind, "message", outcome.Message)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// readDescription は、フラグの設定に基づいて適切な方法で台本を取得するのだ。
func (br *StoryboardRunner) readDescription(ctx context.Context, opts CreateOptions) (string, error) {
	// インラインのテキストが最優先なのだ
	if opts.Description != "" {
		return opts.Description, nil
	}
	if opts.DescriptionFile == "" {
		return "", fmt.Errorf("台本の入力が指定されていないのだ (--description か --description-file を使うのだ)")
	}

	// "-" は標準入力から読むのだ
	if opts.DescriptionFile == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("標準入力の読み込みに失敗したのだ: %w", err)
		}
		return string(data), nil
	}

	// URLが指定されている場合は、HTTPクライアントで取得するのだ
	lower := strings.ToLower(opts.DescriptionFile)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		data, err := br.httpClient.FetchBytes(ctx, opts.DescriptionFile)
		if err != nil {
			return "", fmt.Errorf("台本URLの取得に失敗したのだ: %w", err)
		}
		return string(data), nil
	}

	// それ以外はリーダーを使って開くのだ（GCS等も対応！）
	rc, err := br.reader.Open(ctx, opts.DescriptionFile)
	if err != nil {
		return "", fmt.Errorf("台本ファイルの読み込みに失敗したのだ: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("台本ファイルの読み取りに失敗したのだ: %w", err)
	}
	return string(data), nil
}
