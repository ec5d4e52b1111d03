// Package stability は外部の text-to-image API（Stability互換プロトコル）を
// 呼び出すクライアントを提供します。あらゆる失敗は構造化された Result に
// 畳み込まれ、呼び出し側に例外的な経路を持ち込まないのだ。
package stability

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// FailureKind は生成が失敗した際の分類を表します。
type FailureKind string

const (
	// FailureNone は成功、または未分類を表します。
	FailureNone FailureKind = ""
	// FailureConfiguration は認証情報の未設定によるスキップです。
	// ユーザーが自分で解消できる、想定内の状態なのだ。
	FailureConfiguration FailureKind = "configuration"
	// FailurePolicy は承認ゲートによる拒否です。クライアント自身は発行せず、
	// 呼び出し側がネットワークに出る前の拒否として設定します。
	FailurePolicy FailureKind = "policy"
	// FailureTransport はタイムアウトや接続断などの通信層の失敗です。
	FailureTransport FailureKind = "transport"
	// FailureProtocol は非200応答や不正なレスポンス形式です。
	FailureProtocol FailureKind = "protocol"
	// FailureUnexpected は上記以外の想定外の失敗です。
	FailureUnexpected FailureKind = "unexpected"
)

const (
	// DefaultEndpoint は SDXL の text-to-image エンドポイントです。
	DefaultEndpoint = "https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image"

	// DefaultTimeout は1回の生成呼び出しの上限時間です。
	DefaultTimeout = 60 * time.Second

	// 生成パラメータの既定値。1344x768 は SDXL が許容する横長の解像度なのだ。
	DefaultCfgScale = 7
	DefaultWidth    = 1344
	DefaultHeight   = 768
	DefaultSamples  = 1
	DefaultSteps    = 30

	// maxErrorDetailLength はログと結果に残すエラーボディの上限文字数です。
	maxErrorDetailLength = 500
)

// Config は Client の動作パラメータです。
// APIキーは環境から直接読まず、起動時にここへ注入するのだ。
type Config struct {
	APIKey   string
	Endpoint string
	Timeout  time.Duration
	CfgScale int
	Width    int
	Height   int
	Samples  int
	Steps    int
}

// Client は text-to-image API のクライアントです。
// 1回の呼び出しにつき1回だけ試行し、内部でのリトライは行いません。
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Result は1回の生成試行の構造化された結果です。
// Success が false のとき、Kind と Message が失敗の分類と内容を示します。
type Result struct {
	Success bool
	Kind    FailureKind
	Message string
	Image   []byte
}

// TextPrompt は重み付きのプロンプト1件です。
type TextPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type generationRequest struct {
	TextPrompts []TextPrompt `json:"text_prompts"`
	CfgScale    int          `json:"cfg_scale"`
	Height      int          `json:"height"`
	Width       int          `json:"width"`
	Samples     int          `json:"samples"`
	Steps       int          `json:"steps"`
}

type generationArtifact struct {
	Base64       string `json:"base64"`
	Seed         int64  `json:"seed"`
	FinishReason string `json:"finishReason"`
}

type generationResponse struct {
	Artifacts []generationArtifact `json:"artifacts"`
}

// NewClient は Config の未指定項目を既定値で埋めた Client を生成します。
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.CfgScale <= 0 {
		cfg.CfgScale = DefaultCfgScale
	}
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Samples <= 0 {
		cfg.Samples = DefaultSamples
	}
	if cfg.Steps <= 0 {
		cfg.Steps = DefaultSteps
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// IsConfigured は認証情報が注入されているかを返します。
// UI側の「画像生成が使えるか」の表示はこのフラグだけから導くのだ。
func (c *Client) IsConfigured() bool {
	return strings.TrimSpace(c.cfg.APIKey) != ""
}

// Generate はポジティブ・ネガティブのプロンプト対で画像を1枚生成します。
// 認証情報が無ければネットワークに出ることなく失敗を返し、
// 通信・プロトコルの失敗もすべて Result に分類して返します。
func (c *Client) Generate(ctx context.Context, positive, negative string) Result {
	if !c.IsConfigured() {
		slog.Warn("APIキーが未設定のため画像生成をスキップするのだ")
		return Result{
			Kind:    FailureConfiguration,
			Message: "image generation is not configured: missing API key",
		}
	}

	payload := generationRequest{
		TextPrompts: []TextPrompt{
			{Text: positive, Weight: 1},
			{Text: negative, Weight: -1},
		},
		CfgScale: c.cfg.CfgScale,
		Height:   c.cfg.Height,
		Width:    c.cfg.Width,
		Samples:  c.cfg.Samples,
		Steps:    c.cfg.Steps,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("リクエストボディの構築に失敗しました", "error", err)
		return Result{Kind: FailureUnexpected, Message: "failed to build request body"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Error("リクエストの構築に失敗しました", "endpoint", c.cfg.Endpoint, "error", err)
		return Result{Kind: FailureUnexpected, Message: "failed to build request"}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			slog.Error("画像生成APIがタイムアウトしました", "timeout", c.cfg.Timeout, "error", err)
			return Result{
				Kind:    FailureTransport,
				Message: fmt.Sprintf("image generation timed out after %s", c.cfg.Timeout),
			}
		}
		slog.Error("画像生成APIへの接続に失敗しました", "error", err)
		return Result{Kind: FailureTransport, Message: "failed to reach image generation API"}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("レスポンスの読み取りに失敗しました", "error", err)
		return Result{Kind: FailureTransport, Message: "failed to read API response"}
	}

	if resp.StatusCode != http.StatusOK {
		detail := extractAPIError(respBody)
		slog.Error("画像生成APIがエラーを返しました", "status", resp.StatusCode, "detail", detail)
		return Result{
			Kind:    FailureProtocol,
			Message: fmt.Sprintf("API returned status %d: %s", resp.StatusCode, detail),
		}
	}

	var decoded generationResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		slog.Error("レスポンスJSONの解析に失敗しました", "error", err)
		return Result{Kind: FailureProtocol, Message: "API returned malformed JSON"}
	}
	if len(decoded.Artifacts) == 0 {
		slog.Error("レスポンスにアーティファクトが含まれていません")
		return Result{Kind: FailureProtocol, Message: "API response contained no artifacts"}
	}

	first := decoded.Artifacts[0]
	if first.Base64 == "" {
		slog.Error("アーティファクトに画像データがありません", "finish_reason", first.FinishReason)
		return Result{Kind: FailureProtocol, Message: "API artifact contained no image data"}
	}

	image, err := base64.StdEncoding.DecodeString(first.Base64)
	if err != nil {
		slog.Error("base64画像のデコードに失敗しました", "error", err)
		return Result{Kind: FailureProtocol, Message: "failed to decode image data"}
	}

	return Result{Success: true, Image: image}
}

// extractAPIError はエラーボディから人間向けの詳細を取り出します。
// JSONの message / error フィールドを優先し、無ければ生のテキストを切り詰めて返すのだ。
func extractAPIError(body []byte) string {
	var payload struct {
		Message   string `json:"message"`
		ErrorText string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return truncateDetail(payload.Message)
		}
		if payload.ErrorText != "" {
			return truncateDetail(payload.ErrorText)
		}
	}
	return truncateDetail(strings.TrimSpace(string(body)))
}

// truncateDetail はログに残す文字列を上限長で切り詰めます。
func truncateDetail(detail string) string {
	runes := []rune(detail)
	if len(runes) <= maxErrorDetailLength {
		return detail
	}
	return string(runes[:maxErrorDetailLength]) + "..."
}

// isTimeout は通信エラーがタイムアウト起因かを判定します。
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
