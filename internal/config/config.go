package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultDBPath           = "storyboard.db"
	DefaultOutputDir        = "output"
	DefaultServeAddr        = ":8080"
	DefaultHTTPTimeout      = 60 * time.Second
	DefaultGenerateInterval = 2 * time.Second
)

// Config はアプリケーション全体の環境設定（APIキーや保存先）を保持する構造体なのだ。
type Config struct {
	StabilityAPIKey   string
	StabilityEndpoint string
	DBPath            string
	OutputDir         string
	ServeAddr         string

	Options Options
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		StabilityAPIKey:   envutil.GetEnv("STABILITY_API_KEY", ""),
		StabilityEndpoint: envutil.GetEnv("STABILITY_API_ENDPOINT", ""),
		DBPath:            envutil.GetEnv("STORYBOARD_DB", DefaultDBPath),
		OutputDir:         envutil.GetEnv("STORYBOARD_OUTPUT_DIR", DefaultOutputDir),
		ServeAddr:         envutil.GetEnv("STORYBOARD_SERVE_ADDR", DefaultServeAddr),
	}
	return cfg
}

// Options は CLI フラグから渡される実行時のパラメータなのだ。
type Options struct {
	// 絵コンテ作成関連
	Title           string // --title
	Description     string // --description
	DescriptionFile string // --description-file
	AutoGenerate    bool   // --auto-generate

	// 画像生成関連
	PanelID int64  // --panel
	Prompt  string // --prompt
	Approve bool   // --approve

	// 表示・書き出し関連
	BoardID int64  // --board
	Format  string // --format

	// サーバー関連
	Addr string // --addr

	// 実行制御
	OutputDir   string        // --output-dir
	DBPath      string        // --db
	HTTPTimeout time.Duration // --http-timeout
}
