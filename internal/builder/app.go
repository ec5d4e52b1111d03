package builder

import (
	"github.com/shouni/go-http-kit/pkg/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"

	"github.com/shouni/go-storyboard-kit/internal/config"
	"github.com/shouni/go-storyboard-kit/internal/store"
	"github.com/shouni/go-storyboard-kit/pkg/stability"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config  *config.Config        // Configは、環境変数から読み込まれたグローバルな設定です（APIキー、保存先など）。
	Options config.Options        // Optionsは、コマンドラインから渡された実行時の設定です（タイトル、パネルIDなど）。
	Store   *store.Store          // Storeは、絵コンテとパネルの永続化先です。
	Reader  remoteio.InputReader  // Readerは、台本ファイルの読み込みに使用する入力元です。
	Writer  remoteio.OutputWriter // Writerは、生成された画像やドキュメントを保存するための出力先です。

	imageClient *stability.Client       // imageClient は画像生成APIとの通信に使う共通クライアント
	httpClient  httpkit.ClientInterface // httpClient はURL指定の台本取得に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.ClientInterface,
	imageClient *stability.Client,
	st *store.Store,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:      cfg,
		Options:     cfg.Options,
		Store:       st,
		Reader:      reader,
		Writer:      writer,
		imageClient: imageClient,
		httpClient:  httpClient,
	}
}

// ImageConfigured は画像生成の認証情報が注入されているかを返すのだ。
// 表示側の「画像生成が使えるか」のヒントはこれだけから導きます。
func (a *AppContext) ImageConfigured() bool {
	return a.imageClient.IsConfigured()
}
