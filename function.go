package cloudfunctions

import (
	"log"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/pep299/iqcraft/internal/article"
	"github.com/pep299/iqcraft/internal/config"
	"github.com/pep299/iqcraft/internal/handlers"
)

var (
	fetchHandler     http.Handler
	fetchHandlerErr  error
	fetchHandlerOnce sync.Once
)

func init() {
	functions.HTTP("FetchArticle", FetchArticle)
}

func loadFetchHandler() (http.Handler, error) {
	fetchHandlerOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			fetchHandlerErr = err
			return
		}
		fetcher := article.NewFetcher(cfg.FetchTimeout(), cfg.MaxArticleLength)
		fetchHandler = handlers.FetchArticleHandler(fetcher)
	})
	return fetchHandler, fetchHandlerErr
}

// FetchArticle is the Cloud Functions entry point of the article fetch proxy.
func FetchArticle(w http.ResponseWriter, r *http.Request) {
	logger := log.New(funcframework.LogWriter(r.Context()), "", 0)

	h, err := loadFetchHandler()
	if err != nil {
		logger.Printf("❌ Failed to load configuration: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	logger.Printf("FetchArticle %s url=%s", r.Method, r.URL.Query().Get("url"))
	h.ServeHTTP(w, r)
}
