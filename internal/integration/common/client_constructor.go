package common

import (
	"net/http"
	"time"

	"github.com/futig/resource-assistant/internal/config"
	pkgHTTP "github.com/futig/resource-assistant/pkg/http"
	"go.uber.org/zap"
)

func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	return pkgHTTP.NewConnector(
		connCfg,
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithAuthToken(cfg.Token),
	)
}

// NewSDKHTTPClient returns the shared outbound client for third-party SDKs
func NewSDKHTTPClient(timeout time.Duration) *http.Client {
	return pkgHTTP.NewClient(
		pkgHTTP.WithRequestTimeout(timeout),
		pkgHTTP.WithResponseHeaderTimeout(timeout),
		pkgHTTP.WithRequestLogging(),
	)
}
