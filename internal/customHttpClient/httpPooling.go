package customHttpClient

import (
	"net/http"
	"time"

	"github.com/akolanti/mindsync/internal/config"
	"github.com/go-resty/resty/v2"
)

var customTransport = &http.Transport{
	Proxy:               http.ProxyFromEnvironment,
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// NewPooledClient shares one transport between the storage, embedding and vision clients
func NewPooledClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: customTransport,
		Timeout:   timeout,
	}
}

func NewRestyClient(timeout time.Duration) *resty.Client {
	return resty.NewWithClient(NewPooledClient(timeout))
}
