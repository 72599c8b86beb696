package fdapi

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RassulYunussov/fdapi/identity"
	"github.com/RassulYunussov/fdapi/internal/cb"
	"github.com/RassulYunussov/fdapi/internal/ratelimit"
	"github.com/RassulYunussov/fdapi/internal/resilient"
	"github.com/RassulYunussov/fdapi/pipeline"
	"github.com/rs/zerolog"
)

type clientCreationParameters struct {
	retryParameters          *resilient.RetryParameters
	circuitBreakerParameters *cb.CircuitBreakerParameters
	rateLimitParameters      *ratelimit.RateLimitParameters
	logger                   zerolog.Logger
	store                    identity.Store
	httpClient               *http.Client
	redirect                 func()
	now                      func() time.Time
	location                 *time.Location
	requestStages            []pipeline.RequestStage
	errorStages              []pipeline.ErrorStage
	deduplicate              bool
}

func defaultParameters() *clientCreationParameters {
	return &clientCreationParameters{
		logger:      zerolog.Nop(),
		now:         time.Now,
		location:    time.Local,
		deduplicate: true,
	}
}

type callParameters struct {
	query  url.Values
	header http.Header
	body   any
	raw    []byte
	build  func() ([]byte, error)
}

func (p *callParameters) hasBody() bool {
	return p.body != nil || p.raw != nil || p.build != nil
}

// dedupKey identifies a GET for in-flight sharing. Calls carrying their own headers are
// never shared.
func dedupKey(method string, u *url.URL, p *callParameters) (string, bool) {
	if method != http.MethodGet || len(p.header) > 0 || p.hasBody() {
		return "", false
	}
	return method + " " + u.String(), true
}

// resolve joins path onto the base URL, keeping any base path prefix. A query string
// embedded in path is merged with query.
func resolve(base *url.URL, path string, query url.Values) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	merged := ref.Query()
	for k, values := range query {
		for _, v := range values {
			merged.Add(k, v)
		}
	}
	u := *base
	u.Path = joinPath(base.Path, ref.Path)
	u.RawPath = joinPath(base.EscapedPath(), ref.EscapedPath())
	u.RawQuery = merged.Encode()
	return &u, nil
}

func joinPath(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}
