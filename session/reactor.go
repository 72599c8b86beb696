package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/RassulYunussov/fdapi/internal/ratelimit"
	"github.com/RassulYunussov/fdapi/normalize"
	"github.com/rs/zerolog"
)

const DefaultResetHeader = ratelimit.DefaultResetHeader

// Reactor acts on raw 401 and 429 failures. The caller still receives the normalized error.
type Reactor struct {
	credentials *Credentials
	redirect    func()
	resetHeader string
	location    *time.Location
	logger      zerolog.Logger
}

// NewReactor returns a Reactor. redirect sends the user to sign in and may be nil.
func NewReactor(credentials *Credentials, redirect func(), logger zerolog.Logger) *Reactor {
	return &Reactor{
		credentials: credentials,
		redirect:    redirect,
		resetHeader: DefaultResetHeader,
		location:    time.Local,
		logger:      logger,
	}
}

func (r *Reactor) WithResetHeader(header string) *Reactor {
	if header != "" {
		r.resetHeader = header
	}
	return r
}

func (r *Reactor) WithLocation(location *time.Location) *Reactor {
	r.location = location
	return r
}

// ObserveOutcome tears the session down on a raw 401.
func (r *Reactor) ObserveOutcome(req *http.Request, resp *normalize.RawResponse, err error) (*normalize.RawResponse, error) {
	var raw *normalize.RawFailure
	if errors.As(err, &raw) && raw.StatusCode == http.StatusUnauthorized {
		r.teardown(context.WithoutCancel(req.Context()), req.URL.Path)
	}
	return resp, err
}

// FoldRateLimit rewrites a 429 message with the reset time announced by the server.
func (r *Reactor) FoldRateLimit(err *normalize.Error) *normalize.Error {
	if err.Status != http.StatusTooManyRequests {
		return err
	}
	reset, ok := ParseReset(err.Header.Get(r.resetHeader))
	if !ok {
		return err
	}
	r.logger.Warn().Time("reset_at", reset).Msg("rate limit exceeded")
	return err.WithMessage(fmt.Sprintf("Rate limit exceeded. Try again at %s", reset.In(r.location).Format(time.TimeOnly)))
}

func (r *Reactor) teardown(ctx context.Context, path string) {
	r.logger.Warn().Str("path", path).Msg("unauthorized, clearing session")
	if err := r.credentials.Clear(ctx); err != nil {
		r.logger.Error().Err(err).Msg("unable to clear credentials")
	}
	if r.redirect != nil {
		r.redirect()
	}
}

// ParseReset reads a Unix epoch seconds header value.
func ParseReset(value string) (time.Time, bool) {
	return ratelimit.ParseReset(value)
}
