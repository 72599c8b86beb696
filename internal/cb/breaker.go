package cb

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

type breaker = gobreaker.CircuitBreaker[*http.Response]

func newBreaker(parameters *CircuitBreakerParameters, resource string, logger zerolog.Logger) *breaker {
	return gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        resource,
		MaxRequests: parameters.MaxRequests,
		Interval:    parameters.Interval,
		Timeout:     parameters.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= parameters.ConsecutiveFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().Str("resource", name).Stringer("from", from).Stringer("to", to).Msg("circuit breaker state changed")
		},
	})
}
