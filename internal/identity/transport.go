package identity

import (
	"net/http"

	"ory-session-page/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InstrumentedTransport wraps next with the identity request collectors.
func InstrumentedTransport(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperInFlight(metrics.IdentityRequestsInFlight,
		promhttp.InstrumentRoundTripperCounter(metrics.IdentityRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(metrics.IdentityRequestDuration, next),
		),
	)
}
