package observability

import (
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/observability/prometrics"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
)

// StandardInstruments registers the shop's RED metrics in reg and keys them for New.
func StandardInstruments(reg prometrics.Registry) Instruments {
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: reg.Counter(string(observability.MUsecaseRequests),
			"Total number of use case invocations.", "use_case", "outcome"),
		observability.MHTTPRequests: reg.Counter(string(observability.MHTTPRequests),
			"Total number of HTTP requests.", "method", "route", "status"),
		observability.MExternalRequests: reg.Counter(string(observability.MExternalRequests),
			"Calls to external dependencies (mail, event transport).", "peer", "endpoint", "outcome"),
		observability.MDomainEvents: reg.Counter(string(observability.MDomainEvents),
			"Domain events observed by the activity worker.", "event"),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: reg.Histogram(string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.", nil, "use_case"),
		observability.MHTTPRequestDuration: reg.Histogram(string(observability.MHTTPRequestDuration),
			"Duration of HTTP requests in seconds.", nil, "method", "route", "status"),
		observability.MExternalRequestDuration: reg.Histogram(string(observability.MExternalRequestDuration),
			"Duration of external dependency calls in seconds.", nil, "peer", "endpoint"),
	}
	return Instruments{Counters: counters, Histograms: histograms}
}
