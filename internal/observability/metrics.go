package observability

// MetricKey names an instrument registered by the telemetry provider.
type MetricKey string

const (
	// use cases: catalog, cart, newsletter, contest, activity
	MUsecaseRequests MetricKey = "usecase_requests_total"
	MUsecaseDuration MetricKey = "usecase_duration_seconds"

	// router, labelled by chi route pattern
	MHTTPRequests        MetricKey = "http_requests_total"
	MHTTPRequestDuration MetricKey = "http_request_duration_seconds"

	// mail provider and event transport calls
	MExternalRequests        MetricKey = "external_requests_total"
	MExternalRequestDuration MetricKey = "external_request_duration_seconds"

	// events seen by the activity worker
	MDomainEvents MetricKey = "domain_events_total"
)
