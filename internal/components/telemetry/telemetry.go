// Package telemetry is the logging and metrics surface every component reports through.
package telemetry

// API receives the reports of a component. Implementations decide where reports end up,
// SlogAPI logs them and Recorder keeps them for tests.
type API interface {
	// ReportBroken reports a failure that needs fixing, typically a portal page that no
	// longer has the structure a component expects.
	//
	// id names the component and method that failed in lowercase, with dashes between
	// words of a method: "session.load-course-list", "adapter.extract-documents". Details
	// such as the failing url go into params, never into the id.
	ReportBroken(id string, params ...any)

	// ReportWarning reports a recoverable failure, the caller carried on without the
	// affected data. id follows the rules of ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information only useful while debugging.
	ReportDebug(msg string, params ...any)

	// ReportCount reports how many of something a component saw on its latest pass. Counts
	// are samples over time and must not be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id (and debug message) with a namespace, "pipeline" turns
// "session.login" into "pipeline: session.login".
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scope(id string) string {
	return s.namespace + ": " + id
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scope(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scope(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scope(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scope(id), count)
}
