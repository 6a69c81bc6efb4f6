package telemetry

import (
	"strings"
	"sync"
)

// Report is a single call captured by RecorderAPI.
type Report struct {
	Kind   string
	Id     string
	Params []any
}

const (
	KindBroken  = "broken"
	KindWarning = "warning"
	KindDebug   = "debug"
	KindCount   = "count"
)

// RecorderAPI implements API by keeping every report in memory, it is meant
// for tests that need to assert a component did (or did not) report something.
type RecorderAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func NewRecorderAPI() *RecorderAPI {
	return &RecorderAPI{}
}

func (r *RecorderAPI) record(kind, id string, params []any) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.reports = append(r.reports, Report{Kind: kind, Id: id, Params: params})
}

func (r *RecorderAPI) ReportBroken(id string, params ...any) {
	r.record(KindBroken, id, params)
}

func (r *RecorderAPI) ReportWarning(id string, params ...any) {
	r.record(KindWarning, id, params)
}

func (r *RecorderAPI) ReportDebug(message string, params ...any) {
	r.record(KindDebug, message, params)
}

func (r *RecorderAPI) ReportCount(id string, count int64) {
	r.record(KindCount, id, []any{count})
}

// Reports returns a copy of every report of the given kind, an empty kind
// returns all of them.
func (r *RecorderAPI) Reports(kind string) []Report {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	var out []Report
	for _, report := range r.reports {
		if kind != "" && report.Kind != kind {
			continue
		}
		out = append(out, report)
	}
	return out
}

// Has returns true if a report of the given kind has an id ending with idSuffix,
// suffix matching keeps assertions independent of ScopedAPI namespaces.
func (r *RecorderAPI) Has(kind, idSuffix string) bool {
	for _, report := range r.Reports(kind) {
		if strings.HasSuffix(report.Id, idSuffix) {
			return true
		}
	}
	return false
}
