package integrate

// Reporter receives each partition's outcome as soon as the partition
// finishes. The accumulator serializes calls, so implementations never see
// two reports at once, but reports arrive in completion order, not plan order.
type Reporter interface {
	Report(p PartialResult)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(p PartialResult)

// Report calls f(p).
func (f ReporterFunc) Report(p PartialResult) {
	f(p)
}

// MultiReporter fans a report out to several reporters in order.
type MultiReporter []Reporter

// Report forwards p to every non-nil reporter.
func (m MultiReporter) Report(p PartialResult) {
	for _, r := range m {
		if r != nil {
			r.Report(p)
		}
	}
}
