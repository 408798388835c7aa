package ingest

// Source kinds. Each kind owns one queue, one adapter, and one
// importer.
const (
	SourceWarn       = "warn"
	SourceWeather    = "weather"
	SourceOutages    = "outages"
	SourceRecalls    = "recalls"
	SourceScams      = "scams"
	SourceRemoteJobs = "remote-jobs"
	SourceAmber      = "amber"
)

// Sources lists every source kind in scheduling order.
var Sources = []string{
	SourceWarn,
	SourceWeather,
	SourceOutages,
	SourceRecalls,
	SourceScams,
	SourceRemoteJobs,
	SourceAmber,
}

// ValidSource reports whether s names a known source kind.
func ValidSource(s string) bool {
	for _, known := range Sources {
		if known == s {
			return true
		}
	}
	return false
}
