package metrics

// GenerationKinds are the artifact kinds tracked by the generation
// metrics. "video" and "zip" come from the timelapse pipeline,
// "poster" from the poster endpoint.
var GenerationKinds = []string{"video", "zip", "poster"}

// InitializeMetrics pre-populates all expected label combinations so
// that every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	statuses := []string{"success", "error", "timeout"}

	for _, kind := range GenerationKinds {
		for _, status := range statuses {
			GenerationsTotal.WithLabelValues(kind, status)
		}
		GenerationDuration.WithLabelValues(kind)
	}
}
