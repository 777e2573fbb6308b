/*
Package metrics declares the Prometheus collectors for the timelapse
server under the timelapse_ namespace.

# Metric Groups

  - HTTP: request counts, durations, and in-flight gauge, labeled by
    method, normalized route, and status. Route labels always use the
    route pattern (e.g. /timelapse/24/{folder}), never raw folder
    names, to bound label cardinality.
  - Cache: hit/miss/eviction counters plus entry-count and byte-size
    gauges for the generation cache. The gauges are updated
    synchronously by the cache at every insert and eviction, so no
    polling collector is needed.
  - Generation: per-kind counters and duration histograms for artifact
    builds (video, zip, poster), an in-flight gauge, and a histogram of
    frames matched per selection.
  - AppInfo: a constant gauge carrying version, commit, and Go version.

# Exposure

All collectors are registered at package init time using promauto.
To expose them, mount the promhttp.Handler() on the metrics server:

	import "github.com/prometheus/client_golang/prometheus/promhttp"

	mux.Handle("/metrics", promhttp.Handler())

Call InitializeMetrics once at startup so every labeled series exists
from the first scrape instead of appearing after its first event.
*/
package metrics
