/*
Package cache is the generation cache at the center of the timelapse
pipeline: a fixed-capacity LRU of finished artifacts combined with
single-flight generation per key.

# Single-Flight

Generation is slow (an encoder run can take seconds to minutes), so
duplicating it under concurrent load is the one thing this package
must never do. The first request for an absent key registers a
completion cell in an in-flight registry and runs the generator on its
own goroutine, outside any lock. Every later request for the same key
finds the cell and waits on it instead of generating again. The cell
is removed from the registry atomically with publishing either the
finished entry or the failure, so there is no window in which a second
generator could start while the first is still running.

Failures are delivered to every waiter and never cached. The next
request for that key starts a fresh generation.

# Ordering

For a single key, generation happens-before every hit that observes
the entry: entries are published fully formed, under the same lock
transition that removes the in-flight cell. Distinct keys are fully
independent and interleave arbitrarily.

# Eviction

Eviction is pure LRU by access recency and happens synchronously at
insertion when capacity is exceeded. Capacity counts entries rather
than bytes; the actual byte footprint is exported via the
timelapse_cache_bytes gauge. Evicting an entry mid-download is safe:
entries are immutable after insertion and readers hold their own
reference, so eviction only drops the cache's reference.

# Keys

Key and PosterKey hash the parsed request parameters (folder, range,
options) into a hex digest. Hashing the parsed form rather than the
raw query string makes the key independent of parameter order.
*/
package cache
