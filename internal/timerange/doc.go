// Package timerange models the half-open time windows that select
// frames for a timelapse.
//
// Ranges come in four shapes, matching the URL surface of the service:
//   - LastHours(n): a relative window ending "now"
//   - Week(): the last seven days
//   - Day(date): one local calendar day
//   - Between(from, to): an explicit pair of instants
//
// Relative windows quantize their end instant to the most recent
// quarter-hour boundary. Without this, every request for /timelapse/24
// would produce a distinct cache key and the generation cache would
// never hit. The quantum matches the 900-second Cache-Control lifetime
// on artifact responses, so a client's cached copy and the server's
// cached artifact expire together.
package timerange
