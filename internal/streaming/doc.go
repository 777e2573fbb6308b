/*
Package streaming serves fully materialized artifact buffers over HTTP
with byte-range support, so browsers can seek within a timelapse video
and resume interrupted downloads.

# Response Contract

  - No Range header: 200 with the full body, Content-Length,
    Content-Type, Cache-Control: max-age=900 and Accept-Ranges: bytes.
  - Single range (bytes=start-end, bytes=start-, bytes=-suffix):
    206 with Content-Range: bytes start-end/total and exactly the
    requested slice, end clamped to the last byte.
  - Start at or past the end, inverted explicit bounds, or an empty
    suffix: 416 with a wildcard Content-Range carrying the total size.
  - Malformed syntax (wrong unit, garbage, missing dash): treated as if
    no Range header were sent, returning the full 200 body. Range
    parsing failures are not request errors.
  - Multi-range requests use only the first specifier. Multipart
    responses are a deliberate non-feature here; nothing served by this
    process benefits from them.

# Why Not http.ServeContent

http.ServeContent implements multipart ranges, If-Range, and
modification-time conditionals against an io.ReadSeeker. The artifacts
here are immutable in-memory buffers served under the contract above,
which differs in the multi-range and malformed-header cases, so the
small parser lives here instead.
*/
package streaming
