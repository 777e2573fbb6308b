/*
Package handlers implements the HTTP surface of the timelapse server.

# Routes

	GET /timelapse/24/{folder}                  last 24 hours
	GET /timelapse/48/{folder}                  last 48 hours
	GET /timelapse/1w/{folder}                  last 7 days
	GET /timelapse/day/{date}/{folder}          one local calendar day (YYYY-MM-DD)
	GET /timelapse/from/{from}/to/{to}/{folder} explicit half-open window
	GET /timelapse/poster/{folder}              newest frame as a resized JPEG
	GET /folders                                list of frame folders
	GET /healthcheck                            liveness, body "OK"
	GET /version                                build information

Timelapse routes accept fps (positive integer, default 20), format
(zip for an archive, otherwise video) and ffmpeg_args (comma-separated,
passed to the encoder verbatim). The caller is trusted; this server is
built for private networks and arbitrary encoder flags are a feature.

# Request Pipeline

Every timelapse request validates its input, resolves the folder inside
OUTPUT_FOLDER, selects frames for the window, then goes through the
single-flight generation cache. Validation failures never reach the
cache or the encoder. Responses stream with byte-range support via the
streaming package.

# Errors

Failures map onto a fixed set of snake_case reasons in a JSON body of
the form {"error": "...", "status": N}: invalid_range,
invalid_time_range and invalid_fps (400), folder_not_found and
empty_selection (404),
encoding_failed and archive_write_failed (500), encoding_timeout (504).
*/
package handlers
