// Package workers derives concurrency counts from the CPUs available
// to the process. It respects container CPU limits via GOMAXPROCS and
// honors an FFMPEG_WORKERS environment override.
//
// The encoder semaphore in the artifact builder is its one consumer:
// each ffmpeg run saturates roughly one core, so the pool defaults to
// ForCPU.
package workers
