/*
Package media generates poster images for timelapse folders.

A poster is the newest frame in a folder, scaled to a requested width
and re-encoded as JPEG. Scaling uses libvips when it is initialized,
which shrinks during decode and keeps memory flat for large camera
frames. When vips is missing or fails on a file, a pure-Go fallback
decodes the frame with the imaging library instead, so posters work on
systems without libvips installed.
*/
package media
