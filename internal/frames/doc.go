// Package frames discovers the timestamp-named JPEG files that make up
// a timelapse. Cameras write one file per capture, named with the Unix
// timestamp of the capture (e.g. 1724570100.jpg), into one folder per
// camera under the output root.
//
// Selection is a pure function of the directory contents and the
// requested window: nothing here caches listings, and source files are
// never modified.
package frames
