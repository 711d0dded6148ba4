// Package logtail reads the end of the application log for the Log panel.
//
// Read keeps a ring buffer of maxLines entries, so only one pass over the
// file is made and memory stays proportional to the lines kept rather than
// the file size. A log file that does not exist yet is not an error.
//
// The log is written by zap as one JSON object per line. Format renders an
// entry as "time LEVEL message key=value ..." with fields sorted by key;
// anything that is not a JSON object (a panic trace, say) passes through.
package logtail
