// Package writers streams wire values to an output and tolerates readers
// that close the pipe early.
package writers
