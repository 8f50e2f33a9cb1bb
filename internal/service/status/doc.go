// Package status queries a running monitor for the panel state and prints it,
// once or every poll interval.
package status
