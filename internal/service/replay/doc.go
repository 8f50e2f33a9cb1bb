// Package replay feeds a recorded events file through a fresh alarm model and
// reports every transition, optionally exporting the final snapshot.
package replay
