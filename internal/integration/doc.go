// Package integration holds end-to-end tests that run the alarm-panel
// services against each other on loopback addresses.
package integration
