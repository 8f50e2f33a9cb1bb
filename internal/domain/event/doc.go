// Package event defines the already-parsed panel status events consumed by the
// alarm state machine.
//
// Events form a tagged union: every variant implements Event and reports its
// Kind, and consumers dispatch by matching on that tag.
package event
