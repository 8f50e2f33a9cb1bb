// Package alarm contains the in-memory model of the alarm panel.
//
// Alarm derives the panel arming state, the arming mode and the 16 zone states
// from a sequential stream of parsed events. It is not safe for concurrent use:
// callers feed events one at a time and listeners run synchronously inside
// HandleEvent, so a listener must not call back into the same Alarm.
package alarm
