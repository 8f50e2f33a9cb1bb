// Package monitor runs the long-lived alarm monitor.
//
// The monitor owns one alarm model, feeds it events from a startup file and
// from MQTT, publishes every change back to MQTT and serves the current state
// over gRPC.
package monitor
