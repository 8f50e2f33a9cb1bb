// Package mqtt connects the monitor to an MQTT broker.
//
// The Connector subscribes to <prefix>/events, where an upstream protocol
// parser publishes JSON event records, and publishes retained state messages
// to <prefix>/state and <prefix>/zone/<id>.
package mqtt
