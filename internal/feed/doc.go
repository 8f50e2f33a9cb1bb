// Package feed converts between event records and typed panel events.
//
// A record is the structured form an upstream protocol parser hands over,
// either as a YAML stream on disk or as a JSON payload on MQTT. Decoding
// validates names so the state machine only ever receives typed events.
package feed
