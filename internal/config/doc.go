// Package config defines the settings shared by the alarm-panel binaries and
// provides helpers to load, validate and save them in YAML format.
//
// Values read from the file can be overridden by ALARM_* environment variables.
package config
