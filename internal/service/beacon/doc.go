// Package beacon publishes position fixes to the MQTT topic the main
// binary subscribes to, standing in for a real location provider.
package beacon
