// Package config defines the settings used by the rooster binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the weather service credentials, the position feed
// parameters and the paths of the persisted state and registry files.
package config
