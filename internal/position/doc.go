// Package position produces geographic fixes.
//
// The Source interface abstracts the feed; MQTTSource consumes fixes
// published to a broker topic and StaticSource serves a configured
// position for hosts without a live feed.
package position
