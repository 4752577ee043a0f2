package mqtt

import "fmt"

// Topic prefixes for the radiomux MQTT namespace.
//
// All topics use the flat scheme: radiomux/{category}/{detail...}
const (
	// TopicPrefix is the base for all radiomux topics.
	TopicPrefix = "radiomux"

	// TopicPrefixSpots is the base for spot fan-out topics.
	TopicPrefixSpots = "radiomux/spots"

	// TopicPrefixSources is the base for per-source topics.
	TopicPrefixSources = "radiomux/sources"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "radiomux/system"
)

// Topics provides builders for radiomux MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	spotTopic := topics.Spot("FT8")
//	// Returns: "radiomux/spots/FT8"
type Topics struct{}

// Spot returns the fan-out topic for spots of one mode.
//
// Example: radiomux/spots/FT8
func (Topics) Spot(mode string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixSpots, mode)
}

// SpotIngest returns the topic external decoders publish spots to.
// Kept outside the spots/ prefix so ingest and fan-out cannot loop.
//
// Example: radiomux/ingest/spots
func (Topics) SpotIngest() string {
	return fmt.Sprintf("%s/ingest/spots", TopicPrefix)
}

// SourceState returns the topic for one source's availability state.
//
// Example: radiomux/sources/rtl0/state
func (Topics) SourceState(sourceID string) string {
	return fmt.Sprintf("%s/%s/state", TopicPrefixSources, sourceID)
}

// SystemStatus returns the system status topic (online/offline, LWT).
//
// Example: radiomux/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllSpots returns a pattern matching spot fan-out for every mode.
//
// Pattern: radiomux/spots/+
func (Topics) AllSpots() string {
	return fmt.Sprintf("%s/+", TopicPrefixSpots)
}

// AllSourceStates returns a pattern matching every source's state topic.
//
// Pattern: radiomux/sources/+/state
func (Topics) AllSourceStates() string {
	return fmt.Sprintf("%s/+/state", TopicPrefixSources)
}

// AllTopics returns a pattern matching all radiomux topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: radiomux/#
func (Topics) AllTopics() string {
	return "radiomux/#"
}
