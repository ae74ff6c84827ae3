package mqtt

import "fmt"

// DefaultTopicPrefix is the root of every topic when none is configured.
const DefaultTopicPrefix = "smarthouse"

// Topics builds smart house MQTT topics under a common prefix.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.NewTopics("smarthouse")
//	topics.Event("device", 7)    // "smarthouse/event/device/7"
//	topics.DeviceState(7)        // "smarthouse/state/device/7"
type Topics struct {
	prefix string
}

// NewTopics returns a topic builder rooted at prefix.
// An empty prefix falls back to DefaultTopicPrefix.
func NewTopics(prefix string) Topics {
	if prefix == "" {
		prefix = DefaultTopicPrefix
	}
	return Topics{prefix: prefix}
}

// Prefix returns the topic root.
func (t Topics) Prefix() string {
	if t.prefix == "" {
		return DefaultTopicPrefix
	}
	return t.prefix
}

// Event returns the topic for change events of one entity.
//
// Example: smarthouse/event/room/3
func (t Topics) Event(entity string, id int64) string {
	return fmt.Sprintf("%s/event/%s/%d", t.Prefix(), entity, id)
}

// EntityEvents returns the topic for events that affect a whole table,
// such as a bulk delete.
//
// Example: smarthouse/event/house
func (t Topics) EntityEvents(entity string) string {
	return fmt.Sprintf("%s/event/%s", t.Prefix(), entity)
}

// DeviceState returns the retained state topic for a device.
//
// Example: smarthouse/state/device/7
func (t Topics) DeviceState(id int64) string {
	return fmt.Sprintf("%s/state/device/%d", t.Prefix(), id)
}

// SystemStatus returns the topic for the API's online/offline status (LWT).
//
// Example: smarthouse/system/status
func (t Topics) SystemStatus() string {
	return fmt.Sprintf("%s/system/status", t.Prefix())
}

// AllDeviceStates returns a wildcard topic matching every device state.
//
// Example: smarthouse/state/device/+
func (t Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/state/device/+", t.Prefix())
}
