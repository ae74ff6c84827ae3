// Package mqtt publishes smart house change events to an MQTT broker.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Publishing change events and retained device state
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Topics
//
//	{prefix}/event/{entity}/{id}     change events (not retained)
//	{prefix}/event/{entity}          bulk deletes
//	{prefix}/state/device/{id}       current device JSON plus "house" (retained)
//	{prefix}/system/status           online/offline (retained, LWT)
//
// The prefix defaults to "smarthouse".
//
// A device's retained state is cleared with an empty payload when the device
// is deleted, and also when a house or room delete removes it by cascade.
// The client subscribes to {prefix}/state/device/+ to learn which states
// are retained.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.PublishEvent(home.DeviceEvent(home.ActionUpdated, 1, 2, 3, dev))
package mqtt
