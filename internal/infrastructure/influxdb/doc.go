// Package influxdb records smart house device state history in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Every device create or
// update becomes a point in the device_state measurement, tagged with the
// owning house and room, so the state of a device can be charted over time
// even though the relational store only keeps its latest value.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if errors.Is(err, influxdb.ErrDisabled) {
//	    // history is optional
//	}
//	defer client.Close()
//
//	client.RecordEvent(home.DeviceEvent(home.ActionUpdated, 1, 2, 3, dev))
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// Writes are batched according to batch_size and flush_interval.
package influxdb
