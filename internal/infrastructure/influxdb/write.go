package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/smarthouse/internal/home"
)

// measurementDeviceState holds one point per device create or update.
const measurementDeviceState = "device_state"

// RecordEvent writes device state history for device creates and updates.
// Other events are ignored. The write is non-blocking.
func (c *Client) RecordEvent(ev home.Event) {
	if ev.Entity != home.EntityDevice {
		return
	}
	d, ok := ev.Device()
	if !ok {
		return
	}
	c.WriteDeviceState(ev.House, *d, ev.Timestamp)
}

// WriteDeviceState records a device's state at ts.
func (c *Client) WriteDeviceState(houseID int64, d home.Device, ts time.Time) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(deviceStatePoint(houseID, d, ts))
}

// deviceStatePoint builds the device_state point.
//
// Tags: house, room, device_id, device_type. Fields: state (bool), name.
func deviceStatePoint(houseID int64, d home.Device, ts time.Time) *write.Point {
	if ts.IsZero() {
		ts = time.Now()
	}
	return write.NewPoint(
		measurementDeviceState,
		map[string]string{
			"house":       strconv.FormatInt(houseID, 10),
			"room":        strconv.FormatInt(d.Room, 10),
			"device_id":   strconv.FormatInt(d.ID, 10),
			"device_type": d.DeviceType,
		},
		map[string]any{
			"state": d.State,
			"name":  d.Name,
		},
		ts,
	)
}
