package home

import "time"

// Entity names used in change events.
const (
	EntityHouse  = "house"
	EntityRoom   = "room"
	EntityDevice = "device"
)

// Change actions used in change events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
	ActionCleared = "cleared"
)

// Event describes a successful mutation of the hierarchy.
//
// Type is "<entity>.<action>", e.g. "device.updated". House and Room carry the
// parent path when the entity has one. Data holds the entity after a create or
// update and is nil for deletes.
type Event struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity"`
	ID        int64     `json:"id,omitempty"`
	House     int64     `json:"house,omitempty"`
	Room      int64     `json:"room,omitempty"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds an Event stamped with the current UTC time.
func NewEvent(entity, action string, id int64) Event {
	return Event{
		Type:      entity + "." + action,
		Entity:    entity,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// HouseEvent builds an event for a house.
func HouseEvent(action string, id int64, h *House) Event {
	ev := NewEvent(EntityHouse, action, id)
	if h != nil {
		ev.Data = h
	}
	return ev
}

// RoomEvent builds an event for a room of a house.
func RoomEvent(action string, houseID, id int64, rm *Room) Event {
	ev := NewEvent(EntityRoom, action, id)
	ev.House = houseID
	if rm != nil {
		ev.Data = rm
	}
	return ev
}

// DeviceEvent builds an event for a device of a room.
func DeviceEvent(action string, houseID, roomID, id int64, d *Device) Event {
	ev := NewEvent(EntityDevice, action, id)
	ev.House = houseID
	ev.Room = roomID
	if d != nil {
		ev.Data = d
	}
	return ev
}

// Device returns the device carried by a device event, if any.
func (e Event) Device() (*Device, bool) {
	d, ok := e.Data.(*Device)
	return d, ok && d != nil
}
