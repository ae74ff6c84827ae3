package home

// House is the top of the hierarchy.
type House struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Room belongs to exactly one House.
type Room struct {
	ID    int64  `json:"id"`
	House int64  `json:"house"`
	Name  string `json:"name"`
}

// Device belongs to exactly one Room.
type Device struct {
	ID         int64  `json:"id"`
	Room       int64  `json:"room"`
	Name       string `json:"name"`
	DeviceType string `json:"device_type"`
	State      bool   `json:"state"`
}

// DeviceInput carries the fields accepted when creating a device.
//
// State is accepted for wire compatibility but never stored: new devices
// always start switched off.
type DeviceInput struct {
	Name       string
	DeviceType string
	State      bool
}

// DeviceUpdate carries the fields accepted when updating a device.
// Nil fields keep their stored value.
type DeviceUpdate struct {
	Name       string
	DeviceType *string
	State      *bool
}
