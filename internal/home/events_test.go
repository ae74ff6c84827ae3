package home

import (
	"encoding/json"
	"testing"
)

func TestEventConstructors(t *testing.T) {
	d := &Device{ID: 3, Room: 2, Name: "t", DeviceType: "termometro"}

	tests := []struct {
		name     string
		ev       Event
		wantType string
		house    int64
		room     int64
	}{
		{"house created", HouseEvent(ActionCreated, 1, &House{ID: 1}), "house.created", 0, 0},
		{"houses cleared", HouseEvent(ActionCleared, 0, nil), "house.cleared", 0, 0},
		{"room deleted", RoomEvent(ActionDeleted, 1, 2, nil), "room.deleted", 1, 0},
		{"device updated", DeviceEvent(ActionUpdated, 1, 2, 3, d), "device.updated", 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.ev.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", tt.ev.Type, tt.wantType)
			}
			if tt.ev.House != tt.house || tt.ev.Room != tt.room {
				t.Errorf("parent = (%d, %d), want (%d, %d)", tt.ev.House, tt.ev.Room, tt.house, tt.room)
			}
			if tt.ev.Timestamp.IsZero() {
				t.Error("Timestamp not set")
			}
		})
	}
}

func TestEvent_Device(t *testing.T) {
	d := &Device{ID: 3}
	if got, ok := DeviceEvent(ActionCreated, 1, 2, 3, d).Device(); !ok || got != d {
		t.Errorf("Device() = %v, %v; want the carried device", got, ok)
	}
	if _, ok := DeviceEvent(ActionDeleted, 1, 2, 3, nil).Device(); ok {
		t.Error("Device() on delete event should report false")
	}
	if _, ok := HouseEvent(ActionCreated, 1, &House{ID: 1}).Device(); ok {
		t.Error("Device() on house event should report false")
	}
}

func TestEvent_JSONOmitsEmptyParents(t *testing.T) {
	b, err := json.Marshal(HouseEvent(ActionDeleted, 4, nil))
	if err != nil {
		t.Fatal(err)
	}

	var payload map[string]any
	if err := json.Unmarshal(b, &payload); err != nil {
		t.Fatalf("unmarshal %s: %v", b, err)
	}
	for _, key := range []string{"house", "room", "data"} {
		if _, ok := payload[key]; ok {
			t.Errorf("payload %s should omit key %q", b, key)
		}
	}
	if payload["type"] != "house.deleted" || payload["entity"] != EntityHouse || payload["id"] != float64(4) {
		t.Errorf("payload %s missing type, entity or id", b)
	}
}
