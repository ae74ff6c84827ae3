package mqtt

import (
	"slices"
	"testing"

	"github.com/nerrad567/smarthouse/internal/home"
)

// seedRetained tracks devices 1 and 2 in house 1 room 10, and device 3 in
// house 2 room 20.
func seedRetained(t *testing.T) *retainedStates {
	t.Helper()
	r := newRetainedStates()
	r.track(home.DeviceEvent(home.ActionCreated, 1, 10, 1, &home.Device{ID: 1, Room: 10}))
	r.track(home.DeviceEvent(home.ActionCreated, 1, 10, 2, &home.Device{ID: 2, Room: 10}))
	r.track(home.DeviceEvent(home.ActionUpdated, 2, 20, 3, &home.Device{ID: 3, Room: 20}))
	return r
}

func TestRetainedStates_Cascaded(t *testing.T) {
	tests := []struct {
		name string
		ev   home.Event
		want []int64
	}{
		{"house deleted", home.HouseEvent(home.ActionDeleted, 1, nil), []int64{1, 2}},
		{"room deleted", home.RoomEvent(home.ActionDeleted, 2, 20, nil), []int64{3}},
		{"houses cleared", home.HouseEvent(home.ActionCleared, 0, nil), []int64{1, 2, 3}},
		{"unknown house", home.HouseEvent(home.ActionDeleted, 9, nil), nil},
		{"house updated", home.HouseEvent(home.ActionUpdated, 1, &home.House{ID: 1}), nil},
		{"device deleted", home.DeviceEvent(home.ActionDeleted, 1, 10, 1, nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := seedRetained(t)
			if got := r.cascaded(tt.ev); !slices.Equal(got, tt.want) {
				t.Errorf("cascaded() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRetainedStates_ForgetAndDeviceDelete(t *testing.T) {
	r := seedRetained(t)

	r.forget([]int64{1})
	r.track(home.DeviceEvent(home.ActionDeleted, 1, 10, 2, nil))

	if got := r.cascaded(home.HouseEvent(home.ActionCleared, 0, nil)); !slices.Equal(got, []int64{3}) {
		t.Errorf("after forget and delete, cascaded() = %v, want [3]", got)
	}
}

func TestRetainedStates_Observe(t *testing.T) {
	topics := NewTopics("smarthouse")
	r := newRetainedStates()

	r.observe(topics, "smarthouse/state/device/5", []byte(`{"id":5,"room":4,"name":"x","device_type":"y","state":true,"house":3}`))
	r.observe(topics, "smarthouse/state/device/6", []byte(`{"id":6,"room":4,"house":3}`))
	r.observe(topics, "smarthouse/state/device/6", nil)
	r.observe(topics, "smarthouse/state/device/bad", []byte(`{"room":4,"house":3}`))
	r.observe(topics, "other/state/device/8", []byte(`{"room":4,"house":3}`))
	r.observe(topics, "smarthouse/state/device/9", []byte(`not json`))

	if got := r.cascaded(home.HouseEvent(home.ActionDeleted, 3, nil)); !slices.Equal(got, []int64{5}) {
		t.Errorf("cascaded(house 3) = %v, want [5]", got)
	}
	if got := r.cascaded(home.RoomEvent(home.ActionDeleted, 3, 4, nil)); !slices.Equal(got, []int64{5}) {
		t.Errorf("cascaded(room 4) = %v, want [5]", got)
	}
}
