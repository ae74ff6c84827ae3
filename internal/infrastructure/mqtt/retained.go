package mqtt

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/nerrad567/smarthouse/internal/home"
)

// deviceState is the retained payload on a device state topic. House is
// carried so a house delete can find the devices it cascaded to.
type deviceState struct {
	home.Device
	House int64 `json:"house"`
}

// deviceRef locates a device whose state is retained on the broker.
type deviceRef struct {
	house int64
	room  int64
}

// retainedStates tracks which device state topics hold a retained message.
//
// House and room deletes cascade to devices without a device event, so the
// tracker is what lets PublishEvent clear their state topics. It is fed by
// our own publishes and by the broker's retained messages on subscribe,
// which covers state left behind by earlier runs.
type retainedStates struct {
	mu      sync.Mutex
	devices map[int64]deviceRef
}

func newRetainedStates() *retainedStates {
	return &retainedStates{devices: make(map[int64]deviceRef)}
}

// track records the effect of a device event.
func (r *retainedStates) track(ev home.Event) {
	if ev.Entity != home.EntityDevice || ev.ID == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := ev.Device(); ok {
		r.devices[ev.ID] = deviceRef{house: ev.House, room: d.Room}
		return
	}
	if ev.Type == home.EntityDevice+"."+home.ActionDeleted {
		delete(r.devices, ev.ID)
	}
}

// observe records a message received on a device state topic.
// An empty payload means the retained state was cleared.
func (r *retainedStates) observe(topics Topics, topic string, payload []byte) {
	idStr, ok := strings.CutPrefix(topic, topics.Prefix()+"/state/device/")
	if !ok {
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(payload) == 0 {
		delete(r.devices, id)
		return
	}
	var st deviceState
	if err := json.Unmarshal(payload, &st); err != nil {
		return
	}
	r.devices[id] = deviceRef{house: st.House, room: st.Room}
}

// cascaded returns, sorted, the tracked devices that ev removed by cascade:
// every device of a deleted house or room, or all of them when a table is
// cleared.
func (r *retainedStates) cascaded(ev home.Event) []int64 {
	var match func(deviceRef) bool
	switch {
	case strings.HasSuffix(ev.Type, "."+home.ActionCleared):
		match = func(deviceRef) bool { return true }
	case ev.Type == home.EntityHouse+"."+home.ActionDeleted:
		match = func(d deviceRef) bool { return d.house == ev.ID }
	case ev.Type == home.EntityRoom+"."+home.ActionDeleted:
		match = func(d deviceRef) bool { return d.room == ev.ID }
	default:
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int64
	for id, ref := range r.devices {
		if match(ref) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// forget drops devices whose retained state has been cleared.
func (r *retainedStates) forget(ids []int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.devices, id)
	}
}
