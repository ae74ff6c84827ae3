package mqtt

import (
	"encoding/json"
	"fmt"

	"github.com/nerrad567/smarthouse/internal/home"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// Publish sends a message to the specified MQTT topic.
//
// QoS Levels:
//   - 0: At most once (fire and forget)
//   - 1: At least once (guaranteed delivery, may duplicate)
//   - 2: Exactly once (guaranteed, no duplicates, higher overhead)
//
// Retained messages are for state topics only, never for events.
func (c *Client) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrPublishFailed, defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	return nil
}

// message is one topic/payload pair produced for an event.
type message struct {
	topic    string
	payload  []byte
	retained bool
}

// PublishEvent publishes a change event on its event topic and, for device
// creates and updates, the device's retained state. House and room deletes
// also clear the retained state of the devices they cascaded to.
func (c *Client) PublishEvent(ev home.Event) error {
	orphans := c.retained.cascaded(ev)
	msgs, err := eventMessages(c.topics, ev, orphans)
	if err != nil {
		return err
	}
	for _, m := range msgs {
		if err := c.Publish(m.topic, m.payload, byte(c.cfg.QoS), m.retained); err != nil {
			return fmt.Errorf("publishing %s: %w", m.topic, err)
		}
	}
	c.retained.forget(orphans)
	c.retained.track(ev)
	return nil
}

// eventMessages builds the messages PublishEvent sends for ev.
//
// A deleted device, and each id in orphans, gets an empty retained payload,
// which clears the broker's retained state for that topic.
func eventMessages(topics Topics, ev home.Event, orphans []int64) ([]message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding event %s: %w", ev.Type, err)
	}

	topic := topics.EntityEvents(ev.Entity)
	if ev.ID != 0 {
		topic = topics.Event(ev.Entity, ev.ID)
	}
	msgs := []message{{topic: topic, payload: payload}}
	for _, id := range orphans {
		msgs = append(msgs, message{topic: topics.DeviceState(id), payload: []byte{}, retained: true})
	}

	if ev.Entity != home.EntityDevice || ev.ID == 0 {
		return msgs, nil
	}

	if d, ok := ev.Device(); ok {
		state, err := json.Marshal(deviceState{Device: *d, House: ev.House})
		if err != nil {
			return nil, fmt.Errorf("encoding device %d state: %w", d.ID, err)
		}
		msgs = append(msgs, message{topic: topics.DeviceState(ev.ID), payload: state, retained: true})
	} else if ev.Type == home.EntityDevice+"."+home.ActionDeleted {
		msgs = append(msgs, message{topic: topics.DeviceState(ev.ID), payload: []byte{}, retained: true})
	}
	return msgs, nil
}
