package events

import (
	"sync"

	"github.com/kc2g-flex-tools/audiotoggle/audioshim"
	"github.com/kc2g-flex-tools/audiotoggle/profile"
)

// Event is a marker interface for all toggler events
type Event interface {
	isEvent()
}

// Base implementation for all events
type baseEvent struct{}

func (baseEvent) isEvent() {}

// ProfileApplied is fired when a profile's devices and volumes were set
type ProfileApplied struct {
	baseEvent
	Profile profile.Tag
	Toggled bool
}

// ApplyFailed is fired when applying a profile stopped with an error
type ApplyFailed struct {
	baseEvent
	Profile profile.Tag
	Err     error
}

// DevicesRefreshed is fired after a status query
type DevicesRefreshed struct {
	baseEvent
	Sinks   []audioshim.Device
	Sources []audioshim.Device
}

// ProfileSaved is fired when a profile was captured and written to disk
type ProfileSaved struct {
	baseEvent
	Profile profile.Tag
	Config  profile.ProfileConfig
}

// Bus provides simple event publish/subscribe
type Bus struct {
	mu          sync.RWMutex
	subscribers []chan Event
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe creates a new event channel for receiving events
func (b *Bus) Subscribe(bufferSize int) chan Event {
	ch := make(chan Event, bufferSize)
	b.mu.Lock()
	b.subscribers = append(b.subscribers, ch)
	b.mu.Unlock()
	return ch
}

// Publish sends an event to all subscribers (non-blocking)
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// Skip slow subscribers so a command never waits on a listener
		}
	}
}
