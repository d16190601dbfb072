// Toggler owns the persisted profiles and drives the applicator

package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/kc2g-flex-tools/audiotoggle/audioshim"
	"github.com/kc2g-flex-tools/audiotoggle/errutil"
	"github.com/kc2g-flex-tools/audiotoggle/events"
	"github.com/kc2g-flex-tools/audiotoggle/profile"
	"github.com/kc2g-flex-tools/audiotoggle/wpctl"
)

type ConfigStore interface {
	Load() (profile.AppConfig, error)
	Save(profile.AppConfig) error
}

type Toggler struct {
	mu         sync.Mutex
	Config     profile.AppConfig
	Store      ConfigStore
	Shim       audioshim.Shim
	Applicator *profile.Applicator
	EventBus   *events.Bus
	Logger     *log.Logger
	// NodeNames selects the node-name apply strategy
	NodeNames bool

	sinks     []audioshim.Device
	sources   []audioshim.Device
	lastError string
}

func NewToggler(shim audioshim.Shim, store ConfigStore, eventBus *events.Bus, logger *log.Logger) *Toggler {
	if logger == nil {
		logger = log.Default()
	}
	return &Toggler{
		Config:     profile.DefaultAppConfig(),
		Store:      store,
		Shim:       shim,
		Applicator: profile.NewApplicator(shim, logger),
		EventBus:   eventBus,
		Logger:     logger,
	}
}

// LoadConfig replaces the in-memory config with the stored one.
// A broken file falls back to the defaults.
func (t *Toggler) LoadConfig() {
	t.mu.Lock()
	defer t.mu.Unlock()

	cfg, err := t.Store.Load()
	if err != nil {
		t.Logger.Warn("using default config", "err", err)
	}
	t.Config = cfg
	t.lastError = ""
}

// Snapshot returns a copy of the in-memory config
func (t *Toggler) Snapshot() profile.AppConfig {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.Config
}

// SaveConfig writes the in-memory config to disk
func (t *Toggler) SaveConfig() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record(t.Store.Save(t.Config))
}

// RefreshDevices re-reads the live sinks and sources
func (t *Toggler) RefreshDevices() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record(t.refreshDevices())
}

func (t *Toggler) refreshDevices() error {
	text, err := t.Shim.Status()
	if err != nil {
		return err
	}
	t.sinks, t.sources = wpctl.ParseStatus(text)
	t.publish(events.DevicesRefreshed{Sinks: t.sinks, Sources: t.sources})
	return nil
}

// Sinks returns the sinks from the last refresh as "<id>: <label>"
func (t *Toggler) Sinks() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return deviceStrings(t.sinks)
}

// Sources returns the sources from the last refresh as "<id>: <label>"
func (t *Toggler) Sources() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return deviceStrings(t.sources)
}

func deviceStrings(devs []audioshim.Device) []string {
	out := make([]string, 0, len(devs))
	for _, d := range devs {
		out = append(out, d.String())
	}
	return out
}

// Toggle applies the other profile and, if that worked, stores it as current.
// On failure the current profile is left unchanged.
func (t *Toggler) Toggle() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.Config.CurrentProfile.Other()
	if err := t.apply(next); err != nil {
		return t.record(err)
	}

	t.Config.CurrentProfile = next
	errutil.LogError(t.Logger, "saving config", t.Store.Save(t.Config))
	t.publish(events.ProfileApplied{Profile: next, Toggled: true})
	return t.record(nil)
}

// Apply applies a profile without changing the current one
func (t *Toggler) Apply(tag profile.Tag) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.apply(tag); err != nil {
		return t.record(err)
	}
	t.publish(events.ProfileApplied{Profile: tag})
	return t.record(nil)
}

func (t *Toggler) apply(tag profile.Tag) error {
	p := *t.Config.Profile(tag)
	t.Logger.Info("applying profile", "profile", tag, "nodeNames", t.NodeNames)

	var err error
	if t.NodeNames {
		err = t.Applicator.ApplyByNodeName(p)
	} else {
		err = t.Applicator.ApplyResolving(p)
	}
	if err != nil {
		t.publish(events.ApplyFailed{Profile: tag, Err: err})
	}
	return err
}

// SaveProfile stores the live sink and source with the given ids under tag.
// Labels come from the status report; node names are looked up by inspection
// and left empty when that fails.
func (t *Toggler) SaveProfile(tag profile.Tag, sinkID, sourceID int, sinkVolume, sourceVolume float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !tag.Valid() {
		return t.record(fmt.Errorf("unknown profile %q", tag))
	}
	if err := t.refreshDevices(); err != nil {
		return t.record(err)
	}

	sink, ok := profile.Find(sinkID, t.sinks)
	if !ok {
		return t.record(fmt.Errorf("no live sink with id %d", sinkID))
	}
	source, ok := profile.Find(sourceID, t.sources)
	if !ok {
		return t.record(fmt.Errorf("no live source with id %d", sourceID))
	}

	p := profile.ProfileConfig{
		SinkID:         sink.ID,
		SinkLabel:      sink.Label,
		SinkNodeName:   t.nodeName(sink.ID),
		SourceID:       source.ID,
		SourceLabel:    source.Label,
		SourceNodeName: t.nodeName(source.ID),
		SinkVolume:     sinkVolume,
		SourceVolume:   sourceVolume,
	}
	*t.Config.Profile(tag) = p

	if err := t.Store.Save(t.Config); err != nil {
		return t.record(err)
	}
	t.publish(events.ProfileSaved{Profile: tag, Config: p})
	return t.record(nil)
}

// NodeName returns the node name of a live object, or "" if it has none
func (t *Toggler) NodeName(id int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.nodeName(id)
}

func (t *Toggler) nodeName(id int) string {
	name, err := profile.NodeLookup{Shim: t.Shim}.InspectNodeName(id)
	if err != nil {
		if !errors.Is(err, profile.ErrNotFound) {
			t.Logger.Debug("inspect failed", "id", id, "err", err)
		}
		return ""
	}
	return name
}

// LastError returns the message of the last failed operation, "" after a success
func (t *Toggler) LastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastError
}

// Fail records an error raised outside the Toggler
func (t *Toggler) Fail(err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.record(err)
}

func (t *Toggler) record(err error) error {
	if err != nil {
		t.lastError = err.Error()
		t.Logger.Error("operation failed", "err", err)
		return err
	}
	t.lastError = ""
	return nil
}

func (t *Toggler) publish(ev events.Event) {
	if t.EventBus != nil {
		t.EventBus.Publish(ev)
	}
}
