package main

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/kc2g-flex-tools/audiotoggle/audioshim/shimtest"
	"github.com/kc2g-flex-tools/audiotoggle/events"
	"github.com/kc2g-flex-tools/audiotoggle/profile"
)

const testStatus = `Audio
 ├─ Sinks:
 │  *   50. Speakers                         [vol: 0.40]
 │      52. USB Headset Analog Stereo        [vol: 1.00]
 │
 ├─ Sources:
 │  *   51. Built-in Mic                     [vol: 1.00]
 │      53. USB Headset Mono                 [vol: 0.80]
 │
 └─ Streams:
`

type memStore struct {
	cfg     profile.AppConfig
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load() (profile.AppConfig, error) {
	if m.loadErr != nil {
		return profile.DefaultAppConfig(), m.loadErr
	}
	return m.cfg, nil
}

func (m *memStore) Save(cfg profile.AppConfig) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.cfg = cfg
	m.saves++
	return nil
}

func testConfig() profile.AppConfig {
	cfg := profile.DefaultAppConfig()
	cfg.ProfileA = profile.ProfileConfig{
		SinkID: 50, SinkLabel: "Speakers",
		SourceID: 51, SourceLabel: "Built-in Mic",
		SinkVolume: 0.4, SourceVolume: 1,
	}
	cfg.ProfileB = profile.ProfileConfig{
		SinkID: 90, SinkLabel: "USB Headset Analog Stereo",
		SourceID: 91, SourceLabel: "usb headset",
		SinkVolume: 1, SourceVolume: 0.8,
	}
	return cfg
}

func newTestToggler(t *testing.T, shim *shimtest.Shim, store *memStore) (*Toggler, chan events.Event) {
	t.Helper()
	bus := events.NewBus()
	ch := bus.Subscribe(10)
	tg := NewToggler(shim, store, bus, log.New(io.Discard))
	tg.Applicator.Sleep = shim.Sleep
	tg.LoadConfig()
	return tg, ch
}

func TestToggle(t *testing.T) {
	shim := &shimtest.Shim{StatusText: testStatus}
	store := &memStore{cfg: testConfig()}
	tg, ch := newTestToggler(t, shim, store)

	if err := tg.Toggle(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{
		"set-default 52",
		"set-default 53",
		"set-volume 52 1",
		"set-volume 53 0.8",
	}
	if got := shim.Commands(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected commands %v, got %v", expected, got)
	}
	if tg.Snapshot().CurrentProfile != profile.B {
		t.Errorf("Expected current profile B, got %q", tg.Snapshot().CurrentProfile)
	}
	if store.saves != 1 || store.cfg.CurrentProfile != profile.B {
		t.Errorf("Expected B to be persisted once, got %d saves of %q", store.saves, store.cfg.CurrentProfile)
	}
	if tg.LastError() != "" {
		t.Errorf("Expected no error, got %q", tg.LastError())
	}

	select {
	case ev := <-ch:
		applied, ok := ev.(events.ProfileApplied)
		if !ok || applied.Profile != profile.B || !applied.Toggled {
			t.Errorf("Unexpected event %#v", ev)
		}
	default:
		t.Error("Expected a ProfileApplied event")
	}

	// and back again
	if err := tg.Toggle(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.cfg.CurrentProfile != profile.A {
		t.Errorf("Expected A after second toggle, got %q", store.cfg.CurrentProfile)
	}
}

func TestToggleFailureKeepsProfile(t *testing.T) {
	shim := &shimtest.Shim{StatusText: testStatus}
	cfg := testConfig()
	cfg.ProfileB.SourceLabel = "Studio Condenser"
	store := &memStore{cfg: cfg}
	tg, ch := newTestToggler(t, shim, store)

	err := tg.Toggle()
	var rerr *profile.ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("Expected resolution error, got %v", err)
	}
	if tg.Snapshot().CurrentProfile != profile.A {
		t.Errorf("Expected current profile to stay A, got %q", tg.Snapshot().CurrentProfile)
	}
	if store.saves != 0 {
		t.Errorf("Expected nothing persisted, got %d saves", store.saves)
	}
	if !strings.Contains(tg.LastError(), "Studio Condenser") {
		t.Errorf("Expected last error to name the source, got %q", tg.LastError())
	}
	if cmds := shim.Commands(); len(cmds) != 0 {
		t.Errorf("Expected no commands, got %v", cmds)
	}

	ev := <-ch
	if failed, ok := ev.(events.ApplyFailed); !ok || failed.Profile != profile.B {
		t.Errorf("Expected ApplyFailed for B, got %#v", ev)
	}
}

func TestToggleSaveFailureStillApplies(t *testing.T) {
	shim := &shimtest.Shim{StatusText: testStatus}
	store := &memStore{cfg: testConfig()}
	tg, _ := newTestToggler(t, shim, store)
	store.saveErr = errors.New("read-only file system")

	if err := tg.Toggle(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tg.Snapshot().CurrentProfile != profile.B {
		t.Errorf("Expected B in memory, got %q", tg.Snapshot().CurrentProfile)
	}
}

func TestToggleByNodeName(t *testing.T) {
	shim := &shimtest.Shim{StatusNamesText: ` ├─ Sinks:
 │      52. alsa_output.usb-headset [vol: 1.00]
 ├─ Sources:
 │      53. alsa_input.usb-headset.mono [vol: 0.80]
`}
	cfg := testConfig()
	cfg.ProfileB.SinkNodeName = "alsa_output.usb-headset"
	cfg.ProfileB.SourceNodeName = "alsa_input.usb-headset.mono"
	store := &memStore{cfg: cfg}
	tg, _ := newTestToggler(t, shim, store)
	tg.NodeNames = true

	if err := tg.Toggle(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := []string{
		"set-default 52",
		"set-default 53",
		"set-volume @DEFAULT_AUDIO_SINK@ 1",
		"set-volume @DEFAULT_AUDIO_SOURCE@ 0.8",
	}
	if got := shim.Commands(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected commands %v, got %v", expected, got)
	}
}

func TestApplyKeepsCurrentProfile(t *testing.T) {
	shim := &shimtest.Shim{StatusText: testStatus}
	store := &memStore{cfg: testConfig()}
	tg, _ := newTestToggler(t, shim, store)

	if err := tg.Apply(profile.B); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if tg.Snapshot().CurrentProfile != profile.A {
		t.Errorf("Expected A, got %q", tg.Snapshot().CurrentProfile)
	}
	if store.saves != 0 {
		t.Errorf("Expected nothing persisted, got %d saves", store.saves)
	}
}

func TestLoadConfigFallsBack(t *testing.T) {
	shim := &shimtest.Shim{}
	store := &memStore{loadErr: errors.New("toml: expected newline")}
	tg, _ := newTestToggler(t, shim, store)

	if !reflect.DeepEqual(tg.Snapshot(), profile.DefaultAppConfig()) {
		t.Errorf("Expected defaults, got %+v", tg.Snapshot())
	}
}

func TestRefreshDevices(t *testing.T) {
	shim := &shimtest.Shim{StatusText: testStatus}
	tg, ch := newTestToggler(t, shim, &memStore{cfg: testConfig()})

	if err := tg.RefreshDevices(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expectedSinks := []string{"50: Speakers", "52: USB Headset Analog Stereo"}
	expectedSources := []string{"51: Built-in Mic", "53: USB Headset Mono"}
	if got := tg.Sinks(); !reflect.DeepEqual(got, expectedSinks) {
		t.Errorf("Expected %v, got %v", expectedSinks, got)
	}
	if got := tg.Sources(); !reflect.DeepEqual(got, expectedSources) {
		t.Errorf("Expected %v, got %v", expectedSources, got)
	}
	if _, ok := (<-ch).(events.DevicesRefreshed); !ok {
		t.Error("Expected DevicesRefreshed event")
	}
}

func TestSaveProfile(t *testing.T) {
	shim := &shimtest.Shim{
		StatusText: testStatus,
		InspectText: map[int]string{
			52: "id 52, type PipeWire:Interface:Node\n  * node.name = \"alsa_output.usb-headset\"\n",
		},
	}
	store := &memStore{cfg: testConfig()}
	tg, _ := newTestToggler(t, shim, store)

	if err := tg.SaveProfile(profile.B, 52, 53, 0.7, 0.9); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := profile.ProfileConfig{
		SinkID:       52,
		SinkLabel:    "USB Headset Analog Stereo",
		SinkNodeName: "alsa_output.usb-headset",
		SourceID:     53,
		SourceLabel:  "USB Headset Mono",
		SinkVolume:   0.7,
		SourceVolume: 0.9,
	}
	if store.cfg.ProfileB != expected {
		t.Errorf("Expected %+v, got %+v", expected, store.cfg.ProfileB)
	}
	if store.cfg.ProfileA != testConfig().ProfileA {
		t.Errorf("Expected profile A untouched, got %+v", store.cfg.ProfileA)
	}
}

func TestSaveProfileUnknownDevice(t *testing.T) {
	shim := &shimtest.Shim{StatusText: testStatus}
	store := &memStore{cfg: testConfig()}
	tg, _ := newTestToggler(t, shim, store)

	if err := tg.SaveProfile(profile.A, 52, 99, 1, 1); err == nil {
		t.Fatal("Expected an error for an unknown source")
	}
	if store.saves != 0 {
		t.Errorf("Expected nothing persisted, got %d saves", store.saves)
	}
}

func TestNodeName(t *testing.T) {
	shim := &shimtest.Shim{InspectText: map[int]string{
		51: "  * node.name = \"alsa_input.pci\"\n",
	}}
	tg, _ := newTestToggler(t, shim, &memStore{cfg: testConfig()})

	if got := tg.NodeName(51); got != "alsa_input.pci" {
		t.Errorf("Expected alsa_input.pci, got %q", got)
	}
	if got := tg.NodeName(70); got != "" {
		t.Errorf("Expected empty node name, got %q", got)
	}

	shim.InspectErr = errors.New("exit status 1")
	if got := tg.NodeName(51); got != "" {
		t.Errorf("Expected empty node name on failure, got %q", got)
	}
}

func TestRunList(t *testing.T) {
	shim := &shimtest.Shim{StatusText: testStatus}
	tg, _ := newTestToggler(t, shim, &memStore{cfg: testConfig()})

	cfg := defaultConfig()
	cfg.Action = "list"
	cfg.Format = "yaml"

	var out bytes.Buffer
	if err := run(tg, cfg, &out); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	var report deviceReport
	if err := yaml.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("Output is not yaml: %v\n%s", err, out.String())
	}
	expected := deviceReport{
		Sinks:   []string{"50: Speakers", "52: USB Headset Analog Stereo"},
		Sources: []string{"51: Built-in Mic", "53: USB Headset Mono"},
	}
	if !reflect.DeepEqual(report, expected) {
		t.Errorf("Expected %+v, got %+v", expected, report)
	}
}

func TestRunUnknownAction(t *testing.T) {
	tg, _ := newTestToggler(t, &shimtest.Shim{}, &memStore{cfg: testConfig()})

	cfg := defaultConfig()
	cfg.Action = "explode"
	if err := run(tg, cfg, io.Discard); err == nil {
		t.Fatal("Expected an error")
	}
	if !strings.Contains(tg.LastError(), "explode") {
		t.Errorf("Expected last error to name the action, got %q", tg.LastError())
	}
}
