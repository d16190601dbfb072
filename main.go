package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vimeo/dials"
	"github.com/vimeo/dials/sources/env"
	"github.com/vimeo/dials/sources/flag"
	"gopkg.in/yaml.v3"

	"github.com/kc2g-flex-tools/audiotoggle/errutil"
	"github.com/kc2g-flex-tools/audiotoggle/events"
	"github.com/kc2g-flex-tools/audiotoggle/persistence"
	"github.com/kc2g-flex-tools/audiotoggle/profile"
	"github.com/kc2g-flex-tools/audiotoggle/wpctl"
)

type Config struct {
	Action       string        `dialsdesc:"One of toggle, apply, list, show, save, node-name"`
	Profile      string        `dialsdesc:"Profile (A or B) for apply and save"`
	NodeNames    bool          `dialsdesc:"Apply profiles by stored node name" dialsflag:"node-names"`
	SettleDelay  time.Duration `dialsdesc:"Pause between switching defaults and setting volumes" dialsflag:"settle-delay"`
	LogLevel     string        `dialsdesc:"Log level (debug, info, warn, error)" dialsflag:"log-level"`
	Format       string        `dialsdesc:"Output format for list and show (text or yaml)"`
	ConfigFile   string        `dialsdesc:"Profile file (default in the XDG config dir)" dialsflag:"config-file"`
	SinkID       int           `dialsdesc:"Sink id for save" dialsflag:"sink-id"`
	SourceID     int           `dialsdesc:"Source id for save" dialsflag:"source-id"`
	SinkVolume   float64       `dialsdesc:"Sink volume for save" dialsflag:"sink-volume"`
	SourceVolume float64       `dialsdesc:"Source volume for save" dialsflag:"source-volume"`
	Device       int           `dialsdesc:"Object id for node-name"`
}

var config *Config

func defaultConfig() *Config {
	return &Config{
		Action:       "toggle",
		Profile:      string(profile.A),
		SettleDelay:  profile.DefaultSettleDelay,
		LogLevel:     "info",
		Format:       "text",
		SinkVolume:   1.0,
		SourceVolume: 1.0,
	}
}

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	config = defaultConfig()
	flagSrc, err := flag.NewCmdLineSet(flag.DefaultFlagNameConfig(), config)
	if err != nil {
		panic(err)
	}
	d, err := dials.Config(mainCtx, config, &env.Source{}, flagSrc)
	if err != nil {
		panic(err)
	}
	config = d.View()

	logger, err := newLogger(config.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	store, err := persistence.NewConfigStore(config.ConfigFile)
	if err != nil {
		errutil.FatalError(logger, "config store", err)
	}

	eventBus := events.NewBus()
	go logEvents(logger, eventBus.Subscribe(10))

	t := NewToggler(wpctl.NewClient(logger), store, eventBus, logger)
	t.NodeNames = config.NodeNames
	t.Applicator.SettleDelay = config.SettleDelay
	t.LoadConfig()

	if err := run(t, config, os.Stdout); err != nil {
		os.Exit(1)
	}
}

// run performs the configured action. Errors are already logged by the Toggler.
func run(t *Toggler, cfg *Config, out io.Writer) error {
	tag := profile.Tag(cfg.Profile)

	switch cfg.Action {
	case "toggle":
		if err := t.Toggle(); err != nil {
			return err
		}
		fmt.Fprintf(out, "profile %s\n", t.Snapshot().CurrentProfile)
		return nil
	case "apply":
		if !tag.Valid() {
			return t.Fail(fmt.Errorf("unknown profile %q", cfg.Profile))
		}
		return t.Apply(tag)
	case "list":
		if err := t.RefreshDevices(); err != nil {
			return err
		}
		return printDevices(out, cfg.Format, t.Sinks(), t.Sources())
	case "show":
		return printConfig(out, cfg.Format, t.Snapshot())
	case "save":
		return t.SaveProfile(tag, cfg.SinkID, cfg.SourceID, cfg.SinkVolume, cfg.SourceVolume)
	case "node-name":
		name := t.NodeName(cfg.Device)
		if name == "" {
			return t.Fail(fmt.Errorf("no node name for %d", cfg.Device))
		}
		fmt.Fprintln(out, name)
		return nil
	default:
		return t.Fail(fmt.Errorf("unknown action %q", cfg.Action))
	}
}

type deviceReport struct {
	Sinks   []string `yaml:"sinks"`
	Sources []string `yaml:"sources"`
}

func writeYAML(out io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func printDevices(out io.Writer, format string, sinks, sources []string) error {
	if format == "yaml" {
		return writeYAML(out, deviceReport{Sinks: sinks, Sources: sources})
	}
	fmt.Fprintln(out, "Sinks:")
	for _, s := range sinks {
		fmt.Fprintf(out, "  %s\n", s)
	}
	fmt.Fprintln(out, "Sources:")
	for _, s := range sources {
		fmt.Fprintf(out, "  %s\n", s)
	}
	return nil
}

func printConfig(out io.Writer, format string, cfg profile.AppConfig) error {
	if format == "yaml" {
		return writeYAML(out, cfg)
	}
	fmt.Fprintf(out, "current: %s\n", cfg.CurrentProfile)
	for _, tag := range []profile.Tag{profile.A, profile.B} {
		p := cfg.Profile(tag)
		fmt.Fprintf(out, "%s: sink %d %q (%s) vol %s, source %d %q (%s) vol %s\n", tag,
			p.SinkID, p.SinkLabel, p.SinkNodeName, profile.FormatVolume(p.SinkVolume),
			p.SourceID, p.SourceLabel, p.SourceNodeName, profile.FormatVolume(p.SourceVolume))
	}
	return nil
}

func logEvents(logger *log.Logger, ch chan events.Event) {
	for ev := range ch {
		switch e := ev.(type) {
		case events.ProfileApplied:
			logger.Info("profile applied", "profile", e.Profile, "toggled", e.Toggled)
		case events.ProfileSaved:
			logger.Info("profile saved", "profile", e.Profile, "sink", e.Config.SinkLabel, "source", e.Config.SourceLabel)
		case events.DevicesRefreshed:
			logger.Debug("devices refreshed", "sinks", len(e.Sinks), "sources", len(e.Sources))
		case events.ApplyFailed:
			logger.Debug("apply failed", "profile", e.Profile, "err", e.Err)
		}
	}
}
