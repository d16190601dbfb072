package profile

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kc2g-flex-tools/audiotoggle/audioshim"
	"github.com/kc2g-flex-tools/audiotoggle/wpctl"
)

// DefaultSettleDelay is the pause between set-default and set-volume.
// WirePlumber drops volume changes sent straight after a default switch;
// the value was found by trial.
const DefaultSettleDelay = 1000 * time.Millisecond

// Applicator makes a profile's sink and source the active defaults.
//
// Commands already issued are never rolled back. Switching defaults is
// idempotent, so a failure part way through is recovered by applying again.
type Applicator struct {
	Shim        audioshim.Shim
	SettleDelay time.Duration
	Sleep       func(time.Duration)
	Logger      *log.Logger
}

func NewApplicator(shim audioshim.Shim, logger *log.Logger) *Applicator {
	if logger == nil {
		logger = log.Default()
	}
	return &Applicator{
		Shim:        shim,
		SettleDelay: DefaultSettleDelay,
		Sleep:       time.Sleep,
		Logger:      logger,
	}
}

// ApplyResolving resolves both devices against the live status report, switches
// the defaults, waits SettleDelay and sets both volumes on the resolved ids.
// Nothing is issued unless both sides resolve.
func (a *Applicator) ApplyResolving(p ProfileConfig) error {
	status, err := a.Shim.Status()
	if err != nil {
		return fmt.Errorf("wpctl status failed: %w", err)
	}
	sinks, sources := wpctl.ParseStatus(status)

	sink, source := p.Sink(), p.Source()
	sinkID, ok := Resolve(sink.ID, sink.Label, sinks)
	if !ok {
		return &ResolutionError{Role: RoleSink, Descriptor: sink.Label}
	}
	sourceID, ok := Resolve(source.ID, source.Label, sources)
	if !ok {
		return &ResolutionError{Role: RoleSource, Descriptor: source.Label}
	}
	a.logger().Debug("resolved profile", "sink", sinkID, "source", sourceID)

	sinkArg, sourceArg := strconv.Itoa(sinkID), strconv.Itoa(sourceID)
	if err := a.setDefaults(sinkArg, sourceArg); err != nil {
		return err
	}

	a.sleep(a.SettleDelay)

	return a.setVolumes(sinkArg, sink.Volume, sourceArg, source.Volume)
}

// ApplyByNodeName looks up each side by its stored node name, falling back to
// the stored id when no node name is known, switches the defaults and sets the
// volumes on the default sink and source role tokens.
func (a *Applicator) ApplyByNodeName(p ProfileConfig) error {
	lookup := NodeLookup{Shim: a.Shim}

	sinkID, err := a.nodeID(lookup, p.Sink())
	if err != nil {
		return err
	}
	sourceID, err := a.nodeID(lookup, p.Source())
	if err != nil {
		return err
	}

	if err := a.setDefaults(strconv.Itoa(sinkID), strconv.Itoa(sourceID)); err != nil {
		return err
	}
	return a.setVolumes(wpctl.DefaultSink, p.SinkVolume, wpctl.DefaultSource, p.SourceVolume)
}

func (a *Applicator) nodeID(lookup NodeLookup, e Endpoint) (int, error) {
	if e.Node == nil {
		return e.ID, nil
	}
	id, err := lookup.ResolveByNodeName(*e.Node)
	if errors.Is(err, ErrNotFound) {
		return 0, &ResolutionError{Role: e.Role, Descriptor: *e.Node, ByNode: true}
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (a *Applicator) setDefaults(sink, source string) error {
	if err := a.Shim.Run("set-default", sink); err != nil {
		return err
	}
	return a.Shim.Run("set-default", source)
}

func (a *Applicator) setVolumes(sink string, sinkVol float64, source string, sourceVol float64) error {
	if err := a.Shim.Run("set-volume", sink, FormatVolume(sinkVol)); err != nil {
		return err
	}
	return a.Shim.Run("set-volume", source, FormatVolume(sourceVol))
}

func (a *Applicator) logger() *log.Logger {
	if a.Logger == nil {
		return log.Default()
	}
	return a.Logger
}

func (a *Applicator) sleep(d time.Duration) {
	if a.Sleep == nil {
		time.Sleep(d)
		return
	}
	a.Sleep(d)
}

// FormatVolume renders a volume as the shortest plain decimal, e.g. "1" or "0.8"
func FormatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
