package audioshim

import "fmt"

// Shim is an interface that abstracts the audio daemon's command line tool.
// Every call blocks until the underlying process exits.
type Shim interface {
	// Status returns the hierarchical device report.
	Status() (string, error)
	// StatusNames returns the same report with node names printed in place of labels.
	StatusNames() (string, error)
	// Inspect returns the key/value property dump of a single object.
	Inspect(id int) (string, error)
	// Run issues a command such as set-default or set-volume.
	Run(args ...string) error
}

// Device represents a live audio sink or source as currently reported
type Device struct {
	ID    int
	Label string
}

func (d Device) String() string {
	return fmt.Sprintf("%d: %s", d.ID, d.Label)
}
