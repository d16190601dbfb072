package profile

import (
	"fmt"

	"github.com/kc2g-flex-tools/audiotoggle/audioshim"
	"github.com/kc2g-flex-tools/audiotoggle/wpctl"
)

// NodeLookup maps between live ids and stable node names
type NodeLookup struct {
	Shim audioshim.Shim
}

// ResolveByNodeName returns the live id of the sink or source with the given
// node name. It returns ErrNotFound if the status report has no such row.
func (l NodeLookup) ResolveByNodeName(name string) (int, error) {
	text, err := l.Shim.StatusNames()
	if err != nil {
		return 0, fmt.Errorf("wpctl status --name: %w", err)
	}
	id, ok := wpctl.FindNodeID(text, name)
	if !ok {
		return 0, fmt.Errorf("node %q: %w", name, ErrNotFound)
	}
	return id, nil
}

// InspectNodeName returns the node.name property of a live object.
// It returns ErrNotFound if the property is missing or empty.
func (l NodeLookup) InspectNodeName(id int) (string, error) {
	text, err := l.Shim.Inspect(id)
	if err != nil {
		return "", fmt.Errorf("wpctl inspect %d: %w", id, err)
	}
	name, ok := wpctl.ParseNodeName(text)
	if !ok {
		return "", fmt.Errorf("node.name of %d: %w", id, ErrNotFound)
	}
	return name, nil
}
