package profile

import (
	"errors"
	"fmt"
)

// Role is the side of a profile an error or endpoint refers to
type Role string

const (
	RoleSink   Role = "sink"
	RoleSource Role = "source"
)

// ErrNotFound is returned by node lookups when wpctl answered but nothing matched
var ErrNotFound = errors.New("not found")

// ResolutionError reports a saved device that matches nothing live.
// Descriptor is the saved label, or the node name when ByNode is set.
type ResolutionError struct {
	Role       Role
	Descriptor string
	ByNode     bool
}

func (e *ResolutionError) Error() string {
	if e.ByNode {
		return fmt.Sprintf("%s node not found: %s", e.Role, e.Descriptor)
	}
	return fmt.Sprintf("could not resolve %s '%s'", e.Role, e.Descriptor)
}

func (e *ResolutionError) Is(target error) bool {
	return target == ErrNotFound
}
