package profile

import (
	"strings"

	"github.com/kc2g-flex-tools/audiotoggle/audioshim"
)

// Resolve finds the live id a saved device now refers to. The saved id is
// returned if still present, otherwise the first exact label match, otherwise
// the first label containing savedLabel case-insensitively. A stale id is
// never returned.
func Resolve(savedID int, savedLabel string, live []audioshim.Device) (int, bool) {
	for _, d := range live {
		if d.ID == savedID {
			return savedID, true
		}
	}

	for _, d := range live {
		if d.Label == savedLabel {
			return d.ID, true
		}
	}

	needle := strings.ToLower(savedLabel)
	for _, d := range live {
		if strings.Contains(strings.ToLower(d.Label), needle) {
			return d.ID, true
		}
	}

	return 0, false
}

// Find returns the live device with the given id
func Find(id int, live []audioshim.Device) (audioshim.Device, bool) {
	for _, d := range live {
		if d.ID == id {
			return d, true
		}
	}
	return audioshim.Device{}, false
}
