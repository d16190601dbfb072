package wpctl

import "strings"

// FindNodeID scans `wpctl status --name` output for the first sink or source
// row whose node name equals name.
func FindNodeID(text, name string) (int, bool) {
	found, match := 0, false
	scanRows(text, func(_ section, id int, rest string) bool {
		if rowNodeName(rest) == name {
			found, match = id, true
			return false
		}
		return true
	})
	return found, match
}

// rowNodeName returns the leading token of a --name mode row, e.g.
// "alsa_input.usb-0d8c_C-Media_USB_Audio_Device-00.mono-fallback [vol: 1.00]".
func rowNodeName(rest string) string {
	if idx := strings.Index(rest, volumeAnnotation); idx >= 0 {
		rest = rest[:idx]
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ParseNodeName returns the node.name property from `wpctl inspect` output.
// Both quoted and bare values are accepted.
func ParseNodeName(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		// wpctl flags well-known keys with a leading "*"
		t := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "*"))
		if !strings.HasPrefix(t, "node.name") {
			continue
		}
		_, value, ok := strings.Cut(t, "=")
		if !ok {
			continue
		}
		value = unquote(strings.TrimSpace(value))
		if value != "" {
			return value, true
		}
	}
	return "", false
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return strings.Trim(s, `"`)
}
