package wpctl

import (
	"strconv"
	"strings"

	"github.com/kc2g-flex-tools/audiotoggle/audioshim"
)

type section int

const (
	sectionNone section = iota
	sectionSinks
	sectionSources
)

// Glyphs that open a branch of the status tree, e.g. " ├─ Sinks:"
var branchPrefixes = []string{"├─ ", "└─ "}

const volumeAnnotation = " [vol:"

// ParseStatus extracts the sinks and sources from `wpctl status` output,
// in report order. Lines that can't be interpreted are skipped.
func ParseStatus(text string) (sinks, sources []audioshim.Device) {
	scanRows(text, func(sec section, id int, rest string) bool {
		label := rest
		if idx := strings.LastIndex(rest, volumeAnnotation); idx >= 0 {
			label = strings.TrimSpace(rest[:idx])
		}
		dev := audioshim.Device{ID: id, Label: label}
		switch sec {
		case sectionSinks:
			sinks = append(sinks, dev)
		case sectionSources:
			sources = append(sources, dev)
		}
		return true
	})
	return sinks, sources
}

// scanRows walks the device rows found under Sinks: and Sources: headers.
// Any other branch marker closes the current section. fn receives the row's
// id and the trimmed text after the first dot; returning false stops the scan.
func scanRows(text string, fn func(sec section, id int, rest string) bool) {
	sec := sectionNone
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if branch, ok := cutBranch(trimmed); ok {
			switch {
			case strings.HasPrefix(branch, "Sinks:"):
				sec = sectionSinks
			case strings.HasPrefix(branch, "Sources:"):
				sec = sectionSources
			default:
				sec = sectionNone
			}
			continue
		}
		if sec == sectionNone {
			continue
		}

		id, rest, ok := splitRow(trimmed)
		if !ok {
			continue
		}
		if !fn(sec, id, rest) {
			return
		}
	}
}

func cutBranch(s string) (string, bool) {
	for _, p := range branchPrefixes {
		if rest, ok := strings.CutPrefix(s, p); ok {
			return rest, true
		}
	}
	return "", false
}

// splitRow turns "│  *   50. Built-in Audio [vol: 0.40]" into 50 and
// "Built-in Audio [vol: 0.40]".
func splitRow(line string) (int, string, bool) {
	row := strings.TrimSpace(strings.ReplaceAll(line, "*", ""))
	row = strings.TrimSpace(strings.TrimLeft(row, "│"))

	head, rest, ok := strings.Cut(row, ".")
	if !ok {
		return 0, "", false
	}
	id, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, "", false
	}
	return id, strings.TrimSpace(rest), true
}
