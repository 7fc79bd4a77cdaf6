package settings

import "strings"

// UnavailableMarker prefixes settings lines whose key the active engine
// version does not recognize.
const UnavailableMarker = "#(unavailable)"

// Reconcile adapts settings text to the keys found in defaults.
//
// Lines without '=' are kept as they are. Every other line has a leading
// marker stripped, and the marker is put back only when the key before '='
// is not one of the defaults' keys. Line order and content are otherwise
// preserved, so reconciling twice gives the same text.
func Reconcile(text, defaults string) string {
	known := Keys(defaults)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "=") {
			continue
		}
		line = strings.TrimPrefix(line, UnavailableMarker)
		if known[keyOf(line)] {
			lines[i] = line
		} else {
			lines[i] = UnavailableMarker + line
		}
	}
	return strings.Join(lines, "\n")
}

// Keys returns the keys of the non-empty lines of text that contain '='.
func Keys(text string) map[string]bool {
	keys := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, "=") {
			continue
		}
		keys[keyOf(line)] = true
	}
	return keys
}

func keyOf(line string) string {
	key, _, _ := strings.Cut(line, "=")
	return strings.TrimSpace(key)
}
