package layout

// moreMarker is appended when a text block is cut at the platform ceiling.
const moreMarker = " […more]"

// TruncateBody bounds a text block to MaxTextBlockRunes, appending an
// explicit continuation marker when content was cut.
func TruncateBody(s string) string {
	return truncateRunes(s, MaxTextBlockRunes, moreMarker)
}

// TruncateLabel bounds a control label to MaxControlLabelRunes. Labels are
// cut silently; a marker would waste label space.
func TruncateLabel(s string) string {
	return truncateRunes(s, MaxControlLabelRunes, "")
}

func truncateRunes(s string, limit int, marker string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	cut := limit - len([]rune(marker))
	if cut < 0 {
		cut = 0
	}
	return string(runes[:cut]) + marker
}
