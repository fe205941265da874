package docgen

import (
	"regexp"
	"sort"
)

type FormatKind string

const (
	FormatBold   FormatKind = "bold"
	FormatItalic FormatKind = "italic"
)

// FormatRange marks a styled run inside a span's plain text. Start and End
// are in UTF-16 code units relative to that plain text; the planner maps
// them to document-absolute positions by adding the span's starting cursor.
type FormatRange struct {
	Start int64
	End   int64
	Kind  FormatKind
}

var boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)

// ParseInline extracts **bold** and *italic* runs from raw and returns the
// delimiter-stripped plain text plus the recorded runs. Bold is matched
// first on the original string; italic matching then skips every character
// a bold match consumed, and a lone * adjacent to another * never opens or
// closes an italic run. Overlapping bold and italic over the same
// characters is not supported.
func ParseInline(raw string) (string, []FormatRange) {
	type delim struct{ pos, width int }
	type span struct {
		start, end int // content bounds, byte offsets into raw
		kind       FormatKind
	}

	consumed := make([]bool, len(raw))
	var delims []delim
	var spans []span

	for _, m := range boldRe.FindAllStringSubmatchIndex(raw, -1) {
		spans = append(spans, span{m[2], m[3], FormatBold})
		delims = append(delims, delim{m[0], 2}, delim{m[3], 2})
		for i := m[0]; i < m[1]; i++ {
			consumed[i] = true
		}
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '*' || consumed[i] {
			continue
		}
		if i+1 < len(raw) && raw[i+1] == '*' {
			continue
		}
		if i > 0 && raw[i-1] == '*' {
			continue
		}
		j := findClosingStar(raw, consumed, i)
		if j < 0 {
			continue
		}
		spans = append(spans, span{i + 1, j, FormatItalic})
		delims = append(delims, delim{i, 1}, delim{j, 1})
		consumed[i] = true
		consumed[j] = true
		i = j
	}

	if len(delims) == 0 {
		return raw, nil
	}

	sort.Slice(delims, func(a, b int) bool { return delims[a].pos < delims[b].pos })

	strip := make([]bool, len(raw))
	for _, d := range delims {
		for i := d.pos; i < d.pos+d.width && i < len(raw); i++ {
			strip[i] = true
		}
	}
	plainBytes := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if !strip[i] {
			plainBytes = append(plainBytes, raw[i])
		}
	}
	plain := string(plainBytes)

	// removedBefore(p) = markup bytes stripped strictly before offset p.
	removedBefore := func(p int) int {
		total := 0
		for _, d := range delims {
			if d.pos >= p {
				break
			}
			total += d.width
		}
		return total
	}

	ranges := make([]FormatRange, 0, len(spans))
	for _, s := range spans {
		startB := s.start - removedBefore(s.start)
		endB := s.end - removedBefore(s.end)
		if startB >= endB {
			continue
		}
		ranges = append(ranges, FormatRange{
			Start: utf16Len(plain[:startB]),
			End:   utf16Len(plain[:endB]),
			Kind:  s.kind,
		})
	}
	sort.Slice(ranges, func(a, b int) bool {
		if ranges[a].Start != ranges[b].Start {
			return ranges[a].Start < ranges[b].Start
		}
		return ranges[a].End < ranges[b].End
	})
	return plain, ranges
}

// findClosingStar returns the byte offset of the italic terminator for an
// opener at open, or -1. The terminator must leave non-empty content and
// must not touch another * on either side.
func findClosingStar(raw string, consumed []bool, open int) int {
	for j := open + 2; j < len(raw); j++ {
		if raw[j] != '*' || consumed[j] {
			continue
		}
		if raw[j-1] == '*' {
			continue
		}
		if j+1 < len(raw) && raw[j+1] == '*' {
			continue
		}
		return j
	}
	return -1
}
