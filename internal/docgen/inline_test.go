package docgen

import (
	"strings"
	"testing"
)

func TestParseInline_NoMarkup(t *testing.T) {
	plain, ranges := ParseInline("just text")
	if plain != "just text" {
		t.Fatalf("plain = %q", plain)
	}
	if len(ranges) != 0 {
		t.Fatalf("expected no ranges, got %v", ranges)
	}
}

func TestParseInline_Bold(t *testing.T) {
	plain, ranges := ParseInline("a **bold** z")
	if plain != "a bold z" {
		t.Fatalf("plain = %q", plain)
	}
	if len(ranges) != 1 {
		t.Fatalf("ranges = %v", ranges)
	}
	r := ranges[0]
	if r.Kind != FormatBold || r.Start != 2 || r.End != 6 {
		t.Fatalf("range = %+v", r)
	}
	if plain[r.Start:r.End] != "bold" {
		t.Fatalf("range covers %q", plain[r.Start:r.End])
	}
}

func TestParseInline_Italic(t *testing.T) {
	plain, ranges := ParseInline("an *italic* word")
	if plain != "an italic word" {
		t.Fatalf("plain = %q", plain)
	}
	if len(ranges) != 1 || ranges[0].Kind != FormatItalic {
		t.Fatalf("ranges = %v", ranges)
	}
	if plain[ranges[0].Start:ranges[0].End] != "italic" {
		t.Fatalf("range covers %q", plain[ranges[0].Start:ranges[0].End])
	}
}

func TestParseInline_BoldThenItalic(t *testing.T) {
	plain, ranges := ParseInline("**b** and *i*")
	if plain != "b and i" {
		t.Fatalf("plain = %q", plain)
	}
	if len(ranges) != 2 {
		t.Fatalf("ranges = %v", ranges)
	}
	if ranges[0].Kind != FormatBold || plain[ranges[0].Start:ranges[0].End] != "b" {
		t.Fatalf("bold range = %+v", ranges[0])
	}
	if ranges[1].Kind != FormatItalic || plain[ranges[1].Start:ranges[1].End] != "i" {
		t.Fatalf("italic range = %+v", ranges[1])
	}
}

func TestParseInline_ItalicNotAdjacentToBoldStars(t *testing.T) {
	// The stars of a bold match must not be reused as italic delimiters.
	plain, ranges := ParseInline("**only bold**")
	if plain != "only bold" {
		t.Fatalf("plain = %q", plain)
	}
	for _, r := range ranges {
		if r.Kind == FormatItalic {
			t.Fatalf("unexpected italic range %+v", r)
		}
	}
}

func TestParseInline_UnterminatedDelimitersLeftAlone(t *testing.T) {
	plain, ranges := ParseInline("a ** b * c")
	if plain != "a ** b * c" {
		t.Fatalf("plain = %q", plain)
	}
	if len(ranges) != 0 {
		t.Fatalf("ranges = %v", ranges)
	}
}

func TestParseInline_RoundTripAndBounds(t *testing.T) {
	cases := []string{
		"plain",
		"**b**",
		"*i*",
		"x **bold** y *ital* z",
		"**one** **two** *three*",
		"edge **bold**",
		"*i* edge",
		"mixed **{{ph}}** and *{{other}}*",
	}
	for _, raw := range cases {
		plain, ranges := ParseInline(raw)
		stripped := strings.ReplaceAll(strings.ReplaceAll(raw, "**", ""), "*", "")
		if plain != stripped {
			t.Errorf("%q: plain %q != stripped %q", raw, plain, stripped)
		}
		for _, r := range ranges {
			if r.Start < 0 || r.Start >= r.End || r.End > utf16Len(plain) {
				t.Errorf("%q: range out of bounds %+v (plain len %d)", raw, r, utf16Len(plain))
			}
		}
	}
}

func TestParseInline_MultiByteText(t *testing.T) {
	plain, ranges := ParseInline("café **déjà** vu")
	if plain != "café déjà vu" {
		t.Fatalf("plain = %q", plain)
	}
	if len(ranges) != 1 {
		t.Fatalf("ranges = %v", ranges)
	}
	// Positions are UTF-16 units: "café " is 5 units, "déjà" is 4.
	if ranges[0].Start != 5 || ranges[0].End != 9 {
		t.Fatalf("range = %+v", ranges[0])
	}
}
