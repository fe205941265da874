package docgen

// OpKind enumerates the neutral mutation operations the planner emits. The
// gdocs client translates them into remote requests; nothing in this
// package touches the wire format.
type OpKind string

const (
	OpInsertText           OpKind = "insertText"
	OpUpdateTextStyle      OpKind = "updateTextStyle"
	OpUpdateParagraphStyle OpKind = "updateParagraphStyle"
	OpInsertTable          OpKind = "insertTable"
	OpCreateBullets        OpKind = "createBullets"
	OpUpdateDocumentStyle  OpKind = "updateDocumentStyle"
)

// Bullet presets for createBullets ops.
const (
	BulletDisc     = "BULLET_DISC_CIRCLE_SQUARE"
	BulletCheckbox = "BULLET_CHECKBOX"
	BulletNumbered = "NUMBERED_DECIMAL_ALPHA_ROMAN"
)

// Named paragraph styles for updateParagraphStyle ops.
const (
	ParagraphTitle    = "TITLE"
	ParagraphHeading1 = "HEADING_1"
	ParagraphHeading2 = "HEADING_2"
	ParagraphNormal   = "NORMAL_TEXT"
)

type TextStyle struct {
	Bold       bool
	Italic     bool
	Color      string // hex, e.g. "#1a73e8"; empty means unset
	FontSize   float64
	FontFamily string
}

type ParagraphStyle struct {
	Named       string
	Alignment   string  // START, CENTER, END; empty means unset
	IndentStart float64 // points
}

type Margins struct {
	Top, Bottom, Left, Right float64 // points
}

// Op is one position-indexed mutation. Index anchors inserts; Start/End
// bound style and bullet ranges. All positions are absolute against the
// document state before the batch runs and embed the lengths of every
// earlier op in the same batch, so they are only valid when the batch is
// applied atomically in array order.
type Op struct {
	Kind       OpKind
	Index      int64
	Start, End int64
	Text       string
	Rows, Cols int64
	TextStyle  *TextStyle
	Paragraph  *ParagraphStyle
	Bullet     string
	Margins    *Margins
	FontFamily string // updateDocumentStyle default font
	FontSize   float64
}

// utf16Len returns the length of s in UTF-16 code units, the remote
// document's native coordinate unit. Astral runes count as two.
func utf16Len(s string) int64 {
	var n int64
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// TableFootprint is the index footprint of a freshly inserted, content-free
// R-by-C table: a leading newline, the table marker, one marker per row and
// two units per empty cell (cell marker plus its empty paragraph).
func TableFootprint(rows, cols int64) int64 {
	return 1 + rows*(1+2*cols) + 1
}
