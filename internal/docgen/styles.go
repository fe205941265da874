package docgen

import "strings"

// StyleConfig carries the brand styling constants for generated documents.
// It is built once at startup and treated as read-only for every build.
type StyleConfig struct {
	BrandColor  string
	AccentColor string
	MutedColor  string
	AlertColor  string
	OKColor     string

	FontFamily    string
	TitleSize     float64
	HeaderSize    float64
	SubheaderSize float64
	BodySize      float64

	Margins Margins
}

func DefaultStyles() StyleConfig {
	return StyleConfig{
		BrandColor:  "#1a73e8",
		AccentColor: "#188038",
		MutedColor:  "#9aa0a6",
		AlertColor:  "#d93025",
		OKColor:     "#188038",

		FontFamily:    "Arial",
		TitleSize:     20,
		HeaderSize:    15,
		SubheaderSize: 12,
		BodySize:      11,

		Margins: Margins{Top: 54, Bottom: 54, Left: 54, Right: 54},
	}
}

// BrandedStyle maps a "*-branded" style tag from a section to a fixed
// color/weight text style. Unknown tags return nil.
func (c StyleConfig) BrandedStyle(tag string) *TextStyle {
	if !strings.HasSuffix(tag, "-branded") {
		return nil
	}
	switch strings.TrimSuffix(tag, "-branded") {
	case "title":
		return &TextStyle{Bold: true, Color: c.BrandColor, FontSize: c.TitleSize}
	case "header":
		return &TextStyle{Bold: true, Color: c.BrandColor, FontSize: c.HeaderSize}
	case "subheader":
		return &TextStyle{Bold: true, Color: c.AccentColor, FontSize: c.SubheaderSize}
	case "accent":
		return &TextStyle{Bold: true, Color: c.AccentColor}
	default:
		return nil
	}
}

// CalloutStyle maps a callout's semantic style key to a text style. Unknown
// keys return nil and the callout renders as a plain paragraph.
func (c StyleConfig) CalloutStyle(key string) *TextStyle {
	switch key {
	case "warning":
		return &TextStyle{Bold: true, Color: c.AlertColor}
	case "info":
		return &TextStyle{Italic: true}
	case "success":
		return &TextStyle{Bold: true, Color: c.OKColor}
	default:
		return nil
	}
}

// GlobalStyleOps returns the document-wide style pass applied after the
// content batch: page margins plus the default font over the body range.
// Only the font fields are touched, so per-section bold/color survive.
func GlobalStyleOps(c StyleConfig, end int64) []Op {
	ops := []Op{{
		Kind:    OpUpdateDocumentStyle,
		Margins: &Margins{Top: c.Margins.Top, Bottom: c.Margins.Bottom, Left: c.Margins.Left, Right: c.Margins.Right},
	}}
	if end > 1 {
		ops = append(ops, Op{
			Kind:      OpUpdateTextStyle,
			Start:     1,
			End:       end,
			TextStyle: &TextStyle{FontFamily: c.FontFamily},
		})
	}
	return ops
}
