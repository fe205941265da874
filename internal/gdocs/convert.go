package gdocs

import (
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/docs/v1"

	"github.com/draftwell/grantdocs/internal/docgen"
)

// toRequest translates one neutral op into a Docs API request. Field masks
// are built from the fields the op actually sets, so applying a style never
// clobbers styling it did not ask for.
func toRequest(op docgen.Op) (*docs.Request, error) {
	switch op.Kind {
	case docgen.OpInsertText:
		return &docs.Request{InsertText: &docs.InsertTextRequest{
			Text:     op.Text,
			Location: &docs.Location{Index: op.Index},
		}}, nil
	case docgen.OpUpdateTextStyle:
		style, fields, err := textStyle(op.TextStyle)
		if err != nil {
			return nil, err
		}
		return &docs.Request{UpdateTextStyle: &docs.UpdateTextStyleRequest{
			Range:     opRange(op),
			TextStyle: style,
			Fields:    fields,
		}}, nil
	case docgen.OpUpdateParagraphStyle:
		style, fields := paragraphStyle(op.Paragraph)
		return &docs.Request{UpdateParagraphStyle: &docs.UpdateParagraphStyleRequest{
			Range:          opRange(op),
			ParagraphStyle: style,
			Fields:         fields,
		}}, nil
	case docgen.OpInsertTable:
		return &docs.Request{InsertTable: &docs.InsertTableRequest{
			Rows:     op.Rows,
			Columns:  op.Cols,
			Location: &docs.Location{Index: op.Index},
		}}, nil
	case docgen.OpCreateBullets:
		return &docs.Request{CreateParagraphBullets: &docs.CreateParagraphBulletsRequest{
			Range:        opRange(op),
			BulletPreset: op.Bullet,
		}}, nil
	case docgen.OpUpdateDocumentStyle:
		if op.Margins == nil {
			return nil, fmt.Errorf("updateDocumentStyle op without margins")
		}
		return &docs.Request{UpdateDocumentStyle: &docs.UpdateDocumentStyleRequest{
			DocumentStyle: &docs.DocumentStyle{
				MarginTop:    pt(op.Margins.Top),
				MarginBottom: pt(op.Margins.Bottom),
				MarginLeft:   pt(op.Margins.Left),
				MarginRight:  pt(op.Margins.Right),
			},
			Fields: "marginTop,marginBottom,marginLeft,marginRight",
		}}, nil
	default:
		return nil, fmt.Errorf("unknown op kind %q", op.Kind)
	}
}

func opRange(op docgen.Op) *docs.Range {
	return &docs.Range{StartIndex: op.Start, EndIndex: op.End}
}

func pt(v float64) *docs.Dimension {
	return &docs.Dimension{Magnitude: v, Unit: "PT"}
}

func textStyle(ts *docgen.TextStyle) (*docs.TextStyle, string, error) {
	if ts == nil {
		return nil, "", fmt.Errorf("updateTextStyle op without style")
	}
	style := &docs.TextStyle{}
	var fields []string
	if ts.Bold {
		style.Bold = true
		fields = append(fields, "bold")
	}
	if ts.Italic {
		style.Italic = true
		fields = append(fields, "italic")
	}
	if ts.Color != "" {
		color, err := colorFromHex(ts.Color)
		if err != nil {
			return nil, "", err
		}
		style.ForegroundColor = &docs.OptionalColor{Color: color}
		fields = append(fields, "foregroundColor")
	}
	if ts.FontSize > 0 {
		style.FontSize = pt(ts.FontSize)
		fields = append(fields, "fontSize")
	}
	if ts.FontFamily != "" {
		style.WeightedFontFamily = &docs.WeightedFontFamily{FontFamily: ts.FontFamily}
		fields = append(fields, "weightedFontFamily")
	}
	if len(fields) == 0 {
		return nil, "", fmt.Errorf("updateTextStyle op with empty style")
	}
	return style, strings.Join(fields, ","), nil
}

func paragraphStyle(ps *docgen.ParagraphStyle) (*docs.ParagraphStyle, string) {
	style := &docs.ParagraphStyle{}
	var fields []string
	if ps == nil {
		return style, ""
	}
	if ps.Named != "" {
		style.NamedStyleType = ps.Named
		fields = append(fields, "namedStyleType")
	}
	if ps.Alignment != "" {
		style.Alignment = ps.Alignment
		fields = append(fields, "alignment")
	}
	if ps.IndentStart > 0 {
		style.IndentStart = pt(ps.IndentStart)
		fields = append(fields, "indentStart")
	}
	return style, strings.Join(fields, ",")
}

func colorFromHex(hex string) (*docs.Color, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return nil, fmt.Errorf("bad hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("bad hex color %q: %w", hex, err)
	}
	return &docs.Color{RgbColor: &docs.RgbColor{
		Red:   float64(v>>16&0xff) / 255,
		Green: float64(v>>8&0xff) / 255,
		Blue:  float64(v&0xff) / 255,
	}}, nil
}
