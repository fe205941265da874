package docgen

import (
	"fmt"
	"strings"
)

// TableSpec is a table-typed section's shape, recorded during phase-1
// planning. Cells hold the raw (unsubstituted) cell text; substitution
// happens when the cells are populated in phase 2.
type TableSpec struct {
	Rows, Cols int64
	Cells      [][]string
}

// Plan is the result of one planning pass: the phase-1 op batch, the
// ordered table specs awaiting phase-2 population, and the cursor position
// after all planned content.
type Plan struct {
	Ops    []Op
	Tables []TableSpec
	End    int64
}

// Planner walks a template's sections in order, keeping a running cursor in
// the document's coordinate space and emitting absolute-position ops. A
// planner is valid for a single pass; positions it emits assume the whole
// batch executes atomically in array order against the pre-batch document.
type Planner struct {
	cfg    StyleConfig
	data   map[string]string
	cursor int64
	ops    []Op
	tables []TableSpec
}

// NewPlanner starts a planning pass at the given cursor. The first valid
// insertion index of an empty document body is 1.
func NewPlanner(cfg StyleConfig, start int64, data map[string]string) *Planner {
	return &Planner{cfg: cfg, data: data, cursor: start}
}

func (p *Planner) Cursor() int64 { return p.cursor }

func (p *Planner) Plan() Plan {
	return Plan{Ops: p.ops, Tables: p.tables, End: p.cursor}
}

// PlanHeader plans the document header line. It must run before any section
// because the header occupies the lowest positions and every later op's
// cursor baseline depends on its length.
func (p *Planner) PlanHeader(title string) {
	if title == "" {
		return
	}
	p.planTextLine(title, ParagraphTitle, "", p.cfg.BrandedStyle("title-branded"))
}

// PlanSections plans every section in template order. Sections of unknown
// type contribute nothing.
func (p *Planner) PlanSections(sections []Section) {
	for _, sec := range sections {
		switch sec.Type {
		case SectionTitle:
			p.planTextLine(sec.Text, ParagraphTitle, "", p.brandedOrDefault(sec.Style, "title-branded"))
		case SectionHeader:
			p.planTextLine(sec.Text, ParagraphHeading1, "", p.brandedOrDefault(sec.Style, "header-branded"))
		case SectionSubheader:
			p.planTextLine(sec.Text, ParagraphHeading2, "", p.brandedOrDefault(sec.Style, "subheader-branded"))
		case SectionParagraph:
			p.planTextLine(sec.Text, "", "", p.cfg.BrandedStyle(sec.Style))
		case SectionList:
			p.planListBlock(sec.Items, BulletDisc)
		case SectionChecklist:
			p.planListBlock(sec.Items, BulletCheckbox)
		case SectionNumberedQuestions:
			p.planListBlock(sec.Items, BulletNumbered)
		case SectionQuestion:
			p.planQuestion(sec)
		case SectionTable:
			p.planTableSection(sec)
		case SectionScoringTable:
			p.planScoringTable(sec)
		case SectionEvaluationSummary:
			p.planEvaluationSummary(sec)
		case SectionCallout:
			p.planTextLine(sec.Text, "", "", p.cfg.CalloutStyle(sec.Style))
		case SectionDivider:
			p.planDivider()
		case SectionPriorityScale:
			p.planPriorityScale(sec)
		}
	}
}

func (p *Planner) brandedOrDefault(tag, fallback string) *TextStyle {
	if ts := p.cfg.BrandedStyle(tag); ts != nil {
		return ts
	}
	return p.cfg.BrandedStyle(fallback)
}

// insertText appends one insert op at the cursor and advances it by the
// exact UTF-16 length inserted.
func (p *Planner) insertText(text string) (start, end int64) {
	start = p.cursor
	if text == "" {
		return start, start
	}
	p.ops = append(p.ops, Op{Kind: OpInsertText, Index: start, Text: text})
	p.cursor += utf16Len(text)
	return start, p.cursor
}

func (p *Planner) styleRanges(blockStart int64, ranges []FormatRange) {
	for _, r := range ranges {
		ts := &TextStyle{}
		switch r.Kind {
		case FormatBold:
			ts.Bold = true
		case FormatItalic:
			ts.Italic = true
		default:
			continue
		}
		p.ops = append(p.ops, Op{
			Kind:      OpUpdateTextStyle,
			Start:     blockStart + r.Start,
			End:       blockStart + r.End,
			TextStyle: ts,
		})
	}
}

// planTextLine substitutes, parses inline markup, inserts the line with its
// trailing newline, and applies paragraph/text styles over the line
// excluding the newline.
func (p *Planner) planTextLine(text, named, alignment string, ts *TextStyle) {
	sub := Substitute(text, p.data)
	plain, ranges := ParseInline(sub)
	start, _ := p.insertText(plain + "\n")
	lineEnd := start + utf16Len(plain)
	if (named != "" || alignment != "") && lineEnd > start {
		p.ops = append(p.ops, Op{
			Kind:      OpUpdateParagraphStyle,
			Start:     start,
			End:       lineEnd,
			Paragraph: &ParagraphStyle{Named: named, Alignment: alignment},
		})
	}
	if ts != nil && lineEnd > start {
		styled := *ts
		p.ops = append(p.ops, Op{Kind: OpUpdateTextStyle, Start: start, End: lineEnd, TextStyle: &styled})
	}
	p.styleRanges(start, ranges)
}

// planListBlock joins the substituted items into one block, inserts it
// once, and applies a single bullet style over the block. The deliberately
// appended trailing blank line keeps the next section from visually merging
// into the list; the bullet range excludes it.
func (p *Planner) planListBlock(items []string, preset string) {
	if len(items) == 0 {
		return
	}
	plains := make([]string, 0, len(items))
	var blockRanges []FormatRange
	var offset int64
	for _, item := range items {
		plain, ranges := ParseInline(Substitute(item, p.data))
		for _, r := range ranges {
			blockRanges = append(blockRanges, FormatRange{Start: offset + r.Start, End: offset + r.End, Kind: r.Kind})
		}
		plains = append(plains, plain)
		offset += utf16Len(plain) + 1
	}
	block := strings.Join(plains, "\n") + "\n\n"
	start, end := p.insertText(block)
	p.ops = append(p.ops, Op{Kind: OpCreateBullets, Start: start, End: end - 1, Bullet: preset})
	p.styleRanges(start, blockRanges)
}

// planQuestion renders the emphasized question line, its indented follow-up
// paragraphs, and, for bounded answers, a one-row answer table resolved by
// the structural pass.
func (p *Planner) planQuestion(sec Section) {
	text := sec.Text
	if sec.Number > 0 {
		text = fmt.Sprintf("%d. %s", sec.Number, text)
	}
	p.planTextLine(text, "", "", &TextStyle{Italic: true})
	for _, followUp := range sec.FollowUps {
		plain := Substitute(followUp, p.data)
		start, _ := p.insertText(plain + "\n")
		lineEnd := start + utf16Len(plain)
		if lineEnd > start {
			p.ops = append(p.ops, Op{
				Kind:      OpUpdateParagraphStyle,
				Start:     start,
				End:       lineEnd,
				Paragraph: &ParagraphStyle{IndentStart: 18},
			})
		}
	}
	if opts := answerOptions(sec.Answer); len(opts) > 0 {
		p.planTable(1, int64(len(opts)), [][]string{opts})
	}
}

func answerOptions(answer string) []string {
	switch answer {
	case AnswerYesNo:
		return []string{"Yes", "No"}
	case AnswerYesNoPartial:
		return []string{"Yes", "No", "Partial"}
	}
	return nil
}

// planTable emits an empty table shape at the cursor and records the spec
// for phase-2 cell population. The cursor advances by the service's fixed
// footprint for a content-free table.
func (p *Planner) planTable(rows, cols int64, cells [][]string) {
	if rows <= 0 || cols <= 0 {
		return
	}
	p.ops = append(p.ops, Op{Kind: OpInsertTable, Index: p.cursor, Rows: rows, Cols: cols})
	p.cursor += TableFootprint(rows, cols)
	p.tables = append(p.tables, TableSpec{Rows: rows, Cols: cols, Cells: cells})
}

func (p *Planner) planTableSection(sec Section) {
	cols := len(sec.Headers)
	for _, row := range sec.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return
	}
	var cells [][]string
	if len(sec.Headers) > 0 {
		cells = append(cells, padRow(sec.Headers, cols))
	}
	for _, row := range sec.Rows {
		cells = append(cells, padRow(row, cols))
	}
	if len(cells) == 0 {
		return
	}
	p.planTable(int64(len(cells)), int64(cols), cells)
}

func (p *Planner) planScoringTable(sec Section) {
	if len(sec.Criteria) == 0 {
		return
	}
	cells := [][]string{{"Criterion", "Weight", "Score", "Notes"}}
	for _, criterion := range sec.Criteria {
		cells = append(cells, []string{criterion.Name, criterion.Weight, criterion.Score, criterion.Notes})
	}
	p.planTable(int64(len(cells)), 4, cells)
}

// planEvaluationSummary renders the field grid: one label/value row per
// field, no header row.
func (p *Planner) planEvaluationSummary(sec Section) {
	if len(sec.Fields) == 0 {
		return
	}
	cells := make([][]string, 0, len(sec.Fields))
	for _, f := range sec.Fields {
		cells = append(cells, []string{f.Label, f.Value})
	}
	p.planTable(int64(len(cells)), 2, cells)
}

const dividerWidth = 40

func (p *Planner) planDivider() {
	line := strings.Repeat("─", dividerWidth)
	start, _ := p.insertText(line + "\n")
	p.ops = append(p.ops, Op{
		Kind:      OpUpdateTextStyle,
		Start:     start,
		End:       start + dividerWidth,
		TextStyle: &TextStyle{Color: p.cfg.MutedColor},
	})
}

// planPriorityScale renders one bulleted line per level with the level name
// bold in the level's color.
func (p *Planner) planPriorityScale(sec Section) {
	if len(sec.Levels) == 0 {
		return
	}
	type nameRange struct {
		start, end int64
		color      string
	}
	plains := make([]string, 0, len(sec.Levels))
	var names []nameRange
	var offset int64
	for _, lvl := range sec.Levels {
		name := Substitute(lvl.Name, p.data)
		desc := Substitute(lvl.Description, p.data)
		line := name
		if desc != "" {
			line = name + ": " + desc
		}
		color := lvl.Color
		if color == "" {
			color = p.cfg.BrandColor
		}
		if name != "" {
			names = append(names, nameRange{start: offset, end: offset + utf16Len(name), color: color})
		}
		plains = append(plains, line)
		offset += utf16Len(line) + 1
	}
	block := strings.Join(plains, "\n") + "\n\n"
	start, end := p.insertText(block)
	p.ops = append(p.ops, Op{Kind: OpCreateBullets, Start: start, End: end - 1, Bullet: BulletDisc})
	for _, n := range names {
		p.ops = append(p.ops, Op{
			Kind:      OpUpdateTextStyle,
			Start:     start + n.start,
			End:       start + n.end,
			TextStyle: &TextStyle{Bold: true, Color: n.color},
		})
	}
}

func padRow(row []string, cols int) []string {
	if len(row) >= cols {
		return row[:cols]
	}
	padded := make([]string, cols)
	copy(padded, row)
	return padded
}
