// Package formatter renders and tidies markdown reports.
package formatter

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"heritage/pkg/metadata"
)

const minColumnWidth = 3

type alignment int

const (
	alignLeft alignment = iota
	alignRight
	alignCenter
)

// FormatMarkdown pads every table in content so columns line up by display
// width. A signed document is re-signed with its previous status.
func FormatMarkdown(content string) string {
	var meta *metadata.Metadata

	clean := content
	if strings.Contains(content, metadata.TagStart) {
		meta, clean = metadata.Extract(content)
	}

	lines := strings.Split(clean, "\n")
	formatted := make([]string, 0, len(lines))

	var table []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.HasSuffix(trimmed, "|") {
			table = append(table, trimmed)
			continue
		}

		if len(table) > 0 {
			formatted = append(formatted, alignTable(table)...)
			table = nil
		}

		formatted = append(formatted, line)
	}

	if len(table) > 0 {
		formatted = append(formatted, alignTable(table)...)
	}

	out := strings.Join(formatted, "\n")
	if meta == nil {
		return out
	}

	return metadata.Sign(out, metadata.SignOptions{
		Validated: meta.Validation,
		Version:   meta.Version,
		RunID:     meta.RunID,
	})
}

func splitRow(row string) []string {
	inner := strings.TrimSuffix(strings.TrimPrefix(row, "|"), "|")
	parts := strings.Split(inner, "|")

	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}

	return cells
}

func parseSeparator(cells []string) ([]alignment, bool) {
	aligns := make([]alignment, len(cells))

	for i, c := range cells {
		if strings.Trim(c, "-: ") != "" || !strings.Contains(c, "-") {
			return nil, false
		}

		left, right := strings.HasPrefix(c, ":"), strings.HasSuffix(c, ":")

		switch {
		case left && right:
			aligns[i] = alignCenter
		case right:
			aligns[i] = alignRight
		default:
			aligns[i] = alignLeft
		}
	}

	return aligns, true
}

func alignTable(rows []string) []string {
	if len(rows) < 2 {
		return rows
	}

	cells := make([][]string, len(rows))
	cols := 0

	for i, r := range rows {
		cells[i] = splitRow(r)
		cols = max(cols, len(cells[i]))
	}

	aligns, hasSeparator := parseSeparator(cells[1])
	if !hasSeparator {
		return rows
	}

	widths := make([]int, cols)
	for i := range widths {
		widths[i] = minColumnWidth
	}

	for i, row := range cells {
		if i == 1 {
			continue
		}

		for j, c := range row {
			widths[j] = max(widths[j], runewidth.StringWidth(c))
		}
	}

	out := make([]string, len(cells))

	for i, row := range cells {
		var sb strings.Builder

		sb.WriteString("|")

		for j := range cols {
			a := alignLeft
			if j < len(aligns) {
				a = aligns[j]
			}

			sb.WriteString(" ")

			if i == 1 {
				sb.WriteString(separatorCell(widths[j], a))
			} else {
				cell := ""
				if j < len(row) {
					cell = row[j]
				}

				sb.WriteString(pad(cell, widths[j], a))
			}

			sb.WriteString(" |")
		}

		out[i] = sb.String()
	}

	return out
}

func separatorCell(width int, a alignment) string {
	switch a {
	case alignRight:
		return strings.Repeat("-", width-1) + ":"
	case alignCenter:
		return ":" + strings.Repeat("-", width-2) + ":"
	default:
		return strings.Repeat("-", width)
	}
}

func pad(cell string, width int, a alignment) string {
	gap := width - runewidth.StringWidth(cell)
	if gap <= 0 {
		return cell
	}

	switch a {
	case alignRight:
		return strings.Repeat(" ", gap) + cell
	case alignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}
