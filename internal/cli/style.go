package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// renderTable lays out rows under bold headers, left-aligned, columns
// separated by two spaces. Widths are measured with lipgloss so styled
// cells pad correctly.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if style != nil {
				cell = style.Render(cell)
			}
			sb.WriteString(cell)
			if i < len(widths)-1 {
				sb.WriteString(pad + "  ")
			}
		}
		sb.WriteString("\n")
	}

	writeRow(headers, &headerStyle)
	for _, row := range rows {
		writeRow(row, nil)
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
