package utils

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ColumnAlignment controls how a table column is aligned
type ColumnAlignment int

const (
	AlignLeft ColumnAlignment = iota
	AlignRight
)

func buildTable(headers []string, rows [][]string, aligns []ColumnAlignment) table.Writer {
	columns := len(headers)

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == AlignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)
	return tw
}

// RenderTable renders rows as a rounded box table for terminal output
func RenderTable(headers []string, rows [][]string, aligns []ColumnAlignment) string {
	if len(headers) == 0 {
		return ""
	}
	return buildTable(headers, rows, aligns).Render()
}

// RenderMarkdownTable renders rows as a GitHub-flavored markdown table
func RenderMarkdownTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	return buildTable(headers, rows, nil).RenderMarkdown()
}
