package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"bdindex/internal/timecode"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// printTable writes a rendered table followed by a newline, or a placeholder
// line when there are no rows.
func printTable(out io.Writer, empty string, headers []string, rows [][]string, aligns []columnAlignment) {
	if len(rows) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
}

// formatRate renders a frame rate as "23.976 (24000/1001)".
func formatRate(rate timecode.Rate) string {
	if !rate.Valid() {
		return "-"
	}
	if rate.Den == 1 {
		return strconv.FormatInt(rate.Num, 10)
	}
	return fmt.Sprintf("%.3f (%s)", rate.Float64(), rate)
}

// formatFrames renders a frame list, eliding the middle of long ones.
func formatFrames(frames []int64) string {
	if len(frames) == 0 {
		return "-"
	}
	const edge = 3
	shown := frames
	if len(frames) > 2*edge {
		shown = append(append([]int64{}, frames[:edge]...), frames[len(frames)-edge:]...)
	}
	parts := make([]string, 0, len(shown)+1)
	for i, frame := range shown {
		if len(shown) != len(frames) && i == edge {
			parts = append(parts, "…")
		}
		parts = append(parts, strconv.FormatInt(frame, 10))
	}
	return strings.Join(parts, ", ")
}
