package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"florafinder/internal/enrichment"
	"florafinder/internal/identification"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// maxCellWidth wraps long guide and description text.
const maxCellWidth = 72

func renderTable(title string, headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if title != "" {
		tw.SetTitle(title)
	}

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
			WidthMax:    maxCellWidth,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func renderCandidates(result identification.Result) string {
	rows := make([][]string, 0, len(result.Candidates))
	for i, c := range result.Candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.ScientificName,
			c.Family,
			strings.Join(c.CommonNames, ", "),
			fmt.Sprintf("%.1f%%", c.Score*100),
		})
	}
	return renderTable("Candidates",
		[]string{"#", "Scientific name", "Family", "Common names", "Score"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func renderEnrichment(result enrichment.Result) string {
	rows := [][]string{
		{"Status", result.Conservation.Status},
		{"Severity", result.Conservation.Color},
		{"Description", result.Conservation.Description},
		{"Guide", result.Conservation.Guide},
		{"Habitat", result.Habitat.Name},
		{"Habitat detail", result.Habitat.Description},
		{"Climate", result.Habitat.Climate},
	}
	return renderTable(result.ScientificName, []string{"Field", "Value"}, rows, nil)
}

func renderStatus(status identification.ServiceStatus) string {
	rows := [][]string{
		{"Reachable", yesNo(status.Reachable)},
	}
	if status.Status != "" {
		rows = append(rows, []string{"Status", status.Status})
	}
	if status.Version != "" {
		rows = append(rows, []string{"Version", status.Version})
	}
	if len(status.Languages) > 0 {
		rows = append(rows, []string{"Languages", strings.Join(status.Languages, ", ")})
	}
	if status.Message != "" {
		rows = append(rows, []string{"Message", status.Message})
	}
	return renderTable("Identification service", []string{"Field", "Value"}, rows, nil)
}
