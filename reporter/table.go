package reporter

import (
	"fmt"
	"io"

	subgroups "github.com/antoniolopezmc/subgroups-sub001"
	"github.com/jedib0t/go-pretty/v6/table"
)

type tableReporter struct {
	w         io.Writer
	subgroups []*subgroups.Subgroup
}

/*
NewTable takes a writer and returns a reporter that keeps all reported
subgroups and, on Close, renders them on the writer as a table sorted by
descending quality.
*/
func NewTable(w io.Writer) subgroups.Reporter {
	return &tableReporter{w: w}
}

func (tr *tableReporter) Report(sg *subgroups.Subgroup) error {
	tr.subgroups = append(tr.subgroups, sg)
	return nil
}

func (tr *tableReporter) Close() error {
	byDescendingQuality(tr.subgroups)
	t := table.NewWriter()
	t.SetOutputMirror(tr.w)
	qm := "Quality"
	if len(tr.subgroups) > 0 {
		qm = tr.subgroups[0].QualityMeasure
		t.SetCaption(fmt.Sprintf("Target: %v ; TP = %d ; FP = %d", tr.subgroups[0].Target, tr.subgroups[0].Totals.TP, tr.subgroups[0].Totals.FP))
	}
	t.AppendHeader(table.Row{"#", "Description", "tp", "fp", qm})
	for i, sg := range tr.subgroups {
		t.AppendRow(table.Row{i + 1, sg.Pattern.String(), sg.Counts.TP, sg.Counts.FP, sg.Quality})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d subgroups", len(tr.subgroups))})
	t.Render()
	return nil
}
