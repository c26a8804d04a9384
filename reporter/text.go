package reporter

import (
	"bufio"
	"fmt"
	"io"

	subgroups "github.com/antoniolopezmc/subgroups-sub001"
)

type text struct {
	w *bufio.Writer
}

/*
NewText takes a writer and returns a reporter that writes a line per
subgroup like

	Description: [a1 = 'b'], Target: class = 'y' ; Quality Measure WRAcc = 0.125 ; tp = 1 ; fp = 0 ; TP = 2 ; FP = 2

Output is buffered and flushed on Close. The writer is not closed.
*/
func NewText(w io.Writer) subgroups.Reporter {
	return &text{bufio.NewWriter(w)}
}

func (t *text) Report(sg *subgroups.Subgroup) error {
	_, err := fmt.Fprintln(t.w, sg)
	if err != nil {
		return fmt.Errorf("writing subgroup %v: %v", sg.Pattern, err)
	}
	return nil
}

func (t *text) Close() error {
	return t.w.Flush()
}
