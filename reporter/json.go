package reporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	subgroups "github.com/antoniolopezmc/subgroups-sub001"
	"github.com/antoniolopezmc/subgroups-sub001/feature"
	fjson "github.com/antoniolopezmc/subgroups-sub001/feature/json"
	"github.com/antoniolopezmc/subgroups-sub001/tree"
)

type jsonSubgroup struct {
	Description    string           `json:"description"`
	Pattern        []fjson.Selector `json:"pattern"`
	Target         fjson.Selector   `json:"target"`
	TP             int              `json:"tp"`
	FP             int              `json:"fp"`
	TotalTP        int              `json:"totalTP"`
	TotalFP        int              `json:"totalFP"`
	Quality        float64          `json:"quality"`
	QualityMeasure string           `json:"qualityMeasure"`
}

type encodedSubgroup struct {
	jsonSubgroup
	Pattern json.RawMessage `json:"pattern"`
	Target  json.RawMessage `json:"target"`
}

/*
EncodeJSON takes a subgroup and returns its JSON representation.
*/
func EncodeJSON(sg *subgroups.Subgroup) ([]byte, error) {
	return json.Marshal(&jsonSubgroup{
		Description:    sg.Pattern.String(),
		Pattern:        fjson.FromSelectors(sg.Pattern),
		Target:         fjson.FromSelector(sg.Target.Selector()),
		TP:             sg.Counts.TP,
		FP:             sg.Counts.FP,
		TotalTP:        sg.Totals.TP,
		TotalFP:        sg.Totals.FP,
		Quality:        sg.Quality,
		QualityMeasure: sg.QualityMeasure,
	})
}

/*
DecodeJSON takes the JSON representation of a subgroup and the features
its selectors are validated against (nil to skip validation) and returns
the subgroup.
*/
func DecodeJSON(data []byte, features []feature.Feature) (*subgroups.Subgroup, error) {
	es := &encodedSubgroup{}
	if err := json.Unmarshal(data, es); err != nil {
		return nil, fmt.Errorf("decoding subgroup: %v", err)
	}
	sed := fjson.NewSelectorEncodeDecoder(features)
	pattern, err := sed.DecodeList(es.Pattern)
	if err != nil {
		return nil, fmt.Errorf("decoding subgroup pattern: %v", err)
	}
	ts, err := sed.Decode(es.Target)
	if err != nil {
		return nil, fmt.Errorf("decoding subgroup target: %v", err)
	}
	return &subgroups.Subgroup{
		Pattern:        pattern,
		Target:         feature.NewTarget(ts.Attribute, ts.Value),
		Counts:         tree.Counts{TP: es.TP, FP: es.FP},
		Totals:         tree.Counts{TP: es.TotalTP, FP: es.TotalFP},
		Quality:        es.Quality,
		QualityMeasure: es.QualityMeasure,
	}, nil
}

type jsonReporter struct {
	w *bufio.Writer
}

/*
NewJSON takes a writer and returns a reporter that writes every subgroup
as a line with its JSON representation. Output is buffered and flushed on
Close. The writer is not closed.
*/
func NewJSON(w io.Writer) subgroups.Reporter {
	return &jsonReporter{bufio.NewWriter(w)}
}

func (jr *jsonReporter) Report(sg *subgroups.Subgroup) error {
	data, err := EncodeJSON(sg)
	if err != nil {
		return fmt.Errorf("encoding subgroup %v: %v", sg.Pattern, err)
	}
	data = append(data, '\n')
	if _, err = jr.w.Write(data); err != nil {
		return fmt.Errorf("writing subgroup %v: %v", sg.Pattern, err)
	}
	return nil
}

func (jr *jsonReporter) Close() error {
	return jr.w.Flush()
}
