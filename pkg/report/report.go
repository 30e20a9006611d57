// Package report defines the experiment report every run emits.
//
// The report is one JSON object with a fixed set of keys, shared by all
// pipeline shapes so results can be aggregated across algorithms:
//
//	{
//	    "actual_stretch": 1.43,
//	    "additional_info": {"absolute_time": 12},
//	    "command": "geospanner yao 1.5 euclid uniform 1 100",
//	    "graph_information": {"directed": false, "edges": 412, "nodes": 100, "simple": true, "weighted": true},
//	    "runtime": 9,
//	    "status": "Success",
//	    "weight": 31.7
//	}
//
// A stretch that was not measured is written as -1.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// StatusSuccess is the status of every emitted report.
const StatusSuccess = "Success"

// Keys of additional_info used by the pipelines.
const (
	InfoAbsoluteTime  = "absolute_time"
	InfoDelta         = "delta"
	InfoStretchYao    = "stretch_yao"
	InfoStretchGreedy = "stretch_greedy"
)

// Report is the outcome of one run.
type Report struct {
	ActualStretch    Stretch          `json:"actual_stretch"`
	AdditionalInfo   map[string]any   `json:"additional_info"`
	Command          string           `json:"command"`
	GraphInformation GraphInformation `json:"graph_information"`
	Runtime          int64            `json:"runtime"`
	Status           string           `json:"status"`
	Weight           float64          `json:"weight"`
}

// GraphInformation summarizes the spanner. Spanners are always undirected,
// weighted and simple.
type GraphInformation struct {
	Directed bool `json:"directed"`
	Edges    int  `json:"edges"`
	Nodes    int  `json:"nodes"`
	Simple   bool `json:"simple"`
	Weighted bool `json:"weighted"`
}

// NewGraphInformation returns the summary of a spanner with the given size.
func NewGraphInformation(nodes, edges int) GraphInformation {
	return GraphInformation{
		Directed: false,
		Edges:    edges,
		Nodes:    nodes,
		Simple:   true,
		Weighted: true,
	}
}

// Millis converts a duration to whole milliseconds, truncating.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// Marshal encodes r as JSON indented by four spaces.
func Marshal(r *Report) ([]byte, error) {
	out := *r
	if out.AdditionalInfo == nil {
		out.AdditionalInfo = map[string]any{}
	}
	data, err := json.MarshalIndent(&out, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// Write encodes r and writes it to w in a single call, so a failed encoding
// writes nothing.
func Write(w io.Writer, r *Report) error {
	data, err := Marshal(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read decodes a report.
func Read(r io.Reader) (*Report, error) {
	var rep Report
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &rep, nil
}

// Unmarshal decodes a report from data.
func Unmarshal(data []byte) (*Report, error) {
	return Read(bytes.NewReader(data))
}
