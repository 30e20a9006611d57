package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/geospanner/pkg/graph"
)

// DefaultCost is the weight of an edge without a matching cost element.
const DefaultCost = 1.0

var (
	attrID     = regexp.MustCompile(`\bid="([^"]*)"`)
	attrSource = regexp.MustCompile(`\bsource="([^"]*)"`)
	attrTarget = regexp.MustCompile(`\btarget="([^"]*)"`)
	dataValue  = regexp.MustCompile(`<data\s+key="c_(\d+)"\s*>([^<]*)</data`)
)

type rawEdge struct {
	line           int
	source, target string
	weight         float64
}

// ReadGraphML parses a line-oriented GraphML document. Node ids are mapped
// to indices 0..n-1 in order of first appearance. Each edge takes its weight
// from the <data key="c_K"> element where K equals costIndex, or
// [DefaultCost] when it has none.
//
// Self loops are dropped. Parallel edges collapse into one edge carrying
// the smallest weight. Edges naming an undeclared node are an error.
func ReadGraphML(r io.Reader, costIndex int) (*graph.Graph, error) {
	ids := make(map[string]int)
	var edges []rawEdge
	var current *rawEdge

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		switch {
		case strings.HasPrefix(line, "<node "):
			m := attrID.FindStringSubmatch(line)
			if m == nil {
				return nil, fmt.Errorf("line %d: node without id", lineNo)
			}
			if _, dup := ids[m[1]]; !dup {
				ids[m[1]] = len(ids)
			}
		case strings.HasPrefix(line, "<edge "):
			src := attrSource.FindStringSubmatch(line)
			dst := attrTarget.FindStringSubmatch(line)
			if src == nil || dst == nil {
				return nil, fmt.Errorf("line %d: edge without source or target", lineNo)
			}
			edges = append(edges, rawEdge{line: lineNo, source: src[1], target: dst[1], weight: DefaultCost})
			current = &edges[len(edges)-1]
			if strings.HasSuffix(line, "/>") {
				current = nil
			}
		case strings.HasPrefix(line, "</edge"):
			current = nil
		case current != nil && strings.HasPrefix(line, "<data "):
			m := dataValue.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			k, _ := strconv.Atoi(m[1])
			if k != costIndex {
				continue
			}
			w, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: cost c_%d: %w", lineNo, k, err)
			}
			current.weight = w
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	type pair struct{ u, v int }
	order := make([]pair, 0, len(edges))
	weights := make(map[pair]float64, len(edges))
	for _, e := range edges {
		u, ok := ids[e.source]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown source node %q", e.line, e.source)
		}
		v, ok := ids[e.target]
		if !ok {
			return nil, fmt.Errorf("line %d: unknown target node %q", e.line, e.target)
		}
		if u == v {
			continue
		}
		if u > v {
			u, v = v, u
		}
		p := pair{u, v}
		if w, seen := weights[p]; seen {
			weights[p] = min(w, e.weight)
			continue
		}
		weights[p] = e.weight
		order = append(order, p)
	}

	g := graph.New(len(ids))
	for _, p := range order {
		if err := g.AddEdge(p.u, p.v, weights[p]); err != nil {
			return nil, fmt.Errorf("edge %d-%d: %w", p.u, p.v, err)
		}
	}
	return g, nil
}

// ImportGraphML reads a GraphML file at path.
func ImportGraphML(path string, costIndex int) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraphML(f, costIndex)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
