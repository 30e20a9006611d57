// Package bench generates benchmark suites and runs them.
//
// A suite is a TOML file describing groups of experiments. It expands into
// a list of run commands, in the JSON input format shared with older
// tooling:
//
//	{
//	    "time_limit": 600000,
//	    "memory_limit": 15000,
//	    "number_processes": 15,
//	    "output_filename": "results.json",
//	    "commands": ["geospanner yao 1.5 euclid uniform 0 100 3.141592653589793 3.141592653589793", ...]
//	}
//
// The [Driver] runs each command in its own process with a time limit and
// collects the reports.
package bench

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/geo"
	"github.com/matzehuels/geospanner/pkg/instance"
	"github.com/matzehuels/geospanner/pkg/pipeline"
)

// Suite defaults.
const (
	DefaultTimeLimit       = 600000 // ms
	DefaultMemoryLimit     = 15000  // MB
	DefaultNumberProcesses = 4
	DefaultOutputFilename  = "results.json"
	DefaultExecutable      = pipeline.Program
	DefaultBoundingBox     = math.Pi
	DefaultMeanDist        = math.Pi / 4
)

// Suite is a benchmark description.
type Suite struct {
	TimeLimit       int     `toml:"time_limit"`
	MemoryLimit     int     `toml:"memory_limit"`
	NumberProcesses int     `toml:"number_processes"`
	OutputFilename  string  `toml:"output_filename"`
	Executable      string  `toml:"executable"`
	Groups          []Group `toml:"group"`
}

// Group is the cartesian product of its lists. Seeds run from 0 to
// Instances-1.
type Group struct {
	Spaces        []string  `toml:"spaces"`
	Distributions []string  `toml:"distributions"`
	Nodes         []int     `toml:"nodes"`
	Instances     int       `toml:"instances"`
	Stretches     []float64 `toml:"stretches"`
	Algorithms    []string  `toml:"algorithms"`

	// BoundingBox is the side of the square Euclidean box.
	BoundingBox float64 `toml:"bounding_box"`

	// Clusters lists cluster counts; each cluster gets nodes/clusters points.
	Clusters []int   `toml:"clusters"`
	MeanDist float64 `toml:"mean_dist"`

	// Deltas and YaoStretches list the second parameter of delta-greedy and
	// yao-parametrized-pruning. Empty means √t.
	Deltas       []float64 `toml:"deltas"`
	YaoStretches []float64 `toml:"yao_stretches"`
}

// Input is the expanded, executable form of a suite.
type Input struct {
	TimeLimit       int      `json:"time_limit"`
	MemoryLimit     int      `json:"memory_limit"`
	NumberProcesses int      `json:"number_processes"`
	OutputFilename  string   `json:"output_filename"`
	Commands        []string `json:"commands"`
}

// LoadSuite reads a TOML suite. Unknown keys are an error.
func LoadSuite(path string) (*Suite, error) {
	var s Suite
	meta, err := toml.DecodeFile(path, &s)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "suite %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode suite %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "suite %s contains unknown options: %s",
			path, strings.Join(keys, ", "))
	}
	s.normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Suite) normalize() {
	if s.TimeLimit == 0 {
		s.TimeLimit = DefaultTimeLimit
	}
	if s.MemoryLimit == 0 {
		s.MemoryLimit = DefaultMemoryLimit
	}
	if s.NumberProcesses == 0 {
		s.NumberProcesses = DefaultNumberProcesses
	}
	if s.OutputFilename == "" {
		s.OutputFilename = DefaultOutputFilename
	}
	if s.Executable == "" {
		s.Executable = DefaultExecutable
	}
	for i := range s.Groups {
		g := &s.Groups[i]
		if g.BoundingBox == 0 {
			g.BoundingBox = DefaultBoundingBox
		}
		if g.MeanDist == 0 {
			g.MeanDist = DefaultMeanDist
		}
		if g.Instances == 0 {
			g.Instances = 1
		}
	}
}

// Validate checks limits and every group.
func (s *Suite) Validate() error {
	if s.TimeLimit < 1 || s.MemoryLimit < 1 || s.NumberProcesses < 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"time_limit, memory_limit and number_processes must be positive integers")
	}
	if strings.ContainsAny(s.Executable, " \t") {
		return errors.New(errors.ErrCodeInvalidInput, "executable must not contain whitespace: %q", s.Executable)
	}
	if len(s.Groups) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "suite has no [[group]]")
	}
	for i, g := range s.Groups {
		if err := g.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "group %d", i)
		}
	}
	return nil
}

func (g Group) validate() error {
	for _, sp := range g.Spaces {
		if _, err := geo.ParseSpace(sp); err != nil {
			return err
		}
	}
	for _, d := range g.Distributions {
		dist, err := instance.ParseDistribution(d)
		if err != nil {
			return err
		}
		if dist == instance.Cluster && len(g.Clusters) == 0 {
			return fmt.Errorf("cluster distribution needs clusters")
		}
	}
	for _, a := range g.Algorithms {
		if _, _, err := pipeline.ShapeOf(a); err != nil {
			return err
		}
	}
	for _, t := range g.Stretches {
		if err := errors.ValidateStretch("stretch", t); err != nil {
			return err
		}
	}
	for _, c := range g.Clusters {
		if c < 1 {
			return fmt.Errorf("cluster counts must be positive, got %d", c)
		}
	}
	for _, n := range g.Nodes {
		if n < 1 {
			return fmt.Errorf("node counts must be positive, got %d", n)
		}
	}
	if g.Instances < 0 {
		return fmt.Errorf("instances must not be negative")
	}
	if len(g.Spaces) == 0 || len(g.Distributions) == 0 || len(g.Nodes) == 0 ||
		len(g.Stretches) == 0 || len(g.Algorithms) == 0 {
		return fmt.Errorf("spaces, distributions, nodes, stretches and algorithms are required")
	}
	return nil
}

// Commands expands the suite. The order is space, distribution, nodes,
// stretch, cluster count, algorithm, seed, then the algorithm's second
// parameter.
func (s *Suite) Commands() []string {
	var cmds []string
	for _, g := range s.Groups {
		cmds = append(cmds, g.commands(s.Executable)...)
	}
	return cmds
}

func (g Group) commands(executable string) []string {
	var cmds []string
	for _, space := range g.Spaces {
		for _, dist := range g.Distributions {
			for _, n := range g.Nodes {
				for _, t := range g.Stretches {
					clusters := []int{0}
					if dist == instance.Cluster.String() {
						clusters = g.Clusters
					}
					for _, c := range clusters {
						for _, algo := range g.Algorithms {
							for seed := 0; seed < g.Instances; seed++ {
								inst := g.instanceArgs(space, dist, seed, n, c)
								for _, extra := range g.extras(algo, t) {
									args := []string{executable, algo, formatFloat(t)}
									if extra != "" {
										args = append(args, extra)
									}
									args = append(args, inst...)
									cmds = append(cmds, strings.Join(args, " "))
								}
							}
						}
					}
				}
			}
		}
	}
	return cmds
}

// extras returns the second numeric argument of algo, or a single empty
// string when it takes none.
func (g Group) extras(algo string, t float64) []string {
	var values []float64
	switch algo {
	case pipeline.CommandDeltaGreedy:
		values = g.Deltas
	case pipeline.CommandYaoParametrizedPruning:
		values = g.YaoStretches
	default:
		return []string{""}
	}
	if len(values) == 0 {
		values = []float64{math.Sqrt(t)}
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = formatFloat(v)
	}
	return out
}

func (g Group) instanceArgs(space, dist string, seed, n, clusters int) []string {
	args := []string{space, dist, strconv.Itoa(seed)}
	if dist == instance.Cluster.String() {
		args = append(args, strconv.Itoa(clusters), strconv.Itoa(n/clusters), formatFloat(g.MeanDist))
	} else {
		args = append(args, strconv.Itoa(n))
	}
	if space == geo.Euclid.String() {
		box := formatFloat(g.BoundingBox)
		args = append(args, box, box)
	}
	return args
}

// Input returns the executable form of the suite.
func (s *Suite) Input() *Input {
	return &Input{
		TimeLimit:       s.TimeLimit,
		MemoryLimit:     s.MemoryLimit,
		NumberProcesses: s.NumberProcesses,
		OutputFilename:  s.OutputFilename,
		Commands:        s.Commands(),
	}
}

// LoadInput reads a JSON input file.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "Input file does not exist.")
		}
		return nil, err
	}
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
			"Error in input file: time_limit, memory_limit and number_processes must be integers.")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// Load reads a suite (.toml) or an input file (anything else).
func Load(path string) (*Input, error) {
	if strings.HasSuffix(path, ".toml") {
		s, err := LoadSuite(path)
		if err != nil {
			return nil, err
		}
		return s.Input(), nil
	}
	return LoadInput(path)
}

// Validate checks the limits of an input.
func (in *Input) Validate() error {
	if in.TimeLimit < 1 || in.MemoryLimit < 1 || in.NumberProcesses < 1 {
		return errors.New(errors.ErrCodeInvalidInput,
			"Error in input file: time_limit, memory_limit and number_processes must be integers.")
	}
	if in.OutputFilename == "" {
		return errors.New(errors.ErrCodeInvalidInput,
			"Error in input file: output_filename must be a string containing a valid file path")
	}
	return nil
}

// Write encodes the input as indented JSON.
func (in *Input) Write(path string) error {
	data, err := json.MarshalIndent(in, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
