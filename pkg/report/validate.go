package report

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotJSON is returned by [Validate] when the output is not a JSON object.
	ErrNotJSON = errors.New("The command output can't be parsed. Ensure that the output is formatted in json.")

	// ErrMissingKeys is returned by [Validate] when a required key is absent.
	ErrMissingKeys = errors.New("Please provide all required keys in the json output.")
)

// RequiredKeys are the top-level keys every report must carry.
var RequiredKeys = []string{"command", "runtime", "weight", "actual_stretch", "graph_information"}

// RequiredGraphKeys are the keys graph_information must carry.
var RequiredGraphKeys = []string{"nodes", "edges", "directed", "weighted", "simple"}

// Validate checks that raw is a JSON object carrying every required key.
// When the object has no command and command is not empty, command is
// added before the check. It returns the decoded object so callers can
// forward it unchanged.
func Validate(raw []byte, command string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, ErrNotJSON
	}
	if _, ok := obj["command"]; !ok && command != "" {
		obj["command"], _ = json.Marshal(command)
	}
	for _, k := range RequiredKeys {
		if _, ok := obj[k]; !ok {
			return obj, fmt.Errorf("%w (missing %q)", ErrMissingKeys, k)
		}
	}
	var info map[string]json.RawMessage
	if err := json.Unmarshal(obj["graph_information"], &info); err != nil {
		return obj, fmt.Errorf("%w (graph_information is not an object)", ErrMissingKeys)
	}
	for _, k := range RequiredGraphKeys {
		if _, ok := info[k]; !ok {
			return obj, fmt.Errorf("%w (missing graph_information.%s)", ErrMissingKeys, k)
		}
	}
	return obj, nil
}
