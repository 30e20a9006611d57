package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Report {
	return &Report{
		ActualStretch:    Measured(1.25),
		AdditionalInfo:   map[string]any{InfoDelta: 1.2},
		Command:          "geospanner delta-greedy 1.5 1.2 euclid uniform 1 10 1 1",
		GraphInformation: NewGraphInformation(10, 14),
		Runtime:          3,
		Status:           StatusSuccess,
		Weight:           4.5,
	}
}

func TestWriteLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sample()))

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, "\n    \"actual_stretch\": 1.25,")
	assert.Contains(t, out, "\n        \"directed\": false,")

	keys := []string{"actual_stretch", "additional_info", "command", "graph_information", "runtime", "status", "weight"}
	last := -1
	for _, k := range keys {
		i := strings.Index(out, `"`+k+`"`)
		require.GreaterOrEqual(t, i, 0, "missing %s", k)
		assert.Greater(t, i, last, "%s out of order", k)
		last = i
	}
}

func TestGraphInformationFlags(t *testing.T) {
	info := NewGraphInformation(5, 4)
	assert.False(t, info.Directed)
	assert.True(t, info.Weighted)
	assert.True(t, info.Simple)
	assert.Equal(t, 5, info.Nodes)
	assert.Equal(t, 4, info.Edges)
}

func TestEmptyAdditionalInfoIsObject(t *testing.T) {
	r := sample()
	r.AdditionalInfo = nil
	data, err := Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"additional_info": {}`)
}

func TestStretchWire(t *testing.T) {
	data, err := json.Marshal(Skipped())
	require.NoError(t, err)
	assert.Equal(t, "-1", string(data))

	data, err = json.Marshal(Measured(1.5))
	require.NoError(t, err)
	assert.Equal(t, "1.5", string(data))

	var s Stretch
	require.NoError(t, json.Unmarshal([]byte("-1"), &s))
	assert.False(t, s.IsMeasured())
	assert.Equal(t, "skipped", s.String())

	require.NoError(t, json.Unmarshal([]byte("1.75"), &s))
	v, ok := s.Value()
	assert.True(t, ok)
	assert.Equal(t, 1.75, v)

	assert.Error(t, json.Unmarshal([]byte(`"x"`), &s))
}

func TestReadBack(t *testing.T) {
	data, err := Marshal(sample())
	require.NoError(t, err)
	r, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, sample().Command, r.Command)
	assert.Equal(t, int64(3), r.Runtime)
	assert.Equal(t, 14, r.GraphInformation.Edges)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, int64(1), Millis(1999*time.Microsecond))
	assert.Equal(t, int64(0), Millis(0))
}

func TestValidate(t *testing.T) {
	data, err := Marshal(sample())
	require.NoError(t, err)
	_, err = Validate(data, "")
	assert.NoError(t, err)

	_, err = Validate([]byte("Segmentation fault"), "x")
	assert.ErrorIs(t, err, ErrNotJSON)

	_, err = Validate([]byte(`{"command": "x", "runtime": 1}`), "")
	assert.ErrorIs(t, err, ErrMissingKeys)

	partial := `{"runtime": 1, "weight": 2, "actual_stretch": -1, "graph_information": {"nodes": 1, "edges": 0}}`
	_, err = Validate([]byte(partial), "cmd")
	assert.True(t, errors.Is(err, ErrMissingKeys))
	assert.Contains(t, err.Error(), "graph_information.directed")
}

func TestValidateAddsCommand(t *testing.T) {
	raw := `{"runtime": 1, "weight": 2, "actual_stretch": 1.1,
		"graph_information": {"nodes": 2, "edges": 1, "directed": false, "weighted": true, "simple": true}}`
	obj, err := Validate([]byte(raw), "./yao 1.5 euclid uniform 1 2")
	require.NoError(t, err)
	assert.JSONEq(t, `"./yao 1.5 euclid uniform 1 2"`, string(obj["command"]))

	_, err = Validate([]byte(raw), "")
	assert.ErrorIs(t, err, ErrMissingKeys)
}
