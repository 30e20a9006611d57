package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/graph"
	"github.com/matzehuels/geospanner/pkg/observability"
	"github.com/matzehuels/geospanner/pkg/pipeline"
	"github.com/matzehuels/geospanner/pkg/spanner"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s := New(nil, log.New(io.Discard))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func postRun(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url+"/v1/runs", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeError(t *testing.T, data []byte) errorDetail {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(data, &body), string(data))
	return body.Error
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestRequestIDKept(t *testing.T) {
	_, ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}

func TestAlgorithms(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/v1/algorithms")
	require.NoError(t, err)
	defer resp.Body.Close()

	var algos []algorithm
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&algos))
	require.Len(t, algos, 6)
	assert.Contains(t, algos, algorithm{Name: "yao-pruning", Shape: "reverse"})
	assert.Contains(t, algos, algorithm{Name: "yao-parametrized-pruning", Shape: "forward"})
	assert.Contains(t, algos, algorithm{Name: "greedy", Shape: "single"})
}

func TestRun(t *testing.T) {
	_, ts := newTestServer(t)

	resp, data := postRun(t, ts.URL, `{"algorithm":"greedy","stretch":1.5,
		"instance":{"space":"euclid","distribution":"uniform","seed":1,"n":10}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "miss", resp.Header.Get("X-Cache"))

	var rep map[string]any
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Equal(t, "Success", rep["status"])
	assert.Equal(t, "geospanner greedy 1.5 euclid uniform 1 10 1 1", rep["command"])
	stretch, ok := rep["actual_stretch"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, stretch, 1.0)
	assert.LessOrEqual(t, stretch, 1.5+1e-9)

	info := rep["graph_information"].(map[string]any)
	assert.EqualValues(t, 10, info["nodes"])
}

func TestRunErrors(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed", `{"algorithm":`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", `{"algorithm":"greedy","stretch":1.5,"colour":"red"}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown algorithm", `{"algorithm":"theta","stretch":1.5,
			"instance":{"space":"euclid","distribution":"uniform","seed":1,"n":10}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"yao stretch", `{"algorithm":"yao","stretch":1,
			"instance":{"space":"euclid","distribution":"uniform","seed":1,"n":10}}`, http.StatusBadRequest, "INVALID_PARAMETERS"},
		{"bad space", `{"algorithm":"greedy","stretch":1.5,
			"instance":{"space":"torus","distribution":"uniform","seed":1,"n":10}}`, http.StatusBadRequest, "INVALID_SPACE_OR_DISTRIBUTION"},
		{"too large", `{"algorithm":"greedy","stretch":1.5,
			"instance":{"space":"sphere","distribution":"uniform","seed":1,"n":50000}}`, http.StatusBadRequest, "INVALID_PARAMETERS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := postRun(t, ts.URL, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(data))
			assert.Equal(t, tt.code, string(decodeError(t, data).Code))
		})
	}
}

type failing struct{}

func (failing) Name() string { return "failing" }

func (failing) Build(context.Context, spanner.Input, float64) (*graph.Graph, error) {
	return nil, fmt.Errorf("boom")
}

func TestRunBuilderFailure(t *testing.T) {
	s, ts := newTestServer(t)
	s.Runner.Builders = func(spanner.Kind, spanner.Options) (spanner.Builder, error) { return failing{}, nil }

	resp, data := postRun(t, ts.URL, `{"algorithm":"greedy","stretch":1.5,
		"instance":{"space":"euclid","distribution":"uniform","seed":1,"n":10}}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	detail := decodeError(t, data)
	assert.Equal(t, "ALGORITHM_FAILURE", string(detail.Code))
	assert.Contains(t, detail.Message, "boom")
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	postRun(t, ts.URL, `{`)

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, []int{http.StatusOK, http.StatusBadRequest}, hooks.statuses)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(fmt.Errorf("plain")))
}

func TestCheckLimits(t *testing.T) {
	s := New(nil, log.New(io.Discard))
	tests := []struct {
		name string
		args []string
		ok   bool
	}{
		{"greedy at the edge budget", []string{"greedy", "1.5", "euclid", "uniform", "1", "4000"}, true},
		{"greedy over the edge budget", []string{"greedy", "1.5", "euclid", "uniform", "1", "4001"}, false},
		{"path-greedy over the edge budget", []string{"path-greedy", "1.5", "euclid", "uniform", "1", "4001"}, false},
		{"delta-greedy over the edge budget", []string{"delta-greedy", "2", "1.5", "sphere", "uniform", "1", "4001"}, false},
		{"yao with few cones", []string{"yao", "1.5", "euclid", "uniform", "1", "20000"}, true},
		{"yao-pruning with few cones", []string{"yao-pruning", "1.5", "sphere", "uniform", "1", "20000"}, true},
		{"yao near stretch one", []string{"yao", "1.0000000001", "euclid", "uniform", "1", "20000"}, false},
		{"forward with coarse cones", []string{"yao-parametrized-pruning", "2", "1.1", "euclid", "uniform", "1", "20000"}, true},
		{"forward with fine cones", []string{"yao-parametrized-pruning", "2", "1.01", "euclid", "uniform", "1", "20000"}, false},
		{"too many nodes", []string{"yao", "1.5", "euclid", "uniform", "1", "20001"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := pipeline.ParseArgs(tt.args)
			require.NoError(t, err)
			err = s.checkLimits(opts)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, errors.ErrCodeInvalidParameters, errors.GetCode(err), "%v", err)
			}
		})
	}
}

func TestRunRejectsQuadraticOverBudget(t *testing.T) {
	_, ts := newTestServer(t)

	resp, data := postRun(t, ts.URL, `{"algorithm":"path-greedy","stretch":1.5,
		"instance":{"space":"euclid","distribution":"uniform","seed":1,"n":10000}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	detail := decodeError(t, data)
	assert.Equal(t, "INVALID_PARAMETERS", string(detail.Code))
	assert.Contains(t, detail.Message, "candidate edges")
}
