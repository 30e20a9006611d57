package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnTransition(ctx, "yao 1.5 euclid uniform 1 10", "init", "generated")
	p.OnStageStart(ctx, 1, "yao", 10)
	p.OnStageComplete(ctx, 1, "yao", 40, time.Second, nil)
	p.OnMeasure(ctx, 1.3, true, time.Second)
	p.OnMeasure(ctx, 0, false, 0)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "report")
	c.OnCacheMiss(ctx, "report")
	c.OnCacheSet(ctx, "report", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/runs")
	h.OnResponse(ctx, "POST", "/v1/runs", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestLogHooks(t *testing.T) {
	t.Cleanup(Reset)

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	h := NewLogHooks(logger)
	h.Install()

	ctx := context.Background()
	Pipeline().OnStageStart(ctx, 1, "yao", 10)
	Pipeline().OnStageComplete(ctx, 1, "yao", 0, time.Millisecond, errors.New("boom"))
	Pipeline().OnMeasure(ctx, 0, false, 0)
	Cache().OnCacheHit(ctx, "report")
	HTTP().OnResponse(ctx, "POST", "/v1/runs", 400, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"hooks", "stage start", "stage failed", "boom", "stretch skipped", "cache hit", "status=400"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output lacks %q:\n%s", want, out)
		}
	}
}
