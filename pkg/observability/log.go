package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event as a debug line. The CLI installs it for
// --verbose runs.
type LogHooks struct {
	Logger *log.Logger
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ HTTPHooks     = LogHooks{}
)

// NewLogHooks returns hooks logging to logger, prefixed "hooks".
func NewLogHooks(logger *log.Logger) LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return LogHooks{Logger: logger.WithPrefix("hooks")}
}

// Install registers h for all three hook kinds.
func (h LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnTransition(_ context.Context, command, from, to string) {
	h.Logger.Debug("transition", "command", command, "from", from, "to", to)
}

func (h LogHooks) OnStageStart(_ context.Context, stage int, builder string, nodeCount int) {
	h.Logger.Debug("stage start", "stage", stage, "builder", builder, "nodes", nodeCount)
}

func (h LogHooks) OnStageComplete(_ context.Context, stage int, builder string, edgeCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("stage failed", "stage", stage, "builder", builder, "elapsed", d, "error", err)
		return
	}
	h.Logger.Debug("stage done", "stage", stage, "builder", builder, "edges", edgeCount, "elapsed", d)
}

func (h LogHooks) OnMeasure(_ context.Context, stretch float64, measured bool, d time.Duration) {
	if !measured {
		h.Logger.Debug("stretch skipped")
		return
	}
	h.Logger.Debug("stretch measured", "stretch", stretch, "elapsed", d)
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "kind", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "kind", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "kind", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "elapsed", d)
}
