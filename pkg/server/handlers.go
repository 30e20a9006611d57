package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/matzehuels/geospanner/pkg/buildinfo"
	"github.com/matzehuels/geospanner/pkg/errors"
	"github.com/matzehuels/geospanner/pkg/pipeline"
	"github.com/matzehuels/geospanner/pkg/report"
)

type algorithm struct {
	Name  string `json:"name"`
	Shape string `json:"shape"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Current(),
	})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	out := make([]algorithm, 0, len(pipeline.Commands))
	for _, cmd := range pipeline.Commands {
		shape, _, _ := pipeline.ShapeOf(cmd)
		out = append(out, algorithm{Name: cmd, Shape: shape.String()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode run request")
		}
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.checkLimits(opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	ctx := r.Context()
	if s.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.RunTimeout)
		defer cancel()
	}

	result, err := s.Runner.Execute(ctx, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	data, err := report.Marshal(result.Report)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode report"))
		return
	}
	if result.CacheHit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if errors.IsInputError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("run failed", "request_id", RequestID(r.Context()), "error", err)
	} else {
		s.Logger.Debug("rejected request", "request_id", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: errors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode response: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
