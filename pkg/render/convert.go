package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

// Converter is the librsvg command used for PDF and PNG output.
var Converter = "rsvg-convert"

// ErrNoConverter is returned when [Converter] is not on PATH.
var ErrNoConverter = errors.New("PDF and PNG output need rsvg-convert (brew install librsvg, apt install librsvg2-bin)")

// ToPDF converts an SVG drawing to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convert(ctx, svg, "-f", "pdf")
}

// ToPNG converts an SVG drawing to PNG, scaled by scale.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("png scale must be positive, got %g", scale)
	}
	return convert(ctx, svg, "-f", "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

func convert(ctx context.Context, svg []byte, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(Converter)
	if err != nil {
		return nil, ErrNoConverter
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s %v: %w: %s", Converter, args, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.Bytes(), nil
}
