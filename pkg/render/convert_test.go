package render

import (
	"context"
	"errors"
	"testing"
)

func TestMissingConverter(t *testing.T) {
	old := Converter
	Converter = "geospanner-no-such-converter"
	defer func() { Converter = old }()

	if _, err := ToPDF(context.Background(), []byte("<svg/>")); !errors.Is(err, ErrNoConverter) {
		t.Errorf("ToPDF error = %v, want ErrNoConverter", err)
	}
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 2); !errors.Is(err, ErrNoConverter) {
		t.Errorf("ToPNG error = %v, want ErrNoConverter", err)
	}
}

func TestPNGScale(t *testing.T) {
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 0); err == nil {
		t.Error("zero scale should be rejected")
	}
}
