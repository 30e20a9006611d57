package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeArgumentParse, "test message: %s", "value")

	if err.Code != ErrCodeArgumentParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeArgumentParse)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "ARGUMENT_PARSE: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("spanner disconnected")
	err := Wrap(ErrCodeAlgorithmFailure, cause, "stage 1")

	if err.Code != ErrCodeAlgorithmFailure {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeAlgorithmFailure)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidParameters, "test"),
			code:     ErrCodeInvalidParameters,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidParameters, "test"),
			code:     ErrCodeTimeout,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeAlgorithmFailure, New(ErrCodeSamplingExhausted, "inner"), "outer"),
			code:     ErrCodeAlgorithmFailure,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidSpaceOrDistribution, "test"),
			expected: ErrCodeInvalidSpaceOrDistribution,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeArgumentParse, "Not enough args!"),
			expected: "Not enough args!",
		},
		{
			name:     "Error with cause",
			err:      Wrap(ErrCodeAlgorithmFailure, errors.New("boom"), "stage 2"),
			expected: "stage 2: boom",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsInputError(t *testing.T) {
	tests := []struct {
		err      error
		expected bool
	}{
		{New(ErrCodeArgumentParse, "x"), true},
		{New(ErrCodeInvalidSpaceOrDistribution, "x"), true},
		{New(ErrCodeInvalidParameters, "x"), true},
		{New(ErrCodeAlgorithmFailure, "x"), false},
		{New(ErrCodeSamplingExhausted, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := IsInputError(tt.err); got != tt.expected {
			t.Errorf("IsInputError(%v) = %v, want %v", tt.err, got, tt.expected)
		}
	}
}
