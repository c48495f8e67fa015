package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/tinkerpop/blueprints-sub007/errors"
)

type inner struct {
	Capacity int `mapstructure:"channel_capacity" validate:"gt=0"`
}

type sample struct {
	Name     string        `mapstructure:"name" validate:"required"`
	Format   string        `mapstructure:"format" validate:"oneof=json console"`
	Poll     time.Duration `mapstructure:"poll_interval" validate:"gte=0"`
	Rate     float64       `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	Pipex    inner         `mapstructure:"pipex"`
	Untagged int           `validate:"gte=0"`
}

func validSample() sample {
	return sample{Name: "pipes", Format: "json", Rate: 0.5, Pipex: inner{Capacity: 1}}
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validSample()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*sample)
		wantMsg string
	}{
		{"missing name", func(s *sample) { s.Name = "" }, "name: is required"},
		{"bad format", func(s *sample) { s.Format = "xml" }, "format: must be one of: json console"},
		{"nested capacity", func(s *sample) { s.Pipex.Capacity = 0 }, "pipex.channel_capacity: must be greater than 0"},
		{"rate too high", func(s *sample) { s.Rate = 2 }, "sample_rate: must be at most 1"},
		{"untagged field snake cased", func(s *sample) { s.Untagged = -1 }, "untagged: must be at least 0"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSample()
			tc.mutate(&s)
			err := Validate(s)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("expected %q in %q", tc.wantMsg, err.Error())
			}
			appErr, ok := errors.AsAppError(err)
			if !ok || appErr.Code != errors.ErrCodeInvalidInput {
				t.Fatalf("expected INVALID_INPUT AppError, got %v", err)
			}
			fields, _ := appErr.Details["fields"].([]FieldError)
			if len(fields) != 1 {
				t.Errorf("expected one field error, got %v", fields)
			}
		})
	}
}

func TestValidate_NotAStruct(t *testing.T) {
	err := Validate(42)
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestToSnakeCase(t *testing.T) {
	cases := map[string]string{
		"ChannelCapacity": "channel_capacity",
		"name":            "name",
		"QueueSize":       "queue_size",
	}
	for in, want := range cases {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
