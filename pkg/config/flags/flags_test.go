package flags

import (
	"errors"
	"flag"
	"io"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Options
	}{
		{"defaults", nil, Options{}},
		{"config file", []string{"-c", "relay.yaml"}, Options{ConfigFile: "relay.yaml"}},
		{"debug and version", []string{"-d", "-v"}, Options{Debug: true, ShowVersion: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse("relayd", tt.args, io.Discard)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse("relayd", []string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h error = %v, want flag.ErrHelp", err)
	}
	if _, err := Parse("relayd", []string{"-x"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
	if _, err := Parse("relayd", []string{"extra"}, io.Discard); err == nil {
		t.Error("expected error for positional argument")
	}
}
