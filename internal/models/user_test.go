package models

import (
	"errors"
	"testing"
)

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{name: "already normalized", raw: "+263771234567", expected: "+263771234567"},
		{name: "spaces and dashes", raw: " +254 712-345-678 ", expected: "+254712345678"},
		{name: "missing plus", raw: "263771234567", wantErr: true},
		{name: "too short", raw: "+1234567", wantErr: true},
		{name: "too long", raw: "+1234567890123456", wantErr: true},
		{name: "letters", raw: "+26377ABC4567", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizePhoneNumber(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPhoneNumber) {
					t.Errorf("Expected ErrInvalidPhoneNumber, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
