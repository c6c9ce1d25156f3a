package errors

import (
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Bank", false},
		{"valid with space", "Town Hall", false},
		{"valid with dash", "north-gate", false},
		{"valid with digits", "exit42", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"forward slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMapFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid json", "city.json", false},
		{"valid nested", "maps/city.json", false},

		{"empty", "", true},
		{"traversal", "../secret.json", true},
		{"traversal middle", "maps/../../etc", true},
		{"null byte", "city\x00.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMapFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMapFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid uuid", "9b2d44a0-8c5e-4f1a-b0d3-2f6e8a91c447", false},

		{"empty", "", true},
		{"not a uuid", "session-1", true},
		{"uppercase", "9B2D44A0-8C5E-4F1A-B0D3-2F6E8A91C447", true},
		{"truncated", "9b2d44a0-8c5e-4f1a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
