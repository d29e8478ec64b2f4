package errors

import (
	"testing"
)

func TestValidateBlockType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "Const", false},
		{"valid dotted", "math.add", false},
		{"valid with dash", "io.file-source", false},
		{"valid with underscore", "dsp.fir_filter", false},
		{"valid multi segment", "audio.filters.lowpass", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"leading dot", ".add", true},
		{"trailing dot", "math.", true},
		{"double dot", "math..add", true},
		{"slash", "math/add", true},
		{"space", "math add", true},
		{"null byte", "foo\x00bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBlockType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBlockType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateLibraryFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid yaml", "stdlib.yaml", false},
		{"valid yml", "blocks.yml", false},

		{"empty", "", true},
		{"with path /", "path/to/file.yaml", true},
		{"with path \\", "path\\to\\file.yaml", true},
		{"hidden file", ".blocks.yaml", true},
		{"wrong extension", "blocks.json", true},
		{"no extension", "blocks", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLibraryFilename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLibraryFilename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid relative", "docs/synth.patch.json", false},
		{"valid simple", "patch.json", false},
		{"valid absolute", "/home/user/patch.json", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"path traversal", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"backslash", "foo\\bar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
