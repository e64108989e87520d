package errors

import (
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "points.csv", false},
		{"nested", "data/run-1/points.json", false},
		{"absolute", "/tmp/plot.svg", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 5000)), true},
		{"null byte", "foo\x00bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"#1f77b4", false},
		{"#1F77B4", false},
		{"#fff", false},

		{"", true},
		{"1f77b4", true},
		{"#12345", true},
		{"#gggggg", true},
		{"red", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("SVG", "svg", "png"); err != nil {
		t.Errorf("ValidateFormat(SVG) error = %v", err)
	}
	err := ValidateFormat("gif", "svg", "png")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(gif) = %v, want %v", err, ErrCodeInvalidFormat)
	}
}
