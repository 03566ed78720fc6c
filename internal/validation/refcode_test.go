package validation

import "testing"

func TestIsValidRefCode(t *testing.T) {
	tests := []struct {
		name  string
		code  string
		valid bool
	}{
		{
			name:  "hex code",
			code:  "3f9a0c1e",
			valid: true,
		},
		{
			name:  "mixed case",
			code:  "AbCd1234",
			valid: true,
		},
		{
			name:  "too short",
			code:  "3f9a0c1",
			valid: false,
		},
		{
			name:  "too long",
			code:  "3f9a0c1e0",
			valid: false,
		},
		{
			name:  "contains symbols",
			code:  "3f9a-c1e",
			valid: false,
		},
		{
			name:  "non ascii",
			code:  "3f9aé1e",
			valid: false,
		},
		{
			name:  "empty string",
			code:  "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidRefCode(tt.code)
			if got != tt.valid {
				t.Fatalf("IsValidRefCode(%q) = %v, want %v", tt.code, got, tt.valid)
			}
		})
	}
}
