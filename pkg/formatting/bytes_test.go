package formatting_test

import (
	"testing"

	"tagsight/pkg/formatting"
)

func TestParseBytes(t *testing.T) {
	cases := []struct {
		input string
		want  int64
	}{
		{"512B", 512},
		{"1KB", 1024},
		{"20MB", 20 * 1024 * 1024},
		{"2GB", 2 * 1024 * 1024 * 1024},
		{"1TB", 1024 * 1024 * 1024 * 1024},
		{"50 MB", 50 * 1024 * 1024},
		{"50mb", 50 * 1024 * 1024},
		{"1.5KB", 1536},
		{"1024", 1024},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := formatting.ParseBytes(tc.input)
			if err != nil {
				t.Fatalf("ParseBytes(%q) error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseBytes(%q) = %d, want %d", tc.input, got, tc.want)
			}
		})
	}

	t.Run("empty string fails", func(t *testing.T) {
		if _, err := formatting.ParseBytes(""); err == nil {
			t.Error("expected error for empty string")
		}
	})

	t.Run("unknown unit fails", func(t *testing.T) {
		if _, err := formatting.ParseBytes("5XB"); err == nil {
			t.Error("expected error for unknown unit")
		}
	})

	t.Run("no number fails", func(t *testing.T) {
		if _, err := formatting.ParseBytes("MB"); err == nil {
			t.Error("expected error for missing number")
		}
	})
}
