package pagination

import "testing"

func TestClampPageSize(t *testing.T) {
	cfg := PageSizeConfig{Default: 25, Max: 100}
	tests := []struct {
		in   int32
		want int
	}{
		{in: 0, want: 25},
		{in: -3, want: 25},
		{in: 10, want: 10},
		{in: 500, want: 100},
	}
	for _, tt := range tests {
		if got := ClampPageSize(tt.in, cfg); got != tt.want {
			t.Fatalf("ClampPageSize(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := ClampPageSize(0, PageSizeConfig{}); got != 1 {
		t.Fatalf("ClampPageSize with empty config = %d, want 1", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	token := EncodeCursor(42)
	got, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != 42 {
		t.Fatalf("DecodeCursor = %d, want 42", got)
	}
}

func TestDecodeCursorEmpty(t *testing.T) {
	got, err := DecodeCursor("  ")
	if err != nil || got != 0 {
		t.Fatalf("DecodeCursor(empty) = %d, %v", got, err)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{"!!!", "bm9wZQ", "YWZ0ZXI6YWJj"} {
		if _, err := DecodeCursor(token); err == nil {
			t.Fatalf("expected error for token %q", token)
		}
	}
}
