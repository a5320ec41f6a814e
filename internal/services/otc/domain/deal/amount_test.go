package deal

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "1000", want: "1000"},
		{raw: " 500 ", want: "500"},
		{raw: "0", want: "0"},
		{raw: "340282366920938463463374607431768211455", want: "340282366920938463463374607431768211455"},
		{raw: "340282366920938463463374607431768211456", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "1.5", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "0007", want: "7"},
		{raw: "000", want: "0"},
		{raw: "1e3", wantErr: true},
		{raw: "+5", wantErr: true},
		{raw: "0x10", wantErr: true},
		{raw: "1 000", wantErr: true},
		{raw: "1000000000000000000000000000000000000000", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseAmount(%q) = %s, want error", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", tt.raw, err)
		}
		if got.String() != tt.want {
			t.Fatalf("ParseAmount(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestParseAmountRejectsExponentCheaply(t *testing.T) {
	for _, raw := range []string{"1e60000000", "1E60000000", "1.0e60000000", strings.Repeat("9", 1<<20)} {
		start := time.Now()
		_, err := ParseAmount(raw)
		if err == nil {
			t.Fatalf("ParseAmount(%.16q) = nil error, want rejection", raw)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Fatalf("ParseAmount(%.16q) took %s, want bounded time", raw, elapsed)
		}
		if len(err.Error()) > 128 {
			t.Fatalf("error length = %d, want bounded message", len(err.Error()))
		}
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := MustAmount("1000")
	b := MustAmount("500")

	sum, err := a.Add(b)
	if err != nil || sum.String() != "1500" {
		t.Fatalf("Add = %s, %v", sum, err)
	}
	diff, err := a.Sub(b)
	if err != nil || diff.String() != "500" {
		t.Fatalf("Sub = %s, %v", diff, err)
	}
	if _, err := b.Sub(a); err == nil {
		t.Fatal("expected negative result to fail")
	}
	if _, err := MustAmount("340282366920938463463374607431768211455").Add(MustAmount("1")); err == nil {
		t.Fatal("expected overflow to fail")
	}
	if !ZeroAmount.IsZero() || ZeroAmount.IsPositive() {
		t.Fatal("expected zero amount to be zero and not positive")
	}
	if a.Cmp(b) != 1 || !b.Equal(MustAmount("500")) {
		t.Fatal("unexpected comparison result")
	}
}

func TestAmountJSON(t *testing.T) {
	data, err := json.Marshal(MustAmount("340282366920938463463374607431768211455"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"340282366920938463463374607431768211455"` {
		t.Fatalf("marshal = %s", data)
	}

	var fromString, fromNumber Amount
	if err := json.Unmarshal([]byte(`"42"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if err := json.Unmarshal([]byte(`42`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number: %v", err)
	}
	if !fromString.Equal(fromNumber) || fromString.String() != "42" {
		t.Fatalf("decoded %s and %s, want 42", fromString, fromNumber)
	}
	if err := json.Unmarshal([]byte(`"-3"`), &fromString); err == nil {
		t.Fatal("expected negative amount to be rejected")
	}
}
