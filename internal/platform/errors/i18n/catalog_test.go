package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog(BaseLocale)
	if base == nil {
		t.Fatal("expected base catalog")
	}
	if got := GetCatalog("missing-locale"); got != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if got := GetCatalog(""); got != base {
		t.Fatal("expected empty locale to use en-US catalog")
	}
}

func TestGetCatalogMatchesLanguage(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "es-ES", want: "es-ES"},
		{locale: "es", want: "es-ES"},
		{locale: "es-MX", want: "es-ES"},
		{locale: "fr, es;q=0.8", want: "es-ES"},
		{locale: "en-GB", want: BaseLocale},
		{locale: "ja", want: BaseLocale},
	}
	for _, tt := range tests {
		if got := GetCatalog(tt.locale).Locale(); got != tt.want {
			t.Fatalf("GetCatalog(%q).Locale() = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestCatalogsCoverEveryCode(t *testing.T) {
	for code := range enUSMessages {
		if _, ok := esESMessages[code]; !ok {
			t.Fatalf("es-ES catalog missing %s", code)
		}
	}
	if len(esESMessages) != len(enUSMessages) {
		t.Fatalf("catalog sizes differ: en-US %d, es-ES %d", len(enUSMessages), len(esESMessages))
	}
}

func TestFormatRendersMetadata(t *testing.T) {
	got := GetCatalog(BaseLocale).Format(CodeDealNotFound, map[string]string{"deal_id": "7"})
	if got != "Deal 7 not found" {
		t.Fatalf("Format = %q, want %q", got, "Deal 7 not found")
	}
	got = GetCatalog(BaseLocale).Format(CodeInvalidFundsDenom, nil)
	if got != "Invalid funds denom" {
		t.Fatalf("Format = %q, want %q", got, "Invalid funds denom")
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("pt-BR", map[Code]string{"code": "ok"})
	RegisterCatalog("pt-BR", custom)
	if got := GetCatalog("pt-BR"); got != custom {
		t.Fatal("expected registered catalog")
	}
	if got := GetCatalog("pt"); got != custom {
		t.Fatal("expected registered catalog to join language matching")
	}
}
