package naming

import (
	"strings"
	"testing"
	"time"
)

func TestSlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"plain", "Test Post 1", "TestPost1"},
		{"punctuation", "Hello, World! (2024)", "HelloWorld2024"},
		{"unicode stripped", "Título: ñandú & 日本語", "Ttulonand"},
		{"empty", "", ""},
		{"only specials", "!!! ---", ""},
		{"truncated to 50", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaBBBB", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.title); got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestRawKey(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got := RawKey("Test Post 1", createdAt)
	want := "raw-html/TestPost1-1704067200000.html"
	if got != want {
		t.Errorf("RawKey = %q, want %q", got, want)
	}

	// An empty slug still produces a well-formed, parseable key.
	if got := RawKey("!!!", createdAt); got != "raw-html/-1704067200000.html" {
		t.Errorf("RawKey with empty slug = %q", got)
	}
}

func TestParseTranslatedKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		key    string
		want   TranslatedKey
		wantOK bool
	}{
		{
			name:   "batch output with legacy prefix",
			key:    "1704067200000/raw-html_TestPost1-1704067200000_es_translations.html",
			want:   TranslatedKey{Base: "TestPost1-1704067200000", Language: "es"},
			wantOK: true,
		},
		{
			name:   "region subtag",
			key:    "1704067200000/raw-html_TestPost1-1704067200000_pt-BR_translations.html",
			want:   TranslatedKey{Base: "TestPost1-1704067200000", Language: "pt-BR"},
			wantOK: true,
		},
		{
			name:   "no directory prefix",
			key:    "TestPost1-1704067200000_es_translations.html",
			want:   TranslatedKey{Base: "TestPost1-1704067200000", Language: "es"},
			wantOK: true,
		},
		{
			name:   "base containing underscores keeps last language tag",
			key:    "out/a_es_translations_b_pt-BR_translations.html",
			want:   TranslatedKey{Base: "a_es_translations_b", Language: "pt-BR"},
			wantOK: true,
		},
		{
			name:   "three letter primary tag",
			key:    "out/raw-html_Post-1_fil_translations.html",
			want:   TranslatedKey{Base: "Post-1", Language: "fil"},
			wantOK: true,
		},
		{name: "raw staging object", key: "raw-html/TestPost1-1704067200000.html"},
		{name: "ledger object", key: "processed_rss_items.json"},
		{name: "language tag too long", key: "out/x_abcd_translations.html"},
		{name: "region subtag too long", key: "out/x_es-ABCDE_translations.html"},
		{name: "missing base", key: "out/_es_translations.html"},
		{name: "wrong extension", key: "out/x_es_translations.md"},
		{name: "empty", key: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTranslatedKey(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("ParseTranslatedKey(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseTranslatedKey(%q) = %+v, want %+v", tt.key, got, tt.want)
			}
		})
	}
}

func TestRawKeyRoundTrip(t *testing.T) {
	// A staged name run through the translation service's output convention
	// must decode back to the same base.
	createdAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := RawKey("Test Post 1", createdAt)

	// The batch service names outputs after the full source key with path
	// separators flattened to underscores.
	base := strings.TrimSuffix(strings.ReplaceAll(raw, "/", "_"), ".html")
	translated := "1704067200000/" + base + "_es_translations.html"

	parsed, ok := ParseTranslatedKey(translated)
	if !ok {
		t.Fatalf("ParseTranslatedKey(%q) did not match", translated)
	}
	if parsed.Base != "TestPost1-1704067200000" {
		t.Errorf("Base = %q, want %q", parsed.Base, "TestPost1-1704067200000")
	}
	if parsed.Language != "es" {
		t.Errorf("Language = %q, want %q", parsed.Language, "es")
	}
}

func TestMarkdownKey(t *testing.T) {
	got := MarkdownKey("TestPost1-1704067200000", "es")
	if want := "es/TestPost1-1704067200000.md"; got != want {
		t.Errorf("MarkdownKey = %q, want %q", got, want)
	}
}

func TestJSONKey(t *testing.T) {
	renderedAt := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	got := JSONKey("TestPost1-1704067200000", "pt-BR", renderedAt)
	if want := "pt-BR/1704153600000/TestPost1-1704067200000.json"; got != want {
		t.Errorf("JSONKey = %q, want %q", got, want)
	}
}

func TestRecordSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Test Post 1", "test-post-1"},
		{"Hello,  World!", "hello-world"},
		{"--Already--Slugged--", "already-slugged"},
		{"", ""},
		{"ñ", ""},
	}

	for _, tt := range tests {
		if got := RecordSlug(tt.title); got != tt.want {
			t.Errorf("RecordSlug(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}
