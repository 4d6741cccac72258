package markdown

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCompose(t *testing.T) {
	fm := Frontmatter{
		Title:     "Título del Post",
		Date:      "Mon, 01 Jan 2024 00:00:00 GMT",
		SourceURL: "http://example.com/post1",
		Language:  "es",
	}

	doc, err := Compose(fm, "# Hola\n\nContenido.\n")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	if !strings.HasPrefix(doc, "---\n") {
		t.Fatalf("document does not open a frontmatter block: %q", doc)
	}
	rest := strings.TrimPrefix(doc, "---\n")
	head, body, ok := strings.Cut(rest, "---\n\n")
	if !ok {
		t.Fatalf("document does not close the frontmatter block: %q", doc)
	}

	var decoded Frontmatter
	if err := yaml.Unmarshal([]byte(head), &decoded); err != nil {
		t.Fatalf("frontmatter is not valid YAML: %v", err)
	}
	if decoded != fm {
		t.Errorf("frontmatter = %+v, want %+v", decoded, fm)
	}
	if body != "# Hola\n\nContenido.\n" {
		t.Errorf("body = %q", body)
	}
}

func TestComposeQuoting(t *testing.T) {
	// Titles with YAML-significant characters must survive a decode.
	fm := Frontmatter{
		Title:     `Breaking: "quotes" & colons`,
		Date:      "2024-01-01T00:00:00Z",
		SourceURL: "http://example.com/x",
		Language:  "pt-BR",
	}

	doc, err := Compose(fm, "body\n")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}

	head := strings.TrimPrefix(doc, "---\n")
	head, _, _ = strings.Cut(head, "---\n\n")

	var decoded Frontmatter
	if err := yaml.Unmarshal([]byte(head), &decoded); err != nil {
		t.Fatalf("frontmatter is not valid YAML: %v", err)
	}
	if decoded != fm {
		t.Errorf("frontmatter = %+v, want %+v", decoded, fm)
	}
}

func TestConvertBasicHTML(t *testing.T) {
	out, err := Convert("<h1>Hola</h1><p>Un <strong>párrafo</strong>.</p>")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(out, "# Hola") {
		t.Errorf("heading not converted: %q", out)
	}
	if !strings.Contains(out, "**párrafo**") {
		t.Errorf("emphasis not converted: %q", out)
	}
}
