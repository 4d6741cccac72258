// Package markdown renders translated documents as frontmatter-headed
// Markdown files for the content store.
package markdown

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header prepended to every rendered document.
type Frontmatter struct {
	Title     string `yaml:"title"`
	Date      string `yaml:"date"`
	SourceURL string `yaml:"source_url"`
	Language  string `yaml:"language"`
}

// Compose renders the frontmatter block, a blank line, then the body.
func Compose(fm Frontmatter, body string) (string, error) {
	head, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n\n")
	b.WriteString(body)
	return b.String(), nil
}

// Convert renders an HTML fragment as CommonMark Markdown.
func Convert(html string) (string, error) {
	return htmltomarkdown.ConvertString(html)
}
