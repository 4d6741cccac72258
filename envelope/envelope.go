// Package envelope embeds per-document metadata inside the HTML payload
// itself. The pipeline has no shared database, so a hidden marker element at
// the top of each staged document is the only carrier of title, date and
// origin across stage boundaries. The marker survives machine translation
// because translation services leave element structure and data attributes
// intact.
package envelope

import (
	"html"
	"regexp"
	"time"
)

// Metadata is the document state threaded through every stage.
type Metadata struct {
	Title       string
	PublishedAt string
	SourceURL   string
	CoverURL    string
}

// Defaults substituted for fields missing from a decoded document.
const (
	DefaultTitle     = "untitled"
	DefaultSourceURL = "unknown"
)

var (
	markerRe = regexp.MustCompile(`<div[^>]*\bid="post-meta"[^>]*>\s*</div>\n?`)
	titleRe  = regexp.MustCompile(`data-title="([^"]*)"`)
	dateRe   = regexp.MustCompile(`data-date="([^"]*)"`)
	urlRe    = regexp.MustCompile(`data-url="([^"]*)"`)
	coverRe  = regexp.MustCompile(`data-cover="([^"]*)"`)
)

// Encode renders the metadata as a hidden, non-rendering marker element. All
// four attributes are always present; values are attribute-escaped so titles
// containing quotes or angle brackets cannot break out of the attribute.
func Encode(meta Metadata) string {
	return `<div id="post-meta" hidden` +
		` data-title="` + html.EscapeString(meta.Title) + `"` +
		` data-date="` + html.EscapeString(meta.PublishedAt) + `"` +
		` data-url="` + html.EscapeString(meta.SourceURL) + `"` +
		` data-cover="` + html.EscapeString(meta.CoverURL) + `"` +
		`></div>`
}

// Wrap prepends the marker to an HTML body for staging.
func Wrap(meta Metadata, body string) string {
	return Encode(meta) + "\n" + body
}

// Decode extracts the marker fields from a document and returns the document
// with the marker stripped. Decoding never fails: each field is looked up
// independently, and a missing or empty field falls back to its default, so
// a document whose marker was damaged in transit still renders, with
// "untitled"/"unknown" signalling the degradation downstream.
func Decode(doc string) (Metadata, string) {
	meta := Metadata{
		Title:       lookup(titleRe, doc, DefaultTitle),
		PublishedAt: lookup(dateRe, doc, time.Now().UTC().Format(time.RFC3339)),
		SourceURL:   lookup(urlRe, doc, DefaultSourceURL),
		CoverURL:    lookup(coverRe, doc, ""),
	}
	return meta, markerRe.ReplaceAllString(doc, "")
}

func lookup(re *regexp.Regexp, doc, fallback string) string {
	m := re.FindStringSubmatch(doc)
	if m == nil {
		return fallback
	}
	if v := html.UnescapeString(m[1]); v != "" {
		return v
	}
	return fallback
}
