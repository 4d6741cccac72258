// Package naming defines the object key conventions that coordinate the
// pipeline stages. Stages never exchange metadata out of band: document
// identity and target language travel inside the object name itself.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RawPrefix is the staging area for ingested HTML inside the raw bucket.
const RawPrefix = "raw-html"

// slugMax bounds the title-derived part of generated object names.
const slugMax = 50

// translatedNameRe decomposes batch-translation output names. The language
// tag is a 2-3 letter primary code with an optional 2-4 letter region subtag
// (es, pt-BR). The base may itself contain underscores, so the leading group
// is greedy and the language is whatever sits before the final
// _translations.html.
var translatedNameRe = regexp.MustCompile(`^(.+)_([A-Za-z]{2,3}(?:-[A-Za-z]{2,4})?)_translations\.html$`)

// Slug reduces a title to the ASCII letters and digits it contains, truncated
// to slugMax. Uniqueness comes from the timestamp discriminator appended by
// RawKey, not from the slug.
func Slug(title string) string {
	var b strings.Builder
	for _, r := range title {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == slugMax {
				break
			}
		}
	}
	return b.String()
}

// RawKey names a staged raw-HTML object: raw-html/<slug>-<unixMillis>.html.
func RawKey(title string, createdAt time.Time) string {
	return fmt.Sprintf("%s/%s-%d.html", RawPrefix, Slug(title), createdAt.UnixMilli())
}

// TranslatedKey identifies one translated rendition of a staged document.
type TranslatedKey struct {
	// Base is the document identity shared by every rendition, with the
	// legacy raw-html_ staging prefix already stripped.
	Base string
	// Language is the tag recovered from the filename (es, pt-BR, ...).
	Language string
}

// ParseTranslatedKey decodes a translation-output object key. The boolean
// reports whether the name matches the contract at all; buckets receive
// unrelated objects, so a mismatch is a routing decision for the caller, not
// an error.
func ParseTranslatedKey(key string) (TranslatedKey, bool) {
	name := key
	if i := strings.LastIndex(key, "/"); i >= 0 {
		name = key[i+1:]
	}
	m := translatedNameRe.FindStringSubmatch(name)
	if m == nil {
		return TranslatedKey{}, false
	}
	return TranslatedKey{
		Base:     strings.TrimPrefix(m[1], RawPrefix+"_"),
		Language: m[2],
	}, true
}

// MarkdownKey names a rendered Markdown object: <lang>/<base>.md.
func MarkdownKey(base, language string) string {
	return fmt.Sprintf("%s/%s.md", language, base)
}

// JSONKey names a rendered JSON object: <lang>/<unixMillis>/<base>.json. The
// timestamp is the render time, so re-renders land next to each other instead
// of overwriting.
func JSONKey(base, language string, renderedAt time.Time) string {
	return fmt.Sprintf("%s/%d/%s.json", language, renderedAt.UnixMilli(), base)
}

// RecordSlug derives the lowercase URL-safe slug carried inside rendered JSON
// records. Runs of non-alphanumerics collapse to a single hyphen.
func RecordSlug(title string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(title) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
