// ABOUTME: Preview compositor: splices stylesheet and script contents inline into the HTML entry file.
// ABOUTME: First-match-only, case-insensitive substitution of the external reference tags.
package compose

import "regexp"

// Names holds the canonical filenames the compositor looks for: the HTML
// entry file plus the stylesheet and script it may reference.
type Names struct {
	Entry      string
	Stylesheet string
	Script     string
}

// DefaultNames returns the conventional filenames.
func DefaultNames() Names {
	return Names{
		Entry:      "index.html",
		Stylesheet: "style.css",
		Script:     "app.js",
	}
}

// Compositor rewrites an HTML entry file so its external stylesheet and
// script references carry the referenced file contents inline. The
// reference patterns compile once at construction; Compose is safe for
// concurrent use.
//
// Splicing is deliberately string-pattern based, not a DOM transform:
// only the first match of each reference is replaced and everything else
// is left byte-identical.
type Compositor struct {
	names    Names
	linkRe   *regexp.Regexp
	scriptRe *regexp.Regexp
}

// New builds a Compositor for the given canonical names. The stylesheet
// reference is a link tag whose href names the stylesheet; the script
// reference is a script tag with a src naming the script and an empty
// body. Matching is case-insensitive and tolerates either quote style.
func New(names Names) *Compositor {
	link := `(?i)<link\b[^>]*\bhref\s*=\s*['"]?` + regexp.QuoteMeta(names.Stylesheet) + `['"]?[^>]*>`
	script := `(?i)<script\b[^>]*\bsrc\s*=\s*['"]?` + regexp.QuoteMeta(names.Script) + `['"]?[^>]*>\s*</script\s*>`

	return &Compositor{
		names:    names,
		linkRe:   regexp.MustCompile(link),
		scriptRe: regexp.MustCompile(script),
	}
}

// Compose produces the preview document for a name to content snapshot.
// The first stylesheet reference in the entry file becomes an inline
// style tag and the first script reference becomes an inline script tag.
// Compose is total and deterministic: a missing entry file yields an
// empty document, a missing stylesheet or script yields an empty inline
// substitution when the reference exists, and no input makes it fail.
func (c *Compositor) Compose(files map[string]string) string {
	doc := files[c.names.Entry]
	css := files[c.names.Stylesheet]
	js := files[c.names.Script]

	doc = replaceFirst(c.linkRe, doc, "<style>"+css+"</style>")
	doc = replaceFirst(c.scriptRe, doc, "<script>\n"+js+"\n</script>")
	return doc
}

// replaceFirst substitutes the first match of re in s with repl taken
// literally, so dollar signs in file contents never expand as patterns.
func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}
