package docvault

import (
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeLink resolves href, found on the page at currentPath, into a
// crawl-relative path under baseURL. The bool result is false when the
// link points outside the source (another host, or outside the base path).
//
// Crawl-relative paths are relative to the base path, since PageURL joins
// them onto baseURL. Same-host locations outside the base path have no
// such form and are dropped rather than fetched from the wrong location.
//
// Fragments and query strings are dropped. Results never start with "/",
// "./" or "../", so normalizing a result again from a root-level page
// returns it unchanged.
func NormalizeLink(href, currentPath, baseURL string) (string, bool) {
	href = strings.TrimSpace(href)
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if i := strings.IndexByte(href, '?'); i >= 0 {
		href = href[:i]
	}
	if href == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return relativeToBase(href, baseURL)
	case strings.HasPrefix(href, "//"):
		return relativeToBase("https:"+href, baseURL)
	case strings.HasPrefix(href, "/"):
		return stripBasePath(href, baseURL)
	case strings.HasPrefix(href, "../"):
		var parts []string
		if dir := dirOf(currentPath); dir != "" {
			parts = strings.Split(dir, "/")
		}
		for strings.HasPrefix(href, "../") {
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
			href = href[3:]
		}
		return joinPath(strings.Join(parts, "/"), href), true
	default:
		for strings.HasPrefix(href, "./") {
			href = href[2:]
		}
		return joinPath(dirOf(currentPath), href), true
	}
}

// relativeToBase maps an absolute URL onto a crawl-relative path.
func relativeToBase(abs, baseURL string) (string, bool) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}
	target, err := url.Parse(abs)
	if err != nil {
		return "", false
	}
	if !strings.EqualFold(base.Hostname(), target.Hostname()) {
		return "", false
	}
	return stripBasePath(target.Path, baseURL)
}

// stripBasePath turns a host-absolute path into one relative to the path
// component of baseURL.
func stripBasePath(p, baseURL string) (string, bool) {
	prefix := "/"
	if base, err := url.Parse(baseURL); err == nil && base.Path != "" {
		prefix = base.Path
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if prefix == "/" {
		return strings.TrimLeft(p, "/"), true
	}
	if p+"/" == prefix {
		return "", true
	}
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	return strings.TrimLeft(p[len(prefix):], "/"), true
}

func dirOf(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

func joinPath(dir, rel string) string {
	if dir == "" {
		return rel
	}
	return dir + "/" + rel
}

// documentExtensions are stripped from the last path segment by EntryPath.
var documentExtensions = []string{".html", ".htm", ".mdx", ".md", ".markdown"}

// EntryPath converts a crawl-relative or repository-relative path into an
// entry identifier: forward-slash separated, without a trailing slash or a
// document extension. The empty path maps to "index".
func EntryPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	lower := strings.ToLower(p)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(lower, ext) {
			p = p[:len(p)-len(ext)]
			break
		}
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "index"
	}
	return p
}

// ParentPath returns the entry path with its last segment removed,
// or the empty string for root-level entries.
func ParentPath(entryPath string) string {
	return dirOf(entryPath)
}

// Humanize turns a path segment into a display title.
func Humanize(segment string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(segment)
	s = strings.TrimSpace(s)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// pathKeywords maps path substrings to entry types. Order matters: the
// first rule with a matching keyword wins.
var pathKeywords = []struct {
	keywords  []string
	entryType string
}{
	{[]string{"class", "struct"}, EntryTypeClass},
	{[]string{"function", "fn"}, EntryTypeFunction},
	{[]string{"module", "mod"}, EntryTypeModule},
	{[]string{"trait", "interface"}, EntryTypeTrait},
	{[]string{"enum"}, EntryTypeEnum},
	{[]string{"constant", "const"}, EntryTypeConstant},
	{[]string{"type"}, EntryTypeType},
}

// ClassifyPath derives an entry type for a crawled page from its path.
func ClassifyPath(p string) string {
	lower := strings.ToLower(p)
	for _, rule := range pathKeywords {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.entryType
			}
		}
	}
	if strings.Contains(p, "/") {
		return EntryTypePage
	}
	return EntryTypeSection
}
