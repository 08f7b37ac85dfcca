package git

import (
	"bytes"
	"path"
	"strings"

	"github.com/fwojciec/docvault"
	"gopkg.in/yaml.v3"
)

// headingScanLines is how many body lines Title searches for a heading.
const headingScanLines = 20

// frontmatter holds the fields read from a YAML frontmatter block.
type frontmatter struct {
	Title string `yaml:"title"`
}

// Title derives the display title of a Markdown file: the frontmatter
// title, else the first level-1 or level-2 heading within the first
// lines of the body, else the humanized file name.
func Title(content []byte, rel string) string {
	meta, body := splitFrontmatter(content)
	if meta != nil {
		var fm frontmatter
		if err := yaml.Unmarshal(meta, &fm); err == nil {
			if t := strings.TrimSpace(fm.Title); t != "" {
				return t
			}
		}
	}

	if t := firstHeading(body); t != "" {
		return t
	}

	name := path.Base(rel)
	return docvault.Humanize(strings.TrimSuffix(name, path.Ext(name)))
}

// splitFrontmatter separates a leading "---" delimited block from the
// rest of the document. meta is nil when there is no such block.
func splitFrontmatter(content []byte) (meta, body []byte) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	first, rest, ok := bytes.Cut(content, []byte("\n"))
	if !ok || string(bytes.TrimRight(first, "\r")) != "---" {
		return nil, content
	}
	for off := 0; off < len(rest); {
		line, _, _ := bytes.Cut(rest[off:], []byte("\n"))
		if string(bytes.TrimRight(line, "\r")) == "---" {
			end := off + len(line) + 1
			if end > len(rest) {
				end = len(rest)
			}
			return rest[:off], rest[end:]
		}
		off += len(line) + 1
	}
	return nil, content
}

func firstHeading(body []byte) string {
	var inFence bool
	lines := strings.Split(string(body), "\n")
	for i, line := range lines {
		if i >= headingScanLines {
			break
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		for _, marker := range []string{"# ", "## "} {
			if t, ok := strings.CutPrefix(line, marker); ok {
				if t = strings.TrimSpace(strings.TrimRight(t, "#")); t != "" {
					return t
				}
			}
		}
	}
	return ""
}

// ClassifyPath derives an entry type for a repository file from
// keywords in its path.
func ClassifyPath(rel string) string {
	lower := strings.ToLower(rel)
	switch {
	case strings.Contains(lower, "api") || strings.Contains(lower, "reference"):
		return docvault.EntryTypeAPI
	case strings.Contains(lower, "guide") || strings.Contains(lower, "tutorial"):
		return docvault.EntryTypeGuide
	case strings.Contains(lower, "example"):
		return docvault.EntryTypeExample
	case strings.Contains(rel, "/"):
		return docvault.EntryTypePage
	}
	return docvault.EntryTypeSection
}
