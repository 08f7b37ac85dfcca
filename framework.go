package docvault

// Framework identifies a documentation site generator.
type Framework string

// Recognized documentation frameworks.
const (
	FrameworkUnknown    Framework = ""
	FrameworkDocusaurus Framework = "docusaurus"
	FrameworkMkDocs     Framework = "mkdocs"
	FrameworkSphinx     Framework = "sphinx"
	FrameworkVuePress   Framework = "vuepress"
	FrameworkVitePress  Framework = "vitepress"
	FrameworkGitBook    Framework = "gitbook"
	FrameworkNextra     Framework = "nextra"
)

// FrameworkDetector identifies documentation frameworks from HTML.
type FrameworkDetector interface {
	// Detect returns FrameworkUnknown if the framework cannot be determined.
	Detect(html string) Framework
}
