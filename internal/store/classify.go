package store

import (
	"path"
	"regexp"
	"strings"
)

// FileType is the classified kind a source path falls into (spec.md §4.7).
type FileType string

const (
	FileTypeChangelog            FileType = "changelog"
	FileTypeDocumentationPrimary FileType = "documentation-primary"
	FileTypeDocumentation        FileType = "documentation"
	FileTypeTest                 FileType = "test"
	FileTypeExample              FileType = "example"
	FileTypeConfig               FileType = "config"
	FileTypeSourceInternal       FileType = "source-internal"
	FileTypeSource               FileType = "source"
	FileTypeOther                FileType = "other"
)

var (
	changelogRe = regexp.MustCompile(`(?i)changelog`)
	testPathRe  = regexp.MustCompile(`(?i)/__tests__/`)
	testNameRe  = regexp.MustCompile(`(?i)\.(test|spec)\.[tj]sx?$`)
	exampleRe   = regexp.MustCompile(`(?i)/examples?/`)
	internalRe  = regexp.MustCompile(`(?i)(/packages/[^/]+/src/|/internal/|/(compiler|transforms?|parse|codegen)/)`)

	codeExtensions = map[string]bool{
		".go": true, ".ts": true, ".tsx": true, ".js": true, ".jsx": true,
		".py": true, ".rb": true, ".java": true, ".c": true, ".cc": true,
		".cpp": true, ".h": true, ".hpp": true, ".rs": true, ".cs": true,
	}

	configNamePrefixes = []string{
		"tsconfig", "package", ".eslint", ".prettier", "vite.config", "next.config",
	}
)

// primaryDocNames holds the documentation-primary basenames, compared
// case-insensitively.
var primaryDocNames = map[string]bool{
	"readme.md":       true,
	"migration.md":    true,
	"contributing.md": true,
}

// Classify assigns a FileType to sourcePath per spec.md §4.7's ordered
// rules. The first matching rule wins.
func Classify(sourcePath string) FileType {
	lower := strings.ToLower(sourcePath)
	base := strings.ToLower(path.Base(lower))
	ext := strings.ToLower(path.Ext(lower))

	if ext == ".md" {
		if changelogRe.MatchString(base) {
			return FileTypeChangelog
		}
		if primaryDocNames[base] {
			return FileTypeDocumentationPrimary
		}
		return FileTypeDocumentation
	}

	if testPathRe.MatchString(lower) || testNameRe.MatchString(base) {
		return FileTypeTest
	}

	if exampleRe.MatchString("/"+lower) || strings.Contains(base, "example") {
		return FileTypeExample
	}

	for _, prefix := range configNamePrefixes {
		if strings.HasPrefix(base, prefix) {
			return FileTypeConfig
		}
	}

	if codeExtensions[ext] {
		if internalRe.MatchString(lower) && base != "index"+ext && base != "readme"+ext {
			return FileTypeSourceInternal
		}
		return FileTypeSource
	}

	return FileTypeOther
}
