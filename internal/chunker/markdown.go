package chunker

import (
	"regexp"
	"strings"
)

var atxHeading = regexp.MustCompile(`^#{1,6}\s+`)

type mdSection struct {
	header string // heading text of this section, "" if content precedes the first heading
	body   string
}

// splitMarkdownSections splits content on ATX headings at any level (spec
// §4.1). Fenced code blocks are tracked so a "#" inside ``` fences is
// never mistaken for a heading.
func splitMarkdownSections(content string) []mdSection {
	lines := strings.Split(content, "\n")
	var sections []mdSection
	var cur mdSection
	started := false
	inFence := false

	flush := func() {
		if started {
			sections = append(sections, cur)
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}

		if !inFence && atxHeading.MatchString(line) {
			flush()
			cur = mdSection{header: strings.TrimSpace(atxHeading.ReplaceAllString(line, "")), body: line}
			started = true
			continue
		}

		if !started {
			cur = mdSection{body: line}
			started = true
			continue
		}
		cur.body += "\n" + line
	}
	flush()
	return sections
}

// chunkMarkdown implements spec §4.1's Markdown strategy: split on ATX
// headings; sections larger than the window size are re-split by sliding
// window, with the section header preserved on every sub-chunk.
func chunkMarkdown(content string, opts Options) []Chunk {
	if content == "" {
		return []Chunk{{Content: ""}}
	}

	sections := splitMarkdownSections(content)
	if len(sections) == 0 {
		return []Chunk{{Content: ""}}
	}

	var chunks []Chunk
	offset := 0
	for _, sec := range sections {
		start := offset
		end := offset + len(sec.body)
		offset = end + 1 // account for the "\n" joining sections back together

		if len(sec.body) <= opts.validate().WindowSize {
			chunks = append(chunks, Chunk{
				Content:       sec.body,
				StartOffset:   start,
				EndOffset:     end,
				SectionHeader: sec.header,
			})
			continue
		}

		for _, sub := range slidingWindow(sec.body, opts) {
			sub.StartOffset += start
			sub.EndOffset += start
			sub.SectionHeader = sec.header
			chunks = append(chunks, sub)
		}
	}
	return chunks
}
