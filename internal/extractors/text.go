package extractors

import (
	"context"
	"strings"
)

// PlainTextExtractor returns text content as-is. Invalid UTF-8 sequences
// are replaced with U+FFFD.
type PlainTextExtractor struct{}

func (e *PlainTextExtractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	return strings.ToValidUTF8(string(data), "�"), nil
}

func (e *PlainTextExtractor) SupportedTypes() []string {
	return []string{"text/*"}
}

func (e *PlainTextExtractor) Priority() int {
	return 10
}

// MarkdownExtractor keeps Markdown source, markup included, but drops a
// leading YAML front matter block so metadata is not chunked as content.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(ctx context.Context, data []byte, mimeType string) (string, error) {
	return stripFrontMatter(strings.ToValidUTF8(string(data), "�")), nil
}

// stripFrontMatter removes a "---" delimited block at the very start of src.
// An unterminated block is left alone.
func stripFrontMatter(src string) string {
	body, ok := strings.CutPrefix(strings.TrimPrefix(src, "\ufeff"), "---")
	if !ok {
		return src
	}
	nl := strings.IndexByte(body, '\n')
	if nl < 0 || strings.TrimSpace(body[:nl]) != "" {
		return src
	}
	body = body[nl+1:]

	for offset := 0; offset < len(body); {
		end := strings.IndexByte(body[offset:], '\n')
		line := body[offset:]
		if end >= 0 {
			line = body[offset : offset+end]
		}
		if t := strings.TrimRight(line, " \t\r"); t == "---" || t == "..." {
			if end < 0 {
				return ""
			}
			return strings.TrimLeft(body[offset+end+1:], "\r\n")
		}
		if end < 0 {
			break
		}
		offset += end + 1
	}
	return src
}

func (e *MarkdownExtractor) SupportedTypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

func (e *MarkdownExtractor) Priority() int {
	return 50
}
