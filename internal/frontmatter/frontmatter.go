// frontmatter reads and writes the YAML front matter block of markdown
// documents.
package frontmatter

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Parse splits a document into its front matter fields and the remaining
// body. A document without a front matter block yields an empty field map
// and the full content as body. An empty block ("---" directly followed
// by the closing fence) is valid. An unterminated or non-mapping block is
// an error. Both LF and CRLF line endings are recognized.
func Parse(content []byte) (fields map[string]any, body []byte, err error) {
	fields = map[string]any{}

	var rest []byte
	switch {
	case bytes.HasPrefix(content, []byte(fence+"\n")):
		rest = content[len(fence)+1:]
	case bytes.HasPrefix(content, []byte(fence+"\r\n")):
		rest = content[len(fence)+2:]
	default:
		return fields, content, nil
	}

	end := closingFence(rest)
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated front matter block")
	}

	block := rest[:end]
	body = rest[end+len(fence):]
	switch {
	case bytes.HasPrefix(body, []byte("\r\n")):
		body = body[2:]
	case len(body) > 0 && body[0] == '\n':
		body = body[1:]
	}

	if err := yaml.Unmarshal(block, &fields); err != nil {
		return nil, nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, body, nil
}

// closingFence returns the offset of the closing fence line in rest, or
// -1. Offset zero is the empty-block case, where the closing fence
// directly follows the opening one.
func closingFence(rest []byte) int {
	if fenceLine(rest) {
		return 0
	}
	offset := 0
	for {
		i := bytes.Index(rest[offset:], []byte("\n"+fence))
		if i < 0 {
			return -1
		}
		at := offset + i + 1
		if fenceLine(rest[at:]) {
			return at
		}
		offset = at
	}
}

// fenceLine reports whether b starts with a fence occupying a full line.
func fenceLine(b []byte) bool {
	if !bytes.HasPrefix(b, []byte(fence)) {
		return false
	}
	tail := b[len(fence):]
	switch {
	case len(tail) == 0:
		return true
	case tail[0] == '\n':
		return true
	case tail[0] == '\r':
		return len(tail) == 1 || tail[1] == '\n'
	}
	return false
}

// Render reassembles a document from fields and body. An empty field map
// produces no front matter block at all.
func Render(fields map[string]any, body []byte) ([]byte, error) {
	if len(fields) == 0 {
		return body, nil
	}

	block, err := yaml.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to render front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(fence)
	buf.WriteByte('\n')
	buf.Write(block)
	buf.WriteString(fence)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes(), nil
}
