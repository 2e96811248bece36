package mdc

import "strings"

// frontmatterDelimiter is the exact marker line opening and closing the
// metadata header.
const frontmatterDelimiter = "---"

// StripFrontmatter removes a leading frontmatter block from raw input. The
// block opens with the delimiter as the exact first line and closes at the
// next line equal to the delimiter; everything after the closing line is
// returned unchanged. Input that does not start with the delimiter is
// returned as is.
//
// An opening delimiter with no closing delimiter is treated as no
// frontmatter: the whole input, opening line included, is the body. The
// returned bool reports whether a header was actually removed.
func StripFrontmatter(input string) (string, bool) {
	lines := splitLines(input)
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != frontmatterDelimiter {
		return input, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == frontmatterDelimiter {
			return strings.Join(lines[i+1:], "\n"), true
		}
	}
	return input, false
}

// opensFrontmatter reports whether the first line is the delimiter, using
// the same line splitting as StripFrontmatter so CRLF input and a bare
// delimiter with no trailing newline agree with it.
func opensFrontmatter(input string) bool {
	lines := splitLines(input)
	return len(lines) > 0 && strings.TrimRight(lines[0], "\r") == frontmatterDelimiter
}

func splitLines(input string) []string {
	if input == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(input, "\r\n", "\n"), "\n")
}
