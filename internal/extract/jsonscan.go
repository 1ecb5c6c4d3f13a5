package extract

import "strings"

// jsonLexer walks a JSON-ish string byte by byte and reports whether the
// current byte sits inside a string literal. Escapes inside strings are
// consumed together with the byte they escape.
type jsonLexer struct {
	s        string
	pos      int
	inString bool
	escaped  bool
}

// step advances one byte and returns it along with whether it belongs to a
// string literal (quotes included).
func (l *jsonLexer) step() (byte, bool) {
	c := l.s[l.pos]
	l.pos++
	switch {
	case l.escaped:
		l.escaped = false
		return c, true
	case l.inString && c == '\\':
		l.escaped = true
		return c, true
	case c == '"':
		l.inString = !l.inString
		return c, true
	default:
		return c, l.inString
	}
}

func (l *jsonLexer) done() bool { return l.pos >= len(l.s) }

func (l *jsonLexer) peek(off int) byte {
	if l.pos+off < len(l.s) {
		return l.s[l.pos+off]
	}
	return 0
}

// unfence drops markdown fence lines, keeping the fenced body and any prose
// around it.
func unfence(s string) string {
	if !strings.Contains(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// firstObject returns the first balanced {...} block, or "" when none closes.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	objs := balancedObjects(s[start:], false)
	if len(objs) == 0 {
		return ""
	}
	return objs[0]
}

// balancedObjects collects each complete top-level {...} element. With
// stopAtBracket set, a top-level ']' ends the scan, which lets callers walk
// the body of an array.
func balancedObjects(body string, stopAtBracket bool) []string {
	var out []string
	l := &jsonLexer{s: body}
	depth, start := 0, -1
	for !l.done() {
		at := l.pos
		c, quoted := l.step()
		if quoted {
			continue
		}
		switch c {
		case '{':
			if depth == 0 {
				start = at
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				out = append(out, body[start:at+1])
				start = -1
			}
		case ']':
			if stopAtBracket && depth == 0 {
				return out
			}
		}
	}
	return out
}

// repairJSON fixes the two mistakes models make most in otherwise valid JSON:
// comments and numbers written as ".5".
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	l := &jsonLexer{s: s}
	var prev byte
	for !l.done() {
		c, quoted := l.step()
		if quoted {
			b.WriteByte(c)
			prev = c
			continue
		}
		switch {
		case c == '/' && l.peek(0) == '/':
			for !l.done() && l.peek(0) != '\n' {
				l.pos++
			}
			continue
		case c == '/' && l.peek(0) == '*':
			l.pos++
			for !l.done() && !(l.peek(0) == '*' && l.peek(1) == '/') {
				l.pos++
			}
			l.pos += 2
			continue
		case c == '.' && isDigit(l.peek(0)) && opensNumber(prev):
			b.WriteByte('0')
		}
		b.WriteByte(c)
		if c != ' ' && c != '\n' && c != '\r' && c != '\t' {
			prev = c
		}
	}
	return b.String()
}

func opensNumber(c byte) bool {
	switch c {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
