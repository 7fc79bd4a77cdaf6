package builtin

import (
	"fmt"
	"strings"
)

func format(source string, s *Settings) (string, error) {
	text := strings.ReplaceAll(source, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	if s.LowercaseKeywords {
		var err error
		if text, err = lowercaseKeywords(text); err != nil {
			return "", err
		}
	} else if err := checkTerminated(text); err != nil {
		return "", err
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		if s.TabWidth > 0 {
			line = expandLeadingTabs(line, s.TabWidth)
		}
		if s.TrimTrailingWhitespace {
			line = strings.TrimRight(line, " \t")
		}
		if strings.TrimSpace(line) == "" {
			blank++
			if s.MaxBlankLines >= 0 && blank > s.MaxBlankLines {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, line)
	}

	// Drop trailing blank lines; a non-empty file ends with one line ending.
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "", nil
	}

	eol := "\n"
	if s.LineEnding == lineEndingCRLF {
		eol = "\r\n"
	}
	return strings.Join(out, eol) + eol, nil
}

func expandLeadingTabs(line string, width int) string {
	i := 0
	col := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		if line[i] == '\t' {
			col += width - col%width
		} else {
			col++
		}
		i++
	}
	if !strings.Contains(line[:i], "\t") {
		return line
	}
	return strings.Repeat(" ", col) + line[i:]
}

type scanState int

const (
	stateCode scanState = iota
	stateString
	stateBraceComment
	stateParenComment
	stateLineComment
)

// scan walks text and calls word for every identifier outside strings and
// comments. It reports comments left open at the end of the text.
func scan(text string, word func(start, end int)) error {
	state := stateCode
	openedAt := 0
	line := 1
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			line++
		}
		switch state {
		case stateCode:
			switch {
			case c == '\'':
				state = stateString
			case c == '{':
				state, openedAt = stateBraceComment, line
			case c == '(' && i+1 < len(text) && text[i+1] == '*':
				state, openedAt = stateParenComment, line
				i++
			case c == '/' && i+1 < len(text) && text[i+1] == '/':
				state = stateLineComment
				i++
			case isIdentStart(c):
				start := i
				for i+1 < len(text) && isIdentPart(text[i+1]) {
					i++
				}
				// &begin is an escaped identifier, x.begin a member access
				if start == 0 || (text[start-1] != '&' && text[start-1] != '.') {
					word(start, i+1)
				}
			}
		case stateString:
			// Strings end at the closing quote or the line end; '' is an escaped quote.
			if c == '\'' {
				if i+1 < len(text) && text[i+1] == '\'' {
					i++
				} else {
					state = stateCode
				}
			} else if c == '\n' {
				state = stateCode
			}
		case stateBraceComment:
			if c == '}' {
				state = stateCode
			}
		case stateParenComment:
			if c == '*' && i+1 < len(text) && text[i+1] == ')' {
				state = stateCode
				i++
			}
		case stateLineComment:
			if c == '\n' {
				state = stateCode
			}
		}
	}

	switch state {
	case stateBraceComment, stateParenComment:
		return fmt.Errorf("unterminated comment starting on line %d", openedAt)
	}
	return nil
}

func checkTerminated(text string) error {
	return scan(text, func(int, int) {})
}

func lowercaseKeywords(text string) (string, error) {
	b := []byte(text)
	err := scan(text, func(start, end int) {
		w := strings.ToLower(text[start:end])
		if keywords[w] {
			copy(b[start:end], w)
		}
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
