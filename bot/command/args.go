package command

import (
	"strings"
	"unicode"
)

// splitName separates the command name from the rest of the message body
func splitName(body string) (string, string) {
	idx := strings.IndexFunc(body, unicode.IsSpace)
	if idx < 0 {
		return body, ""
	}
	return body[:idx], body[idx:]
}

// SplitArgs tokenizes on whitespace. Double quotes group words into one
// argument and \" inside quotes is a literal quote. An unterminated quote
// runs to the end of the input.
func SplitArgs(input string) []string {
	var (
		args    []string
		current strings.Builder
		quoted  bool
		inToken bool
	)

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quoted && r == '\\' && i+1 < len(runes) && runes[i+1] == '"':
			current.WriteRune('"')
			i++
		case r == '"':
			quoted = !quoted
			inToken = true
		case !quoted && unicode.IsSpace(r):
			if inToken {
				args = append(args, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		args = append(args, current.String())
	}

	return args
}
