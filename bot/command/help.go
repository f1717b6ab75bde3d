package command

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultHelpWidth is the column budget of a help line
	DefaultHelpWidth = 80
	// DefaultHelpPageLen is the platform message size limit
	DefaultHelpPageLen = 2000

	codeBlockOpen  = "```\n"
	codeBlockClose = "\n```"
	helpIndent     = "  "
)

// HelpFormatter renders registry snapshots as paginated code blocks
type HelpFormatter struct {
	Width      int
	MaxPageLen int
}

// NewHelpFormatter creates a formatter, replacing non-positive limits with defaults
func NewHelpFormatter(width, maxPageLen int) *HelpFormatter {
	if width <= 0 {
		width = DefaultHelpWidth
	}
	if maxPageLen <= 0 {
		maxPageLen = DefaultHelpPageLen
	}
	return &HelpFormatter{Width: width, MaxPageLen: maxPageLen}
}

// EndingNote is the last line of the command listing
func EndingNote(prefix string) string {
	return fmt.Sprintf("Type %shelp command for more info on a command.", prefix)
}

// FormatListing renders every group and returns the pages to send
func (f *HelpFormatter) FormatListing(groups []Group, prefix string) []string {
	var lines []string
	for _, group := range groups {
		if len(group.Commands) == 0 {
			continue
		}
		lines = append(lines, group.Category+":")

		nameWidth := 0
		for _, cmd := range group.Commands {
			if n := utf8.RuneCountInString(prefix + cmd.Name); n > nameWidth {
				nameWidth = n
			}
		}

		// Descriptions start two spaces after the longest name
		descColumn := len(helpIndent) + nameWidth + 2
		for _, cmd := range group.Commands {
			name := prefix + cmd.Name
			pad := strings.Repeat(" ", nameWidth-utf8.RuneCountInString(name)+2)
			line := helpIndent + name + pad + cmd.Help
			lines = append(lines, f.wrap(line, descColumn)...)
		}
	}

	lines = append(lines, "", EndingNote(prefix))
	return f.paginate(lines)
}

// FormatCommand renders the detailed help of one command
func (f *HelpFormatter) FormatCommand(cmd *Command, prefix string) []string {
	signature := prefix + cmd.Name
	if len(cmd.Aliases) > 0 {
		signature = prefix + "[" + strings.Join(append([]string{cmd.Name}, cmd.Aliases...), "|") + "]"
	}
	if cmd.Usage != "" {
		signature += " " + cmd.Usage
	}

	lines := f.wrap(signature, 0)
	if cmd.Help != "" {
		lines = append(lines, "")
		lines = append(lines, f.wrap(cmd.Help, 0)...)
	}
	return f.paginate(lines)
}

// wrap cuts line at exactly Width runes. Continuation lines are indented to
// indent columns, which may split words.
func (f *HelpFormatter) wrap(line string, indent int) []string {
	runes := []rune(line)
	if len(runes) <= f.Width {
		return []string{line}
	}
	if indent >= f.Width {
		indent = 0
	}

	out := []string{string(runes[:f.Width])}
	rest := runes[f.Width:]
	chunk := f.Width - indent
	pad := strings.Repeat(" ", indent)
	for len(rest) > 0 {
		n := chunk
		if n > len(rest) {
			n = len(rest)
		}
		out = append(out, pad+string(rest[:n]))
		rest = rest[n:]
	}
	return out
}

// paginate packs lines into code blocks of at most MaxPageLen runes each
func (f *HelpFormatter) paginate(lines []string) []string {
	budget := f.MaxPageLen - utf8.RuneCountInString(codeBlockOpen) - utf8.RuneCountInString(codeBlockClose)
	if budget < 1 {
		budget = 1
	}

	var pages []string
	var current []string
	size := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		pages = append(pages, codeBlockOpen+strings.Join(current, "\n")+codeBlockClose)
		current = nil
		size = 0
	}

	for _, line := range lines {
		for _, piece := range splitRunes(line, budget) {
			n := utf8.RuneCountInString(piece)
			needed := n
			if len(current) > 0 {
				needed++ // newline separator
			}
			if size+needed > budget {
				flush()
				needed = n
			}
			current = append(current, piece)
			size += needed
		}
	}
	flush()

	return pages
}

// splitRunes breaks s into pieces of at most n runes
func splitRunes(s string, n int) []string {
	runes := []rune(s)
	if len(runes) <= n {
		return []string{s}
	}
	var out []string
	for len(runes) > n {
		out = append(out, string(runes[:n]))
		runes = runes[n:]
	}
	return append(out, string(runes))
}
