package common

import (
	"fmt"
	"strconv"
	"strings"
)

// MarkdownChars are the characters escaped by EscapeMarkdown
const MarkdownChars = "*_`>"

// FormatBalance formats a balance amount with thousand separators
func FormatBalance(balance int64) string {
	str := strconv.FormatInt(balance, 10)

	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}

	n := len(str)
	if n <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// EscapeMarkdown prefixes every markdown control character with a backslash
func EscapeMarkdown(text string) string {
	var b strings.Builder
	for _, r := range text {
		if strings.ContainsRune(MarkdownChars, r) {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatUserID converts an int64 user ID to string
func FormatUserID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID string) string {
	return "<@" + userID + ">"
}

// FormatQuoteList renders names as a single quoted line, e.g. " > a, b"
func FormatQuoteList(names []string) string {
	return fmt.Sprintf(" > %s", strings.Join(names, ", "))
}
