package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBalance(t *testing.T) {
	tests := []struct {
		balance int64
		want    string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-70, "-70"},
		{-1500, "-1,500"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBalance(tt.balance))
	}
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "\\*bold\\* \\_it\\_ \\`code\\` \\> quote", EscapeMarkdown("*bold* _it_ `code` > quote"))
	assert.Equal(t, "plain", EscapeMarkdown("plain"))
}

func TestFormatQuoteList(t *testing.T) {
	assert.Equal(t, " > a, b", FormatQuoteList([]string{"a", "b"}))
}
