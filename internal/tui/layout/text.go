package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ansiRegex matches ANSI escape sequences.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes ANSI escape codes from a string.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// TruncateText truncates text to maxWidth runes with ellipsis.
// Returns the truncated text and whether truncation occurred.
func TruncateText(text string, maxWidth int, cfg TextConfig) (string, bool) {
	if maxWidth <= 0 {
		return "", true
	}

	if utf8.RuneCountInString(text) <= maxWidth {
		return text, false
	}

	ellipsis := []rune(cfg.Ellipsis)
	if maxWidth <= len(ellipsis) {
		return string(ellipsis[:maxWidth]), true
	}

	runes := []rune(text)
	return string(runes[:maxWidth-len(ellipsis)]) + cfg.Ellipsis, true
}

// SpreadColumns places left and right on one line of exactly width runes,
// truncating left so right always stays visible.
// Example: SpreadColumns("Understanding Anxiety", "45:00", 20, cfg) -> "Understandi... 45:00"
func SpreadColumns(left, right string, width int, cfg TextConfig) string {
	rightLen := utf8.RuneCountInString(right)
	if rightLen >= width {
		s, _ := TruncateText(right, width, cfg)
		return s
	}

	// Keep at least one space between columns
	leftMax := width - rightLen - 1
	left, _ = TruncateText(left, leftMax, cfg)
	gap := width - utf8.RuneCountInString(left) - rightLen
	return left + strings.Repeat(" ", gap) + right
}
