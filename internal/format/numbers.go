package format

import (
	"fmt"
	"strings"
)

// FormatNumberString inserts thousands separators into a canonical decimal
// integer string, keeping a leading '-' in front: "-1234567" -> "-1,234,567".
func FormatNumberString(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}

	var sb strings.Builder
	sb.Grow(len(sign) + len(s) + len(s)/3)
	sb.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		sb.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if sb.Len() > len(sign) {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// TruncateDigits shortens a decimal string longer than limit digits to its
// first and last edge digits joined by "...". The sign is preserved and
// not counted. It reports whether truncation happened.
func TruncateDigits(s string, limit, edge int) (string, bool) {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= limit || 2*edge >= len(s) {
		return sign + s, false
	}
	return sign + s[:edge] + "..." + s[len(s)-edge:], true
}

// FormatBytes renders a byte count with a binary unit suffix.
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
