package pdf

import (
	"fmt"
	"strings"
	"time"
)

// Filename derives a filesystem-safe report filename from a URL.
// The scheme and a leading "www." are stripped, every character that
// is not a letter or digit becomes an underscore, and a timestamp is
// appended so repeated reports for the same site never collide.
func Filename(rawURL string, now time.Time) string {
	name := rawURL
	name = strings.TrimPrefix(name, "https://")
	name = strings.TrimPrefix(name, "http://")
	name = strings.TrimPrefix(name, "www.")
	name = strings.TrimRight(name, "/")

	var sb strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}

	return fmt.Sprintf("seo_report_for_%s_%s.pdf", sb.String(), now.Format("20060102_150405"))
}
