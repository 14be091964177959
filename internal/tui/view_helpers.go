package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-quote-keeper/models"
)

const uiDivider = "──────────────────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		for line := range strings.SplitSeq(data, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("  ctrl+c: quit"))

	return b.String()
}

// fitText shortens v to max runes, marking the cut with "...".
func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func syncLine(status models.SyncStatus, spinner string) string {
	switch {
	case status.InFlight:
		return fmt.Sprintf("%s syncing (%s)", spinner, status.Phase)
	case status.ConsecutiveFailures > 0:
		return fmt.Sprintf("sync failed %d time(s), pending %d", status.ConsecutiveFailures, status.PendingUpload)
	case status.LastSuccessAt.IsZero():
		return "not synced yet"
	default:
		return fmt.Sprintf("synced %s, pending %d", formatTime(status.LastSuccessAt), status.PendingUpload)
	}
}
