// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-quote-keeper/models"
)

func renderInfoWindow(info models.AppBuildInfo, status models.SyncStatus) string {
	var b strings.Builder

	b.WriteString("Application: Quote Keeper\n")
	b.WriteString("Version: " + valueOrNA(info.BuildVersion()) + "\n")
	b.WriteString("Date: " + valueOrNA(info.BuildDate()) + "\n")
	b.WriteString("Commit: " + valueOrNA(info.BuildCommit()) + "\n\n")

	b.WriteString("Sync phase: " + string(status.Phase) + "\n")
	b.WriteString("Last attempt: " + formatTime(status.LastAttemptAt) + "\n")
	b.WriteString("Last success: " + formatTime(status.LastSuccessAt) + "\n")
	b.WriteString(fmt.Sprintf("Pending upload: %d\n", status.PendingUpload))
	b.WriteString(fmt.Sprintf("Consecutive failures: %d", status.ConsecutiveFailures))
	if status.LastError != "" {
		b.WriteString("\nLast error: " + status.LastError)
	}

	return renderPage("ABOUT", b.String(), "esc: back")
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(time.DateTime)
}
