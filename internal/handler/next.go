package handler

import "strings"

const defaultNext = "/output"

// sanitizeNext restricts a post-action redirect target to same-origin
// relative paths. Anything absolute, protocol-relative or otherwise
// suspicious falls back to the appointment list.
func sanitizeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") {
		return defaultNext
	}
	if strings.HasPrefix(next, "//") || strings.Contains(next, "\\") || strings.Contains(next, "://") {
		return defaultNext
	}
	return next
}
