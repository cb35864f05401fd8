package utils

import "github.com/microcosm-cc/bluemonday"

// Free-text fields (usernames, exercise names) end up rendered in a web
// dashboard, so markup is stripped entirely rather than filtered.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips any HTML from user supplied text.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
