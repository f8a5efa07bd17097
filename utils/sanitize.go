package utils

import "github.com/microcosm-cc/bluemonday"

// Comments are free text rendered back in the dashboard; strip all markup.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize cleans user-supplied text to prevent stored XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
