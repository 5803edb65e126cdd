// Package dom adapts the orrery engine to the browser document served by
// the API server. Everything except the URL helpers in this file requires
// GOOS=js GOARCH=wasm.
package dom

import (
	"net/url"
	"strconv"
	"strings"
)

// DateParam extracts the date query parameter from a location search string
// such as "?date=2030-01-01". It returns "" when absent.
func DateParam(search string) string {
	q, err := url.ParseQuery(strings.TrimPrefix(search, "?"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(q.Get("date"))
}

// DateURL is the relative location of the page for date.
func DateURL(date string) string {
	return "?" + url.Values{"date": {date}}.Encode()
}

// shiftAttr reads a data-shift-* attribute value. Missing or malformed
// values yield 0.
func shiftAttr(v string) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0
	}
	return n
}
