// Package validation checks user input and reports problems per form field.
package validation

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Fields collects per-field problems so a form reports all of them at once.
// The first problem recorded for a field wins.
type Fields map[string]string

// Add records msg for field unless the field already has a problem.
func (f Fields) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// OK reports whether no problems were recorded.
func (f Fields) OK() bool {
	return len(f) == 0
}

// Required flags a value that is blank after trimming.
func (f Fields) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.Add(field, "This field is required.")
	}
}

// MaxLen flags a value longer than max characters.
func (f Fields) MaxLen(field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		f.Add(field, "Ensure this value has at most "+strconv.Itoa(max)+" characters.")
	}
}

// URL flags a non-empty value that is not an absolute http(s) URL.
func (f Fields) URL(field, value string) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		f.Add(field, "Enter a valid URL.")
	}
}

// OneOf flags a non-empty value that is not among allowed.
func (f Fields) OneOf(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	f.Add(field, "Select a valid choice. "+value+" is not one of the available choices.")
}
