package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
	EmailMaxLen    = 254
	PasswordMinLen = 12
	// PasswordMaxBytes is where bcrypt stops reading.
	PasswordMaxBytes = 72
)

var (
	// Letters and digits at both ends, underscores and hyphens inside.
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9_-]*[a-zA-Z0-9])?$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// commonPasswords holds lowercased passwords that satisfy the length rule but
// top every leaked-password list.
var commonPasswords = map[string]bool{
	"password1234": true,
	"password123!": true,
	"p@ssw0rd1234": true,
	"qwerty123456": true,
	"qwertyuiop12": true,
	"1q2w3e4r5t6y": true,
	"1qaz2wsx3edc": true,
	"letmein12345": true,
	"welcome12345": true,
	"iloveyou1234": true,
	"changeme1234": true,
	"abcdefghijkl": true,
}

// Username flags a non-empty username that is not 3 to 30 letters, digits,
// underscores or hyphens starting and ending with a letter or digit.
func (f Fields) Username(field, value string) {
	switch {
	case value == "":
	case utf8.RuneCountInString(value) < UsernameMinLen:
		f.Add(field, "Ensure this value has at least "+strconv.Itoa(UsernameMinLen)+" characters.")
	case utf8.RuneCountInString(value) > UsernameMaxLen:
		f.Add(field, "Ensure this value has at most "+strconv.Itoa(UsernameMaxLen)+" characters.")
	case !usernamePattern.MatchString(value):
		f.Add(field, "Enter a valid username. Use letters, numbers, underscores or hyphens, starting and ending with a letter or number.")
	}
}

// Email flags a non-empty value that is not an email address.
func (f Fields) Email(field, value string) {
	if value == "" {
		return
	}
	if len(value) > EmailMaxLen || !emailPattern.MatchString(value) {
		f.Add(field, "Enter a valid email address.")
	}
}

// Password flags a non-empty password that is too short for the account
// rules, too long for bcrypt, too common, entirely numeric, contains the
// username, or lacks a mix of upper case, lower case, digit and symbol.
func (f Fields) Password(field, password, username string) {
	if password == "" {
		return
	}
	lower := strings.ToLower(password)
	switch {
	case utf8.RuneCountInString(password) < PasswordMinLen:
		f.Add(field, "This password is too short. It must contain at least "+strconv.Itoa(PasswordMinLen)+" characters.")
	case len(password) > PasswordMaxBytes:
		f.Add(field, "This password is too long. It must fit in "+strconv.Itoa(PasswordMaxBytes)+" bytes.")
	case isNumeric(password):
		f.Add(field, "This password is entirely numeric.")
	case commonPasswords[lower]:
		f.Add(field, "This password is too common.")
	case len(username) >= UsernameMinLen && strings.Contains(lower, strings.ToLower(username)):
		f.Add(field, "The password is too similar to the username.")
	case !mixesClasses(password):
		f.Add(field, "The password must contain an upper case letter, a lower case letter, a digit and a symbol.")
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func mixesClasses(s string) bool {
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
