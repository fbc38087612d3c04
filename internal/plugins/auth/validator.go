package auth

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
)

// minPasswordLength is counted in UTF-16 code units, so a character outside
// the Basic Multilingual Plane (most emoji) counts as two.
const minPasswordLength = 6

// nonSpace matches one character outside the browser whitespace set: ASCII
// whitespace, vertical tab, every Unicode separator and the BOM.
const nonSpace = `[^\s\v\p{Z}\x{FEFF}]`

// emailPattern is loose and unanchored: any
// "<non-space>@<non-space>.<non-space>" run inside the value passes.
var emailPattern = regexp.MustCompile(nonSpace + `+@` + nonSpace + `+\.` + nonSpace + `+`)

// Validate checks every applicable field of state for the given mode and
// returns one message per invalid field. It has no side effects.
func Validate(state FormState, mode Mode) ErrorMap {
	errs := ErrorMap{}

	if mode == ModeSignup {
		if isBlank(state.FirstName) {
			errs[FieldFirstName] = msgFirstNameRequired
		}
		if isBlank(state.LastName) {
			errs[FieldLastName] = msgLastNameRequired
		}
		if !state.Agree {
			errs[FieldAgree] = msgAgreeRequired
		}
	}

	if isBlank(state.Email) {
		errs[FieldEmail] = msgEmailRequired
	} else if !emailPattern.MatchString(state.Email) {
		errs[FieldEmail] = msgEmailInvalid
	}

	// Blankness uses the trimmed value, length the raw one.
	if isBlank(state.Password) {
		errs[FieldPassword] = msgPasswordRequired
	} else if codeUnits(state.Password) < minPasswordLength {
		errs[FieldPassword] = msgPasswordTooShort
	}

	return errs
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, isSpace) == ""
}

// isSpace is the whitespace set browsers trim: Unicode White_Space minus
// NEL, plus the BOM.
func isSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// codeUnits returns the UTF-16 length of s. Invalid bytes count as one
// replacement character each.
func codeUnits(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
