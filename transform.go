package main

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Transform computes the new filename for name under mode. It never touches
// the filesystem and returns name unchanged when the mode has nothing to do.
func Transform(name string, mode RenameMode) string {
	switch mode.Kind {
	case ModePattern:
		if mode.Pattern == nil {
			return name
		}
		return mode.Pattern.ReplaceAllString(name, mode.Replacement)
	case ModeLowercase:
		return cases.Lower(language.Und).String(name)
	case ModeUppercase:
		return cases.Upper(language.Und).String(name)
	case ModeCapitalize:
		return capitalize(name)
	default:
		return name
	}
}

// capitalize upper-cases the first rune of s and lower-cases the rest.
// A leading dot counts as the first rune, so ".GitIgnore" becomes ".gitignore".
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:size]) + cases.Lower(language.Und).String(s[size:])
}
