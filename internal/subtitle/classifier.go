package subtitle

import (
	"regexp"
	"strings"
)

// textLinePattern matches prose: a line led by a letter in any script or a
// dialogue hyphen. Lines led by quotes, brackets, digits or music notes are
// structural and stay untranslated.
var textLinePattern = regexp.MustCompile(`^[\p{L}-]`)

// sentenceTerminators end a sentence when they are the last character of a fragment.
const sentenceTerminators = `.?"!`

// Classify decides whether a single line is translatable text.
func Classify(text string) LineKind {
	if text != "" && textLinePattern.MatchString(text) {
		return TextFragment
	}
	return Structural
}

// IsTerminated reports whether a fragment closes the current sentence.
// Trailing spaces and tabs are ignored.
func IsTerminated(text string) bool {
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return false
	}
	return strings.ContainsRune(sentenceTerminators, rune(text[len(text)-1]))
}
