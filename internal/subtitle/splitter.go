package subtitle

import "strings"

// Split breaks a translated sentence into n ordered word groups, one per
// original fragment line. Words are spread evenly and the remainder goes to
// the leading groups: with w words, the first w%n groups hold w/n+1 words and
// the others hold w/n. When w < n the trailing groups are empty strings.
//
// n <= 1 returns the sentence untouched.
func Split(sentence string, n int) []string {
	if n <= 1 {
		return []string{sentence}
	}

	words := strings.Fields(sentence)
	size, remainder := len(words)/n, len(words)%n

	groups := make([]string, n)
	start := 0
	for i := range groups {
		end := start + size
		if i < remainder {
			end++
		}
		groups[i] = strings.Join(words[start:end], " ")
		start = end
	}
	return groups
}
