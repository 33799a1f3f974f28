package subtitle

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_MultiLineSentence(t *testing.T) {
	got := Split("Bonjour le monde, comment vas-tu?", 3)
	assert.Equal(t, []string{"Bonjour le", "monde, comment", "vas-tu?"}, got)
}

func TestSplit_SingleGroupReturnsSentenceUnchanged(t *testing.T) {
	s := "  Bonjour   monde. "
	assert.Equal(t, []string{s}, Split(s, 1))
}

func TestSplit_FrontLoadsRemainder(t *testing.T) {
	got := Split("a b c d e f g", 3)
	assert.Equal(t, []string{"a b c", "d e", "f g"}, got)

	got = Split("a b c d e f g h", 3)
	assert.Equal(t, []string{"a b c", "d e f", "g h"}, got)
}

func TestSplit_FewerWordsThanGroups(t *testing.T) {
	got := Split("oui non", 4)
	assert.Equal(t, []string{"oui", "non", "", ""}, got)

	got = Split("", 3)
	assert.Equal(t, []string{"", "", ""}, got)
}

func TestSplit_Properties(t *testing.T) {
	words := strings.Fields("one two three four five six seven eight nine ten eleven twelve thirteen")

	for w := 1; w <= len(words); w++ {
		sentence := strings.Join(words[:w], " ")
		for n := 1; n <= w+2; n++ {
			t.Run(fmt.Sprintf("w=%d/n=%d", w, n), func(t *testing.T) {
				groups := Split(sentence, n)
				require.Len(t, groups, n)

				var rejoined []string
				for _, g := range groups {
					if g != "" {
						rejoined = append(rejoined, g)
					}
				}
				assert.Equal(t, sentence, strings.Join(rejoined, " "), "no word lost or duplicated")

				if n == 1 {
					return
				}
				q, r := w/n, w%n
				for i, g := range groups {
					want := q
					if i < r {
						want++
					}
					assert.Len(t, strings.Fields(g), want, "group %d", i)
				}
			})
		}
	}
}
