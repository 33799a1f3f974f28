package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		line string
		want LineKind
	}{
		{name: "blank", line: "", want: Structural},
		{name: "index", line: "12", want: Structural},
		{name: "timestamp", line: "00:00:01,000 --> 00:00:02,000", want: Structural},
		{name: "prose", line: "Hello world.", want: TextFragment},
		{name: "lowercase continuation", line: "and then we left", want: TextFragment},
		{name: "dialogue hyphen", line: "- Who's there?", want: TextFragment},
		{name: "accented letter", line: "Être ou ne pas être.", want: TextFragment},
		{name: "cyrillic", line: "Привет, мир!", want: TextFragment},
		{name: "quote led is structural", line: `"Run," he said.`, want: Structural},
		{name: "bracket led is structural", line: "(door slams)", want: Structural},
		{name: "music note is structural", line: "♪ la la la ♪", want: Structural},
		{name: "leading space is structural", line: " Hello", want: Structural},
		{name: "digit led is structural", line: "3 days later", want: Structural},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestClassifyIgnoresHistory(t *testing.T) {
	lines := []string{"Hello", "1", "", "world.", "00:00:01,000 --> 00:00:02,000"}
	first := make([]LineKind, len(lines))
	for i, l := range lines {
		first[i] = Classify(l)
	}
	// reverse order must not change any verdict
	for i := len(lines) - 1; i >= 0; i-- {
		assert.Equal(t, first[i], Classify(lines[i]), lines[i])
	}
}

func TestIsTerminated(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Hello world.", true},
		{"Are you there?", true},
		{"Stop!", true},
		{`He said "go"`, true},
		{"He said, go", false},
		{`He said "go."`, true},
		{`"Go"`, true},
		{"Hello,", false},
		{"Hello", false},
		{"Wait...", true},
		{"Done.  ", true},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsTerminated(tt.line), tt.line)
	}
}
