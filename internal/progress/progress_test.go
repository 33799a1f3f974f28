package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_WritesProgress(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf, "movie.srt")

	bar.Start(3)
	for i := 0; i < 3; i++ {
		bar.Increment()
	}
	bar.Finish()

	out := buf.String()
	assert.Contains(t, out, "movie.srt")
	assert.Contains(t, out, "3/3")
}

func TestBar_IncrementBeforeStartIsSafe(t *testing.T) {
	bar := NewBar(&bytes.Buffer{}, "x")
	assert.NotPanics(t, func() {
		bar.Increment()
		bar.Finish()
	})
}

func TestCounter(t *testing.T) {
	var c Counter
	var r Reporter = &c

	r.Start(2)
	r.Increment()
	r.Increment()
	r.Finish()

	assert.Equal(t, 2, c.Total)
	assert.Equal(t, 2, c.Current)
	assert.True(t, c.Finished)
}

func TestBar_FinishShortKeepsPosition(t *testing.T) {
	var buf bytes.Buffer
	bar := NewBar(&buf, "movie.srt")

	bar.Start(4)
	bar.Increment()
	bar.Finish()

	out := buf.String()
	assert.NotContains(t, out, "4/4")
	assert.True(t, strings.HasSuffix(out, "\n"), "bar ends its line")
}
