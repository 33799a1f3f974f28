package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Reporter observes how many input lines have been consumed. It never
// influences processing.
type Reporter interface {
	Start(total int)
	Increment()
	Finish()
}

// Nop discards progress.
type Nop struct{}

func (Nop) Start(int)  {}
func (Nop) Increment() {}
func (Nop) Finish()    {}

// Bar draws a colored terminal progress bar.
type Bar struct {
	out         io.Writer
	description string
	bar         *progressbar.ProgressBar
}

func NewBar(out io.Writer, description string) *Bar {
	return &Bar{out: out, description: description}
}

func (b *Bar) Start(total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("lines"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]"+b.description+"[reset]"),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(b.out, "\n") }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func (b *Bar) Increment() {
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

// Finish completes the bar. A bar stopped short, as on an aborted run, is
// left at its current position.
func (b *Bar) Finish() {
	if b.bar == nil || b.bar.IsFinished() {
		return
	}
	if st := b.bar.State(); st.CurrentNum < st.Max {
		_ = b.bar.Exit()
		return
	}
	_ = b.bar.Finish()
}

// Counter records progress in memory.
type Counter struct {
	Total    int
	Current  int
	Finished bool
}

func (c *Counter) Start(total int) {
	c.Total = total
	c.Current = 0
}

func (c *Counter) Increment() { c.Current++ }

func (c *Counter) Finish() { c.Finished = true }
