package subtitle

import "strings"

// State of the sentence accumulator.
type State int

const (
	Idle State = iota
	Accumulating
)

func (s State) String() string {
	if s == Accumulating {
		return "accumulating"
	}
	return "idle"
}

// Sentence is a run of fragments translated as one unit. Slots[i] is the
// output position reserved for the word group replacing Fragments[i].
type Sentence struct {
	Fragments []string
	Slots     []int
}

// Text joins the fragments with single spaces.
func (s Sentence) Text() string {
	return strings.Join(s.Fragments, " ")
}

// Len is the number of fragments, and so the number of word groups needed.
func (s Sentence) Len() int {
	return len(s.Fragments)
}

// Accumulator buffers text fragments until one of them terminates a sentence.
// Structural lines do not interrupt a sentence in progress; the caller keeps
// them at their own position.
type Accumulator struct {
	buf Sentence
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) State() State {
	if len(a.buf.Fragments) > 0 {
		return Accumulating
	}
	return Idle
}

// Pending reports whether fragments are buffered without a terminator yet.
func (a *Accumulator) Pending() bool {
	return a.State() == Accumulating
}

// Feed consumes one line. It returns the completed sentence and true when the
// line terminates it. The returned sentence is owned by the caller; the
// accumulator starts a fresh buffer.
func (a *Accumulator) Feed(line Line) (Sentence, bool) {
	if line.Kind != TextFragment {
		return Sentence{}, false
	}

	a.buf.Fragments = append(a.buf.Fragments, line.Text)
	a.buf.Slots = append(a.buf.Slots, line.Ordinal)

	if !IsTerminated(line.Text) {
		return Sentence{}, false
	}
	return a.Flush()
}

// Flush hands over whatever is buffered, terminated or not.
func (a *Accumulator) Flush() (Sentence, bool) {
	if !a.Pending() {
		return Sentence{}, false
	}
	s := a.buf
	a.buf = Sentence{}
	return s, true
}
