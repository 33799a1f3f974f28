package subtitle

// LineKind tells whether a line takes part in translation.
type LineKind int

const (
	// Structural lines (blank, index, timestamp, punctuation-led) pass through unchanged.
	Structural LineKind = iota
	// TextFragment lines are dialogue and get reassembled into sentences.
	TextFragment
)

func (k LineKind) String() string {
	switch k {
	case Structural:
		return "structural"
	case TextFragment:
		return "text"
	default:
		return "unknown"
	}
}

// Line is one input line at its 0-based position in the file.
type Line struct {
	Ordinal int
	Text    string
	Kind    LineKind
}

// NewLine classifies text and places it at ordinal.
func NewLine(ordinal int, text string) Line {
	return Line{
		Ordinal: ordinal,
		Text:    text,
		Kind:    Classify(text),
	}
}

// File is a subtitle file held as opaque lines.
type File struct {
	Path       string
	Lines      []string
	LineEnding string // "\n" or "\r\n"
	Charset    string // charset the file was decoded from
}

// Reader is the interface for reading subtitle files
type Reader interface {
	Read(path string) (*File, error)
}

// Writer is the interface for writing subtitle files
type Writer interface {
	Write(path string, file *File) error
}
