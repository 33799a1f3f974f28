package service

import (
	"time"

	"golang.org/x/text/language"
)

// TrailingPolicy decides what happens to a sentence still open at end of file.
type TrailingPolicy int

const (
	// TrailingFlush translates the open sentence like any other, keeping the
	// output line count equal to the input line count.
	TrailingFlush TrailingPolicy = iota
	// TrailingDrop ends the output with the line that completed the last
	// sentence. Everything after it is dropped, the open sentence and any
	// trailing cue or blank line alike.
	TrailingDrop
)

func (p TrailingPolicy) String() string {
	if p == TrailingDrop {
		return "drop"
	}
	return "flush"
}

// TranslatorConfig contains translator configuration
type TranslatorConfig struct {
	SourceLanguage string
	TargetLanguage string
	Concurrency    int
	Trailing       TrailingPolicy

	// OutputPath overrides the default sibling "-translated.srt" file.
	OutputPath string
}

// TranslationResult represents translation result
type TranslationResult struct {
	InputPath  string
	OutputPath string
	Lines      []string
	Metadata   TranslationMetadata
}

// TranslationMetadata contains translation metadata
type TranslationMetadata struct {
	SourceLanguage   string
	TargetLanguage   string
	DetectedLanguage language.Tag
	Charset          string
	InputLines       int
	OutputLines      int
	Sentences        int
	DroppedLines     int
	TranslationTime  time.Duration
}
