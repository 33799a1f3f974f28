package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"time"

	"github.com/MimeLyc/srt-translator/internal/progress"
	"github.com/MimeLyc/srt-translator/internal/subtitle"
	"github.com/MimeLyc/srt-translator/internal/translator"
	"github.com/MimeLyc/srt-translator/pkg/file"
	"github.com/MimeLyc/srt-translator/pkg/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// SubTranslator translates subtitle files sentence by sentence.
type SubTranslator struct {
	subtitleReader subtitle.Reader
	subtitleWriter subtitle.Writer
	translator     translator.Translator
	progress       progress.Reporter
	config         TranslatorConfig
}

// NewSubTranslator creates a translator writing through the default
// subtitle reader and writer. A nil reporter disables progress.
func NewSubTranslator(config TranslatorConfig, cli translator.Translator, reporter progress.Reporter) *SubTranslator {
	if config.Concurrency < 1 {
		config.Concurrency = 1
	}
	if reporter == nil {
		reporter = progress.Nop{}
	}
	return &SubTranslator{
		subtitleReader: subtitle.NewReader(),
		subtitleWriter: subtitle.NewWriter(),
		translator:     cli,
		progress:       reporter,
		config:         config,
	}
}

func (t *SubTranslator) outputPath(inputPath string) string {
	if t.config.OutputPath != "" {
		return t.config.OutputPath
	}
	return file.TranslatedPath(inputPath)
}

// TranslateFile reads inputPath, translates it and writes the result next to
// it. Nothing is written unless every sentence was translated.
func (t *SubTranslator) TranslateFile(ctx context.Context, inputPath string) (*TranslationResult, error) {
	startTime := time.Now()

	src, err := t.subtitleReader.Read(inputPath)
	if err != nil {
		errType := ErrFileRead
		if errors.Is(err, fs.ErrNotExist) {
			errType = ErrFileNotFound
		}
		return nil, WrapError(err, errType, "failed to read subtitle file").WithContext("path", inputPath)
	}

	detected := t.checkSourceLanguage(src.Lines)

	lines, stats, err := t.TranslateLines(ctx, src.Lines)
	if err != nil {
		return nil, err
	}

	outputPath := t.outputPath(inputPath)
	translated := &subtitle.File{
		Path:       outputPath,
		Lines:      lines,
		LineEnding: src.LineEnding,
		Charset:    "UTF-8",
	}
	if err := t.subtitleWriter.Write(outputPath, translated); err != nil {
		return nil, WrapError(err, ErrFileWrite, "failed to save translation results").WithContext("path", outputPath)
	}

	return &TranslationResult{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Lines:      lines,
		Metadata: TranslationMetadata{
			SourceLanguage:   t.config.SourceLanguage,
			TargetLanguage:   t.config.TargetLanguage,
			DetectedLanguage: detected,
			Charset:          src.Charset,
			InputLines:       len(src.Lines),
			OutputLines:      len(lines),
			Sentences:        stats.Sentences,
			DroppedLines:     stats.DroppedLines,
			TranslationTime:  time.Since(startTime),
		},
	}, nil
}

// LineStats summarises one TranslateLines run.
type LineStats struct {
	Sentences    int
	DroppedLines int
}

// TranslateLines runs the sentence accumulator over lines and returns the
// translated output. Structural lines are copied to their own position; each
// completed sentence is translated once and its word groups are written back
// to the positions of its fragments.
//
// At most config.Concurrency translations are in flight. With the default of
// one, the next sentence is not sent before the previous one resolved. The
// first failure or a canceled ctx aborts the run and no output is returned.
func (t *SubTranslator) TranslateLines(ctx context.Context, lines []string) ([]string, LineStats, error) {
	var stats LineStats
	if t.translator == nil {
		return nil, stats, NewError(ErrConfig, "translator not set")
	}

	out := make([]string, len(lines))
	acc := subtitle.NewAccumulator()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.config.Concurrency)

	t.progress.Start(len(lines))
	defer t.progress.Finish()

	// lines [0, complete) end with the last terminated sentence
	complete := 0
	for i, text := range lines {
		if gctx.Err() != nil {
			break
		}

		line := subtitle.NewLine(i, text)
		if line.Kind == subtitle.Structural {
			out[i] = text
		}
		if sentence, ok := acc.Feed(line); ok {
			stats.Sentences++
			complete = i + 1
			t.dispatch(gctx, g, out, sentence)
		}
		t.progress.Increment()
	}

	if sentence, ok := acc.Flush(); ok && gctx.Err() == nil && t.config.Trailing == TrailingFlush {
		log.Debug("flushing unterminated sentence at line %d", sentence.Slots[0]+1)
		stats.Sentences++
		t.dispatch(gctx, g, out, sentence)
	}

	err := g.Wait()
	if ctx.Err() != nil {
		return nil, stats, WrapError(ctx.Err(), ErrTranslation, "translation interrupted")
	}
	if err != nil {
		return nil, stats, err
	}

	if t.config.Trailing == TrailingDrop && complete < len(out) {
		stats.DroppedLines = len(out) - complete
		log.Warn("dropping %d lines after the last complete sentence (line %d)", stats.DroppedLines, complete)
		out = out[:complete]
	}
	return out, stats, nil
}

// dispatch translates one sentence on g. Each sentence owns its slots, so
// concurrent sentences never write the same element of out.
func (t *SubTranslator) dispatch(ctx context.Context, g *errgroup.Group, out []string, sentence subtitle.Sentence) {
	g.Go(func() error {
		// a sibling may have failed while this sentence waited for a slot
		if err := ctx.Err(); err != nil {
			return err
		}

		text := sentence.Text()
		translated, err := t.translator.Translate(ctx, text, t.config.SourceLanguage, t.config.TargetLanguage)
		if err != nil {
			return WrapError(err, classifyTranslateError(err), "failed to translate sentence").
				WithContext("line", sentence.Slots[0]+1).
				WithContext("fragments", sentence.Len())
		}
		log.Debug("translated line %d: %q -> %q", sentence.Slots[0]+1, text, translated)

		for i, group := range subtitle.Split(translated, sentence.Len()) {
			out[sentence.Slots[i]] = group
		}
		return nil
	})
}

// classifyTranslateError picks the error type whose advice fits a failed
// translation call.
func classifyTranslateError(err error) ErrorType {
	var svcErr *translator.ServiceError
	if errors.As(err, &svcErr) {
		return ErrAPI
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrNetwork
	}
	return ErrTranslation
}

// checkSourceLanguage warns when the dialogue does not look like the
// configured source language.
func (t *SubTranslator) checkSourceLanguage(lines []string) language.Tag {
	var fragments []string
	for _, text := range lines {
		if subtitle.Classify(text) == subtitle.TextFragment {
			fragments = append(fragments, text)
		}
	}

	detected := subtitle.DetectLanguage(fragments)
	configured, err := language.Parse(t.config.SourceLanguage)
	if err != nil || detected == language.Und {
		return detected
	}
	if !subtitle.SameBase(detected, configured) {
		log.Warn("subtitle text looks like %q but source language is %q", detected, t.config.SourceLanguage)
	}
	return detected
}

// PrintTranslationReport prints translation report
func PrintTranslationReport(w io.Writer, result *TranslationResult) {
	m := result.Metadata
	fmt.Fprintln(w, "=== Translation Report ===")
	fmt.Fprintf(w, "Input: %s (%s)\n", result.InputPath, m.Charset)
	fmt.Fprintf(w, "Output: %s\n", result.OutputPath)
	fmt.Fprintf(w, "Source Language: %s (detected %s)\n", m.SourceLanguage, m.DetectedLanguage)
	fmt.Fprintf(w, "Target Language: %s\n", m.TargetLanguage)
	fmt.Fprintf(w, "Sentences: %d\n", m.Sentences)
	fmt.Fprintf(w, "Lines: %d in, %d out\n", m.InputLines, m.OutputLines)
	if m.DroppedLines > 0 {
		fmt.Fprintf(w, "Dropped Lines: %d (after the last complete sentence)\n", m.DroppedLines)
	}
	fmt.Fprintf(w, "Translation Time: %v\n", m.TranslationTime.Round(time.Millisecond))
}
