// srt-translator translates SRT subtitle files sentence by sentence while
// keeping every subtitle line in place.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/MimeLyc/srt-translator/internal/config"
	"github.com/MimeLyc/srt-translator/internal/persistence"
	"github.com/MimeLyc/srt-translator/internal/progress"
	"github.com/MimeLyc/srt-translator/internal/service"
	"github.com/MimeLyc/srt-translator/pkg/log"
)

// Version information (set via -ldflags during build)
var version = "dev"

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries the process exit status out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

type flags struct {
	projectID      string
	sourceLanguage string
	targetLanguage string
	provider       string
	concurrency    int
	retries        int
	cachePath      string
	dropTrailing   bool
	configPath     string
	logLevel       string
	noProgress     bool
	output         string
	report         bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "srt-translator [flags] <file.srt>",
		Short: "Translate an SRT subtitle file sentence by sentence",
		Long: `srt-translator translates an SRT subtitle file.

Dialogue that wraps over several subtitle lines is joined into whole sentences,
each sentence is translated once, and the translation is spread back over the
original lines. Cue numbers, timestamps and blank lines are copied unchanged.

The result is written next to the input as <name>-translated.srt.

Providers:
  google   Google Cloud Translation v3 (needs a project ID)
  openai   any OpenAI compatible chat endpoint (LLM_API_KEY)`,
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, f, args[0], stdout, stderr)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	fl := root.Flags()
	fl.StringVarP(&f.projectID, "project_id", "p", "", "Google Cloud project ID (env TRANSLATE_PROJECT_ID)")
	fl.StringVarP(&f.sourceLanguage, "source_language", "s", "en-US", "source language")
	fl.StringVarP(&f.targetLanguage, "target_language", "t", "fr", "target language")
	fl.StringVar(&f.provider, "provider", config.ProviderGoogle, "translation provider: google | openai")
	fl.IntVar(&f.concurrency, "concurrency", 1, "sentences translated in parallel")
	fl.IntVar(&f.retries, "retries", 2, "retries per sentence on transient failure")
	fl.StringVar(&f.cachePath, "cache", "", "SQLite translation cache path (env TRANSLATE_CACHE_DB)")
	fl.BoolVar(&f.dropTrailing, "drop-trailing", false, "end output at the last complete sentence")
	fl.StringVar(&f.configPath, "config", "", "TOML config file")
	fl.StringVar(&f.logLevel, "log-level", "info", "debug | info | warn | error (env LOG_LEVEL)")
	fl.BoolVar(&f.noProgress, "no-progress", false, "hide the progress bar")
	fl.StringVarP(&f.output, "output", "o", "", "output path (default <input>-translated.srt)")
	fl.BoolVar(&f.report, "report", false, "print a translation report")

	root.AddCommand(newCacheCmd(stdout))

	return root
}

// options turns explicitly set flags into config options so that unset flags
// leave file and environment values alone.
func (f *flags) options(cmd *cobra.Command) []config.Option {
	var opts []config.Option
	set := func(name string, opt config.Option) {
		if cmd.Flags().Changed(name) {
			opts = append(opts, opt)
		}
	}

	set("project_id", func(c *config.Config) { c.Translate.ProjectID = f.projectID })
	set("source_language", func(c *config.Config) { c.Translate.SourceLanguage = f.sourceLanguage })
	set("target_language", func(c *config.Config) { c.Translate.TargetLanguage = f.targetLanguage })
	set("provider", func(c *config.Config) { c.Translate.Provider = f.provider })
	set("concurrency", func(c *config.Config) { c.Translate.Concurrency = f.concurrency })
	set("retries", func(c *config.Config) { c.Translate.Retries = f.retries })
	set("cache", func(c *config.Config) { c.Cache.Path = f.cachePath })
	set("drop-trailing", func(c *config.Config) { c.Translate.DropTrailing = f.dropTrailing })
	set("log-level", func(c *config.Config) { c.Log.Level = f.logLevel })
	return opts
}

func runTranslate(cmd *cobra.Command, f *flags, inputPath string, stdout, stderr io.Writer) error {
	if cmd.Flags().Changed("log-level") {
		log.GetLogger().SetLevel(log.ParseLevel(f.logLevel))
	}

	cfg, err := config.Load(f.configPath, f.options(cmd)...)
	if err != nil {
		if errors.Is(err, config.ErrMissingProjectID) {
			_ = cmd.Help()
			fmt.Fprintf(stderr, "\n%s%v%s\n", colorGreen, err, colorReset)
		}
		return &exitError{code: exitUsage, err: err}
	}
	log.GetLogger().SetLevel(log.ParseLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli, closeCache, err := service.NewTranslator(ctx, cfg)
	if err != nil {
		return &exitError{code: exitUsage, err: err}
	}
	defer func() {
		if err := closeCache(); err != nil {
			log.Warn("failed to close translation cache: %v", err)
		}
	}()

	var reporter progress.Reporter = progress.Nop{}
	if !f.noProgress {
		reporter = progress.NewBar(stderr, "Translating")
	}

	tc := service.TranslatorConfigFrom(cfg)
	tc.OutputPath = f.output
	result, err := service.NewSubTranslator(tc, cli, reporter).TranslateFile(ctx, inputPath)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	if f.report {
		service.PrintTranslationReport(stdout, result)
	}
	fmt.Fprintf(stdout, "%sDone.%s\n", colorBlue, colorReset)
	fmt.Fprintf(stdout, "%s%s%s\n", colorGreen, result.OutputPath, colorReset)
	return nil
}

// ---------------------------------------------------------------------------
// cache (inspect and prune the translation cache)
// ---------------------------------------------------------------------------

func newCacheCmd(stdout io.Writer) *cobra.Command {
	var cachePath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the translation cache",
	}
	cmd.PersistentFlags().StringVar(&cachePath, "cache", "", "SQLite translation cache path (env TRANSLATE_CACHE_DB)")

	open := func() (*persistence.SQLiteStore, error) {
		path := cachePath
		if path == "" {
			path = os.Getenv("TRANSLATE_CACHE_DB")
		}
		if path == "" {
			return nil, &exitError{code: exitUsage, err: errors.New("no cache path: use --cache or set TRANSLATE_CACHE_DB")}
		}
		store, err := persistence.NewSQLiteStore(path)
		if err != nil {
			return nil, &exitError{code: exitFailure, err: err}
		}
		return store, nil
	}

	var sourceLang, targetLang string
	list := &cobra.Command{
		Use:   "list",
		Short: "List cached translations for a language pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := runCacheList(cmd.Context(), store, sourceLang, targetLang, stdout); err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			return nil
		},
	}
	list.Flags().StringVarP(&sourceLang, "source_language", "s", "en-US", "source language")
	list.Flags().StringVarP(&targetLang, "target_language", "t", "fr", "target language")

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete cache entries not used for a while",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open()
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := store.DeleteTranslationsBefore(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return &exitError{code: exitFailure, err: err}
			}
			fmt.Fprintf(stdout, "%s[OK]%s removed %d entries\n", colorGreen, colorReset, n)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "remove entries last used before this age")

	cmd.AddCommand(list, prune)
	return cmd
}

func runCacheList(ctx context.Context, store *persistence.SQLiteStore, sourceLang, targetLang string, w io.Writer) error {
	entries, err := store.LoadTranslations(ctx, sourceLang, targetLang)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "%sno cached translations for %s -> %s%s\n", colorYellow, sourceLang, targetLang, colorReset)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROVIDER\tHITS\tSOURCE\tTRANSLATION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", e.Key.Provider, e.Hits, e.Key.Text, e.TranslatedText)
	}
	return tw.Flush()
}

// execute runs the command line and returns the process exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	// a missing .env is fine
	_ = godotenv.Load()
	log.GetLogger().SetOutput(stderr)

	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return 0
	}

	var transErr *service.TransError
	switch {
	case errors.Is(err, config.ErrMissingProjectID):
		// help and hint already printed
	case errors.As(err, &transErr):
		service.NewDefaultErrorHandler().Handle(err)
	default:
		fmt.Fprintf(stderr, "%s[ERROR]%s %v\n", colorRed, colorReset, err)
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	// flag and argument errors from cobra
	return exitUsage
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
