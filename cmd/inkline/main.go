// Package main is the entry point for the inkline renderer CLI: it opens
// a Markdown document, renders every line through the engine, and writes
// the line-wise HTML. Mostly useful for inspecting engine output and for
// batch conversion; the interactive surface lives in the embedding UI.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/inkline/internal/config"
	"github.com/dshills/inkline/internal/editor"
	"github.com/dshills/inkline/internal/event"
	"github.com/dshills/inkline/internal/render"
	"github.com/dshills/inkline/internal/render/markdown"
	"github.com/dshills/inkline/internal/search"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	configPath string
	outPath    string
	logLevel   string

	query         string
	replacement   string
	replaceSet    bool
	regex         bool
	caseSensitive bool
	wholeWord     bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	log := newLogger(opts.logLevel)
	slog.SetDefault(log)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		return 1
	}

	text, err := readInput(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	renderer := markdown.New(
		markdown.WithHighlighting(cfg.Render.Highlight),
		markdown.WithChromaStyle(cfg.Render.ChromaStyle),
	)
	dispatcher := render.NewDispatcher(renderer,
		render.WithBatchThreshold(cfg.Render.BatchThreshold),
		render.WithWorkers(cfg.Render.Workers),
		render.WithLogger(log),
	)

	doc := editor.Open(text, dispatcher, editor.WithLogger(log))

	doc.Bus().Subscribe(event.TypeRenderDropped, func(e event.Event) {
		log.Warn("render result dropped", "line", e.Line)
	})

	if opts.query != "" {
		if err := runSearch(doc, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := doc.RefreshAll(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: render failed: %v\n", err)
		return 1
	}

	if err := writeOutput(opts.outPath, doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// runSearch applies the search flags: when -replace was given every match
// is substituted in place (an empty replacement deletes the matched text),
// otherwise matches are listed on stderr.
func runSearch(doc *editor.Document, opts options) error {
	searchOpts := search.Options{
		CaseSensitive: opts.caseSensitive,
		WholeWord:     opts.wholeWord,
		Regex:         opts.regex,
	}

	matches, err := doc.Search(opts.query, searchOpts)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if !opts.replaceSet {
		for _, m := range matches {
			fmt.Fprintf(os.Stderr, "%d:%d: %s\n", m.Line, m.Column, m.LineText)
		}
		return nil
	}

	n, err := doc.ReplaceAll(opts.replacement)
	if err != nil {
		return fmt.Errorf("replace: %w", err)
	}
	fmt.Fprintf(os.Stderr, "replaced %d occurrence(s)\n", n)
	return nil
}

// readInput reads the document from the first positional argument, or
// from stdin when none is given.
func readInput(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

// writeOutput emits one rendered fragment per line, wrapped in a minimal
// document shell.
func writeOutput(path string, doc *editor.Document) error {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<body>\n")
	for _, l := range doc.Store().Lines() {
		b.WriteString(l.Rendered)
		b.WriteByte('\n')
	}
	b.WriteString("</body>\n</html>\n")

	if path == "" {
		_, err := os.Stdout.WriteString(b.String())
		return err
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func parseFlags() options {
	var opts options
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.outPath, "o", "", "Write HTML output to file instead of stdout")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.query, "search", "", "Search query to run against the document")
	flag.StringVar(&opts.replacement, "replace", "", "Replace every search match with this text")
	flag.BoolVar(&opts.regex, "regex", false, "Treat the search query as a regular expression")
	flag.BoolVar(&opts.caseSensitive, "case", false, "Case-sensitive search")
	flag.BoolVar(&opts.wholeWord, "word", false, "Match whole words only")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Inkline - line-oriented Markdown render engine\n\n")
		fmt.Fprintf(os.Stderr, "Usage: inkline [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  inkline doc.md                       Render a document to stdout\n")
		fmt.Fprintf(os.Stderr, "  inkline -o doc.html doc.md           Render to a file\n")
		fmt.Fprintf(os.Stderr, "  inkline -search TODO doc.md          List matches\n")
		fmt.Fprintf(os.Stderr, "  inkline -search foo -replace bar doc.md\n")
	}

	flag.Parse()

	// -replace "" is a deletion, distinct from the flag being absent.
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "replace" {
			opts.replaceSet = true
		}
	})

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("Inkline %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		os.Exit(0)
	}

	switch opts.logLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(1)
	}

	return opts
}
