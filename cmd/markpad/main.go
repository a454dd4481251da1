// Package main is the entry point for the markpad command.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/dshills/markpad/internal/app"
	"github.com/dshills/markpad/internal/config/watcher"
	"github.com/dshills/markpad/internal/engine/format"
	"github.com/dshills/markpad/internal/export"
	"github.com/dshills/markpad/internal/storage/vfs"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app     app.Options
	input   string
	output  string
	format  string
	sel     string
	copy    bool
	restore bool
	watch   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	application, err := app.New(opts.app)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	session := application.Session()
	if err := process(session, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !opts.watch || opts.input == "" {
		return 0
	}
	if err := watchInput(application, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// process loads the input, applies the requested edits and writes the
// result.
func process(session *app.Session, opts cliOptions) error {
	if !opts.restore {
		text, err := readInput(opts.input)
		if err != nil {
			return err
		}
		session.SetText(text)
	}

	if opts.format != "" {
		sel, err := parseSelection(opts.sel, session.Text())
		if err != nil {
			return err
		}
		session.ApplyFormat(format.ParseKind(opts.format), sel)
	}

	if opts.copy {
		if err := session.Copy(); err != nil {
			return err
		}
	}

	return writeOutput(session, opts.output)
}

func readInput(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	if vfs.IsBinary(data) {
		return "", fmt.Errorf("reading input: %s is not a text file", path)
	}
	return vfs.DecodeText(data), nil
}

// writeOutput writes the buffer to path. HTML targets get a rendered
// page; any other path gets the markdown. An empty path prints the
// rendered fragment.
func writeOutput(session *app.Session, path string) error {
	if path == "" {
		html, err := session.HTML()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, html)
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	exporter := export.NewFileExporter(vfs.NewOSFS(), filepath.Dir(abs), export.WithRenderer(session.Pipeline()))
	if _, err := exporter.ExportAsFile(session.Text(), filepath.Base(abs)); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// parseSelection parses "start:end" byte offsets. Empty selects the
// whole buffer.
func parseSelection(s, buf string) (format.Selection, error) {
	if s == "" {
		return format.NewSelection(0, len(buf)), nil
	}
	startStr, endStr, ok := strings.Cut(s, ":")
	if !ok {
		endStr = startStr
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return format.Selection{}, fmt.Errorf("invalid selection %q: %w", s, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return format.Selection{}, fmt.Errorf("invalid selection %q: %w", s, err)
	}
	return format.NewSelection(start, end), nil
}

// watchInput re-renders the input file whenever it changes, until
// interrupted.
func watchInput(application *app.Application, opts cliOptions) error {
	w, err := watcher.New()
	if err != nil {
		return err
	}
	defer w.Close()

	log := application.Logger().WithComponent("watch")
	session := application.Session()
	w.OnChange(func(ev watcher.Event) {
		if ev.Op == watcher.OpRemove {
			log.Warn("%s removed", ev.Path)
			return
		}
		reprocess := opts
		reprocess.restore = false
		reprocess.copy = false
		if err := process(session, reprocess); err != nil {
			log.Error("%v", err)
			return
		}
		log.Info("re-rendered %s", ev.Path)
	})
	if err := w.Watch(opts.input); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	return nil
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.app.ConfigPath, "config", "", "Path to settings file")
	flag.StringVar(&opts.app.ConfigPath, "c", "", "Path to settings file (shorthand)")
	flag.StringVar(&opts.app.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.output, "o", "", "Output file (.html renders a page, anything else gets markdown)")
	flag.StringVar(&opts.format, "format", "", "Formatting kind to apply (bold, italic, heading, ...)")
	flag.StringVar(&opts.sel, "select", "", "Selection for -format as start:end byte offsets")
	flag.BoolVar(&opts.copy, "copy", false, "Copy the buffer to the clipboard")
	flag.BoolVar(&opts.restore, "restore", false, "Start from the stored document instead of an input file and save edits back")
	flag.BoolVar(&opts.watch, "watch", false, "Re-render when the input or settings file changes")
	flag.BoolVar(&opts.watch, "w", false, "Re-render on change (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "markpad - markdown editing core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: markpad [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  markpad notes.md                   Print the rendered fragment\n")
		fmt.Fprintf(os.Stderr, "  markpad -o notes.html notes.md     Write a rendered page\n")
		fmt.Fprintf(os.Stderr, "  markpad -format bold -select 0:5 -o out.md notes.md\n")
		fmt.Fprintf(os.Stderr, "  markpad -w -o notes.html notes.md  Re-render on every save\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("markpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.app.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.app.LogLevel)
		os.Exit(1)
	}

	if flag.NArg() > 1 {
		fmt.Fprintf(os.Stderr, "Error: at most one input file\n")
		os.Exit(1)
	}
	if opts.restore && opts.watch {
		fmt.Fprintf(os.Stderr, "Error: -restore cannot be combined with -watch\n")
		os.Exit(1)
	}
	opts.input = flag.Arg(0)
	opts.app.Watch = opts.watch
	// Rendering a file must not replace the stored document.
	opts.app.Ephemeral = !opts.restore

	return opts
}
