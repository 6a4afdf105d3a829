// Package main is the vimcore command. It feeds keys to a Vim editing
// session over a file, either in batch or in a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/plugin/lua"
	"github.com/dshills/vimcore/internal/session"
)

// Version information (set via ldflags during build).
var version = "dev"

type options struct {
	configPath  string
	rcPath      string
	keys        string
	logPath     string
	logLevel    string
	pluginDir   string
	interactive bool
	showVersion bool
	file        string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "vimcore %s\n", version)
		return 0
	}

	logger, closeLog, err := newLogger(opts.logPath, opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	if err := edit(opts, logger, stdout, stderr); err != nil {
		logger.Error("vimcore failed", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fl := flag.NewFlagSet("vimcore", flag.ContinueOnError)
	fl.SetOutput(stderr)
	fl.StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML options file")
	fl.StringVar(&opts.rcPath, "rc", "", "Startup script (overrides the options file)")
	fl.StringVar(&opts.keys, "keys", "", "Keys to feed, in <> notation")
	fl.StringVar(&opts.logPath, "log", "", "Log file (rotated); logging is off without it")
	fl.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fl.StringVar(&opts.pluginDir, "plugins", "", "Directory of Lua plugins")
	fl.BoolVar(&opts.interactive, "i", false, "Edit interactively in the terminal")
	fl.BoolVar(&opts.showVersion, "version", false, "Show version information")
	fl.Usage = func() {
		fmt.Fprintf(stderr, "vimcore - Vim editing core\n\n")
		fmt.Fprintf(stderr, "Usage: vimcore [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fl.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  vimcore -keys 'dwA!<Esc>' notes.txt   Print the edited file\n")
		fmt.Fprintf(stderr, "  vimcore -i -rc ~/.vimrc notes.txt     Edit in the terminal, Ctrl-Q quits\n")
	}
	if err := fl.Parse(args); err != nil {
		return opts, err
	}
	switch fl.NArg() {
	case 0:
	case 1:
		opts.file = fl.Arg(0)
	default:
		fl.Usage()
		return opts, errors.New("at most one file")
	}
	return opts, nil
}

// edit builds the session and runs it in batch or in the terminal.
func edit(opts options, logger *slog.Logger, stdout, stderr io.Writer) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if opts.rcPath != "" {
		cfg.RCPath = opts.rcPath
	}
	cfg.Logger = logger

	text, err := readFile(opts.file)
	if err != nil {
		return err
	}
	doc := engine.NewDocument(text)

	queue := &dispatcher.QueueScheduler{}
	dcfg := dispatcher.DefaultConfig().WithScheduler(queue)
	// Batch runs on a manual clock so pending timeouts expire at once.
	clock := dispatcher.NewManualClock(time.Now())
	if !opts.interactive {
		dcfg = dcfg.WithClock(clock)
	}
	var messages messageLog
	s, err := session.New(doc, cfg,
		session.WithDispatcherConfig(dcfg),
		session.WithMessageSink(&messages),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	host := lua.NewHost(s.Extensions(), lua.WithLogger(logger))
	defer host.Close()
	if opts.pluginDir != "" {
		if err := host.LoadFS(os.DirFS(opts.pluginDir)); err != nil {
			logger.Warn("plugins failed to load", "dir", opts.pluginDir, "error", err)
			messages.Message(err.Error())
		}
	}

	if opts.interactive {
		return runTerminal(s, doc, queue, &messages, opts.keys)
	}
	if err := s.Feed(opts.keys); err != nil {
		return err
	}
	settle(queue, clock, max(cfg.TimeoutLen, cfg.AsyncTimeout))
	for _, msg := range messages.lines {
		fmt.Fprintln(stderr, msg)
	}
	_, err = io.WriteString(stdout, doc.Text())
	return err
}

// settle runs posted callbacks and fires pending timers until nothing
// is left.
func settle(queue *dispatcher.QueueScheduler, clock *dispatcher.ManualClock, step time.Duration) {
	queue.Drain()
	for range maxSettleRounds {
		if clock.Pending() == 0 {
			return
		}
		clock.Advance(step)
		queue.Drain()
	}
}

const maxSettleRounds = 100

func readFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return string(data), err
}

// messageLog keeps every message shown.
type messageLog struct {
	lines []string
}

func (m *messageLog) Message(msg string) {
	m.lines = append(m.lines, msg)
}

// last returns the most recent message.
func (m *messageLog) last() string {
	if len(m.lines) == 0 {
		return ""
	}
	return m.lines[len(m.lines)-1]
}
