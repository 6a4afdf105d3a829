package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/extension"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/owner"
	"github.com/dshills/vimcore/internal/vimscript/ast"
	"github.com/dshills/vimcore/internal/vimscript/eval"
	"github.com/dshills/vimcore/internal/vimscript/parser"
)

// Session owns everything one editor needs: the dispatcher with its
// mappings, registers and mode stack, the Vimscript interpreter and the
// startup script.
//
// A Session is not safe for concurrent use. Every method must be called
// from the editor thread; the rc watcher posts its reloads through the
// dispatcher's Scheduler.
type Session struct {
	opts   *config.Options
	log    *slog.Logger
	editor engine.Editor
	disp   *dispatcher.Dispatcher
	interp *eval.Interp
	exts   *extension.Table
	fs     config.FileSystem
	sink   dispatcher.MessageSink
	sched  dispatcher.Scheduler
	queue  *dispatcher.QueueScheduler

	// script is the file being sourced, "" at the command line.
	script string

	rcPath  string
	rcSnap  string
	watcher *rcWatcher
	closed  bool
}

// Option configures a Session.
type Option func(*settings)

type settings struct {
	cfg  dispatcher.Config
	sink dispatcher.MessageSink
	fs   config.FileSystem
	exts []extension.Extension
}

// WithDispatcherConfig sets the dispatcher configuration.
func WithDispatcherConfig(cfg dispatcher.Config) Option {
	return func(s *settings) { s.cfg = cfg }
}

// WithMessageSink sets where messages and errors are shown.
func WithMessageSink(sink dispatcher.MessageSink) Option {
	return func(s *settings) { s.sink = sink }
}

// WithFileSystem sets where the startup script and :source files are read.
func WithFileSystem(fs config.FileSystem) Option {
	return func(s *settings) { s.fs = fs }
}

// WithExtensions loads extensions from a static table at startup, before
// the startup script runs.
func WithExtensions(exts ...extension.Extension) Option {
	return func(s *settings) { s.exts = append(s.exts, exts...) }
}

// New creates a session for ed. The configured default mappings are
// installed, the extensions loaded, and the startup script sourced. Errors
// in the script are shown through the message sink and do not fail New;
// an unreadable script does.
func New(ed engine.Editor, opts *config.Options, options ...Option) (*Session, error) {
	if opts == nil {
		opts = config.Default()
	}
	st := settings{cfg: dispatcher.DefaultConfig(), fs: config.OSFS{}}
	for _, o := range options {
		o(&st)
	}

	s := &Session{
		opts:   opts,
		log:    opts.Log().With("component", "session"),
		editor: ed,
		fs:     st.fs,
		sink:   st.sink,
	}
	if st.cfg.Scheduler == nil {
		s.queue = &dispatcher.QueueScheduler{}
		st.cfg.Scheduler = s.queue
	}
	s.sched = st.cfg.Scheduler

	s.disp = dispatcher.New(ed, opts, st.cfg)
	s.disp.SetEnvironment(s)
	s.disp.SetMessageSink(dispatcher.MessageFunc(s.message))
	s.interp = eval.New(&scriptHost{s: s}, eval.WithLogger(opts.Log()))
	s.exts = extension.NewTable(extension.NewRegistrar(s.disp), opts.Log())

	if err := s.installDefaults(); err != nil {
		return nil, err
	}
	if err := s.exts.Load(st.exts...); err != nil {
		s.log.Warn("extension setup failed", "error", err)
		s.message(err.Error())
	}
	if opts.RCPath != "" {
		if err := s.loadRC(opts.RCPath); err != nil {
			return nil, err
		}
		if opts.WatchRC {
			if err := s.WatchRC(); err != nil {
				s.log.Warn("rc watcher not started", "path", opts.RCPath, "error", err)
			}
		}
	}
	return s, nil
}

// installDefaults adds the mappings of the options file. They never
// replace a mapping that already exists.
func (s *Session) installDefaults() error {
	if len(s.opts.Mappings) == 0 {
		return nil
	}
	specs := make([]keymap.Spec, len(s.opts.Mappings))
	for i, m := range s.opts.Mappings {
		specs[i] = keymap.Spec(m)
	}
	n, err := keymap.Install(s.disp.Mappings(), specs, owner.Config, s.leader())
	if err != nil {
		return fmt.Errorf("install default mappings: %w", err)
	}
	s.log.Debug("default mappings installed", "count", n)
	return nil
}

// Dispatcher returns the key dispatcher.
func (s *Session) Dispatcher() *dispatcher.Dispatcher { return s.disp }

// Interp returns the Vimscript interpreter.
func (s *Session) Interp() *eval.Interp { return s.interp }

// Options returns the live options.
func (s *Session) Options() *config.Options { return s.opts }

// Editor returns the editor the session drives.
func (s *Session) Editor() engine.Editor { return s.editor }

// Extensions returns the table of loaded extensions.
func (s *Session) Extensions() *extension.Table { return s.exts }

// Mode returns the active mode.
func (s *Session) Mode() mode.State { return s.disp.Mode() }

// SetMessageSink changes where messages and errors are shown.
func (s *Session) SetMessageSink(sink dispatcher.MessageSink) { s.sink = sink }

func (s *Session) message(msg string) {
	if s.sink != nil {
		s.sink.Message(msg)
		return
	}
	s.log.Info("message", "text", msg)
}

// HandleKey dispatches one typed key.
func (s *Session) HandleKey(ev key.Event) {
	if s.closed {
		return
	}
	s.disp.HandleKey(ev)
}

// HandleKeys dispatches typed keys.
func (s *Session) HandleKeys(keys key.Sequence) {
	if s.closed {
		return
	}
	s.disp.HandleKeys(keys)
}

// Feed dispatches keys written in notation, as if typed.
func (s *Session) Feed(notation string) error {
	if s.closed {
		return ErrClosed
	}
	keys, err := key.Parse(notation)
	if err != nil {
		return err
	}
	s.disp.HandleKeys(keys)
	return nil
}

// ExecuteNormalCommand runs keys in notation as Normal-mode commands and
// returns once they are done, as :normal does. Without remap mappings are
// ignored.
func (s *Session) ExecuteNormalCommand(keys string, remap bool) error {
	if s.closed {
		return ErrClosed
	}
	seq, err := key.Parse(keys)
	if err != nil {
		return err
	}
	return s.disp.ExecuteNormal(seq, remap)
}

// ExecuteEx runs a command line. A leading ":" is ignored. The error is
// returned, not shown.
func (s *Session) ExecuteEx(line string) error {
	if s.closed {
		return ErrClosed
	}
	line = strings.TrimLeft(line, ": \t")
	if line == "" {
		return nil
	}
	return s.interp.Execute(line)
}

// Eval evaluates an expression to the string an <expr> mapping feeds.
func (s *Session) Eval(expr string) (string, error) {
	if s.closed {
		return "", ErrClosed
	}
	v, err := s.interp.Eval(expr)
	if err != nil {
		return "", err
	}
	return eval.Display(v), nil
}

// CallOperatorFunc calls the script function g@ names with its kind.
func (s *Session) CallOperatorFunc(name, kind string) error {
	_, err := s.interp.Call(name, eval.String(kind))
	return err
}

// Source runs src as a script named name. A syntax error runs nothing.
// Errors are shown through the message sink and returned.
func (s *Session) Source(name, src string) error {
	if s.closed {
		return ErrClosed
	}
	script, err := parser.Parse(name, src)
	if err != nil {
		s.reportError(err)
		return err
	}
	return s.run(script)
}

// SourceFile reads and runs the script at path.
func (s *Session) SourceFile(path string) error {
	path = expandHome(path)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return cmdErrorf(484, "Can't open file %s", path)
	}
	return s.Source(path, string(data))
}

func (s *Session) run(script *ast.Script) error {
	prev := s.script
	s.script = script.Name
	defer func() { s.script = prev }()

	if err := s.interp.Run(script); err != nil {
		s.reportError(err)
		return err
	}
	return nil
}

// reportError shows an uncaught script error with Vim's location header.
func (s *Session) reportError(err error) {
	var se *eval.ScriptError
	if errors.As(err, &se) && (se.Script != "" || se.Function != "") {
		s.message("Error detected while processing " + se.Location() + ":")
	}
	s.log.Debug("script error", "error", err)
	s.message(err.Error())
}

// RunPending runs timer and async callbacks posted since the last call,
// when the session owns its scheduler. It returns how many ran.
func (s *Session) RunPending() int {
	if s.queue == nil {
		return 0
	}
	return s.queue.Drain()
}

// FullReset abandons any pending command, mapping wait or async handler
// and returns to Normal mode. Mappings, registers and variables survive.
func (s *Session) FullReset() {
	s.disp.Reset()
}

// Close stops the rc watcher and resets the dispatcher. The session
// rejects further input.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if s.watcher != nil {
		err = s.watcher.close()
		s.watcher = nil
	}
	s.disp.Reset()
	return err
}

// leader returns g:mapleader when set, the 'mapleader' option otherwise.
func (s *Session) leader() string {
	if s.interp != nil {
		if v, ok := s.interp.Var("g:mapleader"); ok {
			if str, ok := v.(eval.String); ok && str != "" {
				return string(str)
			}
		}
	}
	return s.opts.MapLeader
}

// mappingOwner is the owner of a mapping defined now: the script being
// sourced, or the user.
func (s *Session) mappingOwner() owner.ID {
	if s.script != "" {
		return owner.Script(s.script)
	}
	return owner.User
}
