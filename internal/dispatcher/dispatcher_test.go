package dispatcher_test

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/dispatcher/hook"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/input/vim"
	"github.com/dshills/vimcore/internal/owner"
)

type fixture struct {
	d        *dispatcher.Dispatcher
	doc      *engine.Document
	clock    *dispatcher.ManualClock
	opts     *config.Options
	messages []string
}

func newFixture(t *testing.T, text string, off int) *fixture {
	t.Helper()
	f := &fixture{
		doc:   engine.NewDocument(text),
		clock: dispatcher.NewManualClock(time.Unix(0, 0)),
		opts:  config.Default(),
	}
	f.doc.PrimaryCaret().MoveTo(off)
	cfg := dispatcher.DefaultConfig().WithClock(f.clock).WithScheduler(dispatcher.Immediate).WithMetrics()
	f.d = dispatcher.New(f.doc, f.opts, cfg)
	f.d.SetMessageSink(dispatcher.MessageFunc(func(msg string) {
		f.messages = append(f.messages, msg)
	}))
	return f
}

func (f *fixture) keys(t *testing.T, notation string) {
	t.Helper()
	f.d.HandleKeys(key.MustParse(notation))
}

func (f *fixture) wantText(t *testing.T, want string) {
	t.Helper()
	if got := f.doc.Text(); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func (f *fixture) wantCaret(t *testing.T, want int) {
	t.Helper()
	if got := f.doc.PrimaryCaret().Offset(); got != want {
		t.Errorf("caret = %d, want %d", got, want)
	}
}

func (f *fixture) wantMode(t *testing.T, want mode.Mode) {
	t.Helper()
	if got := f.d.Mode().Mode; got != want {
		t.Errorf("mode = %v, want %v", got, want)
	}
}

func (f *fixture) wantRegister(t *testing.T, reg rune, want string) {
	t.Helper()
	r, ok := f.d.Registers().Get(reg)
	if !ok {
		t.Fatalf("register %q is empty", reg)
	}
	if r.Text != want {
		t.Errorf("register %q = %q, want %q", reg, r.Text, want)
	}
}

func (f *fixture) hasMessage(prefix string) bool {
	for _, m := range f.messages {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

func (f *fixture) mapKeys(t *testing.T, modes mode.MappingModes, from, to string, recursive bool) {
	t.Helper()
	m := keymap.New(key.MustParse(from), keymap.ToKeys{Keys: key.MustParse(to)}, owner.User).WithRecursive(recursive)
	if err := f.d.Mappings().Put(modes, m); err != nil {
		t.Fatalf("Put(%s): %v", from, err)
	}
}

func TestOperatorMotion(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		off   int
		keys  string
		want  string
		caret int
	}{
		{"delete word", "foo bar baz", 0, "dw", "bar baz", 0},
		{"counts multiply", "a b c d e f g h", 0, "2d3w", "g h", 0},
		{"count before operator", "a b c d", 0, "3dw", "d", 0},
		{"delete to line end", "abc def", 4, "d$", "abc ", 3},
		{"inclusive find", "abcdef", 0, "dfd", "ef", 0},
		{"till", "abcdef", 0, "dtd", "def", 0},
		{"doubled operator", "one\ntwo\nthree", 0, "dd", "two\nthree", 0},
		{"doubled with count", "one\ntwo\nthree", 0, "2dd", "three", 0},
		{"linewise motion", "one\ntwo\nthree", 0, "dj", "three", 0},
		{"exclusive to column zero becomes linewise", "a\nb\n\nc", 0, "d}", "\nc", 0},
		{"text object", "foo bar", 5, "diw", "foo ", 3},
		{"uppercase doubled", "abc\ndef", 0, "gUU", "ABC\ndef", 0},
		{"uppercase with repeated operator", "abc\ndef", 0, "gUgU", "ABC\ndef", 0},
		{"delete to end with dl", "ab", 1, "dl", "a", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, tt.off)
			f.keys(t, tt.keys)
			f.wantText(t, tt.want)
			f.wantCaret(t, tt.caret)
			f.wantMode(t, mode.Normal)
			if f.d.Pending() {
				t.Error("command still pending")
			}
		})
	}
}

func TestDeleteWritesRegisters(t *testing.T) {
	f := newFixture(t, "foo bar baz", 0)
	f.keys(t, `"adw`)
	f.wantText(t, "bar baz")
	f.wantRegister(t, 'a', "foo ")
	f.wantRegister(t, '"', "foo ")
}

func TestOperatorCancelledByNonMotion(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.keys(t, "dx")
	f.wantText(t, "abc")
	f.wantMode(t, mode.Normal)
}

func TestOperatorEscape(t *testing.T) {
	f := newFixture(t, "abc def", 0)
	f.keys(t, "d")
	f.wantMode(t, mode.OperatorPending)
	f.keys(t, "<Esc>")
	f.wantMode(t, mode.Normal)
	f.keys(t, "w")
	f.wantText(t, "abc def")
	f.wantCaret(t, 4)
}

func TestMultiCaretYankOrder(t *testing.T) {
	f := newFixture(t, "foo\nbar", 4)
	f.doc.AddCaret(0)
	f.keys(t, "yiw")
	f.wantRegister(t, '"', "foo\nbar")
	f.wantText(t, "foo\nbar")
}

func TestMultiCaretDelete(t *testing.T) {
	f := newFixture(t, "ab\ncd\nef", 0)
	f.doc.AddCaret(3)
	f.doc.AddCaret(6)
	f.keys(t, "x")
	f.wantText(t, "b\nd\nf")
	f.wantRegister(t, '"', "a\nc\ne")
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		off   int
		keys  string
		want  string
		caret int
	}{
		{"insert", "", 0, "ifoo<Esc>", "foo", 2},
		{"insert count", "", 0, "3ix<Esc>", "xxx", 2},
		{"append", "ab", 0, "ax<Esc>", "axb", 1},
		{"append line end", "ab", 0, "Ax<Esc>", "abx", 2},
		{"open below with count", "a", 0, "2ox<Esc>", "a\nx\nx", 4},
		{"backspace", "", 0, "iabc<BS>d<Esc>", "abd", 2},
		{"newline", "", 0, "ia<CR>b<Esc>", "a\nb", 2},
		{"change word", "foo bar", 0, "cwxy<Esc>", "xy bar", 1},
		{"change line", "foo\nbar", 0, "ccx<Esc>", "x\nbar", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, tt.off)
			f.keys(t, tt.keys)
			f.wantText(t, tt.want)
			f.wantCaret(t, tt.caret)
			f.wantMode(t, mode.Normal)
		})
	}
}

func TestInsertLiteral(t *testing.T) {
	tests := []struct {
		name string
		keys string
		want string
	}{
		{"key", "i<C-v>w<Esc>", "w"},
		{"escape", "i<C-v><Esc><Esc>", "\x1b"},
		{"decimal", "i<C-v>065<Esc>", "A"},
		{"short decimal", "i<C-v>65b<Esc>", "Ab"},
		{"decimal over 255", "i<C-v>256<Esc>", "\x196"},
		{"ended by escape", "i<C-v>06<Esc>", "\x06"},
		{"octal", "i<C-v>o101<Esc>", "A"},
		{"hex", "i<C-v>x41<Esc>", "A"},
		{"unicode", "i<C-v>u00e9<Esc>", "é"},
		{"long unicode", "i<C-v>U0001F600<Esc>", "😀"},
		{"prefix without digits", "i<C-v>xg<Esc>", "xg"},
		{"count", "3i<C-v>065<Esc>", "AAA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "", 0)
			f.keys(t, tt.keys)
			f.wantText(t, tt.want)
			f.wantMode(t, mode.Normal)
		})
	}

	t.Run("inserted text register", func(t *testing.T) {
		f := newFixture(t, "", 0)
		f.keys(t, "i<C-v>x41b<Esc>")
		f.wantRegister(t, '.', "Ab")
	})
}

func TestInsertedTextRegister(t *testing.T) {
	f := newFixture(t, "", 0)
	f.keys(t, "ihello<Esc>")
	f.wantRegister(t, '.', "hello")
}

func TestInsertNormal(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.keys(t, "A<C-o>0")
	f.wantMode(t, mode.Insert)
	f.wantCaret(t, 0)
	f.keys(t, "x<Esc>")
	f.wantText(t, "xabc")
}

func TestRepeat(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys string
		want string
	}{
		{"delete word", "a b c d", "dw.", "c d"},
		{"delete char with count", "abcdef", "2x.", "ef"},
		{"new count replaces old", "abcdef", "2x3.", "f"},
		{"insert", "", "ifoo<Esc>.", "fofooo"},
		{"change word", "a b c", "cwx<Esc>w.", "x x c"},
		{"doubled operator", "1\n2\n3\n4", "dd.", "3\n4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, 0)
			f.keys(t, tt.keys)
			f.wantText(t, tt.want)
			f.wantMode(t, mode.Normal)
		})
	}
}

func TestRepeatWithoutChange(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.keys(t, ".")
	f.wantText(t, "abc")
	if len(f.messages) != 0 {
		t.Errorf("messages = %q, want none", f.messages)
	}
}

func TestMacro(t *testing.T) {
	f := newFixture(t, "abcdef", 0)
	f.keys(t, "qa")
	if got := f.d.Recording(); got != 'a' {
		t.Fatalf("Recording = %q, want 'a'", got)
	}
	f.keys(t, "xq")
	if got := f.d.Recording(); got != 0 {
		t.Fatalf("Recording = %q after q", got)
	}
	f.wantRegister(t, 'a', "x")
	f.keys(t, "@a")
	f.wantText(t, "cdef")
	f.keys(t, "2@@")
	f.wantText(t, "ef")
}

func TestMacroStopsOnError(t *testing.T) {
	f := newFixture(t, "abc", 0)
	if err := f.d.Registers().Set('q', vim.Register{Text: "lx", Kind: engine.Charwise}); err != nil {
		t.Fatal(err)
	}
	f.keys(t, "5@q")
	f.wantText(t, "ac")
}

func TestUndoRedo(t *testing.T) {
	f := newFixture(t, "foo bar", 0)
	f.keys(t, "dw")
	f.wantText(t, "bar")
	f.keys(t, "u")
	f.wantText(t, "foo bar")
	f.keys(t, "<C-r>")
	f.wantText(t, "bar")
	f.keys(t, "<C-r>")
	if !f.hasMessage("Already at newest change") {
		t.Errorf("messages = %q", f.messages)
	}
}

func TestMappingExpands(t *testing.T) {
	f := newFixture(t, "one\ntwo", 0)
	f.mapKeys(t, mode.MapNormal, "Q", "dd", false)
	f.keys(t, "Q")
	f.wantText(t, "two")
}

func TestMappingNonRecursive(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.mapKeys(t, mode.MapNormal, "x", "l", false)
	f.mapKeys(t, mode.MapNormal, "Q", "x", false)
	f.keys(t, "Q")
	f.wantText(t, "bc")
}

func TestRecursiveMapping(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.opts.MaxMapDepth = 20
	f.mapKeys(t, mode.MapNormal, "Q", "W", true)
	f.mapKeys(t, mode.MapNormal, "W", "Q", true)
	f.keys(t, "Q")
	if !f.hasMessage("E223") {
		t.Errorf("messages = %q, want E223", f.messages)
	}
	f.keys(t, "x")
	f.wantText(t, "bc")
}

func TestMappingLeadingSelf(t *testing.T) {
	f := newFixture(t, "abcdef", 0)
	f.mapKeys(t, mode.MapNormal, "x", "xl", true)
	f.keys(t, "x")
	f.wantText(t, "bcdef")
	f.wantCaret(t, 1)
}

func TestMappingWaitsForTimeout(t *testing.T) {
	f := newFixture(t, "one\ntwo\nthree", 0)
	f.mapKeys(t, mode.MapNormal, "xx", "dd", false)
	f.keys(t, "x")
	if !f.d.Pending() {
		t.Fatal("x should wait for a longer mapping")
	}
	f.wantText(t, "one\ntwo\nthree")

	f.clock.Advance(f.opts.TimeoutLen - time.Millisecond)
	f.wantText(t, "one\ntwo\nthree")
	f.clock.Advance(time.Millisecond)
	f.wantText(t, "ne\ntwo\nthree")
	if f.d.Pending() {
		t.Error("still pending after timeout")
	}

	f.keys(t, "xx")
	f.wantText(t, "two\nthree")
}

func TestMappingNoTimeout(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.opts.Timeout = false
	f.mapKeys(t, mode.MapNormal, "xx", "dd", false)
	f.keys(t, "x")
	f.clock.Advance(time.Hour)
	f.wantText(t, "abc")
	f.keys(t, "l")
	f.wantText(t, "bc")
	f.wantCaret(t, 1)
}

func TestMappingNoWait(t *testing.T) {
	f := newFixture(t, "abc", 0)
	m := keymap.New(key.MustParse("Q"), keymap.ToKeys{Keys: key.MustParse("x")}, owner.User).WithNoWait(true)
	if err := f.d.Mappings().Put(mode.MapNormal, m); err != nil {
		t.Fatal(err)
	}
	f.mapKeys(t, mode.MapNormal, "QQ", "dd", false)
	f.keys(t, "Q")
	f.wantText(t, "bc")
}

func TestCommandPrefixWaits(t *testing.T) {
	f := newFixture(t, "a\nb\nc", 4)
	f.keys(t, "g")
	if !f.d.Pending() {
		t.Fatal("g should be pending")
	}
	f.keys(t, "g")
	f.wantCaret(t, 0)
}

func TestInsertModeMappingTimeoutTypes(t *testing.T) {
	f := newFixture(t, "", 0)
	f.mapKeys(t, mode.MapInsert, "jk", "<Esc>", false)
	f.keys(t, "ij")
	f.wantText(t, "")
	f.clock.Advance(f.opts.TimeoutLen)
	f.wantText(t, "j")
	f.keys(t, "jk")
	f.wantText(t, "j")
	f.wantMode(t, mode.Normal)
}

func TestAsyncCommand(t *testing.T) {
	f := newFixture(t, "abc", 0)
	var done func(error)
	cmd := command.New("test.async", mode.MapNormal, command.Async{Fn: func(_ *command.Context, d func(error)) {
		done = d
	}}, "gz")
	if err := f.d.RegisterCommand(cmd, false); err != nil {
		t.Fatal(err)
	}

	f.keys(t, "gzx")
	if !f.d.Busy() {
		t.Fatal("dispatcher should be busy")
	}
	f.wantText(t, "abc")

	done(nil)
	if f.d.Busy() {
		t.Error("still busy after completion")
	}
	f.wantText(t, "bc")

	// A second completion is ignored.
	done(errors.New("late"))
	f.wantText(t, "bc")
}

func TestAsyncTimeout(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.opts.AsyncTimeout = 100 * time.Millisecond
	var done func(error)
	cmd := command.New("test.async", mode.MapNormal, command.Async{Fn: func(_ *command.Context, d func(error)) {
		done = d
	}}, "gz")
	if err := f.d.RegisterCommand(cmd, false); err != nil {
		t.Fatal(err)
	}

	f.keys(t, "gzx")
	f.clock.Advance(100 * time.Millisecond)
	if f.d.Busy() {
		t.Fatal("still busy after the timeout")
	}
	f.wantText(t, "bc")
	if n := f.d.Metrics().Snapshot().TotalTimeouts; n != 1 {
		t.Errorf("timeouts = %d, want 1", n)
	}

	done(nil)
	f.wantText(t, "bc")
}

func TestResetCancelsAsync(t *testing.T) {
	f := newFixture(t, "abc", 0)
	var done func(error)
	cmd := command.New("test.async", mode.MapNormal, command.Async{Fn: func(_ *command.Context, d func(error)) {
		done = d
	}}, "gz")
	if err := f.d.RegisterCommand(cmd, false); err != nil {
		t.Fatal(err)
	}
	f.keys(t, "gzx")
	f.d.Reset()
	if f.d.Busy() {
		t.Fatal("busy after Reset")
	}
	done(nil)
	f.wantText(t, "abc")
	f.wantMode(t, mode.Normal)
}

func TestExecuteNormal(t *testing.T) {
	f := newFixture(t, "", 0)
	if err := f.d.ExecuteNormal(key.MustParse("ihello"), false); err != nil {
		t.Fatal(err)
	}
	f.wantText(t, "hello")
	f.wantMode(t, mode.Normal)

	// An incomplete command is abandoned.
	if err := f.d.ExecuteNormal(key.MustParse("d"), false); err != nil {
		t.Fatal(err)
	}
	f.wantMode(t, mode.Normal)
	if f.d.Pending() {
		t.Error("operator left pending")
	}
}

func TestExecuteNormalNesting(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.d = dispatcher.New(f.doc, f.opts, dispatcher.DefaultConfig().WithClock(f.clock).WithScheduler(dispatcher.Immediate).WithMaxNesting(5))
	f.d.SetMessageSink(dispatcher.MessageFunc(func(msg string) { f.messages = append(f.messages, msg) }))
	cmd := command.New("test.recurse", mode.MapNormal, command.SingleExecution{Fn: func(ctx *command.Context) error {
		return ctx.Host.ExecuteNormal(key.MustParse("gz"), false)
	}}, "gz")
	if err := f.d.RegisterCommand(cmd, false); err != nil {
		t.Fatal(err)
	}
	err := f.d.ExecuteNormal(key.MustParse("gz"), false)
	var ne *dispatcher.NestingError
	if !errors.As(err, &ne) {
		t.Fatalf("err = %v, want NestingError", err)
	}
	if !f.hasMessage("E169") {
		t.Errorf("messages = %q", f.messages)
	}
}

func TestVisualMode(t *testing.T) {
	tests := []struct {
		name string
		text string
		keys string
		want string
	}{
		{"delete", "abcdef", "vlld", "def"},
		{"linewise delete", "a\nb\nc", "Vjd", "c"},
		{"count motion", "abcdef", "v2ld", "def"},
		{"uppercase", "abc", "vlU", "ABc"},
		{"text object", "foo bar", "viwd", " bar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, 0)
			f.keys(t, tt.keys)
			f.wantText(t, tt.want)
			f.wantMode(t, mode.Normal)
		})
	}
}

func TestVisualEscapeSetsMarks(t *testing.T) {
	f := newFixture(t, "abcdef", 1)
	f.keys(t, "vll<Esc>")
	f.wantMode(t, mode.Normal)
	f.wantCaret(t, 3)
	lt, ok1 := f.doc.Mark('<')
	gt, ok2 := f.doc.Mark('>')
	if !ok1 || !ok2 || lt.Column != 1 || gt.Column != 3 {
		t.Errorf("marks = %v %v", lt, gt)
	}
}

func TestSelectModeTyping(t *testing.T) {
	f := newFixture(t, "abcdef", 0)
	f.keys(t, "ghllxy<Esc>")
	f.wantText(t, "xydef")
	f.wantMode(t, mode.Normal)
}

func TestCharacterArgument(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.keys(t, "rx")
	f.wantText(t, "xbc")
	f.keys(t, "r<Esc>")
	f.wantText(t, "xbc")
	f.wantMode(t, mode.Normal)
}

func TestHooks(t *testing.T) {
	f := newFixture(t, "abc", 0)
	var post []string
	f.d.Hooks().RegisterPre(hook.NewPreCommandFunc("block-x", 10, func(ctx *command.Context) bool {
		return ctx.Command.Keys[0].String() != "x"
	}))
	f.d.Hooks().RegisterPost(hook.NewPostCommandFunc("trace", 10, func(ctx *command.Context, _ error) {
		post = append(post, ctx.Command.Name)
	}))
	f.keys(t, "x")
	f.wantText(t, "abc")
	f.keys(t, "l")
	if len(post) != 1 {
		t.Errorf("post hooks ran for %q", post)
	}
}

func TestPanicRecovered(t *testing.T) {
	f := newFixture(t, "abc", 0)
	cmd := command.New("test.panic", mode.MapNormal, command.SingleExecution{Fn: func(*command.Context) error {
		panic("boom")
	}}, "gz")
	if err := f.d.RegisterCommand(cmd, false); err != nil {
		t.Fatal(err)
	}
	f.keys(t, "gzx")
	f.wantText(t, "bc")
	if n := f.d.Metrics().Snapshot().TotalPanics; n != 1 {
		t.Errorf("panics = %d, want 1", n)
	}
}

func TestOnYank(t *testing.T) {
	f := newFixture(t, "foo bar", 0)
	var got []dispatcher.YankEvent
	remove := f.d.OnYank(dispatcher.YankListenerFunc(func(ev dispatcher.YankEvent) {
		got = append(got, ev)
	}))
	f.keys(t, "yw")
	remove()
	f.keys(t, "yw")
	if len(got) != 1 || got[0].Value.Text != "foo " || got[0].Command != "operator.yank" {
		t.Errorf("yank events = %+v", got)
	}
}

func TestUnregisterOwner(t *testing.T) {
	f := newFixture(t, "abc", 0)
	id := owner.New("plugin")
	cmd := command.New("test.owned", mode.MapNormal, command.SingleExecution{Fn: func(*command.Context) error { return nil }}, "gz")
	cmd.Owner = id
	if err := f.d.RegisterCommand(cmd, false); err != nil {
		t.Fatal(err)
	}
	m := keymap.New(key.MustParse("Q"), keymap.ToKeys{Keys: key.MustParse("x")}, id)
	if err := f.d.Mappings().Put(mode.MapNormal, m); err != nil {
		t.Fatal(err)
	}
	if n := f.d.UnregisterOwner(id); n != 2 {
		t.Errorf("UnregisterOwner = %d, want 2", n)
	}
	if _, ok := f.d.LookupCommand(mode.MapNormal, key.MustParse("gz")); ok {
		t.Error("command survived")
	}
}

func TestOperatorFunc(t *testing.T) {
	f := newFixture(t, "foo bar\nbaz", 0)
	var kinds []string
	f.d.OperatorFuncs().Register("Capture", owner.User, func(kind string) error {
		kinds = append(kinds, kind)
		return nil
	})

	f.keys(t, "g@w")
	if !f.hasMessage("E774") {
		t.Errorf("messages = %q, want E774", f.messages)
	}

	f.opts.OperatorFunc = "Capture"
	f.keys(t, "g@wg@j")
	if !slices.Equal(kinds, []string{"char", "line"}) {
		t.Errorf("kinds = %q", kinds)
	}
	end, _ := f.doc.Mark(']')
	if end.Line != 1 {
		t.Errorf("'] = %v, want line 1", end)
	}
}

func TestCommandLineWithoutEnvironment(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.keys(t, ":set ts=4<CR>")
	f.wantMode(t, mode.Normal)
	if !f.hasMessage(dispatcher.ErrNoEnvironment.Error()) {
		t.Errorf("messages = %q", f.messages)
	}
}

type recordingEnv struct {
	lines []string
}

func (e *recordingEnv) ExecuteEx(line string) error {
	e.lines = append(e.lines, line)
	return nil
}

func (e *recordingEnv) Eval(expr string) (string, error) { return expr, nil }

func (e *recordingEnv) CallOperatorFunc(string, string) error { return nil }

func TestCommandLine(t *testing.T) {
	f := newFixture(t, "abc", 0)
	env := &recordingEnv{}
	f.d.SetEnvironment(env)
	f.keys(t, ":echo hx<BS>i<CR>:foo bar<C-w>baz<CR>")
	if !slices.Equal(env.lines, []string{"echo hi", "foo baz"}) {
		t.Errorf("lines = %q", env.lines)
	}
	f.wantRegister(t, ':', "foo baz")
	f.keys(t, ":abc<Esc>")
	if len(env.lines) != 2 {
		t.Errorf("cancelled line ran: %q", env.lines)
	}
	f.wantMode(t, mode.Normal)
}

func TestExpressionMapping(t *testing.T) {
	f := newFixture(t, "abc", 0)
	f.d.SetEnvironment(&recordingEnv{})
	m := keymap.New(key.MustParse("Q"), keymap.ToExpression{Source: "x"}, owner.User)
	if err := f.d.Mappings().Put(mode.MapNormal, m); err != nil {
		t.Fatal(err)
	}
	f.keys(t, "Q")
	f.wantText(t, "bc")
}
