package session_test

import (
	"errors"
	"io/fs"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/extension"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/owner"
	"github.com/dshills/vimcore/internal/session"
	"github.com/dshills/vimcore/internal/vimscript/eval"
)

// memFS is an in-memory file system.
type memFS map[string]string

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(s), nil
}

type fixture struct {
	s        *session.Session
	doc      *engine.Document
	opts     *config.Options
	files    memFS
	messages []string
}

func newFixture(t *testing.T, text string, files memFS, configure ...func(*config.Options)) *fixture {
	t.Helper()
	f := &fixture{doc: engine.NewDocument(text), opts: config.Default(), files: files}
	if f.files == nil {
		f.files = memFS{}
	}
	if _, ok := f.files["/rc.vim"]; ok {
		f.opts.RCPath = "/rc.vim"
	}
	for _, c := range configure {
		c(f.opts)
	}
	cfg := dispatcher.DefaultConfig().
		WithClock(dispatcher.NewManualClock(time.Unix(0, 0))).
		WithScheduler(dispatcher.Immediate)
	s, err := session.New(f.doc, f.opts,
		session.WithDispatcherConfig(cfg),
		session.WithFileSystem(f.files),
		session.WithMessageSink(dispatcher.MessageFunc(func(msg string) {
			f.messages = append(f.messages, msg)
		})),
	)
	if err != nil {
		t.Fatal(err)
	}
	f.s = s
	return f
}

func (f *fixture) source(t *testing.T, src string) {
	t.Helper()
	if err := f.s.Source("test.vim", src); err != nil {
		t.Fatalf("source: %v", err)
	}
}

func (f *fixture) ex(t *testing.T, line string) {
	t.Helper()
	if err := f.s.ExecuteEx(line); err != nil {
		t.Fatalf("%s: %v", line, err)
	}
}

func (f *fixture) feed(t *testing.T, notation string) {
	t.Helper()
	if err := f.s.Feed(notation); err != nil {
		t.Fatal(err)
	}
}

func (f *fixture) wantText(t *testing.T, want string) {
	t.Helper()
	if got := f.doc.Text(); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func (f *fixture) mapped(lhs string) bool {
	_, ok := f.s.Dispatcher().Mappings().Get(mode.MapNormal, key.MustParse(lhs))
	return ok
}

func TestDeleteWord(t *testing.T) {
	f := newFixture(t, "I found it in a legendary land", nil)
	f.feed(t, "dw")
	f.wantText(t, "found it in a legendary land")
	if got := f.doc.PrimaryCaret().Offset(); got != 0 {
		t.Errorf("caret = %d, want 0", got)
	}
	r, ok := f.s.Dispatcher().Registers().Get('"')
	if !ok || r.Text != "I " || r.Kind != engine.Charwise {
		t.Errorf(`register " = %+v, %v`, r, ok)
	}
}

func TestStartupScript(t *testing.T) {
	f := newFixture(t, "one two", memFS{"/rc.vim": "let mapleader = \",\"\nnnoremap <Leader>d dw\n"})
	f.feed(t, ",d")
	f.wantText(t, "two")

	m, ok := f.s.Dispatcher().Mappings().Get(mode.MapNormal, key.MustParse(",d"))
	if !ok {
		t.Fatal(",d not mapped")
	}
	if m.Owner != owner.Script("/rc.vim") {
		t.Errorf("owner = %q", m.Owner)
	}
	if m.Script != "/rc.vim" {
		t.Errorf("script = %q", m.Script)
	}
}

func TestMissingStartupScript(t *testing.T) {
	f := newFixture(t, "", nil, func(o *config.Options) { o.RCPath = "/nope.vim" })
	if len(f.messages) != 0 {
		t.Errorf("messages = %q", f.messages)
	}
	if got := f.s.RCPath(); got != "/nope.vim" {
		t.Errorf("RCPath = %q", got)
	}
}

func TestDefaultMappings(t *testing.T) {
	f := newFixture(t, "ab cd", memFS{"/rc.vim": "nnoremap Q x\n"}, func(o *config.Options) {
		o.Mappings = []config.Mapping{
			{Modes: "n", From: "Q", To: "dw"},
			{Modes: "n", From: "W", To: "dw"},
		}
	})
	f.feed(t, "Q")
	f.wantText(t, "b cd")

	m, ok := f.s.Dispatcher().Mappings().Get(mode.MapNormal, key.MustParse("W"))
	if !ok || m.Owner != owner.Config {
		t.Errorf("W = %v, %v; want config mapping", m, ok)
	}
}

func TestMapCommands(t *testing.T) {
	tests := []struct {
		name   string
		script string
		keys   string
		want   string
	}{
		{"recursive", "nmap Q X\nnnoremap X dw", "Q", "cd"},
		{"noremap", "nnoremap Q X\nnnoremap X dw", "Q", "ab cd"},
		{"expr", `nnoremap <expr> Q "d" . "w"`, "Q", "cd"},
		{"silent", "nnoremap <silent> Q dw", "Q", "cd"},
		{"map applies to normal", "map Q dw", "Q", "cd"},
		{"script is not recursive", "nmap <script> Q X\nnnoremap X dw", "Q", "ab cd"},
		{"leader default", `nnoremap <Leader>q dw`, `\q`, "cd"},
		{"escaped blank", "nnoremap Q\x16 x dw", "Q x", "cd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "ab cd", nil)
			f.source(t, tt.script)
			f.feed(t, tt.keys)
			f.wantText(t, tt.want)
		})
	}
}

func TestMapFlags(t *testing.T) {
	f := newFixture(t, "", nil)
	f.ex(t, "nnoremap <silent> <nowait> Q dw")
	m, ok := f.s.Dispatcher().Mappings().Get(mode.MapNormal, key.MustParse("Q"))
	if !ok {
		t.Fatal("Q not mapped")
	}
	if !m.Silent || !m.NoWait || m.Recursive {
		t.Errorf("mapping = %+v", m)
	}
	if m.Owner != owner.User {
		t.Errorf("owner = %q, want user", m.Owner)
	}
}

func TestMapUnique(t *testing.T) {
	f := newFixture(t, "", nil)
	f.ex(t, "nnoremap Q x")
	err := f.s.ExecuteEx("nnoremap <unique> Q dw")
	if err == nil || !strings.HasPrefix(err.Error(), "E227:") {
		t.Errorf("err = %v, want E227", err)
	}
}

func TestListMappings(t *testing.T) {
	f := newFixture(t, "", nil)
	f.ex(t, "nnoremap gx dd")
	f.ex(t, "nmap gy j")

	f.messages = nil
	f.ex(t, "nmap gx")
	want := []string{"n  gx          * dd"}
	if !slices.Equal(f.messages, want) {
		t.Errorf("messages = %q, want %q", f.messages, want)
	}

	f.messages = nil
	f.ex(t, "nmap")
	want = []string{"n  gx          * dd", "n  gy            j"}
	if !slices.Equal(f.messages, want) {
		t.Errorf("messages = %q, want %q", f.messages, want)
	}

	f.messages = nil
	f.ex(t, "imap")
	if !slices.Equal(f.messages, []string{"No mapping found"}) {
		t.Errorf("messages = %q", f.messages)
	}
}

func TestUnmap(t *testing.T) {
	f := newFixture(t, "", nil)
	f.ex(t, "nnoremap Q x")
	f.ex(t, "nunmap Q")
	if f.mapped("Q") {
		t.Error("Q still mapped")
	}
	if err := f.s.ExecuteEx("nunmap Q"); err == nil || !strings.HasPrefix(err.Error(), "E31:") {
		t.Errorf("second unmap err = %v, want E31", err)
	}
	if err := f.s.ExecuteEx("nunmap"); err == nil || !strings.HasPrefix(err.Error(), "E474:") {
		t.Errorf("unmap without lhs err = %v, want E474", err)
	}
}

func TestMapClear(t *testing.T) {
	f := newFixture(t, "", nil)
	f.source(t, "nnoremap Q x\nnnoremap W x\ninoremap jk <Esc>")
	f.ex(t, "nmapclear")
	if n := f.s.Dispatcher().Mappings().Len(mode.MapNormal); n != 0 {
		t.Errorf("normal mappings = %d, want 0", n)
	}
	if n := f.s.Dispatcher().Mappings().Len(mode.MapInsert); n != 1 {
		t.Errorf("insert mappings = %d, want 1", n)
	}
}

func TestNormalCommand(t *testing.T) {
	t.Run("keys", func(t *testing.T) {
		f := newFixture(t, "ab cd", nil)
		f.ex(t, "normal! dw")
		f.wantText(t, "cd")
	})
	t.Run("uses mappings", func(t *testing.T) {
		f := newFixture(t, "ab cd", nil)
		f.ex(t, "nnoremap Q dw")
		f.ex(t, "normal Q")
		f.wantText(t, "cd")
	})
	t.Run("range", func(t *testing.T) {
		f := newFixture(t, "a\nb\nc", nil)
		f.ex(t, "%normal! A;")
		f.wantText(t, "a;\nb;\nc;")
		if got := f.s.Mode().Mode; got != mode.Normal {
			t.Errorf("mode = %v, want Normal", got)
		}
	})
	t.Run("from a mapping", func(t *testing.T) {
		f := newFixture(t, "ab cd", nil)
		f.ex(t, "nnoremap Q :normal! dw<CR>")
		f.feed(t, "Q")
		f.wantText(t, "cd")
	})
}

func TestPreferredColumn(t *testing.T) {
	const three = "abcdef\nabcdef\nabcdef"
	tests := []struct {
		name  string
		text  string
		setup func(t *testing.T, f *fixture)
		keys  string
		want  string
	}{
		{
			name:  "normal with a range",
			text:  three,
			setup: func(t *testing.T, f *fixture) { f.feed(t, "4l"); f.ex(t, "1normal jx") },
			want:  "abcdef\nbcdef\nabcdef",
		},
		{
			name: "function called with a range",
			text: three,
			setup: func(t *testing.T, f *fixture) {
				f.source(t, "function! Cut()\n  normal! jx\nendfunction")
				f.feed(t, "4l")
				f.ex(t, "1call Cut()")
			},
			want: "abcdef\nbcdef\nabcdef",
		},
		{
			name: "host moves the caret",
			text: three,
			setup: func(t *testing.T, f *fixture) {
				f.feed(t, "4l")
				engine.MoveCaret(f.doc.PrimaryCaret(), 1)
			},
			keys: "jx",
			want: "abcdef\nacdef\nabcdef",
		},
		{
			name: "edit drops the column",
			text: "abcdef\nab\nabcdef",
			keys: "4ljxjx",
			want: "abcdef\na\nbcdef",
		},
		{
			name: "short line keeps the column",
			text: "abcdef\nab\nabcdef",
			keys: "4ljjx",
			want: "abcdef\nab\nabcdf",
		},
		{
			name: "recording keeps the column",
			text: "abcdef\nab\nabcdef",
			keys: "4ljqaqjx",
			want: "abcdef\nab\nabcdf",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.text, nil)
			if tt.setup != nil {
				tt.setup(t, f)
			}
			if tt.keys != "" {
				f.feed(t, tt.keys)
			}
			f.wantText(t, tt.want)
		})
	}
}

func TestSetCommand(t *testing.T) {
	f := newFixture(t, "", nil)
	f.opts.IgnoreCase = true
	f.ex(t, "set tm=200 noic")
	if f.opts.TimeoutLen != 200*time.Millisecond {
		t.Errorf("timeoutlen = %v", f.opts.TimeoutLen)
	}
	if f.opts.IgnoreCase {
		t.Error("ignorecase still set")
	}

	f.messages = nil
	f.ex(t, "set ts?")
	if !slices.Equal(f.messages, []string{"  tabstop=8"}) {
		t.Errorf("messages = %q", f.messages)
	}

	if err := f.s.ExecuteEx("set bogus"); err == nil || !strings.HasPrefix(err.Error(), "E518:") {
		t.Errorf("unknown option err = %v", err)
	}

	f.messages = nil
	f.ex(t, "set")
	if len(f.messages) != len(config.Names()) {
		t.Errorf("set listed %d options, want %d", len(f.messages), len(config.Names()))
	}
}

func TestSourceCommand(t *testing.T) {
	f := newFixture(t, "ab", memFS{"/other.vim": "nnoremap Q x\n"})
	f.ex(t, "source /other.vim")
	m, ok := f.s.Dispatcher().Mappings().Get(mode.MapNormal, key.MustParse("Q"))
	if !ok || m.Owner != owner.Script("/other.vim") {
		t.Errorf("Q = %v, %v", m, ok)
	}

	if err := f.s.ExecuteEx("source /missing.vim"); err == nil || !strings.HasPrefix(err.Error(), "E484:") {
		t.Errorf("missing file err = %v", err)
	}
	if err := f.s.ExecuteEx("source"); err == nil || !strings.HasPrefix(err.Error(), "E471:") {
		t.Errorf("no argument err = %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	f := newFixture(t, "", nil)
	err := f.s.ExecuteEx(":frobnicate now")
	if err == nil || err.Error() != "E492: Not an editor command: frobnicate now" {
		t.Errorf("err = %v", err)
	}
	var coded interface{ Code() int }
	if !errors.As(err, &coded) || coded.Code() != 492 {
		t.Errorf("code = %v", err)
	}
}

func TestCommandLineFromKeys(t *testing.T) {
	f := newFixture(t, "", nil)
	f.feed(t, ":let g:x = 5<CR>")
	if v, ok := f.s.Interp().Var("g:x"); !ok || v != eval.Number(5) {
		t.Errorf("g:x = %v, %v", v, ok)
	}

	f.feed(t, ":frob<CR>")
	if !slices.Contains(f.messages, "E492: Not an editor command: frob") {
		t.Errorf("messages = %q", f.messages)
	}
}

func TestRegistersCommand(t *testing.T) {
	f := newFixture(t, "", nil)
	f.source(t, "call setreg('a', ['x', 'y'])\ncall setreg('b', 'word')")
	f.messages = nil
	f.ex(t, "registers ab")
	want := []string{
		"Type Name Content",
		`  l  "a   x^Jy^J`,
		`  c  "b   word`,
	}
	if !slices.Equal(f.messages, want) {
		t.Errorf("messages = %q, want %q", f.messages, want)
	}
}

func TestScriptBuiltins(t *testing.T) {
	f := newFixture(t, "ab cd", nil)
	f.ex(t, "nnoremap <silent> Q dw")

	tests := []struct {
		expr string
		want string
	}{
		{"maparg('Q', 'n')", "dw"},
		{"get(maparg('Q', 'n', 0, 1), 'silent')", "1"},
		{"maparg('Z', 'n')", ""},
		{"mode()", "n"},
		{"&tabstop", "8"},
		{"getreg('z')", ""},
	}
	for _, tt := range tests {
		got, err := f.s.Eval(tt.expr)
		if err != nil {
			t.Errorf("%s: %v", tt.expr, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.expr, got, tt.want)
		}
	}

	f.ex(t, "call feedkeys('dw', 'nx')")
	f.wantText(t, "cd")
}

func TestOperatorFunc(t *testing.T) {
	f := newFixture(t, "foo bar\nbaz", nil)
	f.source(t, `
function! Op(type)
  let g:kind = a:type
endfunction
set operatorfunc=Op
`)
	f.feed(t, "g@iw")
	if v, ok := f.s.Interp().Var("g:kind"); !ok || v != eval.String("char") {
		t.Errorf("g:kind = %v, %v", v, ok)
	}
	f.feed(t, "g@j")
	if v, _ := f.s.Interp().Var("g:kind"); v != eval.String("line") {
		t.Errorf("g:kind = %v, want line", v)
	}
}

func TestScriptErrorHeader(t *testing.T) {
	f := newFixture(t, "", nil)
	err := f.s.Source("t.vim", "let x = 1\ncall Nope()")
	if err == nil {
		t.Fatal("no error")
	}
	if len(f.messages) != 2 {
		t.Fatalf("messages = %q", f.messages)
	}
	if f.messages[0] != "Error detected while processing t.vim, line 2:" {
		t.Errorf("header = %q", f.messages[0])
	}
	if !strings.HasPrefix(f.messages[1], "E117:") {
		t.Errorf("error = %q", f.messages[1])
	}
}

func TestSyntaxErrorRunsNothing(t *testing.T) {
	f := newFixture(t, "", nil)
	if err := f.s.Source("t.vim", "nnoremap Q x\nif 1\necho 1"); err == nil {
		t.Fatal("no error")
	}
	if f.mapped("Q") {
		t.Error("Q mapped from a script with a syntax error")
	}
}

func TestReload(t *testing.T) {
	files := memFS{"/rc.vim": "\" startup\nnnoremap Q x\nnnoremap W x\n"}
	f := newFixture(t, "ab cd", files)

	diff, err := f.s.Reload()
	if err != nil || diff != "" {
		t.Fatalf("unchanged reload = %q, %v", diff, err)
	}

	files["/rc.vim"] = "\" startup script\n\nnnoremap Q x   \nnnoremap W x\n"
	diff, err = f.s.Reload()
	if err != nil || diff != "" {
		t.Fatalf("comment-only reload = %q, %v", diff, err)
	}

	files["/rc.vim"] = "nnoremap Q x\n\t  nnoremap W x\r\n"
	diff, err = f.s.Reload()
	if err != nil || diff != "" {
		t.Fatalf("indentation-only reload = %q, %v", diff, err)
	}

	f.ex(t, "nnoremap U x")
	files["/rc.vim"] = "nnoremap Q dw\n"
	diff, err = f.s.Reload()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"-nnoremap W x", "+nnoremap Q dw"} {
		if !strings.Contains(diff, want) {
			t.Errorf("diff lacks %q:\n%s", want, diff)
		}
	}
	if f.mapped("W") {
		t.Error("W survived reload")
	}
	if !f.mapped("U") {
		t.Error("user mapping removed by reload")
	}
	f.feed(t, "Q")
	f.wantText(t, "cd")

	files["/rc.vim"] = "nnoremap Z x\nif 1\n"
	if _, err := f.s.Reload(); err == nil {
		t.Fatal("reload of a broken script succeeded")
	}
	if !f.mapped("Q") || f.mapped("Z") {
		t.Error("broken script changed the mappings")
	}
}

func TestReloadWithoutScript(t *testing.T) {
	f := newFixture(t, "", nil)
	if _, err := f.s.Reload(); !errors.Is(err, session.ErrNoRC) {
		t.Errorf("err = %v, want ErrNoRC", err)
	}
}

func TestExtensions(t *testing.T) {
	doc := engine.NewDocument("ab cd")
	s, err := session.New(doc, config.Default(),
		session.WithFileSystem(memFS{}),
		session.WithExtensions(extension.Extension{
			Name: "words",
			Setup: func(f extension.Facade, id owner.ID) error {
				return f.RegisterMapping(mode.MapNormal, "Q", id, "dw", false)
			},
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Extensions().Loaded(); !slices.Equal(got, []string{"words"}) {
		t.Errorf("Loaded = %q", got)
	}
	if err := s.Feed("Q"); err != nil {
		t.Fatal(err)
	}
	if got := doc.Text(); got != "cd" {
		t.Errorf("text = %q", got)
	}
	if n := s.RunPending(); n != 0 {
		t.Errorf("RunPending = %d", n)
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	a := newFixture(t, "ab cd", nil)
	b := newFixture(t, "ab cd", nil)
	a.ex(t, "nnoremap Q dw")
	a.ex(t, "let g:only_a = 1")
	if b.mapped("Q") {
		t.Error("mapping leaked between sessions")
	}
	if _, ok := b.s.Interp().Var("g:only_a"); ok {
		t.Error("variable leaked between sessions")
	}
}

func TestClose(t *testing.T) {
	f := newFixture(t, "ab", nil)
	f.feed(t, "i")
	if err := f.s.Close(); err != nil {
		t.Fatal(err)
	}
	if got := f.s.Mode().Mode; got != mode.Normal {
		t.Errorf("mode after Close = %v", got)
	}
	if err := f.s.ExecuteEx("echo 1"); !errors.Is(err, session.ErrClosed) {
		t.Errorf("ExecuteEx after Close = %v", err)
	}
	if err := f.s.Feed("x"); !errors.Is(err, session.ErrClosed) {
		t.Errorf("Feed after Close = %v", err)
	}
	f.wantText(t, "ab")
}
