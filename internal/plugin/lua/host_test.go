package lua

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/dshills/vimcore/internal/config"
	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/extension"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/keymap"
	"github.com/dshills/vimcore/internal/input/mode"
	"github.com/dshills/vimcore/internal/owner"
	"github.com/dshills/vimcore/internal/session"
)

type hostFixture struct {
	host     *Host
	d        *dispatcher.Dispatcher
	doc      *engine.Document
	opts     *config.Options
	messages []string
}

func newHost(t *testing.T, text string) *hostFixture {
	t.Helper()
	f := &hostFixture{doc: engine.NewDocument(text), opts: config.Default()}
	cfg := dispatcher.DefaultConfig().
		WithClock(dispatcher.NewManualClock(time.Unix(0, 0))).
		WithScheduler(dispatcher.Immediate)
	f.d = dispatcher.New(f.doc, f.opts, cfg)
	f.d.SetMessageSink(dispatcher.MessageFunc(func(msg string) {
		f.messages = append(f.messages, msg)
	}))
	f.host = NewHost(extension.NewTable(extension.NewRegistrar(f.d), nil))
	t.Cleanup(func() { f.host.Close() })
	return f
}

func (f *hostFixture) load(t *testing.T, name, src string) {
	t.Helper()
	if err := f.host.Load(name, src); err != nil {
		t.Fatalf("Load(%s): %v", name, err)
	}
}

func (f *hostFixture) feed(keys string) {
	f.d.HandleKeys(key.MustParse(keys))
}

func (f *hostFixture) wantText(t *testing.T, want string) {
	t.Helper()
	if got := f.doc.Text(); got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func (f *hostFixture) mapped(lhs string) bool {
	_, ok := f.d.Mappings().Get(mode.MapNormal, key.MustParse(lhs))
	return ok
}

func TestMapKeys(t *testing.T) {
	f := newHost(t, "ab cd")
	f.load(t, "p", `vim.map("n", "Q", "dw")`)
	f.feed("Q")
	f.wantText(t, "cd")
}

func TestMapFunction(t *testing.T) {
	f := newHost(t, "ab")
	f.load(t, "p", `
vim.map("n", "Q", function(count)
  vim.buf.insert(vim.buf.cursor(), string.rep("*", count))
end, {desc = "stars"})`)
	f.feed("Q")
	f.wantText(t, "*ab")
}

func TestUnmap(t *testing.T) {
	f := newHost(t, "")
	f.load(t, "p", `
vim.map("n", "Q", "x")
removed = vim.unmap("n", "Q")
again = vim.unmap("n", "Q")`)
	p, _ := f.host.Get("p")
	if got := ToGoValue(p.state.GetGlobal("removed")); got != true {
		t.Errorf("first unmap = %v, want true", got)
	}
	if got := ToGoValue(p.state.GetGlobal("again")); got != false {
		t.Errorf("second unmap = %v, want false", got)
	}
	if f.mapped("Q") {
		t.Error("Q still mapped")
	}
}

func TestCommandDefault(t *testing.T) {
	f := newHost(t, "abc")
	f.load(t, "p", `
vim.command("n", "gS", function(count)
  vim.buf.insert(vim.buf.cursor(), "[" .. count .. "]")
end)`)
	f.feed("3gS")
	f.wantText(t, "[3]abc")
}

func TestCommandOperator(t *testing.T) {
	f := newHost(t, "foo bar")
	f.load(t, "p", `
vim.command("n", "cu", function(s, e, kind)
  last_kind = kind
  vim.buf.replace(s, e, string.upper(vim.buf.text():sub(s + 1, e)))
end, {operator = true, repeatable = true})
function kind() return last_kind end`)
	f.feed("cuiw")
	f.wantText(t, "FOO bar")

	res, err := f.host.Call("p", "kind")
	if err != nil || !slices.Equal(res, []any{"char"}) {
		t.Errorf("kind = %v, %v", res, err)
	}

	f.feed("w.")
	f.wantText(t, "FOO BAR")
}

func TestCommandMotion(t *testing.T) {
	f := newHost(t, "abcdef")
	f.load(t, "p", `
vim.command("nxo", "gz", function(off, count)
  if off + 2 * count >= #vim.buf.text() then return nil end
  return off + 2 * count
end, {motion = true})`)

	f.feed("gz")
	if got := f.doc.PrimaryCaret().Offset(); got != 2 {
		t.Errorf("caret = %d, want 2", got)
	}
	f.feed("0dgz")
	f.wantText(t, "cdef")

	// A nil result fails the motion and leaves the caret.
	f.feed("$gz")
	if got := f.doc.PrimaryCaret().Offset(); got != 3 {
		t.Errorf("caret after failed motion = %d, want 3", got)
	}
}

func TestCommandAsync(t *testing.T) {
	f := newHost(t, "abc")
	f.load(t, "p", `
vim.command("n", "ga", function(done) pending = done end, {async = true})
function finish(msg) pending(msg) end`)

	f.feed("gax")
	if !f.d.Busy() {
		t.Fatal("dispatcher not busy after async command")
	}
	f.wantText(t, "abc")

	if _, err := f.host.Call("p", "finish"); err != nil {
		t.Fatal(err)
	}
	if f.d.Busy() {
		t.Error("dispatcher still busy after done")
	}
	f.wantText(t, "bc")

	f.feed("ga")
	if _, err := f.host.Call("p", "finish", "lookup failed"); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(f.messages, "lookup failed") {
		t.Errorf("messages = %q", f.messages)
	}
}

func TestOperatorFunc(t *testing.T) {
	f := newHost(t, "foo bar\nbaz")
	f.load(t, "p", `
kinds = {}
vim.operatorfunc("Collect", function(kind) kinds[#kinds + 1] = kind end)
function collected() return kinds end`)
	f.opts.OperatorFunc = "Collect"
	f.feed("g@iwg@j")

	res, err := f.host.Call("p", "collected")
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("collected() = %v", res)
	}
	if got, _ := res[0].([]any); !slices.Equal(got, []any{"char", "line"}) {
		t.Errorf("kinds = %v, want [char line]", res[0])
	}
}

func TestNormal(t *testing.T) {
	f := newHost(t, "one two three")
	f.load(t, "p", `
vim.map("n", "Q", "dw")
vim.map("n", "w", "x")
vim.normal("Q", true)
vim.normal("dw")`)
	// The noremap call ignores the w mapping.
	f.wantText(t, "three")
}

func TestEchoAndPrint(t *testing.T) {
	f := newHost(t, "")
	f.load(t, "p", `vim.echo("a", 1); print("b", 2)`)
	if want := []string{"a 1", "b\t2"}; !slices.Equal(f.messages, want) {
		t.Errorf("messages = %q, want %q", f.messages, want)
	}
}

func TestEval(t *testing.T) {
	doc := engine.NewDocument("")
	var messages []string
	s, err := session.New(doc, config.Default(),
		session.WithMessageSink(dispatcher.MessageFunc(func(msg string) {
			messages = append(messages, msg)
		})),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	host := NewHost(s.Extensions())
	defer host.Close()

	if err := host.Load("p", `vim.echo(vim.eval("1 + 2"), vim.eval("&tabstop"))`); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(messages, []string{"3 8"}) {
		t.Errorf("messages = %q", messages)
	}
}

func TestEvalWithoutEnvironment(t *testing.T) {
	f := newHost(t, "")
	err := f.host.Load("p", `vim.eval("1")`)
	if err == nil || !strings.Contains(err.Error(), dispatcher.ErrNoEnvironment.Error()) {
		t.Errorf("Load() error = %v", err)
	}
}

func TestBuffer(t *testing.T) {
	f := newHost(t, "alpha\nbeta")
	f.load(t, "p", `
function info()
  return vim.buf.line_count(), vim.buf.line(2), vim.buf.cursor()
end
function bad_line() return vim.buf.line(3) end
function bad_insert() vim.buf.insert(99, "x") end
function bad_delete() vim.buf.delete(-1, 0) end
vim.buf.delete(0, 2)
vim.buf.set_cursor(4)`)
	res, err := f.host.Call("p", "info")
	if err != nil {
		t.Fatal(err)
	}
	if want := []any{int64(2), "beta", int64(4)}; !slices.Equal(res, want) {
		t.Errorf("info() = %v, want %v", res, want)
	}
	f.wantText(t, "pha\nbeta")

	for _, fn := range []string{"bad_line", "bad_insert", "bad_delete"} {
		if _, err := f.host.Call("p", fn); err == nil {
			t.Errorf("%s succeeded", fn)
		}
	}
	f.wantText(t, "pha\nbeta")
}

func TestSetCursorDropsColumn(t *testing.T) {
	f := newHost(t, "abcdef\nabcdef")
	f.load(t, "p", `function second() vim.buf.set_cursor(1) end`)
	f.feed("4l")
	if _, err := f.host.Call("p", "second"); err != nil {
		t.Fatal(err)
	}
	f.feed("jx")
	f.wantText(t, "abcdef\nacdef")
}

func TestCapabilityDenied(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{`vim.map("n", "Q", "x")`, `vim.map requires capability "keymap"`},
		{`vim.command("n", "gS", function() end)`, `vim.command requires capability "command"`},
		{`vim.buf.insert(0, "x")`, `vim.buf.insert requires capability "buffer"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f := newHost(t, "")
			err := f.host.LoadWith("reader", tt.code, CapabilityExecute)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadWith() error = %v, want %q", err, tt.want)
			}
			if _, ok := f.host.Get("reader"); ok {
				t.Error("failed plugin is loaded")
			}
		})
	}
}

func TestReadOnlyPlugin(t *testing.T) {
	f := newHost(t, "text")
	if err := f.host.LoadWith("reader", `vim.echo(vim.buf.text())`); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(f.messages, []string{"text"}) {
		t.Errorf("messages = %q", f.messages)
	}
	p, _ := f.host.Get("reader")
	if len(p.Capabilities()) != 0 {
		t.Errorf("capabilities = %v", p.Capabilities())
	}
}

func TestLoadFailureRollsBack(t *testing.T) {
	f := newHost(t, "")
	err := f.host.Load("broken", `vim.map("n", "Q", "x"); error("boom")`)
	var se *ScriptError
	if !errors.As(err, &se) || !strings.Contains(se.Error(), "boom") {
		t.Fatalf("Load() error = %v", err)
	}
	if f.mapped("Q") {
		t.Error("mapping from failed plugin survived")
	}
	if got := f.host.Plugins(); len(got) != 0 {
		t.Errorf("Plugins() = %q", got)
	}
	if err := f.host.Load("broken", `vim.map("n", "Q", "x")`); err != nil {
		t.Errorf("reload after failure: %v", err)
	}
}

func TestUnloadIsOwnerScoped(t *testing.T) {
	f := newHost(t, "")
	user := keymap.New(key.MustParse("U"), keymap.ToKeys{Keys: key.MustParse("x")}, owner.User)
	if err := f.d.Mappings().Put(mode.MapNormal, user); err != nil {
		t.Fatal(err)
	}
	f.load(t, "a", `
vim.map("n", "Q", "x")
vim.command("n", "gA", function() end)
vim.operatorfunc("A", function() end)`)
	f.load(t, "b", `vim.map("n", "W", "x")`)

	n, err := f.host.Unload("a")
	if err != nil || n < 3 {
		t.Fatalf("Unload(a) = %d, %v", n, err)
	}
	if f.mapped("Q") || !f.mapped("W") || !f.mapped("U") {
		t.Errorf("mapped Q=%v W=%v U=%v", f.mapped("Q"), f.mapped("W"), f.mapped("U"))
	}
	if _, ok := f.d.LookupCommand(mode.MapNormal, key.MustParse("gA")); ok {
		t.Error("command survived unload")
	}
	if _, ok := f.d.OperatorFuncs().Get("A"); ok {
		t.Error("operator function survived unload")
	}
	if !slices.Equal(f.host.Plugins(), []string{"b"}) {
		t.Errorf("Plugins() = %q", f.host.Plugins())
	}
	if _, err := f.host.Unload("a"); !errors.Is(err, extension.ErrNotLoaded) {
		t.Errorf("second Unload err = %v", err)
	}
	if _, err := f.host.Call("a", "tostring", 1); !errors.Is(err, extension.ErrNotLoaded) {
		t.Errorf("Call on unloaded plugin err = %v", err)
	}
}

func TestHandlerErrorIsShown(t *testing.T) {
	f := newHost(t, "")
	f.load(t, "p", `vim.map("n", "Q", function() error("handler failed") end)`)
	f.feed("Q")
	if len(f.messages) != 1 || !strings.Contains(f.messages[0], "handler failed") {
		t.Errorf("messages = %q", f.messages)
	}
}

func TestLoadFS(t *testing.T) {
	f := newHost(t, "")
	echo := `{"name": "echo", "main": "main.lua", "dependencies": ["b"], "capabilities": ["buffer"]}`
	fsys := fstest.MapFS{
		"a.lua":         {Data: []byte(`vim.map("n", "Q", "x")`)},
		"b/init.lua":    {Data: []byte(`vim.map("n", "W", "x")`)},
		"c/notes.md":    {Data: []byte(`not a plugin`)},
		"d.lua":         {Data: []byte(`error("bad")`)},
		"e/plugin.json": {Data: []byte(echo)},
		"e/main.lua":    {Data: []byte(`vim.echo("echo loaded")`)},
		"f/plugin.json": {Data: []byte(`{"name": "needs-d", "dependencies": ["d"]}`)},
		"f/init.lua":    {Data: []byte(`vim.echo("unreachable")`)},
		"notes.txt":     {Data: []byte(`ignored`)},
	}
	err := f.host.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Errorf("LoadFS() error = %v, want the d.lua failure", err)
	}
	if !errors.Is(err, ErrMissingDependency) {
		t.Errorf("LoadFS() error = %v, want ErrMissingDependency for needs-d", err)
	}
	if got := f.host.Plugins(); !slices.Equal(got, []string{"a", "b", "echo"}) {
		t.Errorf("Plugins() = %q", got)
	}
	if !f.mapped("Q") || !f.mapped("W") {
		t.Error("plugin mappings missing")
	}
	if !slices.Equal(f.messages, []string{"echo loaded"}) {
		t.Errorf("messages = %q", f.messages)
	}
	p, _ := f.host.Get("echo")
	if got := p.Capabilities(); !slices.Equal(got, []Capability{CapabilityBuffer}) {
		t.Errorf("echo capabilities = %v", got)
	}
}
