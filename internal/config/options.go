package config

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Mapping is a default mapping installed when a session starts. Mappings
// from the configuration never replace mappings the user already defined.
type Mapping struct {
	Modes     string `toml:"modes" yaml:"modes"`
	From      string `toml:"from" yaml:"from"`
	To        string `toml:"to" yaml:"to"`
	Recursive bool   `toml:"recursive" yaml:"recursive"`
	Silent    bool   `toml:"silent" yaml:"silent"`
	NoWait    bool   `toml:"nowait" yaml:"nowait"`
}

// Options are the session options.
type Options struct {
	// TimeoutLen is how long an ambiguous key sequence waits for more keys.
	TimeoutLen time.Duration

	// Timeout enables TimeoutLen. When false an ambiguous sequence waits
	// until a key disambiguates it.
	Timeout bool

	// MaxMapDepth bounds recursive mapping expansion.
	MaxMapDepth int

	// Selection is "inclusive" or "exclusive".
	Selection string

	IgnoreCase bool
	SmartCase  bool
	WrapScan   bool

	ShiftWidth int
	TabStop    int
	ExpandTab  bool

	// MapLeader replaces <Leader> in mappings.
	MapLeader string

	// OperatorFunc names the function g@ calls.
	OperatorFunc string

	// AsyncTimeout abandons an asynchronous handler that never completes.
	AsyncTimeout time.Duration

	// ArgTextObjectLineLimit bounds how many lines the argument text
	// object scans for its enclosing brackets.
	ArgTextObjectLineLimit int

	// RCPath is the startup script.
	RCPath string

	// WatchRC reloads the startup script when it changes on disk.
	WatchRC bool

	// Mappings are installed under the config owner at startup.
	Mappings []Mapping

	// Logger receives diagnostics. Nil means discard.
	Logger *slog.Logger
}

// Default returns the default options.
func Default() *Options {
	return &Options{
		TimeoutLen:             1000 * time.Millisecond,
		Timeout:                true,
		MaxMapDepth:            1000,
		Selection:              "inclusive",
		WrapScan:               true,
		ShiftWidth:             8,
		TabStop:                8,
		MapLeader:              `\`,
		AsyncTimeout:           5 * time.Second,
		ArgTextObjectLineLimit: 10,
	}
}

// Clone returns a copy that shares no slices with o.
func (o *Options) Clone() *Options {
	c := *o
	c.Mappings = slices.Clone(o.Mappings)
	return &c
}

// ExclusiveSelection reports whether 'selection' is exclusive.
func (o *Options) ExclusiveSelection() bool {
	return o.Selection == "exclusive"
}

// Log returns the configured logger or a discarding one.
func (o *Options) Log() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

type optionKind uint8

const (
	kindBool optionKind = iota
	kindNumber
	kindString
)

type option struct {
	name  string
	short string
	kind  optionKind
	get   func(o *Options) any
	set   func(o *Options, v any) error
}

var options = []option{
	{
		name: "timeout", short: "to", kind: kindBool,
		get: func(o *Options) any { return o.Timeout },
		set: func(o *Options, v any) error { o.Timeout = v.(bool); return nil },
	},
	{
		name: "timeoutlen", short: "tm", kind: kindNumber,
		get: func(o *Options) any { return int(o.TimeoutLen / time.Millisecond) },
		set: func(o *Options, v any) error {
			o.TimeoutLen = time.Duration(v.(int)) * time.Millisecond
			return nil
		},
	},
	{
		name: "maxmapdepth", short: "mmd", kind: kindNumber,
		get: func(o *Options) any { return o.MaxMapDepth },
		set: func(o *Options, v any) error {
			if v.(int) < 1 {
				return &InvalidArgumentError{Arg: fmt.Sprintf("maxmapdepth=%d", v)}
			}
			o.MaxMapDepth = v.(int)
			return nil
		},
	},
	{
		name: "selection", short: "sel", kind: kindString,
		get: func(o *Options) any { return o.Selection },
		set: func(o *Options, v any) error {
			switch s := v.(string); s {
			case "inclusive", "exclusive", "old":
				o.Selection = s
				return nil
			}
			return &InvalidArgumentError{Arg: "selection=" + v.(string)}
		},
	},
	{
		name: "ignorecase", short: "ic", kind: kindBool,
		get: func(o *Options) any { return o.IgnoreCase },
		set: func(o *Options, v any) error { o.IgnoreCase = v.(bool); return nil },
	},
	{
		name: "smartcase", short: "scs", kind: kindBool,
		get: func(o *Options) any { return o.SmartCase },
		set: func(o *Options, v any) error { o.SmartCase = v.(bool); return nil },
	},
	{
		name: "wrapscan", short: "ws", kind: kindBool,
		get: func(o *Options) any { return o.WrapScan },
		set: func(o *Options, v any) error { o.WrapScan = v.(bool); return nil },
	},
	{
		name: "shiftwidth", short: "sw", kind: kindNumber,
		get: func(o *Options) any { return o.ShiftWidth },
		set: func(o *Options, v any) error { o.ShiftWidth = v.(int); return nil },
	},
	{
		name: "tabstop", short: "ts", kind: kindNumber,
		get: func(o *Options) any { return o.TabStop },
		set: func(o *Options, v any) error {
			if v.(int) < 1 {
				return &InvalidArgumentError{Arg: fmt.Sprintf("tabstop=%d", v)}
			}
			o.TabStop = v.(int)
			return nil
		},
	},
	{
		name: "expandtab", short: "et", kind: kindBool,
		get: func(o *Options) any { return o.ExpandTab },
		set: func(o *Options, v any) error { o.ExpandTab = v.(bool); return nil },
	},
	{
		name: "operatorfunc", short: "opfunc", kind: kindString,
		get: func(o *Options) any { return o.OperatorFunc },
		set: func(o *Options, v any) error { o.OperatorFunc = v.(string); return nil },
	},
	{
		name: "argtextobjlimit", short: "atl", kind: kindNumber,
		get: func(o *Options) any { return o.ArgTextObjectLineLimit },
		set: func(o *Options, v any) error { o.ArgTextObjectLineLimit = v.(int); return nil },
	},
}

func lookupOption(name string) (*option, bool) {
	for i := range options {
		if options[i].name == name || options[i].short == name {
			return &options[i], true
		}
	}
	return nil, false
}

// Names returns the full names of all options, sorted.
func Names() []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.name
	}
	sort.Strings(out)
	return out
}

// IsOption reports whether name (full or short) is an option.
func IsOption(name string) bool {
	_, ok := lookupOption(name)
	return ok
}

// Get returns an option value: bool options as 0/1 ints for Vimscript,
// number options as int, string options as string.
func (o *Options) Get(name string) (any, error) {
	opt, ok := lookupOption(name)
	if !ok {
		return nil, &UnknownOptionError{Name: name}
	}
	v := opt.get(o)
	if b, ok := v.(bool); ok {
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return v, nil
}

// SetValue assigns an option from Vimscript (&option = value). Bool and
// number options take an int, string options a string.
func (o *Options) SetValue(name string, v any) error {
	opt, ok := lookupOption(name)
	if !ok {
		return &UnknownOptionError{Name: name}
	}
	switch opt.kind {
	case kindBool:
		n, ok := v.(int)
		if !ok {
			return &InvalidArgumentError{Arg: name}
		}
		return opt.set(o, n != 0)
	case kindNumber:
		n, ok := v.(int)
		if !ok {
			return &NumberRequiredError{Arg: name}
		}
		return opt.set(o, n)
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return opt.set(o, s)
}

// Apply executes one :set argument ("ic", "noic", "ts=4", "sw+=2",
// "tm?", "sel&", "invic", "ic!") and returns the text :set echoes, if any.
func (o *Options) Apply(arg string) (string, error) {
	name, op, value := splitSetArg(arg)

	neg, inv := false, false
	opt, ok := lookupOption(name)
	if !ok && op == "" {
		switch {
		case strings.HasPrefix(name, "no"):
			opt, ok = lookupOption(name[2:])
			neg = true
		case strings.HasPrefix(name, "inv"):
			opt, ok = lookupOption(name[3:])
			inv = true
		}
		if ok && opt.kind != kindBool {
			return "", &InvalidArgumentError{Arg: arg}
		}
	}
	if !ok {
		return "", &UnknownOptionError{Name: name}
	}

	switch op {
	case "?":
		return o.show(opt), nil
	case "!":
		if opt.kind != kindBool {
			return "", &InvalidArgumentError{Arg: arg}
		}
		return "", opt.set(o, !opt.get(o).(bool))
	case "&":
		return "", opt.set(o, opt.get(Default()))
	case "":
		switch {
		case opt.kind == kindBool && inv:
			return "", opt.set(o, !opt.get(o).(bool))
		case opt.kind == kindBool:
			return "", opt.set(o, !neg)
		}
		return o.show(opt), nil
	}

	if opt.kind == kindBool {
		return "", &InvalidArgumentError{Arg: arg}
	}
	if opt.kind == kindString {
		cur := opt.get(o).(string)
		switch op {
		case "+=":
			value = cur + value
		case "^=":
			value += cur
		case "-=":
			value = strings.Replace(cur, value, "", 1)
		}
		return "", opt.set(o, value)
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return "", &NumberRequiredError{Arg: arg}
	}
	cur := opt.get(o).(int)
	switch op {
	case "+=":
		n = cur + n
	case "-=":
		n = cur - n
	case "^=":
		n = cur * n
	}
	return "", opt.set(o, n)
}

func (o *Options) show(opt *option) string {
	switch v := opt.get(o).(type) {
	case bool:
		if v {
			return "  " + opt.name
		}
		return "no" + opt.name
	default:
		return fmt.Sprintf("  %s=%v", opt.name, v)
	}
}

func splitSetArg(arg string) (name, op, value string) {
	for i := 0; i < len(arg); i++ {
		switch arg[i] {
		case '=', ':':
			return arg[:i], "=", arg[i+1:]
		case '+', '-', '^':
			if i+1 < len(arg) && arg[i+1] == '=' {
				return arg[:i], arg[i : i+2], arg[i+2:]
			}
		case '?', '!', '&':
			if i == len(arg)-1 {
				return arg[:i], arg[i:], ""
			}
		}
	}
	return arg, "", ""
}
