package operator

import (
	"github.com/dshills/vimcore/internal/dispatcher/command"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/vimscript/pattern"
)

// SearchOptions control / and ? searches.
type SearchOptions struct {
	IgnoreCase bool
	SmartCase  bool
	WrapScan   bool
}

// Search moves to the count'th match of pat after (forward) or before
// off. It wraps around the document when WrapScan is set.
func Search(ed engine.Editor, off, count int, pat string, forward bool, opts SearchOptions) (command.MotionResult, error) {
	if pat == "" {
		return command.MotionResult{}, failedWith("/", command.Errorf(35, "No previous regular expression"))
	}
	p, err := pattern.Compile(pat, pattern.Options{
		IgnoreCase: opts.IgnoreCase,
		SmartCase:  opts.SmartCase,
		Multiline:  true,
	})
	if err != nil {
		return command.MotionResult{}, failedWith("/", err)
	}
	s := ed.Text()
	pos := off
	for i := 0; i < count; i++ {
		next, err := searchOnce(p, s, pos, forward, opts.WrapScan)
		if err != nil {
			return command.MotionResult{}, failedWith("/", err)
		}
		pos = next
	}
	return command.MotionResult{Offset: pos, Jump: true}, nil
}

func searchOnce(p *pattern.Pattern, s string, off int, forward, wrap bool) (int, error) {
	if forward {
		from := min(off+1, len(s))
		if l, ok := nonEmptyFrom(p, s, from, off); ok {
			return l, nil
		}
		if !wrap {
			return 0, command.Errorf(385, "Search hit BOTTOM without match for: %s", p.Source)
		}
		if l, ok := nonEmptyFrom(p, s, 0, -1); ok {
			return l, nil
		}
	} else {
		if l, ok := p.FindLastBefore(s, off); ok {
			return l.Start, nil
		}
		if !wrap {
			return 0, command.Errorf(384, "Search hit TOP without match for: %s", p.Source)
		}
		if l, ok := p.FindLastBefore(s, len(s)+1); ok {
			return l.Start, nil
		}
	}
	return 0, command.Errorf(486, "Pattern not found: %s", p.Source)
}

// nonEmptyFrom finds the first match starting at or after from, skipping
// an empty match at skip.
func nonEmptyFrom(p *pattern.Pattern, s string, from, skip int) (int, bool) {
	for from <= len(s) {
		l, ok := p.FindFrom(s, from)
		if !ok {
			return 0, false
		}
		if l.Start != skip {
			return l.Start, true
		}
		from = l.Start + 1
	}
	return 0, false
}
