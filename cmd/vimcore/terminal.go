package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/vimcore/internal/dispatcher"
	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/session"
)

// terminal draws a session on a tcell screen. Everything runs on the
// goroutine polling events; timer and async callbacks are posted to the
// queue, which wakes the loop with an interrupt event.
type terminal struct {
	screen   tcell.Screen
	s        *session.Session
	doc      *engine.Document
	queue    *dispatcher.QueueScheduler
	messages *messageLog
	top      int
}

// runTerminal edits until Ctrl-Q. keys are fed before the first draw.
func runTerminal(s *session.Session, doc *engine.Document, queue *dispatcher.QueueScheduler, messages *messageLog, keys string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	queue.Notify = func() { _ = screen.PostEvent(tcell.NewEventInterrupt(nil)) }
	defer func() { queue.Notify = nil }()

	t := &terminal{screen: screen, s: s, doc: doc, queue: queue, messages: messages}
	if err := s.Feed(keys); err != nil {
		return err
	}
	for {
		t.queue.Drain()
		t.draw()
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlQ {
				return nil
			}
			if k, ok := key.FromTcell(ev); ok {
				s.HandleKey(k)
			}
		case *tcell.EventResize:
			screen.Sync()
		}
	}
}

func (t *terminal) draw() {
	t.screen.Clear()
	width, height := t.screen.Size()
	rows := height - 1
	if rows < 1 {
		t.screen.Show()
		return
	}
	tabstop := t.s.Options().TabStop

	cursor := t.doc.OffsetToPoint(t.doc.PrimaryCaret().Offset())
	t.top = scrollTop(t.top, cursor.Line, rows)
	for row := range rows {
		line := t.top + row
		if line >= t.doc.LineCount() {
			t.screen.SetContent(0, row, '~', nil, tcell.StyleDefault.Foreground(tcell.ColorBlue))
			continue
		}
		drawLine(t.screen, row, width, t.doc.LineText(line), tabstop)
	}

	status, cmdline := t.statusLine()
	drawText(t.screen, 0, height-1, width, status, tcell.StyleDefault)
	if cmdline >= 0 {
		t.screen.ShowCursor(min(cmdline, width-1), height-1)
	} else {
		col := displayColumn(t.doc.LineText(cursor.Line), cursor.Column, tabstop)
		t.screen.ShowCursor(min(col, width-1), cursor.Line-t.top)
	}
	t.screen.Show()
}

// statusLine returns the bottom line and, while a command line is typed,
// the cursor column on it; -1 otherwise.
func (t *terminal) statusLine() (string, int) {
	d := t.s.Dispatcher()
	if prompt, text, ok := d.CommandLine(); ok {
		line := prompt + text
		return line, runewidth.StringWidth(line)
	}
	left := t.s.Mode().Indicator()
	if reg := d.Recording(); reg != 0 {
		left += " recording @" + string(reg)
	}
	if msg := t.messages.last(); msg != "" && left == "" {
		left = msg
	}
	return fmt.Sprintf("%-40s %s", left, d.ShowCmd()), -1
}

// scrollTop returns the first visible line keeping line on screen.
func scrollTop(top, line, rows int) int {
	switch {
	case line < top:
		return line
	case line >= top+rows:
		return line - rows + 1
	}
	return top
}

// displayColumn returns the screen column of byte column col in line.
func displayColumn(line string, col, tabstop int) int {
	x := 0
	for i, r := range line {
		if i >= col {
			break
		}
		x += cellWidth(r, x, tabstop)
	}
	return x
}

func cellWidth(r rune, x, tabstop int) int {
	if r == '\t' {
		return tabstop - x%tabstop
	}
	return max(runewidth.RuneWidth(r), 1)
}

func drawLine(screen tcell.Screen, row, width int, line string, tabstop int) {
	x := 0
	for _, r := range line {
		if x >= width {
			return
		}
		w := cellWidth(r, x, tabstop)
		if r == '\t' {
			r = ' '
			for i := 1; i < w && x+i < width; i++ {
				screen.SetContent(x+i, row, ' ', nil, tcell.StyleDefault)
			}
		}
		screen.SetContent(x, row, r, nil, tcell.StyleDefault)
		x += w
	}
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x += max(runewidth.RuneWidth(r), 1)
	}
}
