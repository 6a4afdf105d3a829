package macro

import (
	"fmt"
	"sync"

	"github.com/dshills/vimcore/internal/engine"
	"github.com/dshills/vimcore/internal/input/key"
	"github.com/dshills/vimcore/internal/input/vim"
)

// Recorder captures typed keys for q{reg}.
type Recorder struct {
	mu        sync.Mutex
	store     *vim.Store
	recording bool
	register  rune
	events    key.Sequence
}

// NewRecorder creates a recorder that saves into store.
func NewRecorder(store *vim.Store) *Recorder {
	return &Recorder{store: store}
}

// Start begins recording into register.
func (r *Recorder) Start(register rune) error {
	if !IsValidRegister(register) {
		return vim.ErrInvalidRegister
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return fmt.Errorf("already recording into register %c", r.register)
	}
	r.recording = true
	r.register = register
	r.events = nil
	return nil
}

// Record appends a typed key. It does nothing when not recording.
func (r *Recorder) Record(ev key.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		r.events = append(r.events, ev)
	}
}

// Stop ends the recording, drops the trailing keys that stopped it and
// writes the rest to the register. It returns the recorded keys.
func (r *Recorder) Stop(trailing int) (key.Sequence, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, nil
	}
	r.recording = false
	events := r.events
	r.events = nil
	reg := r.register
	r.mu.Unlock()

	if trailing > 0 && len(events) >= trailing {
		events = events[:len(events)-trailing]
	}
	err := r.store.Set(reg, vim.Register{Text: key.Encode(events), Kind: engine.Charwise})
	return events, err
}

// Cancel ends a recording without saving it.
func (r *Recorder) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	r.events = nil
}

// Recording returns the register being recorded into, or 0.
func (r *Recorder) Recording() rune {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording {
		return r.register
	}
	return 0
}

// Len returns the number of keys recorded so far.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
