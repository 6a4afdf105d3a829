package vim

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/dshills/vimcore/internal/engine"
)

// Register errors.
var (
	// ErrInvalidRegister is returned for a name that is not a register.
	ErrInvalidRegister = errors.New("E354: Invalid register name")
)

// ReadOnlyError is returned when writing a read-only register.
type ReadOnlyError struct {
	Name rune
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("E354: Invalid register name: '%c'", e.Name)
}

// Code returns the Vim error number.
func (e *ReadOnlyError) Code() int { return 354 }

// Register is the content of one register.
type Register struct {
	// Text is the register content. Linewise text ends with a newline.
	Text string

	// Kind is the shape of the content.
	Kind engine.RangeKind

	// Parts holds one text per caret, in document order, when the register
	// was written by a multi-caret command.
	Parts []string

	// Transferable holds opaque payloads the host attached for rich paste.
	Transferable []any
}

// IsEmpty reports whether the register holds no text.
func (r Register) IsEmpty() bool {
	return r.Text == "" && len(r.Parts) == 0
}

// Lines returns the register text split into lines, without the final
// newline of linewise content.
func (r Register) Lines() []string {
	text := r.Text
	if r.Kind == engine.Linewise {
		text = strings.TrimSuffix(text, "\n")
	}
	return strings.Split(text, "\n")
}

// ClipboardProvider gives the + and * registers access to a system
// clipboard.
type ClipboardProvider interface {
	Get(name rune) (Register, error)
	Set(name rune, r Register) error
}

// Store manages all registers of a session.
type Store struct {
	mu        sync.RWMutex
	registers map[rune]Register

	// unnamed is the register the unnamed register points to.
	unnamed rune

	clipboard ClipboardProvider
}

// NewStore creates an empty register store.
func NewStore() *Store {
	return &Store{
		registers: make(map[rune]Register),
		unnamed:   '"',
	}
}

// SetClipboard sets the clipboard provider. With no provider the + and *
// registers behave like named registers.
func (s *Store) SetClipboard(p ClipboardProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clipboard = p
}

// IsValid reports whether name is a register name.
func IsValid(name rune) bool {
	switch {
	case name == '"', name == '-', name == '_', name == '.', name == ':', name == '/':
		return true
	case name == '+', name == '*', name == '=':
		return true
	case name >= 'a' && name <= 'z', name >= 'A' && name <= 'Z', name >= '0' && name <= '9':
		return true
	}
	return false
}

// IsReadOnly reports whether name can only be written by the core.
func IsReadOnly(name rune) bool {
	return name == '.' || name == ':' || name == '/'
}

// Get returns the content of a register. Upper case names read the lower
// case register.
func (s *Store) Get(name rune) (Register, bool) {
	if !IsValid(name) {
		return Register{}, false
	}
	name = unicode.ToLower(name)

	if name == '+' || name == '*' {
		s.mu.RLock()
		cb := s.clipboard
		s.mu.RUnlock()
		if cb != nil {
			r, err := cb.Get(name)
			if err != nil {
				return Register{}, false
			}
			return r, !r.IsEmpty()
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if name == '"' {
		name = s.unnamed
	}
	r, ok := s.registers[name]
	return r, ok
}

// Set writes a register directly, as :let @x and setreg() do. Writing an
// upper case name appends. The unnamed register is not updated.
func (s *Store) Set(name rune, r Register) error {
	if !IsValid(name) || name == '=' {
		return ErrInvalidRegister
	}
	if IsReadOnly(name) {
		return &ReadOnlyError{Name: name}
	}
	if name == '_' {
		return nil
	}
	if name == '+' || name == '*' {
		if cb := s.clipboardProvider(); cb != nil {
			return cb.Set(name, r)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if name == '"' {
		s.unnamed = '"'
	}
	s.writeLocked(name, r)
	return nil
}

// Yank stores yanked text. Without a register it goes to 0; the unnamed
// register always follows unless the black hole was named.
func (s *Store) Yank(name rune, r Register) error {
	return s.store(name, r, func() rune { return '0' })
}

// Delete stores deleted text. Without a register, text spanning lines (or
// deleted with one of the big motions) shifts the 1-9 history; other text
// goes to the small delete register.
func (s *Store) Delete(name rune, r Register, big bool) error {
	return s.store(name, r, func() rune {
		if big || r.Kind != engine.Charwise || strings.Contains(r.Text, "\n") {
			s.shiftLocked()
			return '1'
		}
		return '-'
	})
}

func (s *Store) store(name rune, r Register, target func() rune) error {
	if name == 0 || name == '"' {
		s.mu.Lock()
		defer s.mu.Unlock()
		t := target()
		s.registers[t] = r
		s.unnamed = t
		return nil
	}
	if !IsValid(name) || name == '=' {
		return ErrInvalidRegister
	}
	if IsReadOnly(name) {
		return &ReadOnlyError{Name: name}
	}
	if name == '_' {
		return nil
	}
	if name == '+' || name == '*' {
		if cb := s.clipboardProvider(); cb != nil {
			if err := cb.Set(name, r); err != nil {
				return err
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			s.registers['"'] = r
			s.unnamed = '"'
			return nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLocked(name, r)
	s.unnamed = unicode.ToLower(name)
	return nil
}

// writeLocked stores r, appending for upper case names (must hold lock).
func (s *Store) writeLocked(name rune, r Register) {
	if !unicode.IsUpper(name) {
		s.registers[name] = r
		return
	}
	name = unicode.ToLower(name)
	old, ok := s.registers[name]
	if !ok {
		s.registers[name] = r
		return
	}
	merged := Register{Kind: old.Kind, Transferable: append(slices.Clone(old.Transferable), r.Transferable...)}
	switch {
	case old.Kind == engine.Linewise || r.Kind == engine.Linewise:
		merged.Kind = engine.Linewise
		merged.Text = ensureNewline(old.Text) + ensureNewline(r.Text)
	default:
		merged.Text = old.Text + r.Text
	}
	s.registers[name] = merged
}

// shiftLocked moves 1-8 to 2-9 (must hold lock).
func (s *Store) shiftLocked() {
	for i := '9'; i > '1'; i-- {
		if r, ok := s.registers[i-1]; ok {
			s.registers[i] = r
		} else {
			delete(s.registers, i)
		}
	}
}

func (s *Store) clipboardProvider() ClipboardProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clipboard
}

// SetLastInserted updates the . register.
func (s *Store) SetLastInserted(text string) {
	s.setSpecial('.', text)
}

// SetLastCommand updates the : register.
func (s *Store) SetLastCommand(text string) {
	s.setSpecial(':', text)
}

// SetLastSearch updates the / register.
func (s *Store) SetLastSearch(text string) {
	s.setSpecial('/', text)
}

func (s *Store) setSpecial(name rune, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers[name] = Register{Text: text}
}

// Names returns the names of registers holding content, in :registers
// order.
func (s *Store) Names() []rune {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := `"0123456789abcdefghijklmnopqrstuvwxyz-.:/+*`
	var out []rune
	for _, name := range order {
		look := name
		if name == '"' {
			look = s.unnamed
		}
		if r, ok := s.registers[look]; ok && !r.IsEmpty() {
			out = append(out, name)
		}
	}
	return out
}

// Reset clears every register.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registers = make(map[rune]Register)
	s.unnamed = '"'
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// JoinParts builds a multi-caret register from per-caret texts in
// document order.
func JoinParts(parts []string, kind engine.RangeKind) Register {
	r := Register{Kind: kind, Parts: slices.Clone(parts)}
	if kind == engine.Linewise {
		var b strings.Builder
		for _, p := range parts {
			b.WriteString(ensureNewline(p))
		}
		r.Text = b.String()
		return r
	}
	r.Text = strings.Join(parts, "\n")
	return r
}
