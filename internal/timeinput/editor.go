// Package timeinput implements a fixed-width masked editor for "HH:MM" values.
//
// The buffer is always five characters: two digit slots, a literal colon and
// two more digit slots. Empty slots hold Placeholder. Keystrokes never shift
// digits around; they fill, clear or move between slots.
package timeinput

import "github.com/ramanasai/tally/internal/clock"

const (
	Placeholder = '_'
	Separator   = ':'

	// Width of the display buffer.
	Width = 5
	// End is the cursor position after the last slot.
	End = Width

	sepIndex = 2
)

var slots = [...]int{0, 1, 3, 4}

// Editor is the masked editing state machine. It is not safe for concurrent
// use; one goroutine owns it and feeds it keystrokes in arrival order.
type Editor struct {
	buf      [Width]byte
	cursor   int
	value    string
	onChange func(string)
}

// New builds an editor showing initial (reformatted) and calling onChange
// with the canonical value after every accepted keystroke that changes it.
func New(initial string, onChange func(string)) *Editor {
	e := &Editor{onChange: onChange}
	e.reset(initial)
	return e
}

func (e *Editor) Buffer() string { return string(e.buf[:]) }
func (e *Editor) Cursor() int    { return e.cursor }

// Value is the canonical value last emitted or synced.
func (e *Editor) Value() string { return e.value }

func (e *Editor) Complete() bool {
	for _, s := range slots {
		if e.buf[s] == Placeholder {
			return false
		}
	}
	return true
}

// Clock returns the typed time when every slot is filled.
func (e *Editor) Clock() (clock.Clock, bool) {
	if !e.Complete() {
		return clock.Clock{}, false
	}
	c, err := clock.Parse(e.value)
	return c, err == nil
}

// Digit writes d into the first empty slot at or after the cursor.
func (e *Editor) Digit(d rune) {
	if d < '0' || d > '9' {
		return
	}
	target := -1
	for p := e.cursor; p < Width; p++ {
		if p == sepIndex {
			continue
		}
		if e.buf[p] == Placeholder {
			target = p
			break
		}
	}
	if target < 0 {
		return
	}

	next := e.buf
	next[target] = byte(d)
	if !plausible(next) {
		return
	}
	e.buf = next
	e.cursor = step(target, 1)
	e.emit()
}

// Backspace clears the digit left of the cursor and parks the cursor on it.
func (e *Editor) Backspace() {
	p := e.cursor - 1
	if p == sepIndex {
		p--
	}
	if p < 0 {
		return
	}
	e.buf[p] = Placeholder
	e.cursor = p
	e.emit()
}

// Delete clears the digit under the cursor; on the colon it takes the next one.
func (e *Editor) Delete() {
	p := e.cursor
	if p == sepIndex {
		p++
	}
	if p >= Width {
		return
	}
	e.buf[p] = Placeholder
	e.emit()
}

func (e *Editor) Left()  { e.cursor = step(e.cursor, -1) }
func (e *Editor) Right() { e.cursor = step(e.cursor, 1) }
func (e *Editor) Home()  { e.cursor = 0 }
func (e *Editor) End()   { e.cursor = End }

// SetValue syncs the editor with an externally owned value. It is a no-op
// only when the buffer already shows v, so the editor's own emissions do
// not clobber the cursor.
func (e *Editor) SetValue(v string) {
	if v == e.value && e.buf == render(v) {
		return
	}
	e.reset(v)
}

// render lays v out in a fresh buffer, stopping at the first digit that
// cannot stand in its slot.
func render(v string) [Width]byte {
	buf := [Width]byte{Placeholder, Placeholder, Separator, Placeholder, Placeholder}

	digits := clock.Normalize(v)
	if c, err := clock.Parse(v); err == nil {
		digits = c.String()
	}
	i := 0
	for _, r := range digits {
		if r == Separator {
			continue
		}
		next := buf
		next[slots[i]] = byte(r)
		if !plausible(next) {
			break
		}
		buf = next
		i++
	}
	return buf
}

func (e *Editor) reset(v string) {
	e.buf = render(v)

	e.cursor = End
	for _, s := range slots {
		if e.buf[s] == Placeholder {
			e.cursor = s
			break
		}
	}
	e.value = e.canonical()
}

func (e *Editor) emit() {
	v := e.canonical()
	if v == e.value {
		return
	}
	e.value = v
	if e.onChange != nil {
		e.onChange(v)
	}
}

// canonical normalizes the run of filled slots from the left.
func (e *Editor) canonical() string {
	var digits []byte
	for _, s := range slots {
		if e.buf[s] == Placeholder {
			break
		}
		digits = append(digits, e.buf[s])
	}
	return clock.Normalize(string(digits))
}

// step moves one slot in dir, never landing on the colon.
func step(pos, dir int) int {
	pos += dir
	if pos == sepIndex {
		pos += dir
	}
	if pos < 0 {
		return 0
	}
	if pos > End {
		return End
	}
	return pos
}

// plausible reports whether the filled slots can still become a valid time.
func plausible(b [Width]byte) bool {
	h1, h2, m1 := b[0], b[1], b[3]
	if h1 != Placeholder && h1 > '2' {
		return false
	}
	if h1 == '2' && h2 != Placeholder && h2 > '3' {
		return false
	}
	if m1 != Placeholder && m1 > '5' {
		return false
	}
	return true
}
