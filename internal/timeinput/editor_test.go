package timeinput

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/ramanasai/tally/internal/clock"
)

func record() (*[]string, func(string)) {
	var got []string
	return &got, func(v string) { got = append(got, v) }
}

func typeDigits(e *Editor, s string) {
	for _, r := range s {
		e.Digit(r)
	}
}

func TestEditor_TypesCanonicalTime(t *testing.T) {
	got, cb := record()
	e := New("", cb)
	if e.Buffer() != "__:__" || e.Cursor() != 0 {
		t.Fatalf("fresh editor = %q cursor %d", e.Buffer(), e.Cursor())
	}

	typeDigits(e, "0900")

	if e.Buffer() != "09:00" {
		t.Fatalf("buffer = %q, want 09:00", e.Buffer())
	}
	if e.Value() != "09:00" {
		t.Fatalf("value = %q, want 09:00", e.Value())
	}
	want := []string{"0", "09", "09:0", "09:00"}
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("emitted %v, want %v", *got, want)
	}
	if e.Cursor() != End {
		t.Fatalf("cursor = %d, want %d", e.Cursor(), End)
	}
	c, ok := e.Clock()
	if !ok || c != clock.MustParse("09:00") {
		t.Fatalf("Clock() = %v, %v", c, ok)
	}
}

func TestEditor_IgnoresFifthDigitAndNonDigits(t *testing.T) {
	got, cb := record()
	e := New("", cb)
	typeDigits(e, "1a2:3x45")
	if e.Buffer() != "12:34" {
		t.Fatalf("buffer = %q", e.Buffer())
	}
	if len(*got) != 4 {
		t.Fatalf("expected 4 emissions, got %v", *got)
	}
}

func TestEditor_RejectsImpossibleDigits(t *testing.T) {
	cases := []struct {
		keys, want string
	}{
		{"3", "__:__"},
		{"24", "2_:__"},
		{"236", "23:__"},
		{"2359", "23:59"},
		{"1960", "19:0_"},
		{"1969", "19:__"},
	}
	for _, tc := range cases {
		e := New("", nil)
		typeDigits(e, tc.keys)
		if e.Buffer() != tc.want {
			t.Errorf("keys %q: buffer = %q, want %q", tc.keys, e.Buffer(), tc.want)
		}
	}
}

func TestEditor_BackspaceSkipsColon(t *testing.T) {
	e := New("", nil)
	typeDigits(e, "0930")

	e.Backspace()
	e.Backspace()
	if e.Buffer() != "09:__" || e.Cursor() != 3 {
		t.Fatalf("after two backspaces: %q cursor %d", e.Buffer(), e.Cursor())
	}
	e.Backspace()
	if e.Buffer() != "0_:__" || e.Cursor() != 1 {
		t.Fatalf("backspace over colon: %q cursor %d", e.Buffer(), e.Cursor())
	}
	if e.Value() != "0" {
		t.Fatalf("value = %q", e.Value())
	}
	e.Backspace()
	e.Backspace()
	if e.Buffer() != "__:__" || e.Cursor() != 0 {
		t.Fatalf("cleared: %q cursor %d", e.Buffer(), e.Cursor())
	}
}

func TestEditor_DeleteDoesNotShift(t *testing.T) {
	got, cb := record()
	e := New("12:34", cb)
	e.Home()
	e.Right()
	e.Delete()
	if e.Buffer() != "1_:34" {
		t.Fatalf("buffer = %q", e.Buffer())
	}
	if e.Cursor() != 1 {
		t.Fatalf("cursor = %d", e.Cursor())
	}
	if e.Value() != "1" || len(*got) != 1 {
		t.Fatalf("value %q emissions %v", e.Value(), *got)
	}

	e.End()
	e.Delete()
	if e.Buffer() != "1_:34" {
		t.Fatalf("delete at end changed buffer: %q", e.Buffer())
	}
}

func TestEditor_DeleteOnColonTakesNextDigit(t *testing.T) {
	e := New("12:34", nil)
	e.cursor = sepIndex
	e.Delete()
	if e.Buffer() != "12:_4" {
		t.Fatalf("buffer = %q", e.Buffer())
	}
}

func TestEditor_ArrowsJumpColonAndClamp(t *testing.T) {
	e := New("", nil)
	e.Left()
	if e.Cursor() != 0 {
		t.Fatalf("left clamp: %d", e.Cursor())
	}
	var seen []int
	for i := 0; i < 6; i++ {
		e.Right()
		seen = append(seen, e.Cursor())
	}
	if !reflect.DeepEqual(seen, []int{1, 3, 4, 5, 5, 5}) {
		t.Fatalf("right positions = %v", seen)
	}
	e.Left()
	e.Left()
	e.Left()
	if e.Cursor() != 1 {
		t.Fatalf("left over colon: %d", e.Cursor())
	}
}

func TestEditor_DigitSearchesForwardForPlaceholder(t *testing.T) {
	e := New("1", nil)
	e.Home()
	e.Digit('2')
	if e.Buffer() != "12:__" || e.Cursor() != 3 {
		t.Fatalf("buffer %q cursor %d", e.Buffer(), e.Cursor())
	}

	e.Home()
	typeDigits(e, "45")
	if e.Buffer() != "12:45" {
		t.Fatalf("buffer %q", e.Buffer())
	}
}

func TestEditor_OutOfOrderFill(t *testing.T) {
	got, cb := record()
	e := New("", cb)
	e.Right()
	e.Digit('5')
	if e.Buffer() != "_5:__" {
		t.Fatalf("buffer %q", e.Buffer())
	}
	if e.Value() != "" || len(*got) != 0 {
		t.Fatalf("a gap at the front must not emit, got %q %v", e.Value(), *got)
	}

	e.Home()
	e.Digit('2')
	if e.Buffer() != "_5:__" {
		t.Fatalf("25 accepted: %q", e.Buffer())
	}
	e.Digit('1')
	if e.Buffer() != "15:__" || e.Value() != "15" {
		t.Fatalf("buffer %q value %q", e.Buffer(), e.Value())
	}
}

func TestEditor_SetValueReformats(t *testing.T) {
	got, cb := record()
	e := New("", cb)
	typeDigits(e, "08")

	e.SetValue("7:45")
	if e.Buffer() != "07:45" || e.Cursor() != End || e.Value() != "07:45" {
		t.Fatalf("buffer %q cursor %d value %q", e.Buffer(), e.Cursor(), e.Value())
	}

	e.SetValue("12")
	if e.Buffer() != "12:__" || e.Cursor() != 3 {
		t.Fatalf("partial sync: %q cursor %d", e.Buffer(), e.Cursor())
	}

	e.SetValue("")
	if e.Buffer() != "__:__" || e.Cursor() != 0 {
		t.Fatalf("reset: %q cursor %d", e.Buffer(), e.Cursor())
	}

	e.SetValue("99:99")
	if e.Buffer() != "__:__" {
		t.Fatalf("implausible sync: %q", e.Buffer())
	}

	if len(*got) != 2 {
		t.Fatalf("SetValue must not emit, emissions %v", *got)
	}
}

func TestEditor_SetValueSameValueKeepsCursor(t *testing.T) {
	e := New("", nil)
	typeDigits(e, "09")
	e.Home()
	e.SetValue("09")
	if e.Cursor() != 0 {
		t.Fatalf("cursor moved to %d", e.Cursor())
	}
}

func TestEditor_SetValueClearsDigitsHiddenFromValue(t *testing.T) {
	e := New("", nil)
	typeDigits(e, "1230")
	e.Home()
	e.Delete()
	if e.Buffer() != "_2:30" || e.Value() != "" {
		t.Fatalf("after delete: %q value %q", e.Buffer(), e.Value())
	}

	e.SetValue("")
	if e.Buffer() != "__:__" || e.Cursor() != 0 {
		t.Fatalf("stale digits kept: %q cursor %d", e.Buffer(), e.Cursor())
	}
}

func TestEditor_BufferShapeHoldsUnderRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	e := New("", nil)
	for i := 0; i < 5000; i++ {
		switch rng.Intn(6) {
		case 0, 1:
			e.Digit(rune('0' + rng.Intn(10)))
		case 2:
			e.Backspace()
		case 3:
			e.Delete()
		case 4:
			e.Left()
		case 5:
			e.Right()
		}

		buf := e.Buffer()
		if len(buf) != Width || buf[sepIndex] != Separator {
			t.Fatalf("step %d: malformed buffer %q", i, buf)
		}
		if e.Cursor() == sepIndex || e.Cursor() < 0 || e.Cursor() > End {
			t.Fatalf("step %d: cursor %d", i, e.Cursor())
		}
		v := e.Value()
		if len(v) == 5 && !clock.IsValid(v) {
			t.Fatalf("step %d: invalid full value %q", i, v)
		}
		if len(v) < 5 && !strings.HasPrefix(buf, v) {
			t.Fatalf("step %d: value %q is not a prefix of %q", i, v, buf)
		}
	}
}
