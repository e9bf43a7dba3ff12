package notify

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestToast(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	NewToast(&buf).Notify("login successful")

	assert.Equal(t, " login successful \n", buf.String())
}

func TestSwitch(t *testing.T) {
	outer := &Recorder{}
	inner := &Recorder{}
	s := NewSwitch(outer)

	s.Notify("one")
	restore := s.Swap(inner)
	s.Notify("two")
	restore()
	s.Notify("three")

	assert.Equal(t, []string{"one", "three"}, outer.Messages())
	assert.Equal(t, []string{"two"}, inner.Messages())
}

func TestRecorderLast(t *testing.T) {
	r := &Recorder{}
	assert.Empty(t, r.Last())

	Func(r.Notify).Notify("sent")
	assert.Equal(t, "sent", r.Last())
}
