package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewWithWriters("ndrcraft", false, &out, &errOut)

	l.Debugf("hidden %d", 1)
	assert.Empty(t, out.String())

	l.Infof("chunks=%d", 4)
	assert.Contains(t, out.String(), "[ndrcraft] INFO: chunks=4")

	l.Warnf("slow")
	l.Errorf("broken: %v", "gl")
	assert.Contains(t, errOut.String(), "[ndrcraft] WARN: slow")
	assert.Contains(t, errOut.String(), "[ndrcraft] ERROR: broken: gl")
	assert.NotContains(t, out.String(), "WARN")

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.Debugf("visible")
	assert.Contains(t, out.String(), "DEBUG: visible")
}

func TestStdLoggerNoPrefix(t *testing.T) {
	var out bytes.Buffer
	l := NewWithWriters("", false, &out, &out)
	l.Infof("hello")
	assert.Contains(t, out.String(), " INFO: hello")
	assert.NotContains(t, out.String(), "[")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.SetDebug(true)
	assert.False(t, l.DebugEnabled())
	assert.NotPanics(t, func() {
		l.Debugf("x")
		l.Infof("x")
		l.Warnf("x")
		l.Errorf("x")
	})
}
