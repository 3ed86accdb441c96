package main

import (
	"testing"

	"awakening/src/lib/trust"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKernelSinkFields(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.TraceLevel)
	sink := kernelSink(l)

	for _, tt := range []struct {
		level   trust.MaskLevel
		line    string
		want    logrus.Level
		msg     string
		core    interface{}
		hasCore bool
	}{
		{trust.InfoMask, " INFO:Core 2: Got job hello\n", logrus.InfoLevel, "Got job hello", 2, true},
		{trust.InfoMask, " INFO:Core 3 init finished.\n", logrus.InfoLevel, "init finished.", 3, true},
		{trust.WarnMask, " WARN:Core 1: pending job dropped for count\n", logrus.WarnLevel, "pending job dropped for count", 1, true},
		{trust.DebugMask, "DEBUG:Waking secondary cores at 0x80000\n", logrus.DebugLevel, "Waking secondary cores at 0x80000", nil, false},
		{trust.ErrorMask, "ERROR:Core 0: eret to EL1 from Kernel\n", logrus.ErrorLevel, "eret to EL1 from Kernel", 0, true},
	} {
		hook.Reset()
		sink(tt.level, tt.line)
		e := hook.LastEntry()
		require.NotNil(t, e, tt.line)
		assert.Equal(t, tt.want, e.Level, tt.line)
		assert.Equal(t, tt.msg, e.Message, tt.line)
		assert.Equal(t, "kernel", e.Data["src"], tt.line)
		core, ok := e.Data["core"]
		assert.Equal(t, tt.hasCore, ok, tt.line)
		if tt.hasCore {
			assert.Equal(t, tt.core, core, tt.line)
		}
	}
}

func TestKernelSinkThroughTrust(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.TraceLevel)
	defer trust.SetSink(trust.SetSink(kernelSink(l)))

	trust.Infof("Core %d: Jobs done.", 1)
	e := hook.LastEntry()
	require.NotNil(t, e)
	assert.Equal(t, 1, e.Data["core"])
	assert.Equal(t, "Jobs done.", e.Message)
}
