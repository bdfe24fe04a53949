package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buff bytes.Buffer
	logger := New(&buff, "test", WarnLevel)
	logger.Infof("dropped %d", 1)
	logger.Warnf("kept %d", 2)
	out := buff.String()
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, "[WARN] kept 2")
	require.Contains(t, out, "test: ")
}

func TestLevelRoundTrip(t *testing.T) {
	for _, level := range []int{TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel, FatalLevel} {
		require.Equal(t, level, LogLevelFromString(LogLevelToString(level)))
	}
	require.Equal(t, InfoLevel, LogLevelFromString("nonsense"))
}

func TestNilLoggerIsSilent(t *testing.T) {
	var logger *Logger
	require.False(t, logger.Enabled(FatalLevel))
	logger.Errorf("does not panic")
}
