package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_IsNop(t *testing.T) {
	l := New()
	require.NotNil(t, l.Log)
	assert.False(t, l.Log.Core().Enabled(zapcore.ErrorLevel), "expected no-op logger before Init")
}

func TestInit_Levels(t *testing.T) {
	tests := []struct {
		level        string
		enabledDebug bool
		wantErr      bool
	}{
		{level: "Info"},
		{level: "debug", enabledDebug: true},
		{level: "warn"},
		{level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New()
			err := l.Init(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.enabledDebug, l.Log.Core().Enabled(zapcore.DebugLevel))
		})
	}
}
