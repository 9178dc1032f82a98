package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
	}{
		{name: "Info", debug: false},
		{name: "Debug", debug: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.debug)
			require.NoError(t, err)
			require.NotNil(t, log)

			core := log.Desugar().Core()
			assert.Equal(t, tt.debug, core.Enabled(zap.DebugLevel))
			assert.True(t, core.Enabled(zap.InfoLevel))
		})
	}
}
