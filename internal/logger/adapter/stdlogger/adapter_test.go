package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramset/paramset/internal/logger"
	"github.com/paramset/paramset/internal/logger/adapter/stdlogger"
)

func TestAdapter(t *testing.T) {
	testCases := []struct {
		name       string
		level      string
		wantLevels []string
	}{
		{
			name:       "info hides debug",
			level:      "info",
			wantLevels: []string{"info", "warn", "error", "info"},
		},
		{
			name:       "debug shows everything",
			level:      "debug",
			wantLevels: []string{"debug", "info", "warn", "error", "info"},
		},
		{
			name:       "error only",
			level:      "error",
			wantLevels: []string{"error"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := capture(t, logger.Log{
				LogLevel:    tc.level,
				ServiceName: "test",
				AppName:     "test",
				Console:     logger.Console{Enabled: true},
			})

			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.Len(t, lines, len(tc.wantLevels), out)

			for i, line := range lines {
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(line), &entry))
				assert.Equal(t, tc.wantLevels[i], entry["level"])
				assert.Equal(t, "gorm", entry["component"])
			}
		})
	}
}

func capture(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	os.Stderr = w

	require.NoError(t, logger.Init(cfg))

	l := stdlogger.New("gorm")
	l.Debugf("stdlogger %s", "debug")
	l.Infof("stdlogger %s", "info")
	l.Warningf("stdlogger %s", "warning")
	l.Errorf("stdlogger %s", "error")
	l.Printf("\n%s [%.3fms] %s\n", "db.go:1", 0.5, "SELECT 1")

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	os.Stderr = stderr

	return <-outC
}
