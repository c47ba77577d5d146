package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stamp/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// captureStderr captures output written to os.Stderr during the execution of fn.
func captureStderr(fn func()) (string, error) {
	originalStderr := os.Stderr

	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stderr = w
	defer func() { os.Stderr = originalStderr }()

	done := make(chan string, 1)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- string(buf)
	}()

	fn()

	if err := w.Close(); err != nil {
		return "", err
	}
	output := <-done
	if err := r.Close(); err != nil {
		return "", err
	}
	return output, nil
}

// newTestLogger creates a logger writing to an in-memory buffer.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	lg, ok := logger.New().(*logger.Logger)
	require.True(t, ok)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_DefaultsToStderr(t *testing.T) {
	output, err := captureStderr(func() {
		logger.New().Info("some message")
	})
	require.NoError(t, err)
	assert.Equal(t, "some message\n", output)
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name string
		log  func(lg *logger.Logger)
		want string
	}{
		{
			name: "info",
			log:  func(lg *logger.Logger) { lg.Info("loaded 3 records") },
			want: "loaded 3 records\n",
		},
		{
			name: "warn",
			log:  func(lg *logger.Logger) { lg.Warn("cache discarded") },
			want: "! cache discarded\n",
		},
		{
			name: "debug filtered",
			log:  func(lg *logger.Logger) { lg.Debug("hidden") },
			want: "",
		},
		{
			name: "multiline",
			log:  func(lg *logger.Logger) { lg.Info("line1\nline2") },
			want: "line1\nline2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger_Verbose(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetVerbose(true)
	lg.Debug("visible")
	assert.Equal(t, "visible\n", buf.String())

	buf.Reset()
	lg.SetVerbose(false)
	lg.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "simple error",
			err:  os.ErrPermission,
			want: "✗ Error: permission denied\n",
		},
		{
			name: "multiline error",
			err:  errors.New("yaml: unmarshal errors:\n  line 30: cannot unmarshal"),
			want: "✗ Error: yaml: unmarshal errors:\n         line 30: cannot unmarshal\n",
		},
		{
			name: "zerr chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("no such file"), "failed to read uid cache"),
				"cannot open store",
			),
			want: "✗ Error: cannot open store\n\n  Caused by:\n    → failed to read uid cache\n    → no such file\n",
		},
		{
			name: "stdlib chain is not traversed",
			err:  fmt.Errorf("outer: %w", errors.New("inner")),
			want: "✗ Error: outer: inner\n",
		},
		{
			name: "metadata",
			err:  zerr.With(zerr.New("leaf file has no content"), "node", "util.h"),
			want: "✗ Error: leaf file has no content\n       node: util.h\n",
		},
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(zerr.New("boom"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "operation failed", entry["msg"])
	assert.Equal(t, map[string]any{"msg": "boom"}, entry["error"])
}

func TestLogger_SetJSONKeepsOutput(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Info("hello")
	lg.SetJSON(false)
	lg.Info("world")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.True(t, json.Valid(lines[0]))
	assert.Equal(t, "world", string(lines[1]))
}
