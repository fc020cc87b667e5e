package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(FormatText, "info", &buf)
	require.NoError(t, err)

	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "k=v")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(FormatJSON, "debug", &buf)
	require.NoError(t, err)

	l.Debug(context.Background(), "dbg", "n", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "dbg", rec["msg"])
	assert.EqualValues(t, 7, rec["n"])
}

func TestNew_Zap(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(FormatZap, "warn", &buf)
	require.NoError(t, err)

	l.Info(context.Background(), "quiet")
	l.With("component", "store").Warn(context.Background(), "loud", "key", "userToken")

	out := buf.String()
	assert.NotContains(t, out, "quiet")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "loud", rec["msg"])
	assert.Equal(t, "store", rec["component"])
	assert.Equal(t, "userToken", rec["key"])
}

func TestNew_Errors(t *testing.T) {
	_, err := New(FormatText, "loud", &bytes.Buffer{})
	require.Error(t, err)

	_, err = New("xml", "info", &bytes.Buffer{})
	require.Error(t, err)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error(context.Background(), "nothing to see")
	l.With("a", 1).Info(context.Background(), "still nothing")
}
