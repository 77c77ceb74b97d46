package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })
	return &buf
}

func TestTable(t *testing.T) {
	buf := capture(t)
	Table([]string{"table", "rows"}, [][]string{{"purchases", "12"}, {"segments", "4"}})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "purchases")
	assert.Equal(t, strings.Index(lines[1], "12"), strings.Index(lines[2], "4"))
}

func TestBar(t *testing.T) {
	assert.Equal(t, 10, len([]rune(Bar(50, 10))))
	assert.Equal(t, strings.Repeat("░", 4), Bar(-3, 4))
	assert.Equal(t, strings.Repeat("█", 4), Bar(250, 4))
}

func TestJSON(t *testing.T) {
	buf := capture(t)
	require.NoError(t, JSON(map[string]int{"recipients": 40}))
	assert.JSONEq(t, `{"recipients": 40}`, buf.String())
}

func TestMessages(t *testing.T) {
	buf := capture(t)
	Success("wrote %d files", 7)
	Error("failed: %s", "boom")
	assert.Contains(t, buf.String(), "wrote 7 files\n")
	assert.Contains(t, buf.String(), "failed: boom\n")
}
