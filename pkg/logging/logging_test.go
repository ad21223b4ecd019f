package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "boost.log")
	l, err := New(path, false)
	require.NoError(t, err)

	l.Info("session restored", zap.String("user", "alice"))
	l.Debug("hidden at info level")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, `"message":"session restored"`)
	require.Contains(t, out, `"user":"alice"`)
	require.False(t, strings.Contains(out, "hidden at info level"))
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	l, err := New("", false)
	require.NoError(t, err)
	require.NotNil(t, l)
	require.NotNil(t, OrNop(nil))
}
