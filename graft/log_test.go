package graft

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines  []string
	closed bool
}

func (r *recordingLogger) Log(l Level, msg string) {
	r.lines = append(r.lines, fmt.Sprintf("%s %s", l, msg))
}

func (r *recordingLogger) Close() error {
	r.closed = true
	return nil
}

func restoreLogging(t *testing.T) {
	old := CurrentLevel()
	t.Cleanup(func() {
		SetLogger(nil)
		SetLevel(old)
	})
}

func TestLevels(t *testing.T) {
	restoreLogging(t)
	rec := &recordingLogger{}
	SetLogger(rec)

	SetLevel(WarningLevel)
	Debugf("debug %d", 1)
	Infof("info %d", 2)
	Warningf("warning %d", 3)
	Errorf("error %d", 4)
	require.Equal(t, []string{"WARNING warning 3", "ERROR error 4"}, rec.lines)

	SetLevel(SilentLevel)
	Criticalf("nothing")
	require.Len(t, rec.lines, 2)

	SetLevel(DebugLevel)
	NewTimeLog().Debugf("loaded %d", 7)
	require.Len(t, rec.lines, 3)
	require.True(t, strings.HasPrefix(rec.lines[2], "DEBUG loaded 7: "), rec.lines[2])

	Shutdown()
	require.True(t, rec.closed)
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, InfoLevel, l)

	l, err = ParseLevel(" Warning ")
	require.NoError(t, err)
	require.Equal(t, WarningLevel, l)
	require.Equal(t, "WARNING", l.String())

	_, err = ParseLevel("loud")
	require.Error(t, err)
	require.Equal(t, "Level(9)", Level(9).String())
}

func TestLogfileRotation(t *testing.T) {
	restoreLogging(t)
	defer Shutdown()

	path := filepath.Join(t.TempDir(), "graft.log")
	c := &LogConfig{Logfile: path, MaxSize: 1, MaxAge: 1, Level: "info"}
	require.NoError(t, c.Apply())
	Debugf("hidden\n")
	Infof("loaded %d scenarios\n", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "INFO loaded 3 scenarios")
	require.NotContains(t, string(data), "hidden")

	require.Error(t, (&LogConfig{Level: "chatty"}).Apply())
}
