package definition

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestToggleDebugChangesLevel(t *testing.T) {
	l := NewDefaultLogger()
	require.Equal(t, logrus.InfoLevel, l.entry.Logger.Level)

	require.True(t, l.ToggleDebug(true))
	require.Equal(t, logrus.DebugLevel, l.entry.Logger.Level)

	require.False(t, l.ToggleDebug(false))
	require.Equal(t, logrus.InfoLevel, l.entry.Logger.Level)
}

func TestInfofWritesMessage(t *testing.T) {
	l := NewDefaultLogger()
	var buf bytes.Buffer
	l.entry.Logger.SetOutput(&buf)
	l.entry.Logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})

	l.Infof("hello %s", "world")
	require.Contains(t, buf.String(), "hello world")
}

func TestWithPeerAttachesTSIField(t *testing.T) {
	l := NewDefaultLogger()
	var buf bytes.Buffer
	l.entry.Logger.SetOutput(&buf)
	l.entry.Logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})

	child := l.WithPeer(stringerTSI("abc.1"))
	child.Infof("delivered")
	require.Contains(t, buf.String(), `tsi=abc.1`)
}

type stringerTSI string

func (s stringerTSI) String() string { return string(s) }
