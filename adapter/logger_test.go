package adapter

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogger_DefaultIsCached(t *testing.T) {
	SetLogger(nil)
	require.Same(t, Logger(), Logger())

	l := zap.NewExample()
	SetLogger(l)
	require.Same(t, l, Logger())

	SetLogger(nil)
	require.NotSame(t, l, Logger())
}
