package shared

import (
	"bytes"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalHandlerCancelsTask(t *testing.T) {
	var buf bytes.Buffer
	ctx := SetupSignalHandler(log.New(&buf), "simulation")

	require.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("context not cancelled after SIGINT")
	}
	assert.Contains(t, buf.String(), "abandoning simulation")
	assert.Contains(t, buf.String(), "interrupt")
}
