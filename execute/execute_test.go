package execute

import (
	"context"
	"testing"

	"github.com/packethost/pkg/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestShellOutput(t *testing.T) {
	Init(log.Test(t, "hardn"))
	out, err := Shell{}.Output(context.Background(), "echo", "hello")
	require.NoError(t, err)
	require.Equal(t, "hello", out)
}

func TestShellRunErrorCarriesStderr(t *testing.T) {
	Init(log.Test(t, "hardn"))
	err := Shell{}.Run(context.Background(), "sh", "-c", "echo boom >&2; exit 3")
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
	require.Contains(t, err.Error(), "sh -c")
}

func TestShellRunMissingBinary(t *testing.T) {
	Init(log.Test(t, "hardn"))
	err := Shell{}.Run(context.Background(), "hardn-no-such-tool")
	require.Error(t, err)
}

func TestRecorder(t *testing.T) {
	boom := errors.New("boom")
	r := &Recorder{
		Fail:    map[string]error{"ufw --force reset": boom},
		Outputs: map[string]string{"passwd -S root": "root L 2026-08-01"},
	}
	ctx := context.Background()

	require.NoError(t, r.Run(ctx, "ufw", "--force", "disable"))
	require.ErrorIs(t, r.Run(ctx, "ufw", "--force", "reset"), boom)
	out, err := r.Output(ctx, "passwd", "-S", "root")
	require.NoError(t, err)
	require.Equal(t, "root L 2026-08-01", out)

	require.Equal(t, []string{
		"ufw --force disable",
		"ufw --force reset",
		"passwd -S root",
	}, r.Commands)
	require.True(t, r.Ran("ufw --force disable"))
	require.False(t, r.Ran("ufw enable"))
}
