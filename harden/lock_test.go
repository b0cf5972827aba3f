package harden

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ubuntusec/hardn/execute"
)

func TestLockRoot(t *testing.T) {
	r := &execute.Recorder{}
	p := newTestPipeline(t, testConfig(), r)
	require.NoError(t, p.lockRoot(context.Background()))
	require.Equal(t, []string{"passwd -l root"}, r.Commands)
}

func TestLockRootAlreadyLockedIsSuccess(t *testing.T) {
	r := &execute.Recorder{
		Fail:    map[string]error{"passwd -l root": errors.New("cannot lock")},
		Outputs: map[string]string{"passwd -S root": "root L 2026-08-01 0 99999 7 -1"},
	}
	p := newTestPipeline(t, testConfig(), r)
	require.NoError(t, p.lockRoot(context.Background()))
}

func TestLockRootFailure(t *testing.T) {
	boom := errors.New("cannot lock")
	r := &execute.Recorder{
		Fail:    map[string]error{"passwd -l root": boom},
		Outputs: map[string]string{"passwd -S root": "root P 2026-08-01 0 99999 7 -1"},
	}
	p := newTestPipeline(t, testConfig(), r)
	err := p.lockRoot(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, boom)
}
