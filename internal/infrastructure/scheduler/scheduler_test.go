package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/infrastructure/scheduler"
)

type fakeExpirations struct {
	calls int
	out   []dto.BusinessResponse
	err   error
}

func (f *fakeExpirations) ProcessExpirations(ctx context.Context) ([]dto.BusinessResponse, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("sin deadline")
	}
	return f.out, f.err
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Sweep() int { f.calls++; return 2 }

func TestRunExpirations_RegistraNegociosCambiados(t *testing.T) {
	var buf bytes.Buffer
	exp := &fakeExpirations{out: []dto.BusinessResponse{{ID: "biz-1", IsActive: false}}}
	s := scheduler.New(exp, &fakeSweeper{}, zerolog.New(&buf))

	s.RunExpirations()
	assert.Equal(t, 1, exp.calls)
	assert.Contains(t, buf.String(), "biz-1")
}

func TestRunExpirations_ErrorSeRegistra(t *testing.T) {
	var buf bytes.Buffer
	exp := &fakeExpirations{err: errors.New("db caída")}
	s := scheduler.New(exp, &fakeSweeper{}, zerolog.New(&buf))

	s.RunExpirations()
	assert.Contains(t, buf.String(), "db caída")
}

func TestStart_ExpresionInvalida(t *testing.T) {
	s := scheduler.New(&fakeExpirations{}, &fakeSweeper{}, zerolog.Nop())
	assert.Error(t, s.Start("no es cron"))
}

func TestStart_Stop(t *testing.T) {
	sw := &fakeSweeper{}
	s := scheduler.New(&fakeExpirations{}, sw, zerolog.Nop())
	require.NoError(t, s.Start("0 3 * * *"))
	s.RunSweep()
	s.Stop()
	assert.Equal(t, 1, sw.calls)
}
