package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

// countingAuth, sadece CleanupExpiredSessions'ı uygulayan sahte AuthService.
type countingAuth struct {
	AuthService
	calls atomic.Int32
	err   error
}

func (c *countingAuth) CleanupExpiredSessions(context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, c.err
}

func TestSessionJanitor_SweepsOnStartAndTick(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	auth := &countingAuth{}
	j := NewSessionJanitor(auth, 10*time.Millisecond)
	j.Start()
	j.Start()

	assert.Eventually(t, func() bool { return auth.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)

	j.Stop()
	j.Stop()

	calls := auth.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, auth.calls.Load(), "no sweeps after Stop")
}

func TestSessionJanitor_ErrorsDoNotStopLoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	auth := &countingAuth{err: errors.New("db locked")}
	j := NewSessionJanitor(auth, 5*time.Millisecond)
	j.Start()
	defer j.Stop()

	assert.Eventually(t, func() bool { return auth.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestSessionJanitor_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())
	NewSessionJanitor(&countingAuth{}, time.Hour).Stop()
}
