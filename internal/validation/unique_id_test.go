package validation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	mu     sync.Mutex
	taken  map[string]bool
	err    error
	calls  atomic.Int32
	delays map[string]time.Duration
}

func (f *fakeVerifier) VerifyID(ctx context.Context, id string) (bool, error) {
	f.calls.Add(1)
	f.mu.Lock()
	delay := f.delays[id]
	taken := f.taken[id]
	err := f.err
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return taken, err
}

func TestUniqueID_QuickPassWithoutNetwork(t *testing.T) {
	v := &fakeVerifier{taken: map[string]bool{"trj-crd-01": true}}
	u := NewUniqueID(v, "trj-crd-01", 0, nil)

	for _, value := range []string{"", "a", "ab", "trj-crd-01"} {
		res := u.Check(context.Background(), value)
		assert.Nil(t, res.Failure, value)
		assert.False(t, res.Remote, value)
		assert.False(t, res.Stale, value)
	}
	assert.Equal(t, int32(0), v.calls.Load())
}

func TestUniqueID_TakenIDFails(t *testing.T) {
	v := &fakeVerifier{taken: map[string]bool{"trj-crd-01": true}}
	u := NewUniqueID(v, "", time.Millisecond, nil)

	res := u.Check(context.Background(), "trj-crd-01")
	require.NotNil(t, res.Failure)
	assert.Equal(t, CodeIDExists, res.Failure.Code)
	assert.True(t, res.Remote)

	res = u.Check(context.Background(), "nuevo-01")
	assert.Nil(t, res.Failure)
	assert.Equal(t, int32(2), v.calls.Load())
}

func TestUniqueID_FailsOpenOnError(t *testing.T) {
	v := &fakeVerifier{err: errors.New("connection refused")}
	u := NewUniqueID(v, "", 0, nil)

	res := u.Check(context.Background(), "trj-crd-01")
	assert.Nil(t, res.Failure)
	assert.False(t, res.Stale)
	assert.True(t, res.Remote)
}

func TestUniqueID_DebounceSkipsSupersededCalls(t *testing.T) {
	v := &fakeVerifier{}
	u := NewUniqueID(v, "", 50*time.Millisecond, nil)

	var wg sync.WaitGroup
	results := make([]Result, 3)
	for i, value := range []string{"abc", "abcd", "abcde"} {
		wg.Add(1)
		go func(i int, value string) {
			defer wg.Done()
			results[i] = u.Check(context.Background(), value)
		}(i, value)
		time.Sleep(5 * time.Millisecond)
	}
	wg.Wait()

	assert.True(t, results[0].Stale)
	assert.True(t, results[1].Stale)
	assert.False(t, results[2].Stale)
	assert.Equal(t, int32(1), v.calls.Load())
}

func TestUniqueID_SlowOlderResponseIsDiscarded(t *testing.T) {
	v := &fakeVerifier{
		taken:  map[string]bool{"old-id": true},
		delays: map[string]time.Duration{"old-id": 80 * time.Millisecond},
	}
	u := NewUniqueID(v, "", 0, nil)

	older := make(chan Result, 1)
	go func() { older <- u.Check(context.Background(), "old-id") }()
	time.Sleep(10 * time.Millisecond)

	newer := u.Check(context.Background(), "new-id")
	assert.False(t, newer.Stale)
	assert.Nil(t, newer.Failure)

	res := <-older
	assert.True(t, res.Stale)
}

func TestUniqueID_CancelledDuringDebounce(t *testing.T) {
	v := &fakeVerifier{}
	u := NewUniqueID(v, "", time.Second, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := u.Check(ctx, "abcdef")
	assert.True(t, res.Stale)
	assert.Equal(t, int32(0), v.calls.Load())
}

func TestUniqueID_TicketOrderWins(t *testing.T) {
	v := &fakeVerifier{}
	u := NewUniqueID(v, "", 20*time.Millisecond, nil)

	first := u.Ticket()
	second := u.Ticket()

	// The later ticket wins even if its goroutine starts first.
	newer := u.CheckTicket(context.Background(), second, "abcd")
	older := u.CheckTicket(context.Background(), first, "abc")

	assert.False(t, newer.Stale)
	assert.True(t, older.Stale)
	assert.Equal(t, int32(1), v.calls.Load())
}

func TestUniqueID_SettleSkipsDebounce(t *testing.T) {
	v := &fakeVerifier{taken: map[string]bool{"trj-crd-01": true}}
	u := NewUniqueID(v, "", time.Hour, nil)

	start := time.Now()
	res := u.Settle(context.Background(), u.Ticket(), "trj-crd-01")
	assert.Less(t, time.Since(start), time.Second)
	require.NotNil(t, res.Failure)
	assert.Equal(t, CodeIDExists, res.Failure.Code)
}
