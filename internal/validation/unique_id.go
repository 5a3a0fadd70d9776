package validation

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/logging"
)

// DefaultDebounce is the quiet period before an id is checked remotely.
const DefaultDebounce = 300 * time.Millisecond

// IDVerifier reports whether a product id is already taken.
type IDVerifier interface {
	VerifyID(ctx context.Context, id string) (bool, error)
}

// Result of a uniqueness check. A Stale result was superseded by a newer
// Check call and must not be applied.
type Result struct {
	Failure *Failure
	Stale   bool
	Remote  bool
}

// UniqueID validates that an id is not taken. Each Check call takes a new
// sequence number and only the latest one produces a non-stale result.
// Verification errors pass: the server is authoritative at submit time.
type UniqueID struct {
	verifier  IDVerifier
	currentID string
	debounce  time.Duration
	log       logging.Logger
	seq       atomic.Uint64
}

func NewUniqueID(v IDVerifier, currentID string, debounce time.Duration, log logging.Logger) *UniqueID {
	if log == nil {
		log = logging.Nop()
	}
	return &UniqueID{verifier: v, currentID: currentID, debounce: debounce, log: log}
}

// Check blocks for the debounce period and the remote call. Callers run it
// on their own goroutine per keystroke.
func (u *UniqueID) Check(ctx context.Context, value string) Result {
	return u.check(ctx, u.Ticket(), value, u.debounce)
}

// Ticket reserves the next sequence number. Taking it before starting a
// goroutine keeps keystroke order independent of scheduling.
func (u *UniqueID) Ticket() uint64 {
	return u.seq.Add(1)
}

// CheckTicket is Check with a sequence number reserved by Ticket.
func (u *UniqueID) CheckTicket(ctx context.Context, ticket uint64, value string) Result {
	return u.check(ctx, ticket, value, u.debounce)
}

// Settle is CheckTicket without the debounce, for callers that cannot wait
// for the user to stop typing.
func (u *UniqueID) Settle(ctx context.Context, ticket uint64, value string) Result {
	return u.check(ctx, ticket, value, 0)
}

func (u *UniqueID) check(ctx context.Context, mine uint64, value string, debounce time.Duration) Result {
	if value == "" || len([]rune(value)) < IDMinLength {
		return Result{}
	}
	if u.currentID != "" && value == u.currentID {
		return Result{}
	}

	if debounce > 0 {
		timer := time.NewTimer(debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{Stale: true}
		case <-timer.C:
		}
	}
	if u.seq.Load() != mine {
		return Result{Stale: true}
	}

	exists, err := u.verifier.VerifyID(ctx, value)
	if u.seq.Load() != mine {
		return Result{Stale: true, Remote: true}
	}
	if err != nil {
		u.log.Warn(ctx, "id verification failed, accepting value", "id", value, "error", err)
		return Result{Remote: true}
	}
	if exists {
		return Result{Remote: true, Failure: &Failure{Code: CodeIDExists, Message: "ID ya existe"}}
	}
	return Result{Remote: true}
}
