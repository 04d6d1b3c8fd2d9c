// Package ledger is the Redis-backed one-time code store.
//
// All state transitions on a code (issue, attempt, consume) run inside Lua
// scripts, so Redis's single-threaded execution linearizes concurrent
// requests: at most one verification ever consumes a given code.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/clock"
	"github.com/auriga-labs/authgate/internal/pkg/instrument"
)

// ErrUnexpectedReply indicates a script returned a value outside its contract.
var ErrUnexpectedReply = errors.New("ledger: unexpected script reply")

// physicalTTLFactor keeps the hash alive past its logical expiry so a late
// verification reports Expired instead of NotFound. Redis reclaims the key
// afterwards, bounding storage without a sweep job.
const physicalTTLFactor = 2

// issueScript replaces any previous entry for the same (purpose, email);
// a re-issued code always supersedes the old one.
var issueScript = redis.NewScript(`
redis.call('DEL', KEYS[1])
redis.call('HSET', KEYS[1], 'code', ARGV[1], 'expires_at', ARGV[2], 'attempts', 0, 'consumed', 0)
redis.call('PEXPIRE', KEYS[1], ARGV[3])
return 1
`)

// verifyScript checks terminal states before the code comparison, so a
// consumed or expired entry never reveals whether the submitted code matched.
var verifyScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 'not_found'
end
local e = redis.call('HMGET', KEYS[1], 'code', 'expires_at', 'attempts', 'consumed')
if e[4] == '1' then
  return 'already_consumed'
end
if tonumber(ARGV[2]) >= tonumber(e[2]) then
  return 'expired'
end
if tonumber(e[3]) >= tonumber(ARGV[3]) then
  return 'too_many_attempts'
end
if e[1] ~= ARGV[1] then
  redis.call('HINCRBY', KEYS[1], 'attempts', 1)
  return 'mismatch'
end
redis.call('HSET', KEYS[1], 'consumed', 1)
return 'ok'
`)

var allowScript = redis.NewScript(`
local c = redis.call('INCR', KEYS[1])
if c == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
if c > tonumber(ARGV[2]) then
  return 0
end
return 1
`)

type Ledger struct {
	client *redis.Client
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewLedger(client *redis.Client, clk clock.Clocker, ins instrument.Instrumentation) *Ledger {
	return &Ledger{client: client, clock: clk, ins: ins}
}

func otpKey(email string, purpose entity.OtpPurpose) string {
	return fmt.Sprintf("otp:%s:%s", purpose, email)
}

func rateKey(email string, purpose entity.OtpPurpose) string {
	return fmt.Sprintf("otp_rl:%s:%s", purpose, email)
}

func pendingLoginKey(email string) string {
	return "pending_login:" + email
}

func (l *Ledger) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return l.ins.Tracer("auth.outbound.ledger").Start(ctx, name)
}

func (l *Ledger) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Issue stores a new hashed code for (email, purpose), replacing any previous
// entry. ttl is the logical validity window.
func (l *Ledger) Issue(ctx context.Context, email string, purpose entity.OtpPurpose, codeHash string, ttl time.Duration) (err error) {
	ctx, span := l.startSpan(ctx, "Issue")
	defer func() { l.endSpan(span, err) }()

	expiresAt := l.clock.Now().Add(ttl).UnixMilli()
	physicalTTL := (ttl * physicalTTLFactor).Milliseconds()

	err = issueScript.Run(ctx, l.client,
		[]string{otpKey(email, purpose)},
		codeHash, expiresAt, physicalTTL,
	).Err()

	return err
}

// Verify runs a single verification attempt and returns its verdict.
// A mismatch burns one attempt; a verdict of OK consumes the code.
func (l *Ledger) Verify(ctx context.Context, email string, purpose entity.OtpPurpose, codeHash string, maxAttempts int) (_ entity.OtpVerdict, err error) {
	ctx, span := l.startSpan(ctx, "Verify")
	defer func() { l.endSpan(span, err) }()

	raw, err := verifyScript.Run(ctx, l.client,
		[]string{otpKey(email, purpose)},
		codeHash, l.clock.Now().UnixMilli(), maxAttempts,
	).Text()
	if err != nil {
		return entity.OtpVerdictNotFound, err
	}

	switch raw {
	case "ok":
		return entity.OtpVerdictOK, nil
	case "not_found":
		return entity.OtpVerdictNotFound, nil
	case "expired":
		return entity.OtpVerdictExpired, nil
	case "already_consumed":
		return entity.OtpVerdictAlreadyConsumed, nil
	case "too_many_attempts":
		return entity.OtpVerdictTooManyAttempts, nil
	case "mismatch":
		return entity.OtpVerdictMismatch, nil
	default:
		err = fmt.Errorf("%w: %q", ErrUnexpectedReply, raw)
		return entity.OtpVerdictNotFound, err
	}
}

// AllowIssue counts an issuance against the (email, purpose) window and
// reports whether it is still within limit.
func (l *Ledger) AllowIssue(ctx context.Context, email string, purpose entity.OtpPurpose, limit int, window time.Duration) (_ bool, err error) {
	ctx, span := l.startSpan(ctx, "AllowIssue")
	defer func() { l.endSpan(span, err) }()

	allowed, err := allowScript.Run(ctx, l.client,
		[]string{rateKey(email, purpose)},
		window.Milliseconds(), limit,
	).Int()
	if err != nil {
		return false, err
	}

	return allowed == 1, nil
}

// CreatePendingLogin records that the password check passed, opening the
// window in which a login code may be verified.
func (l *Ledger) CreatePendingLogin(ctx context.Context, email string, ttl time.Duration) (err error) {
	ctx, span := l.startSpan(ctx, "CreatePendingLogin")
	defer func() { l.endSpan(span, err) }()

	err = l.client.Set(ctx, pendingLoginKey(email), "1", ttl).Err()
	return err
}

// HasPendingLogin reports whether a live pending-login marker exists.
func (l *Ledger) HasPendingLogin(ctx context.Context, email string) (_ bool, err error) {
	ctx, span := l.startSpan(ctx, "HasPendingLogin")
	defer func() { l.endSpan(span, err) }()

	n, err := l.client.Exists(ctx, pendingLoginKey(email)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// TakePendingLogin consumes the pending-login marker. It reports false when
// the marker had already expired or been taken.
func (l *Ledger) TakePendingLogin(ctx context.Context, email string) (_ bool, err error) {
	ctx, span := l.startSpan(ctx, "TakePendingLogin")
	defer func() { l.endSpan(span, err) }()

	_, err = l.client.GetDel(ctx, pendingLoginKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
