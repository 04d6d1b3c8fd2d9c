package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/auriga-labs/authgate/internal/auth/entity"
	"github.com/auriga-labs/authgate/internal/pkg/clock"
	"github.com/auriga-labs/authgate/internal/pkg/config"
	"github.com/auriga-labs/authgate/internal/pkg/goerror"
	"github.com/auriga-labs/authgate/internal/pkg/hash"
	"github.com/auriga-labs/authgate/internal/pkg/instrument"
	"github.com/auriga-labs/authgate/internal/pkg/jwt"
	"github.com/auriga-labs/authgate/internal/pkg/otp"
	"github.com/auriga-labs/authgate/internal/pkg/uid"
	"github.com/auriga-labs/authgate/internal/pkg/validator"
)

const testConfigYAML = `
modules:
  auth:
    otp_ttl_minutes: 5
    otp_max_attempts: 3
    otp_issue_limit: 3
    otp_issue_window_minutes: 10
`

type fakeDB struct {
	accounts map[string]*entity.Account // by email
}

func newFakeDB() *fakeDB {
	return &fakeDB{accounts: map[string]*entity.Account{}}
}

func (f *fakeDB) GetAccountByEmail(_ context.Context, email string) (*entity.Account, error) {
	acc, ok := f.accounts[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return acc, nil
}

func (f *fakeDB) GetAccountByUsername(_ context.Context, username string) (*entity.Account, error) {
	for _, acc := range f.accounts {
		if acc.Username == username {
			return acc, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) GetAccountByID(_ context.Context, id int64) (*entity.Account, error) {
	for _, acc := range f.accounts {
		if acc.ID == id {
			return acc, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) CreateAccount(_ context.Context, in entity.NewAccount) error {
	if _, ok := f.accounts[in.Email]; ok {
		return goerror.ErrConflict
	}
	for _, acc := range f.accounts {
		if acc.Username == in.Username {
			return goerror.ErrConflict
		}
	}
	f.accounts[in.Email] = &entity.Account{
		ID:       in.ID,
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
	}
	return nil
}

func (f *fakeDB) MarkAccountVerified(_ context.Context, id int64) error {
	for _, acc := range f.accounts {
		if acc.ID == id {
			acc.Enabled = true
			acc.EmailVerified = true
			return nil
		}
	}
	return goerror.ErrNotFound
}

func (f *fakeDB) UpdateAccountPassword(_ context.Context, id int64, hashed string) error {
	for _, acc := range f.accounts {
		if acc.ID == id {
			acc.Password = hashed
			return nil
		}
	}
	return goerror.ErrNotFound
}

type ledgerEntry struct {
	hash      string
	expiresAt time.Time
	attempts  int
	consumed  bool
}

// fakeLedger mirrors the Redis script semantics in memory. timeOffset shifts
// its notion of now, so tests can fast-forward past code expiry.
type fakeLedger struct {
	entries    map[string]*ledgerEntry
	rateCounts map[string]int
	pending    map[string]bool
	timeOffset time.Duration
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		entries:    map[string]*ledgerEntry{},
		rateCounts: map[string]int{},
		pending:    map[string]bool{},
	}
}

func (f *fakeLedger) key(email string, purpose entity.OtpPurpose) string {
	return fmt.Sprintf("%s|%s", purpose, email)
}

func (f *fakeLedger) now() time.Time {
	return time.Now().Add(f.timeOffset)
}

func (f *fakeLedger) Issue(_ context.Context, email string, purpose entity.OtpPurpose, codeHash string, ttl time.Duration) error {
	f.entries[f.key(email, purpose)] = &ledgerEntry{
		hash:      codeHash,
		expiresAt: f.now().Add(ttl),
	}
	return nil
}

func (f *fakeLedger) Verify(_ context.Context, email string, purpose entity.OtpPurpose, codeHash string, maxAttempts int) (entity.OtpVerdict, error) {
	e, ok := f.entries[f.key(email, purpose)]
	if !ok {
		return entity.OtpVerdictNotFound, nil
	}
	if e.consumed {
		return entity.OtpVerdictAlreadyConsumed, nil
	}
	if !f.now().Before(e.expiresAt) {
		return entity.OtpVerdictExpired, nil
	}
	if e.attempts >= maxAttempts {
		return entity.OtpVerdictTooManyAttempts, nil
	}
	if e.hash != codeHash {
		e.attempts++
		return entity.OtpVerdictMismatch, nil
	}
	e.consumed = true
	return entity.OtpVerdictOK, nil
}

func (f *fakeLedger) AllowIssue(_ context.Context, email string, purpose entity.OtpPurpose, limit int, _ time.Duration) (bool, error) {
	k := f.key(email, purpose)
	f.rateCounts[k]++
	return f.rateCounts[k] <= limit, nil
}

func (f *fakeLedger) CreatePendingLogin(_ context.Context, email string, _ time.Duration) error {
	f.pending[email] = true
	return nil
}

func (f *fakeLedger) HasPendingLogin(_ context.Context, email string) (bool, error) {
	return f.pending[email], nil
}

func (f *fakeLedger) TakePendingLogin(_ context.Context, email string) (bool, error) {
	if !f.pending[email] {
		return false, nil
	}
	delete(f.pending, email)
	return true, nil
}

type fakeMQ struct {
	published []OtpIssuedEvent
	failWith  error
}

func (f *fakeMQ) PublishOtpIssued(_ context.Context, msg OtpIssuedEvent) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeMQ) lastCode(t *testing.T) string {
	t.Helper()
	if len(f.published) == 0 {
		t.Fatalf("expected a published otp event")
	}
	return f.published[len(f.published)-1].Code
}

type testEnv struct {
	uc     *Usecase
	db     *fakeDB
	ledger *fakeLedger
	mq     *fakeMQ
	pass   hash.Hash
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	snow, err := uid.NewSnowflake(1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	clk := clock.New()
	uuid := uid.NewUUID()

	tokenizer, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte(strings.Repeat("k", 64)),
		Issuer:     "authgate",
		Audiences:  []string{"authgate"},
		TTLMinutes: 15 * time.Minute,
		Clock:      clk,
		UUID:       uuid,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	env := &testEnv{
		db:     newFakeDB(),
		ledger: newFakeLedger(),
		mq:     &fakeMQ{},
		pass:   hash.NewBcrypt(4, ""),
	}

	env.uc = New(Dependency{
		RepoDB:        env.db,
		RepoLedger:    env.ledger,
		RepoMessaging: env.mq,
		Validator:     v,
		Config:        cfg,
		HMAC:          hash.NewHMACSHA256("test-hmac-secret"),
		Password:      env.pass,
		UID:           snow,
		UUID:          uuid,
		Otp:           otp.NewNumeric(6),
		Clock:         clk,
		JWT:           tokenizer,
		Instrument:    instrument.NewNoop(),
	})

	return env
}

func (e *testEnv) seedAccount(t *testing.T, username, email, password string, enabled, verified bool) *entity.Account {
	t.Helper()

	hashed, err := e.pass.Hash(password)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	acc := &entity.Account{
		ID:            int64(len(e.db.accounts) + 1),
		Username:      username,
		Email:         email,
		Password:      string(hashed),
		Enabled:       enabled,
		EmailVerified: verified,
	}
	e.db.accounts[email] = acc

	return acc
}

func businessMsg(t *testing.T, err error) string {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %v (%T)", err, err)
	}
	return gerr.Msg()
}
