package usecase

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

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

// OtpIssuedEvent is handed to the messaging repository after a code is stored
// in the ledger. Code is the cleartext digits; only the hash ever reaches
// storage.
type OtpIssuedEvent struct {
	EventID  string
	Email    string
	Username string
	Purpose  entity.OtpPurpose
	Code     string
}

type repoMessaging interface {
	PublishOtpIssued(ctx context.Context, msg OtpIssuedEvent) error
}

type repoDB interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*entity.Account, error)
	GetAccountByID(ctx context.Context, id int64) (*entity.Account, error)

	CreateAccount(ctx context.Context, in entity.NewAccount) error

	MarkAccountVerified(ctx context.Context, id int64) error
	UpdateAccountPassword(ctx context.Context, id int64, hashed string) error
}

type repoLedger interface {
	Issue(ctx context.Context, email string, purpose entity.OtpPurpose, codeHash string, ttl time.Duration) error
	Verify(ctx context.Context, email string, purpose entity.OtpPurpose, codeHash string, maxAttempts int) (entity.OtpVerdict, error)
	AllowIssue(ctx context.Context, email string, purpose entity.OtpPurpose, limit int, window time.Duration) (bool, error)

	CreatePendingLogin(ctx context.Context, email string, ttl time.Duration) error
	HasPendingLogin(ctx context.Context, email string) (bool, error)
	TakePendingLogin(ctx context.Context, email string) (bool, error)
}

type Usecase struct {
	repoDB        repoDB
	repoLedger    repoLedger
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	password      hash.Hash
	uid           uid.NumberID
	uuid          uid.StringID
	otp           otp.Generator
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoLedger    repoLedger
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Password      hash.Hash
	UID           uid.NumberID
	UUID          uid.StringID
	Otp           otp.Generator
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoLedger:    dep.RepoLedger,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		password:      dep.Password,
		uid:           dep.UID,
		uuid:          dep.UUID,
		otp:           dep.Otp,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) otpTTL() time.Duration {
	return s.cfg.GetMinute("modules.auth.otp_ttl_minutes")
}

func (s *Usecase) otpMaxAttempts() int {
	return s.cfg.GetInt("modules.auth.otp_max_attempts")
}

// issueOtp rate-limits, generates, stores, and dispatches a one-time code for
// (email, purpose). The ledger write happens before publish, so a failed
// dispatch leaves a resendable code behind.
func (s *Usecase) issueOtp(ctx context.Context, email, username string, purpose entity.OtpPurpose) error {
	limit := s.cfg.GetInt("modules.auth.otp_issue_limit")
	window := s.cfg.GetMinute("modules.auth.otp_issue_window_minutes")

	allowed, err := s.repoLedger.AllowIssue(ctx, email, purpose, limit, window)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check otp rate limit", "purpose", purpose, "error", err)
		return goerror.NewServer(err)
	}
	if !allowed {
		slog.WarnContext(ctx, "otp issue rate limited", "purpose", purpose)
		return goerror.NewBusiness("Too many OTP requests. Please try again later.", goerror.CodeTooManyRequest)
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.hmac.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoLedger.Issue(ctx, email, purpose, string(codeHash), s.otpTTL()); err != nil {
		slog.ErrorContext(ctx, "failed to store otp in ledger", "purpose", purpose, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishOtpIssued(ctx, OtpIssuedEvent{
		EventID:  s.uuid.Generate(),
		Email:    email,
		Username: username,
		Purpose:  purpose,
		Code:     code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp issued event", "purpose", purpose, "error", err)
		return goerror.NewBusiness("Failed to send OTP. Please try again.", goerror.CodeInternal)
	}

	return nil
}

// checkVerdict maps a ledger verdict onto the API error taxonomy. NotFound,
// Expired, and Mismatch share one message so callers cannot probe which codes
// exist.
func (s *Usecase) checkVerdict(ctx context.Context, v entity.OtpVerdict) error {
	switch v {
	case entity.OtpVerdictOK:
		return nil
	case entity.OtpVerdictAlreadyConsumed:
		slog.WarnContext(ctx, "otp already consumed")
		return goerror.NewBusiness("OTP already used. Please request a new one.", goerror.CodeUnauthorized)
	case entity.OtpVerdictTooManyAttempts:
		slog.WarnContext(ctx, "otp attempt limit reached")
		return goerror.NewBusiness("Too many incorrect attempts. Please request a new OTP.", goerror.CodeTooManyRequest)
	default:
		slog.WarnContext(ctx, "otp rejected", "verdict", v.String())
		return goerror.NewBusiness("Invalid or expired OTP", goerror.CodeUnauthorized)
	}
}
