package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/auriga-labs/authgate/internal/pkg/idempotency"
	"github.com/auriga-labs/authgate/internal/pkg/mail"
)

type ConsumeOtpIssuedInput struct {
	EventID  string `validate:"required"`
	Email    string `validate:"required,email"`
	Username string `validate:"required"`
	Purpose  string `validate:"required,oneof=REGISTRATION LOGIN PASSWORD_RESET"`
	Code     string `validate:"required,otpcode"`
}

type otpEmailTemplate struct {
	subject string
	body    string
}

// Bodies are plain text; codes expire quickly so the mail stays minimal.
var otpEmailTemplates = map[string]otpEmailTemplate{
	"REGISTRATION": {
		subject: "Verify your email",
		body: "Hi {{.username}},\n\n" +
			"Your verification code is {{.code}}. It expires in {{.ttl_minutes}} minutes.\n\n" +
			"If you did not create an account, you can ignore this email.\n",
	},
	"LOGIN": {
		subject: "Your login code",
		body: "Hi {{.username}},\n\n" +
			"Your login code is {{.code}}. It expires in {{.ttl_minutes}} minutes.\n\n" +
			"If this was not you, please reset your password.\n",
	},
	"PASSWORD_RESET": {
		subject: "Password reset code",
		body: "Hi {{.username}},\n\n" +
			"Your password reset code is {{.code}}. It expires in {{.ttl_minutes}} minutes.\n\n" +
			"If you did not request a reset, you can ignore this email.\n",
	},
}

// ConsumeOtpIssued delivers a one-time code by email. Redelivered events are
// skipped via the idempotency tracker; a delivery failure is returned so the
// broker redelivers later.
func (s *Usecase) ConsumeOtpIssued(ctx context.Context, in ConsumeOtpIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOtpIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "otp issued event failed validation", "event_id", in.EventID, "error", err)
		return nil
	}

	err := s.idemp.Exec(ctx, "otp_email:"+in.EventID, func(ctx context.Context) error {
		return s.sendOtpEmail(ctx, in)
	}, idempotency.WithStateTTL(s.cfg.GetMinute("modules.notification.dedupe_ttl_minutes")))

	if errors.Is(err, idempotency.ErrAlreadyCompleted) || errors.Is(err, idempotency.ErrAlreadyInProgress) {
		slog.InfoContext(ctx, "skipping duplicate otp issued event", "event_id", in.EventID)
		return nil
	}

	return err
}

func (s *Usecase) sendOtpEmail(ctx context.Context, in ConsumeOtpIssuedInput) error {
	tpl := otpEmailTemplates[in.Purpose]

	body, err := s.renderTemplate("body", tpl.body, map[string]any{
		"username":    in.Username,
		"code":        in.Code,
		"ttl_minutes": int(s.cfg.GetMinute("modules.auth.otp_ttl_minutes").Minutes()),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp email body", "event_id", in.EventID, "error", err)
		return err
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(500*time.Millisecond))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if sendErr := s.repoMail.Send(ctx, mail.Message{
			To:       []string{in.Email},
			Subject:  tpl.subject,
			TextBody: body,
		}); sendErr != nil {
			return retry.RetryableError(sendErr)
		}
		return nil
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "event_id", in.EventID, "purpose", in.Purpose, "error", err)
		return err
	}

	slog.InfoContext(ctx, "otp email sent", "event_id", in.EventID, "purpose", in.Purpose)

	return nil
}
