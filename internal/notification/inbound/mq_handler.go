package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/auriga-labs/authgate/internal/notification/usecase"
	"github.com/auriga-labs/authgate/internal/pkg/instrument"
	"github.com/auriga-labs/authgate/internal/pkg/messaging"
	"github.com/auriga-labs/authgate/internal/pkg/uid"
	"github.com/auriga-labs/authgate/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) OtpIssuedNotification(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("notification.inbound.mq").Start(ctx, "OtpIssuedNotification")
	defer span.End()

	// The body carries the OTP code, so it is never logged verbatim.
	body := msg.Body()

	var payload event.OtpIssuedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of otp issued notification", "error", err)
		return nil
	}

	slog.InfoContext(ctx, "consume: otp issued notification", "event_id", payload.EventID, "purpose", payload.Purpose)

	if err := h.uc.ConsumeOtpIssued(ctx, usecase.ConsumeOtpIssuedInput{
		EventID:  payload.EventID,
		Email:    payload.Email,
		Username: payload.Username,
		Purpose:  payload.Purpose,
		Code:     payload.Code,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume otp issued event", "event_id", payload.EventID, "error", err)
		return err
	}

	return nil
}
