package notify

import (
	"context"

	"rakshak-service/pkg/phone"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SMSStub logs the message instead of calling a gateway. A real provider
// plugs in behind the same Sender contract.
type SMSStub struct {
	logger *zap.SugaredLogger
}

func NewSMSStub(logger *zap.SugaredLogger) *SMSStub {
	return &SMSStub{logger: logger}
}

func (s *SMSStub) Channel() Channel {
	return ChannelSMS
}

func (s *SMSStub) Send(ctx context.Context, to, message string) (res Result) {
	defer guard(ChannelSMS, &res)

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	id := uuid.NewString()
	s.logger.Infow("sms sent (stub)",
		"to", phone.Display(to),
		"message_id", id,
		"chars", len(message),
	)
	return Result{Success: true, MessageID: id}
}
