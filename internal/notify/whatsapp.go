package notify

import (
	"context"
	"fmt"

	"rakshak-service/pkg/phone"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WhatsAppStub builds the click-to-chat link for the message and logs it.
type WhatsAppStub struct {
	logger *zap.SugaredLogger
}

func NewWhatsAppStub(logger *zap.SugaredLogger) *WhatsAppStub {
	return &WhatsAppStub{logger: logger}
}

func (s *WhatsAppStub) Channel() Channel {
	return ChannelWhatsApp
}

func (s *WhatsAppStub) Send(ctx context.Context, to, message string) (res Result) {
	defer guard(ChannelWhatsApp, &res)

	if err := ctx.Err(); err != nil {
		return failed(err)
	}

	link, ok := phone.WhatsAppLink(to, message)
	if !ok {
		return failed(fmt.Errorf("cannot build whatsapp link for %q", to))
	}

	id := uuid.NewString()
	s.logger.Infow("whatsapp sent (stub)",
		"to", phone.Display(to),
		"message_id", id,
		"link", link,
	)
	return Result{Success: true, MessageID: id}
}
