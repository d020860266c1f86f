// Package notify holds the outbound messaging channels used to alert
// emergency contacts. Every channel reports its outcome as a Result and
// never returns an error, so one failing provider cannot affect another.
package notify

import (
	"context"
	"fmt"
)

type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPush     Channel = "push"
)

type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Sender delivers a text message to a phone number.
type Sender interface {
	Channel() Channel
	Send(ctx context.Context, phone, message string) Result
}

func failed(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

// guard turns a panicking provider into a failed Result.
func guard(ch Channel, res *Result) {
	if r := recover(); r != nil {
		*res = failed(fmt.Errorf("%s provider panic: %v", ch, r))
	}
}
