package email

import (
	"context"
	"fmt"

	"github.com/rsharma91/aircargo/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	fmt.Printf("notify user %d: booking %s %s (%s -> %s)\n", event.UserID, event.RefID, event.Type, event.Origin, event.Destination)
	return nil
}
