package email

import (
	"context"
	"fmt"

	"github.com/mpetrov/aviabooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	fmt.Printf("send email to %s about %s, confirmation %s, flight %d, %d ticket(s)\n",
		event.UserEmail, event.Type, event.ConfirmationID, event.FlightID, event.Tickets)
	return nil
}
