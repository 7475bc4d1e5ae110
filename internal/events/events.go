package events

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Event describes a change to an employee record. Payloads carry IDs
// only; consumers fetch details through the API if they need them.
type Event struct {
	Action     string    `msgpack:"action"`
	EmployeeID string    `msgpack:"employee_id"`
	OwnerID    string    `msgpack:"owner_id"`
	At         time.Time `msgpack:"at"`
}

type Publisher interface {
	EmployeeChanged(ctx context.Context, event Event) error
	Close()
}

// Noop is used when no NATS URL is configured.
type Noop struct{}

func (Noop) EmployeeChanged(context.Context, Event) error { return nil }
func (Noop) Close()                                       {}

type NATSPublisher struct {
	nc *nats.Conn
}

func Connect(url string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(1 * time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("WARN NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("INFO NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Println("INFO NATS connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Printf("INFO Connected to NATS at %s", nc.ConnectedUrl())

	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) EmployeeChanged(_ context.Context, event Event) error {
	payload, err := msgpack.Marshal(&event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := "staffdesk.employees." + event.Action
	return p.nc.Publish(subject, payload)
}

func (p *NATSPublisher) Close() {
	_ = p.nc.Drain()
}
