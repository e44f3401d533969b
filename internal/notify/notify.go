// Package notify delivers login verification tokens out of band. The request
// path only hands the token over; delivery happens on its own goroutine.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrUnavailable = errors.New("notification delivery unavailable")

type Sender interface {
	Send(ctx context.Context, recipient, token string) error
}

// LogSender writes the token to the log. Only meant for local development.
type LogSender struct {
	log zerolog.Logger
}

func NewLogSender(log zerolog.Logger) LogSender {
	return LogSender{log: log}
}

func (s LogSender) Send(_ context.Context, recipient, token string) error {
	s.log.Info().Str("recipient", recipient).Str("token", token).Msg("login verification token")
	return nil
}

type Message struct {
	Type      string    `json:"type"`
	Recipient string    `json:"recipient"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
}

// RedisSender pushes messages onto a list consumed by the mail worker.
type RedisSender struct {
	client *redis.Client
	queue  string
	now    func() time.Time
}

func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

func NewRedisSender(client *redis.Client, queue string) *RedisSender {
	return &RedisSender{client: client, queue: queue, now: time.Now}
}

func (s *RedisSender) Send(ctx context.Context, recipient, token string) error {
	payload, err := encodeMessage(recipient, token, s.now())
	if err != nil {
		return err
	}
	return s.client.RPush(ctx, s.queue, payload).Err()
}

func encodeMessage(recipient, token string, issuedAt time.Time) ([]byte, error) {
	return json.Marshal(Message{
		Type:      "login.verification_token",
		Recipient: recipient,
		Token:     token,
		IssuedAt:  issuedAt.UTC(),
	})
}
