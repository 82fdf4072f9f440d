// Package changefeed turns Postgres NOTIFY messages into change events.
package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/tutorhub/internal/pkg/websocket"
)

// Channel is the NOTIFY channel the notify_table_change trigger publishes on
const Channel = "table_changes"

// Publisher receives decoded change events
type Publisher interface {
	Publish(ctx context.Context, event *websocket.ChangeEvent)
}

// Listener holds a dedicated connection LISTENing on Channel and
// reconnects after a fixed delay when the connection drops
type Listener struct {
	connString     string
	channel        string
	reconnectDelay time.Duration
	publisher      Publisher
	logger         zerolog.Logger

	connect func(ctx context.Context, connString string) (notificationConn, error)
}

type notificationConn interface {
	Exec(ctx context.Context, sql string, args ...any) error
	WaitForNotification(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}

// NewListener creates a Listener. It does nothing until Run is called.
func NewListener(connString string, reconnectDelay time.Duration, publisher Publisher, logger zerolog.Logger) *Listener {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	return &Listener{
		connString:     connString,
		channel:        Channel,
		reconnectDelay: reconnectDelay,
		publisher:      publisher,
		logger:         logger,
		connect:        dialPgx,
	}
}

// Run listens until ctx is cancelled
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.logger.Info().Str("channel", l.channel).Msg("Change listener stopped")
			return
		}
		l.logger.Warn().Err(err).Dur("retryIn", l.reconnectDelay).Msg("Change listener disconnected")

		select {
		case <-time.After(l.reconnectDelay):
		case <-ctx.Done():
			return
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.connect(ctx, l.connString)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.logger.Info().Str("channel", l.channel).Msg("Listening for table changes")

	for {
		payload, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		event, err := Decode(payload)
		if err != nil {
			l.logger.Warn().Err(err).Str("payload", payload).Msg("Dropping undecodable notification")
			continue
		}
		l.publisher.Publish(ctx, event)
	}
}

// Decode parses a notify_table_change payload
func Decode(payload string) (*websocket.ChangeEvent, error) {
	var raw struct {
		Table         string `json:"table"`
		Type          string `json:"type"`
		ID            int64  `json:"id"`
		InstitutionID *int64 `json:"institution_id"`
	}
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("invalid change payload: %w", err)
	}
	if raw.Table == "" {
		return nil, errors.New("change payload has no table")
	}

	kind := strings.ToUpper(raw.Type)
	switch kind {
	case websocket.ChangeInsert, websocket.ChangeUpdate, websocket.ChangeDelete:
	default:
		return nil, fmt.Errorf("unknown change type %q", raw.Type)
	}

	return &websocket.ChangeEvent{
		Table:         raw.Table,
		Type:          kind,
		ID:            raw.ID,
		InstitutionID: raw.InstitutionID,
		Timestamp:     time.Now().UTC(),
	}, nil
}

type pgxNotificationConn struct {
	conn *pgx.Conn
}

func dialPgx(ctx context.Context, connString string) (notificationConn, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &pgxNotificationConn{conn: conn}, nil
}

func (c *pgxNotificationConn) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := c.conn.Exec(ctx, sql, args...)
	return err
}

func (c *pgxNotificationConn) WaitForNotification(ctx context.Context) (string, error) {
	n, err := c.conn.WaitForNotification(ctx)
	if err != nil {
		return "", err
	}
	return n.Payload, nil
}

func (c *pgxNotificationConn) Close(ctx context.Context) error {
	return c.conn.Close(ctx)
}
