package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/tutorhub/internal/pkg/apperrors"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func testClient(hub *Hub, userID int64, tables ...string) *Client {
	c := newClient(hub, nil, "test", userID, "admin", 0, tables, zerolog.Nop())
	hub.register <- c
	return c
}

func institutionClient(hub *Hub, userID, institutionID int64, tables ...string) *Client {
	c := newClient(hub, nil, "test", userID, "institution", institutionID, tables, zerolog.Nop())
	hub.register <- c
	return c
}

func receive(t *testing.T, c *Client) ChangeEvent {
	t.Helper()
	select {
	case data := <-c.send:
		var ev ChangeEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return ChangeEvent{}
	}
}

func assertNothing(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data := <-c.send:
		t.Fatalf("unexpected event %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DeliversOnlyToSubscribedTable(t *testing.T) {
	hub := startHub(t)
	courses := testClient(hub, 1, "courses")
	refunds := testClient(hub, 2, "refunds")

	hub.Publish(context.Background(), &ChangeEvent{Table: "courses", Type: ChangeInsert, ID: 7})

	ev := receive(t, courses)
	assert.Equal(t, "courses", ev.Table)
	assert.Equal(t, ChangeInsert, ev.Type)
	assert.Equal(t, int64(7), ev.ID)
	assert.False(t, ev.Timestamp.IsZero())
	assertNothing(t, refunds)
}

func TestHub_InstitutionClientsOnlySeeOwnRows(t *testing.T) {
	hub := startHub(t)
	admin := testClient(hub, 1, "inquiries")
	mine := institutionClient(hub, 2, 10, "inquiries")
	other := institutionClient(hub, 3, 20, "inquiries")

	owner := int64(10)
	hub.Publish(context.Background(), &ChangeEvent{Table: "inquiries", Type: ChangeInsert, ID: 5, InstitutionID: &owner})

	ev := receive(t, mine)
	assert.Equal(t, int64(5), ev.ID)
	require.NotNil(t, ev.InstitutionID)
	assert.Equal(t, int64(10), *ev.InstitutionID)
	assert.Equal(t, int64(5), receive(t, admin).ID)
	assertNothing(t, other)

	// rows without an owner only reach admins
	hub.Publish(context.Background(), &ChangeEvent{Table: "inquiries", Type: ChangeDelete, ID: 6})
	assert.Equal(t, int64(6), receive(t, admin).ID)
	assertNothing(t, mine)
	assertNothing(t, other)
}

func TestHub_SubscribeAndUnsubscribe(t *testing.T) {
	hub := startHub(t)
	c := testClient(hub, 1, "courses")

	hub.subscribe <- subscription{client: c, tables: []string{"inquiries"}, subscribe: true}
	hub.Publish(context.Background(), &ChangeEvent{Table: "inquiries", Type: ChangeUpdate, ID: 3})
	assert.Equal(t, "inquiries", receive(t, c).Table)

	hub.subscribe <- subscription{client: c, tables: []string{"inquiries"}, subscribe: false}
	hub.Publish(context.Background(), &ChangeEvent{Table: "inquiries", Type: ChangeUpdate, ID: 3})
	assertNothing(t, c)
	assert.Equal(t, 1, hub.SubscriberCount("courses"))
	assert.Equal(t, 0, hub.SubscriberCount("inquiries"))
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := startHub(t)
	c := testClient(hub, 1, "courses")
	hub.unregister <- c

	_, ok := <-c.send
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_ListenersSeeEveryEvent(t *testing.T) {
	hub := startHub(t)
	listener := make(chan *ChangeEvent, 1)
	hub.AddListener(listener)

	hub.Publish(context.Background(), &ChangeEvent{Table: "fees", Type: ChangeDelete, ID: 1})

	select {
	case ev := <-listener:
		assert.Equal(t, "fees", ev.Table)
	case <-time.After(time.Second):
		t.Fatal("listener not notified")
	}
	hub.RemoveListener(listener)
}

func TestHub_StopDisconnectsClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := testClient(hub, 1, "courses")
	cancel()

	_, ok := <-c.send
	assert.False(t, ok)
	assert.False(t, enqueue(hub, hub.register, c), "hub refuses work after stopping")
}

func TestAuthorizeTables(t *testing.T) {
	assert.NoError(t, AuthorizeTables("admin", []string{"refunds", "users"}))
	assert.NoError(t, AuthorizeTables("institution", []string{"courses", "institution_faculty"}))

	err := AuthorizeTables("institution", []string{"refunds"})
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	err = AuthorizeTables("admin", []string{"pg_authid"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	err = AuthorizeTables("admin", nil)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	for _, role := range []string{"student", "tutor", ""} {
		err = AuthorizeTables(role, []string{"inquiries"})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, role)
	}
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{"no origin header", []string{"https://app.tutorhub.test"}, "", true},
		{"empty list", nil, "https://evil.test", true},
		{"wildcard", []string{"*"}, "https://evil.test", true},
		{"listed", []string{"https://admin.tutorhub.test", "https://app.tutorhub.test"}, "https://app.tutorhub.test", true},
		{"case insensitive", []string{"https://app.tutorhub.test"}, "HTTPS://APP.TUTORHUB.TEST", true},
		{"not listed", []string{"https://app.tutorhub.test"}, "https://evil.test", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.origins, tt.origin))
		})
	}
}

func TestParseTables(t *testing.T) {
	assert.Equal(t, []string{"courses", "inquiries"}, ParseTables(" Courses, inquiries,,courses "))
	assert.Nil(t, ParseTables(""))
}
