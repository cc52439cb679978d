package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"styledecor/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, ev Event) error {
	r.got = append(r.got, ev)
	return r.err
}

func TestNew_NormalizesAudience(t *testing.T) {
	ev := New(BookingCreated, map[string]int{"id": 1}, " Ann@Test.com ", "", "deco@test.com")

	assert.Equal(t, []string{"ann@test.com", "deco@test.com"}, ev.Audience)
	assert.Len(t, ev.ID, 36)
	assert.Equal(t, BookingCreated, ev.Type)
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	ok := &recorder{}
	bad := &recorder{err: errors.New("broker down")}

	err := Multi{ok, nil, bad}.Publish(context.Background(), New(PaymentSettled, nil))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Len(t, ok.got, 1)
	assert.Len(t, bad.got, 1)
}

func TestEncode(t *testing.T) {
	ev := New(BookingAssigned, map[string]string{"decoratorEmail": "deco@test.com"}, "ann@test.com")

	msg, err := encode(ev)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, ev.ID, msg.MessageId)
	assert.Equal(t, BookingAssigned, msg.Type)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &body))
	assert.Equal(t, BookingAssigned, body["type"])
	assert.NotContains(t, body, "Audience")
}

func TestHub_DeliversToAudienceOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	verifier := jwt.New("secret", time.Hour)
	hub := NewHub()
	defer hub.Close()

	router := gin.New()
	NewHandler(hub, verifier).RegisterRoutes(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	dial := func(email string) *websocket.Conn {
		tok, err := verifier.GenerateToken(email)
		require.NoError(t, err)
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/bookings?token=" + tok
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		return conn
	}

	ann := dial("ann@test.com")
	defer ann.Close()
	bob := dial("bob@test.com")
	defer bob.Close()

	require.Eventually(t, func() bool { return hub.OnlineCount() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), New(BookingCreated, map[string]int{"id": 7}, "ann@test.com")))

	_ = ann.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := ann.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(raw), BookingCreated)

	_ = bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = bob.ReadMessage()
	assert.Error(t, err)
}

func TestHandler_RejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(NewHub(), jwt.New("secret", time.Hour)).RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws/bookings", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type fakeSender struct {
	to   []tele.Recipient
	msgs []string
}

func (f *fakeSender) Send(to tele.Recipient, what interface{}, _ ...interface{}) (*tele.Message, error) {
	f.to = append(f.to, to)
	f.msgs = append(f.msgs, what.(string))
	return &tele.Message{}, nil
}

func TestTelegramPublisher_FiltersAndFormats(t *testing.T) {
	sender := &fakeSender{}
	p, err := newTelegramPublisher(sender, "@styledecor_ops")
	require.NoError(t, err)

	require.NoError(t, p.Publish(context.Background(), New(BookingUpdated, map[string]int{"bookingId": 1})))
	assert.Empty(t, sender.msgs)

	require.NoError(t, p.Publish(context.Background(), New(PaymentSettled, map[string]string{"trackingId": "SD-20250309-0A0B0C0D"})))
	require.Len(t, sender.msgs, 1)
	assert.Contains(t, sender.msgs[0], "<b>payment.settled</b>")
	assert.Contains(t, sender.msgs[0], "SD-20250309-0A0B0C0D")
	assert.Equal(t, "styledecor_ops", sender.to[0].(*tele.Chat).Username)
}

func TestParseChannel(t *testing.T) {
	r, err := parseChannel("-1001234567890")
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234567890), r.(*tele.Chat).ID)

	_, err = parseChannel("ops")
	assert.Error(t, err)
}
