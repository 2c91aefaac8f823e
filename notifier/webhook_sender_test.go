package notifier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"timeboss-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWebhook(url string) *WebhookSender {
	s := NewWebhookSender(url, "shh")
	s.BaseBackoff = time.Millisecond
	return s
}

func TestWebhookSenderSignsBody(t *testing.T) {
	var got models.Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.True(t, VerifyHMAC("shh", body, r.Header.Get(SignatureHeader)))
		assert.Equal(t, "assignment", r.Header.Get(KindHeader))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	msg := models.Message{ID: "m1", Kind: models.NotificationAssignment, Channel: models.ChannelSMS, To: "+1", Body: "hi"}
	require.NoError(t, newTestWebhook(srv.URL).Send(context.Background(), msg))
	assert.Equal(t, "m1", got.ID)
}

func TestWebhookSenderRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, newTestWebhook(srv.URL).Send(context.Background(), models.Message{}))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWebhookSenderGivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := newTestWebhook(srv.URL).Send(context.Background(), models.Message{})
	assert.ErrorContains(t, err, "status 503")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWebhookSenderClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := newTestWebhook(srv.URL).Send(context.Background(), models.Message{})
	assert.ErrorContains(t, err, "status 422")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNextBackoff(t *testing.T) {
	assert.Equal(t, 100*time.Millisecond, nextBackoff(100*time.Millisecond, 0))
	assert.Equal(t, 400*time.Millisecond, nextBackoff(100*time.Millisecond, 2))
	assert.Equal(t, time.Minute, nextBackoff(time.Second, 10))
	assert.Equal(t, time.Second, nextBackoff(time.Second, -3))
}

func TestVerifyHMAC(t *testing.T) {
	sig := SignHMAC("k", []byte("payload"))
	assert.Len(t, sig, 64)
	assert.True(t, VerifyHMAC("k", []byte("payload"), sig))
	assert.False(t, VerifyHMAC("other", []byte("payload"), sig))
	assert.False(t, VerifyHMAC("k", []byte("payload"), "zz"))
}
