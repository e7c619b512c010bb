package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	resend "github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmnc/esports-api/pkg/models"
)

var testRegistration = models.Registration{
	ID:              "r1",
	TournamentID:    "t1",
	TournamentTitle: "Spring Cup",
	TeamName:        "Alpha",
	TeamMembers:     []string{"a", "b"},
	CaptainDiscord:  "cap#1",
	ContactEmail:    "cap@example.com",
	Region:          "EU",
	RegisteredAt:    "2025-03-01T09:00:00.000Z",
}

type recordingNotifier struct {
	mu    sync.Mutex
	got   []models.Registration
	err   error
	delay time.Duration
}

func (r *recordingNotifier) Name() string { return "recording" }

func (r *recordingNotifier) NotifyRegistration(ctx context.Context, reg models.Registration) error {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, reg)
	return r.err
}

func (r *recordingNotifier) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.got)
}

type panickingNotifier struct{}

func (panickingNotifier) Name() string { return "panic" }
func (panickingNotifier) NotifyRegistration(context.Context, models.Registration) error {
	panic("boom")
}

func TestDispatcher_DeliversToEveryNotifier(t *testing.T) {
	a, b := &recordingNotifier{}, &recordingNotifier{err: errors.New("down")}
	d := NewDispatcher(zerolog.Nop(), time.Second, a, b, panickingNotifier{})

	d.Dispatch(testRegistration)
	d.Wait()

	assert.Equal(t, 1, a.calls())
	assert.Equal(t, 1, b.calls(), "failing notifier is still attempted exactly once")
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	slow := &recordingNotifier{delay: 200 * time.Millisecond}
	d := NewDispatcher(zerolog.Nop(), time.Second, slow)

	start := time.Now()
	d.Dispatch(testRegistration)
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	d.Wait()
	assert.Equal(t, 1, slow.calls())
}

func TestDispatcher_TimesOut(t *testing.T) {
	slow := &recordingNotifier{delay: time.Second}
	d := NewDispatcher(zerolog.Nop(), 20*time.Millisecond, slow)
	d.Dispatch(testRegistration)
	d.Wait()
	assert.Zero(t, slow.calls())
}

func TestDispatcher_NoNotifiers(t *testing.T) {
	d := NewDispatcher(zerolog.Nop(), 0)
	assert.False(t, d.Enabled())
	d.Dispatch(testRegistration)
	d.Wait()

	var nilDispatcher *Dispatcher
	assert.False(t, nilDispatcher.Enabled())
	nilDispatcher.Dispatch(testRegistration)
	nilDispatcher.Wait()
}

func TestWebhook_PostsPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, srv.Client())
	require.NotNil(t, wh)
	require.NoError(t, wh.NotifyRegistration(context.Background(), testRegistration))

	assert.Contains(t, got.Content, "Alpha")
	require.Len(t, got.Embeds, 1)
	assert.Equal(t, "Spring Cup", got.Embeds[0].Title)
	assert.Equal(t, "a, b", got.Embeds[0].Fields[3].Value)
}

func TestWebhook_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL, nil).NotifyRegistration(context.Background(), testRegistration)
	assert.Error(t, err)
}

func TestNewWebhook_EmptyURL(t *testing.T) {
	assert.Nil(t, NewWebhook("  ", nil))
}

type fakeSender struct {
	params *resend.SendEmailRequest
	err    error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "mail-1"}, nil
}

func TestEmail_Sends(t *testing.T) {
	sender := &fakeSender{}
	e := &Email{sender: sender, from: "bot@example.com", to: []string{"org@example.com"}}

	require.NoError(t, e.NotifyRegistration(context.Background(), testRegistration))
	require.NotNil(t, sender.params)
	assert.Equal(t, []string{"org@example.com"}, sender.params.To)
	assert.Equal(t, "cap@example.com", sender.params.ReplyTo)
	assert.Contains(t, sender.params.Subject, "Alpha")
	assert.Contains(t, sender.params.Html, "<li>a</li><li>b</li>")
}

func TestEmail_EscapesInput(t *testing.T) {
	reg := testRegistration
	reg.TeamName = "<script>"
	assert.NotContains(t, getEmailTemplate(reg), "<script>")
}

func TestEmail_PropagatesError(t *testing.T) {
	e := &Email{sender: &fakeSender{err: errors.New("quota")}, from: "a", to: []string{"b"}}
	assert.Error(t, e.NotifyRegistration(context.Background(), testRegistration))
}

func TestNewEmail_Disabled(t *testing.T) {
	assert.Nil(t, NewEmail("", "", []string{"x@example.com"}))
	assert.Nil(t, NewEmail("key", "", nil))

	e := NewEmail("key", "", []string{"x@example.com"})
	require.NotNil(t, e)
	assert.Equal(t, "onboarding@resend.dev", e.from)
}
