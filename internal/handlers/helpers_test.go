package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/sidequest/sidequest-api/internal/config"
	"github.com/sidequest/sidequest-api/internal/handlers"
	"github.com/sidequest/sidequest-api/internal/mailer"
	"github.com/sidequest/sidequest-api/internal/server"
	"github.com/sidequest/sidequest-api/internal/storage/memory"
)

// fakeMailer records outbound email instead of sending it. Waitlist
// confirmations are dispatched on a goroutine, so deliveries are
// signalled on a channel for tests that want to wait for them.
type fakeMailer struct {
	mu            sync.Mutex
	err           error
	confirmations []mailer.WaitlistConfirmation
	inquiries     []mailer.ContactInquiry
	delivered     chan struct{}
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{delivered: make(chan struct{}, 16)}
}

func (m *fakeMailer) SendWaitlistConfirmation(_ context.Context, msg mailer.WaitlistConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.confirmations = append(m.confirmations, msg)
	m.delivered <- struct{}{}
	return nil
}

func (m *fakeMailer) SendContactInquiry(_ context.Context, msg mailer.ContactInquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.inquiries = append(m.inquiries, msg)
	return nil
}

func (m *fakeMailer) confirmationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.confirmations)
}

type testEnv struct {
	router       *gin.Engine
	waitlistRepo *memory.WaitlistRepository
	pollRepo     *memory.PollRepository
	mail         *fakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	waitlistRepo := memory.NewWaitlistRepository()
	pollRepo := memory.NewPollRepository()
	mail := newFakeMailer()

	router := server.NewRouter(
		config.Load(),
		handlers.NewWaitlistHandler(waitlistRepo, mail),
		handlers.NewPollHandler(pollRepo),
		handlers.NewContactHandler(mail),
	)

	return &testEnv{
		router:       router,
		waitlistRepo: waitlistRepo,
		pollRepo:     pollRepo,
		mail:         mail,
	}
}

// do performs a JSON request against the router and returns the recorder.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body into a map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
