package http_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tazhibayda/account-service/internal/domain"
	api "github.com/tazhibayda/account-service/internal/http"
	"github.com/tazhibayda/account-service/internal/log"
	"github.com/tazhibayda/account-service/internal/queue"
	"github.com/tazhibayda/account-service/internal/repo"
	"github.com/tazhibayda/account-service/internal/security"
	"github.com/tazhibayda/account-service/internal/service"
)

type memStore struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Account
}

func newMemStore() *memStore {
	return &memStore{byEmail: make(map[string]*domain.Account)}
}

func (m *memStore) FindAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memStore) CreateAccount(_ context.Context, a *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[a.Email]; ok {
		return repo.ErrEmailExists
	}
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	cp := *a
	m.byEmail[a.Email] = &cp
	return nil
}

func (m *memStore) ConsumeVerificationCode(_ context.Context, code string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byEmail {
		if !a.Verified && a.VerificationCode == code {
			a.Verified = true
			a.VerificationCode = ""
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

// mailbox keeps the links that would have been mailed, so the test can click
// them the way a user would.
type mailbox struct {
	mu    sync.Mutex
	links map[string]string // email -> last link
}

func (m *mailbox) SendVerification(_ context.Context, to, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.links == nil {
		m.links = make(map[string]string)
	}
	m.links[to] = link
	return nil
}

func (m *mailbox) lastLink(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.links[email]
}

type testEnv struct {
	Store  *memStore
	Mail   *mailbox
	Router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	st := newMemStore()
	mb := &mailbox{}
	accounts := service.NewAccounts(st, security.Bcrypt{}, nil, mb, "http://localhost:8080")

	gin.SetMode(gin.TestMode)
	h := api.NewHandler(accounts, nil, queue.NewNoop(), "account.events")
	r := api.NewRouter(h)

	return &testEnv{Store: st, Mail: mb, Router: r}
}

// multipartBody builds a register form, optionally with an image file part.
func multipartBody(t *testing.T, fields map[string]string, imageName string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if imageName != "" {
		fw, err := w.CreateFormFile("image", imageName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.Copy(fw, bytes.NewReader([]byte("not-really-a-png"))); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}
