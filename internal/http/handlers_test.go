package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func Test_Register_Verify_Login(t *testing.T) {
	env := newTestEnv(t)

	// 1) REGISTER
	body, ctype := multipartBody(t, map[string]string{
		"name": "Ann", "email": "a@x.com", "password": "secret1",
	}, "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/register", body)
	req.Header.Set("Content-Type", ctype)
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("register code=%d body=%s", w.Code, w.Body.String())
	}
	a, _ := env.Store.FindAccountByEmail(context.Background(), "a@x.com")
	if a == nil || a.Verified {
		t.Fatalf("expected unverified account, got %+v", a)
	}
	// ответ не должен содержать ни хэша, ни кода
	if strings.Contains(w.Body.String(), a.VerificationCode) || strings.Contains(w.Body.String(), a.PasswordHash) {
		t.Fatalf("register response leaks secrets: %s", w.Body.String())
	}

	// 2) VERIFY with a wrong code
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/verify/never-issued", nil)
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("verify wrong code=%d body=%s", w.Code, w.Body.String())
	}

	// 3) VERIFY by clicking the mailed link
	link := env.Mail.lastLink("a@x.com")
	if link == "" {
		t.Fatal("no verification link mailed")
	}
	path := strings.TrimPrefix(link, "http://localhost:8080")
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", path, nil)
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("verify code=%d body=%s", w.Code, w.Body.String())
	}

	// the same link a second time is already spent
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", path, nil)
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("verify reuse code=%d body=%s", w.Code, w.Body.String())
	}

	// 4) LOGIN
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/login",
		bytes.NewBufferString(`{"email":"a@x.com","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("login code=%d body=%s", w.Code, w.Body.String())
	}
	var lr struct {
		Success bool `json:"success"`
		User    map[string]any
	}
	if err := json.Unmarshal(w.Body.Bytes(), &lr); err != nil || !lr.Success {
		t.Fatalf("login resp parse: %v; body=%s", err, w.Body.String())
	}
	if lr.User["name"] != "Ann" || lr.User["email"] != "a@x.com" {
		t.Fatalf("unexpected user view: %v", lr.User)
	}
	for _, forbidden := range []string{"password", "password_hash", "verification_code"} {
		if _, ok := lr.User[forbidden]; ok {
			t.Fatalf("user view leaks %q: %v", forbidden, lr.User)
		}
	}

	// 5) LOGIN with a wrong password
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/login",
		bytes.NewBufferString(`{"email":"a@x.com","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("login wrong pw code=%d body=%s", w.Code, w.Body.String())
	}
}

func Test_Register_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]string{
		{"email": "a@x.com", "password": "secret1"},               // no name
		{"name": "Ann", "password": "secret1"},                    // no email
		{"name": "Ann", "email": "a@x.com"},                       // no password
		{"name": "Ann", "email": "a@x.com", "password": "12345"},  // short password
	}
	for _, fields := range cases {
		body, ctype := multipartBody(t, fields, "")
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/register", body)
		req.Header.Set("Content-Type", ctype)
		env.Router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("fields=%v expected 400, got %d: %s", fields, w.Code, w.Body.String())
		}
	}
}

func Test_Register_Conflict(t *testing.T) {
	env := newTestEnv(t)

	post := func() *httptest.ResponseRecorder {
		body, ctype := multipartBody(t, map[string]string{
			"name": "Ann", "email": "a@x.com", "password": "secret1",
		}, "")
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/register", body)
		req.Header.Set("Content-Type", ctype)
		env.Router.ServeHTTP(w, req)
		return w
	}

	if w := post(); w.Code != http.StatusCreated {
		t.Fatalf("first register: %d %s", w.Code, w.Body.String())
	}
	w := post()
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second register expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "already registered") {
		t.Fatalf("expected conflict message, got %s", w.Body.String())
	}
}

func Test_Login_UnverifiedVsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	body, ctype := multipartBody(t, map[string]string{
		"name": "Ann", "email": "a@x.com", "password": "secret1",
	}, "")
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/register", body)
	req.Header.Set("Content-Type", ctype)
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: %d %s", w.Code, w.Body.String())
	}

	login := func(payload string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/login", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		env.Router.ServeHTTP(w, req)
		return w
	}

	// верные креды, но аккаунт ещё не подтверждён
	w = login(`{"email":"a@x.com","password":"secret1"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "verify your email") {
		t.Fatalf("unverified login: %d %s", w.Code, w.Body.String())
	}

	// unknown email and wrong password must be indistinguishable
	wUnknown := login(`{"email":"ghost@x.com","password":"secret1"}`)
	wWrongPw := login(`{"email":"a@x.com","password":"wrong"}`)
	if wUnknown.Code != http.StatusBadRequest || wWrongPw.Code != http.StatusBadRequest {
		t.Fatalf("expected 400/400, got %d/%d", wUnknown.Code, wWrongPw.Code)
	}
	if wUnknown.Body.String() != wWrongPw.Body.String() {
		t.Fatalf("credential errors differ: %s vs %s", wUnknown.Body.String(), wWrongPw.Body.String())
	}
}

func Test_Healthz(t *testing.T) {
	env := newTestEnv(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthz", nil)
	env.Router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("healthz: %d %s", w.Code, w.Body.String())
	}
}
