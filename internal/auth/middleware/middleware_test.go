package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/anseval/anseval/internal/rbac"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	th, err := bcrypt.GenerateFromPassword([]byte("teach-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	sh, err := bcrypt.GenerateFromPassword([]byte("stud-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return NewAuthService("test-secret", string(th), string(sh))
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	a := newTestAuth(t)
	tok, err := a.IssueJWT("alice", "teacher")
	if err != nil {
		t.Fatalf("IssueJWT: %v", err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Sub != "alice" || c.Role != "teacher" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	a := newTestAuth(t)
	tok, _ := a.IssueJWT("alice", "teacher")
	other := NewAuthService("different-secret", "", "")
	if _, err := other.Parse(tok); err == nil {
		t.Fatal("token signed with another secret accepted")
	}
}

func TestLoginHandler(t *testing.T) {
	a := newTestAuth(t)
	h := LoginHandler(a)

	do := func(body map[string]string) *httptest.ResponseRecorder {
		b, _ := json.Marshal(body)
		req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader(b))
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	rec := do(map[string]string{"username": "alice", "password": "teach-pass", "role": "teacher"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp["access_token"] == "" {
		t.Fatalf("no access_token in %s", rec.Body.String())
	}

	if rec := do(map[string]string{"username": "alice", "password": "wrong", "role": "teacher"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d", rec.Code)
	}
	if rec := do(map[string]string{"username": "alice", "password": "teach-pass", "role": "admin"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown role = %d", rec.Code)
	}
	if rec := do(map[string]string{"password": "teach-pass", "role": "teacher"}); rec.Code != http.StatusUnauthorized {
		t.Fatalf("empty username = %d", rec.Code)
	}
}

func TestJWTMiddlewareAttachesContext(t *testing.T) {
	a := newTestAuth(t)
	tok, _ := a.IssueJWT("stu-1", "student")

	var gotSub, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = rbac.SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	})
	h := JWTMiddleware(a)(next)

	req := httptest.NewRequest("GET", "/api/evaluations", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotSub != "stu-1" || gotRole != "student" {
		t.Fatalf("context sub/role = %q/%q", gotSub, gotRole)
	}
}

func TestJWTMiddlewareRejects(t *testing.T) {
	a := newTestAuth(t)
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without valid token")
	}))

	req := httptest.NewRequest("GET", "/api/evaluations", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no header = %d", rec.Code)
	}

	req = httptest.NewRequest("GET", "/api/evaluations", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token = %d", rec.Code)
	}
}
