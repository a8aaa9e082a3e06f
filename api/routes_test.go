package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/openhire/jobboard/api"
	migrations "github.com/openhire/jobboard/db"
	"github.com/openhire/jobboard/internal/config"
	dbpkg "github.com/openhire/jobboard/internal/db"
	"github.com/openhire/jobboard/internal/repository/sqlite"
	"github.com/openhire/jobboard/internal/upload"
	"github.com/openhire/jobboard/internal/validate"
	"github.com/openhire/jobboard/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	router *mux.Router
}

func (s *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	} else if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w.Result()
}

func (s *testServer) doJSON(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	return s.do(t, method, path, token, body, "")
}

func decodeBody(t *testing.T, res *http.Response, v any) {
	t.Helper()
	defer res.Body.Close()
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func setupServer(t *testing.T) (*testServer, *sqlite.SQLiteRepo) {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	database, err := dbpkg.New(ctx, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := dbpkg.Migrate(ctx, database, migrations.Migrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := upload.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("upload store: %v", err)
	}
	validator, err := validate.New()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	cfg := &config.Config{
		Addr:           ":0",
		JWTSecret:      "e2e-secret",
		APITimeout:     5 * time.Second,
		TokenDuration:  time.Hour,
		MaxUploadBytes: 5 << 20,
		Production:     true,
	}

	return &testServer{router: api.SetupRoutes(cfg, "test", "now", database, store, validator)}, sqlite.New(database)
}

func seedAdmin(t *testing.T, repo *sqlite.SQLiteRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Adm1nPass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := repo.CreateUser(context.Background(), &models.User{
		Username:     "boss",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func loginToken(t *testing.T, s *testServer, username, password string) string {
	t.Helper()
	res := s.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", username, res.StatusCode)
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, res, &resp)
	return resp.Token
}

func TestEndToEndScenario(t *testing.T) {
	s, repo := setupServer(t)
	seedAdmin(t, repo)

	// register alice, token comes back immediately
	res := s.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "password": "Passw0rd1",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", res.StatusCode)
	}
	var reg struct {
		Token string `json:"token"`
		User  struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, res, &reg)
	if reg.Token == "" || reg.User.Role != models.RoleUser {
		t.Fatalf("unexpected register response: %+v", reg)
	}

	aliceToken := loginToken(t, s, "alice", "Passw0rd1")
	adminToken := loginToken(t, s, "boss", "Adm1nPass")

	// job creation is admin-only
	jobPayload := validJobBody()
	if res := s.doJSON(t, http.MethodPost, "/api/jobs", "", jobPayload); res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create: status %d", res.StatusCode)
	}
	if res := s.doJSON(t, http.MethodPost, "/api/jobs", aliceToken, jobPayload); res.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin create: status %d", res.StatusCode)
	}

	res = s.doJSON(t, http.MethodPost, "/api/jobs", adminToken, jobPayload)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("admin create: status %d", res.StatusCode)
	}
	var created map[string]int64
	decodeBody(t, res, &created)
	jobID := created["id"]
	if jobID != 1 {
		t.Fatalf("expected job id 1, got %d", jobID)
	}

	// the new job is publicly visible
	res = s.do(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d", jobID), "", nil, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("public get: status %d", res.StatusCode)
	}
	res.Body.Close()

	// alice applies with a PDF
	body, ct := multipartBody(t, "I am very interested in this position.", "alice-cv.pdf", []byte("%PDF-1.4"))
	res = s.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), aliceToken, body, ct)
	if res.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(res.Body)
		t.Fatalf("apply: status %d body=%s", res.StatusCode, string(data))
	}
	var applied struct {
		ApplicationID int64 `json:"applicationId"`
	}
	decodeBody(t, res, &applied)

	// applying twice is rejected
	body, ct = multipartBody(t, "Second attempt.", "alice-cv.pdf", []byte("%PDF-1.4"))
	res = s.do(t, http.MethodPost, fmt.Sprintf("/api/jobs/%d/apply", jobID), aliceToken, body, ct)
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate apply: status %d", res.StatusCode)
	}
	res.Body.Close()

	// admin sees exactly one pending application
	res = s.do(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d/applications", jobID), adminToken, nil, "")
	var apps []models.Application
	decodeBody(t, res, &apps)
	if len(apps) != 1 || apps[0].Username != "alice" || apps[0].Status != models.StatusPending {
		t.Fatalf("unexpected applications: %+v", apps)
	}

	// status moves to accepted
	res = s.doJSON(t, http.MethodPut, fmt.Sprintf("/api/jobs/applications/%d", applied.ApplicationID), adminToken, map[string]string{"status": models.StatusAccepted})
	if res.StatusCode != http.StatusOK {
		t.Fatalf("update status: status %d", res.StatusCode)
	}
	res.Body.Close()

	res = s.do(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d/applications", jobID), adminToken, nil, "")
	decodeBody(t, res, &apps)
	if apps[0].Status != models.StatusAccepted {
		t.Fatalf("expected accepted, got %q", apps[0].Status)
	}

	// alice sees her own application, joined with the job
	res = s.do(t, http.MethodGet, "/api/jobs/user/applications", aliceToken, nil, "")
	decodeBody(t, res, &apps)
	if len(apps) != 1 || apps[0].JobTitle != jobPayload["title"] {
		t.Fatalf("unexpected own applications: %+v", apps)
	}

	// the stored CV is served statically
	res = s.do(t, http.MethodGet, apps[0].CVURL, "", nil, "")
	if res.StatusCode != http.StatusOK {
		t.Fatalf("cv download: status %d", res.StatusCode)
	}
	res.Body.Close()

	// archive hides the job from the public but not from the admin
	res = s.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/jobs/%d", jobID), adminToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("archive: status %d", res.StatusCode)
	}
	res.Body.Close()

	res = s.do(t, http.MethodGet, fmt.Sprintf("/api/jobs/%d", jobID), "", nil, "")
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("archived get: status %d", res.StatusCode)
	}
	res.Body.Close()

	res = s.do(t, http.MethodGet, "/api/jobs/admin/all", adminToken, nil, "")
	var all []models.Job
	decodeBody(t, res, &all)
	if len(all) != 1 || !all[0].IsArchived {
		t.Fatalf("admin view must keep archived job: %+v", all)
	}

	// promote alice, then promoting her again reports not-found-or-admin
	res = s.doJSON(t, http.MethodPut, "/api/users/2/promote", adminToken, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("promote: status %d", res.StatusCode)
	}
	res.Body.Close()

	res = s.doJSON(t, http.MethodPut, "/api/users/2/promote", adminToken, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("re-promote: status %d", res.StatusCode)
	}
	res.Body.Close()
}

func TestAdminRoutesRejectUsers(t *testing.T) {
	s, repo := setupServer(t)
	seedAdmin(t, repo)

	res := s.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "mallory", "password": "Passw0rd1",
	})
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", res.StatusCode)
	}
	res.Body.Close()
	token := loginToken(t, s, "mallory", "Passw0rd1")

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/jobs/admin/all"},
		{http.MethodGet, "/api/jobs/admin/all-applications"},
		{http.MethodGet, "/api/jobs/1/applications"},
		{http.MethodPut, "/api/jobs/applications/1"},
		{http.MethodGet, "/api/users"},
		{http.MethodPut, "/api/users/1/promote"},
	}

	for _, p := range paths {
		res := s.doJSON(t, p.method, p.path, token, map[string]string{})
		if res.StatusCode != http.StatusForbidden {
			t.Fatalf("%s %s: expected 403, got %d", p.method, p.path, res.StatusCode)
		}
		res.Body.Close()
	}
}
