package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"filevault-backend/internal/config"
	"filevault-backend/internal/queue"
	"filevault-backend/internal/repo"
	"filevault-backend/internal/service"
	"filevault-backend/internal/storage"
	"filevault-backend/internal/tokens"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metadata := repo.NewMemoryStore()
	credentials := tokens.NewMemoryStore()
	blobs := storage.NewLocalBackend(&config.StorageConfig{FolderPath: t.TempDir()})
	jobs := queue.NewMemoryEnqueuer()

	users := metadata.Users()
	files := metadata.Files()

	manager := tokens.NewManager(credentials, users, 24*time.Hour)
	userService := service.NewUsers(users, jobs, logger)
	fileService := service.NewFiles(files, blobs, jobs, logger)

	return NewRouter(
		NewAppHandler(credentials, metadata, users, files, logger),
		NewUserHandler(userService, logger),
		NewAuthHandler(manager, logger),
		NewFileHandler(fileService, manager, logger),
		manager,
		logger,
	)
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("X-Token", token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return out
}

func registerAndConnect(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/users", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /users = %d: %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.SetBasicAuth(email, password)
	connRec := httptest.NewRecorder()
	router.ServeHTTP(connRec, req)
	if connRec.Code != http.StatusOK {
		t.Fatalf("GET /connect = %d: %s", connRec.Code, connRec.Body.String())
	}

	token, _ := decodeBody(t, connRec)["token"].(string)
	if token == "" {
		t.Fatal("connect returned no token")
	}
	return token
}

func TestStatusAndStats(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/status", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /status = %d", rec.Code)
	}
	status := decodeBody(t, rec)
	if status["redis"] != true || status["db"] != true {
		t.Errorf("status = %v, want both true", status)
	}

	registerAndConnect(t, router, "bob@dylan.com", "toto1234!")

	rec = doJSON(t, router, http.MethodGet, "/stats", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /stats = %d", rec.Code)
	}
	stats := decodeBody(t, rec)
	if stats["users"] != float64(1) || stats["files"] != float64(0) {
		t.Errorf("stats = %v, want 1 user and 0 files", stats)
	}
}

func TestRegisterValidationAndDuplicate(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/users", "", map[string]string{"password": "pw"})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Missing email" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/users", "", map[string]string{"email": "bob@dylan.com"})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Missing password" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/users", "", map[string]string{"email": "bob@dylan.com", "password": "pw"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["email"] != "bob@dylan.com" || body["id"] == "" {
		t.Errorf("body = %v", body)
	}

	rec = doJSON(t, router, http.MethodPost, "/users", "", map[string]string{"email": "bob@dylan.com", "password": "pw"})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Already exist" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestConnectRejectsBadCredentials(t *testing.T) {
	router := newTestRouter(t)
	registerAndConnect(t, router, "bob@dylan.com", "toto1234!")

	req := httptest.NewRequest(http.MethodGet, "/connect", nil)
	req.SetBasicAuth("bob@dylan.com", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || decodeBody(t, rec)["error"] != "Unauthorized" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	// no Authorization header at all
	rec2 := doJSON(t, router, http.MethodGet, "/connect", "", nil)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("got %d", rec2.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndConnect(t, router, "bob@dylan.com", "toto1234!")

	rec := doJSON(t, router, http.MethodGet, "/users/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /users/me = %d", rec.Code)
	}
	if decodeBody(t, rec)["email"] != "bob@dylan.com" {
		t.Errorf("me = %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/disconnect", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("GET /disconnect = %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/users/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("me after disconnect = %d, want 401", rec.Code)
	}
}

// 401 must fire before any body validation.
func TestUnauthorizedPrecedesValidation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/files", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("POST /files without token = %d, want 401", rec.Code)
	}
	if decodeBody(t, rec)["error"] != "Unauthorized" {
		t.Errorf("body = %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/files", "bogus-token", map[string]string{})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("POST /files with bogus token = %d, want 401", rec.Code)
	}
}

func TestUploadValidationAndResponse(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndConnect(t, router, "bob@dylan.com", "toto1234!")

	rec := doJSON(t, router, http.MethodPost, "/files", token, map[string]any{"type": "file", "data": "aGVsbG8="})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Missing name" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/files", token, map[string]any{"name": "doc"})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Missing type" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/files", token, map[string]any{"name": "doc", "type": "file"})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Missing data" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/files", token, map[string]any{
		"name": "hello.txt", "type": "file",
		"data": base64.StdEncoding.EncodeToString([]byte("hello")),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "localPath") {
		t.Errorf("response leaks localPath: %s", rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["parentId"] != "0" || body["isPublic"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	router := newTestRouter(t)
	tokenA := registerAndConnect(t, router, "a@users.com", "pw-a")
	tokenB := registerAndConnect(t, router, "b@users.com", "pw-b")

	rec := doJSON(t, router, http.MethodPost, "/files", tokenB, map[string]any{
		"name": "shared.txt", "type": "file", "isPublic": true,
		"data": base64.StdEncoding.EncodeToString([]byte("public content")),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload = %d %s", rec.Code, rec.Body.String())
	}
	fileID := decodeBody(t, rec)["id"].(string)

	// A cannot see B's metadata even though the file is public
	rec = doJSON(t, router, http.MethodGet, "/files/"+fileID, tokenA, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("cross-owner GET = %d, want 404", rec.Code)
	}

	// but anyone can fetch public content
	rec = doJSON(t, router, http.MethodGet, "/files/"+fileID+"/data", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "public content" {
		t.Fatalf("public data = %d %q", rec.Code, rec.Body.String())
	}
}

func TestPublishIdempotent(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndConnect(t, router, "bob@dylan.com", "toto1234!")

	rec := doJSON(t, router, http.MethodPost, "/files", token, map[string]any{"name": "images", "type": "folder"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload = %d", rec.Code)
	}
	fileID := decodeBody(t, rec)["id"].(string)

	for i := 0; i < 2; i++ {
		rec = doJSON(t, router, http.MethodPut, "/files/"+fileID+"/publish", token, nil)
		if rec.Code != http.StatusOK || decodeBody(t, rec)["isPublic"] != true {
			t.Fatalf("publish #%d = %d %s", i+1, rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, router, http.MethodPut, "/files/"+fileID+"/unpublish", token, nil)
	if rec.Code != http.StatusOK || decodeBody(t, rec)["isPublic"] != false {
		t.Fatalf("unpublish = %d %s", rec.Code, rec.Body.String())
	}
}

func TestPrivateDataRequiresOwner(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndConnect(t, router, "bob@dylan.com", "toto1234!")

	rec := doJSON(t, router, http.MethodPost, "/files", token, map[string]any{
		"name": "secret.txt", "type": "file",
		"data": base64.StdEncoding.EncodeToString([]byte("secret")),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload = %d", rec.Code)
	}
	fileID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodGet, "/files/"+fileID+"/data", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("anonymous data = %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/files/"+fileID+"/data", token, nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "secret" {
		t.Fatalf("owner data = %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
}

func TestListWithParentFilter(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndConnect(t, router, "bob@dylan.com", "toto1234!")

	rec := doJSON(t, router, http.MethodPost, "/files", token, map[string]any{"name": "images", "type": "folder"})
	folderID := decodeBody(t, rec)["id"].(string)

	doJSON(t, router, http.MethodPost, "/files", token, map[string]any{
		"name": "in-folder.txt", "type": "file", "parentId": folderID,
		"data": base64.StdEncoding.EncodeToString([]byte("x")),
	})
	doJSON(t, router, http.MethodPost, "/files", token, map[string]any{
		"name": "at-root.txt", "type": "file",
		"data": base64.StdEncoding.EncodeToString([]byte("y")),
	})

	rec = doJSON(t, router, http.MethodGet, "/files", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	var all []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("list all = %d entries, want 3", len(all))
	}

	rec = doJSON(t, router, http.MethodGet, "/files?parentId="+folderID, token, nil)
	var scoped []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &scoped); err != nil {
		t.Fatal(err)
	}
	if len(scoped) != 1 || scoped[0]["name"] != "in-folder.txt" {
		t.Fatalf("scoped list = %v", scoped)
	}

	// out-of-range page is an empty array, not an error
	rec = doJSON(t, router, http.MethodGet, "/files?page=5", token, nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("page 5 = %d %q", rec.Code, rec.Body.String())
	}
}

func TestParentValidation(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndConnect(t, router, "bob@dylan.com", "toto1234!")

	rec := doJSON(t, router, http.MethodPost, "/files", token, map[string]any{
		"name": "doc", "type": "file", "parentId": "507f191e810c19729de860ea",
		"data": "aGVsbG8=",
	})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Parent not found" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/files", token, map[string]any{
		"name": "plain.txt", "type": "file", "data": "aGVsbG8=",
	})
	plainID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, router, http.MethodPost, "/files", token, map[string]any{
		"name": "child", "type": "file", "parentId": plainID, "data": "aGVsbG8=",
	})
	if rec.Code != http.StatusBadRequest || decodeBody(t, rec)["error"] != "Parent is not a folder" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}
