package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Casglez3/login-register-backend/internal/config"
	"github.com/Casglez3/login-register-backend/internal/models"
	"github.com/Casglez3/login-register-backend/internal/repository"
)

// memoryRepo is an in-memory account directory with the same uniqueness
// semantics as the postgres implementation.
type memoryRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*models.User)}
}

func (r *memoryRepo) Create(_ context.Context, userName, passwordHash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserName == userName {
			return nil, repository.ErrDuplicateUser
		}
	}
	r.nextID++
	user := &models.User{
		ID:           fmt.Sprintf("user-%d", r.nextID),
		UserName:     userName,
		PasswordHash: passwordHash,
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memoryRepo) GetByUsername(_ context.Context, userName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserName == userName {
			stripped := *u
			stripped.PasswordHash = ""
			return &stripped, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryRepo) GetByUsernameWithPassword(_ context.Context, userName string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UserName == userName {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	stripped := *u
	stripped.PasswordHash = ""
	return &stripped, nil
}

func (r *memoryRepo) Update(_ context.Context, id string, upd models.AccountUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	if upd.UserName != nil {
		u.UserName = *upd.UserName
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func newTestServer(t *testing.T) (http.Handler, *memoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Server.AllowedOrigin = "http://localhost:4200"
	cfg.Token.Secret = "test-secret"

	repo := newMemoryRepo()
	srv := NewServer(repo, cfg, zap.NewNop())
	return srv.Handler(), repo
}

func doJSON(handler http.Handler, method, path, body, bearer string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, handler http.Handler, userName, password string) map[string]any {
	t.Helper()
	w := doJSON(handler, http.MethodPost, "/api/auth/register",
		fmt.Sprintf(`{"userName":%q,"password":%q}`, userName, password), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func login(t *testing.T, handler http.Handler, userName, password string) (string, string) {
	t.Helper()
	w := doJSON(handler, http.MethodPost, "/api/auth/login",
		fmt.Sprintf(`{"userName":%q,"password":%q}`, userName, password), "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["token"].(string), body["id"].(string)
}

func TestHealthProbe(t *testing.T) {
	handler, _ := newTestServer(t)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Server running!", w.Body.String())
}

func TestRegisterUser(t *testing.T) {
	handler, _ := newTestServer(t)

	body := register(t, handler, "testUser", "Prueba123!")
	assert.Equal(t, "testUser", body["userName"])
	assert.NotEmpty(t, body["id"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	handler, _ := newTestServer(t)
	register(t, handler, "testUser", "Prueba123!")

	w := doJSON(handler, http.MethodPost, "/api/auth/register",
		`{"userName":"testUser","password":"Prueba123!"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"The user name already exists"}`, w.Body.String())
}

func TestRegisterWeakPassword(t *testing.T) {
	handler, _ := newTestServer(t)

	w := doJSON(handler, http.MethodPost, "/api/auth/register",
		`{"userName":"testUser","password":"123456"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "The password must contain at least 8 characters")
}

func TestRegisterMissingFields(t *testing.T) {
	handler, _ := newTestServer(t)

	w := doJSON(handler, http.MethodPost, "/api/auth/register", `{"userName":"testUser"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFlow(t *testing.T) {
	handler, _ := newTestServer(t)
	register(t, handler, "loginUser", "Prueba123!")

	w := doJSON(handler, http.MethodPost, "/api/auth/login",
		`{"userName":"loginUser","password":"Prueba123!"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Successful login", body["message"])
	assert.Equal(t, "loginUser", body["userName"])
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["id"])
}

func TestLoginWrongPassword(t *testing.T) {
	handler, _ := newTestServer(t)
	register(t, handler, "loginUser", "Prueba123!")

	w := doJSON(handler, http.MethodPost, "/api/auth/login",
		`{"userName":"loginUser","password":"Prueba124!"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Incorrect password"}`, w.Body.String())
}

func TestLoginUnknownUser(t *testing.T) {
	handler, _ := newTestServer(t)

	w := doJSON(handler, http.MethodPost, "/api/auth/login",
		`{"userName":"nobody","password":"Prueba123!"}`, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"User not found"}`, w.Body.String())
}

func TestProtectedRoutesRequireAToken(t *testing.T) {
	handler, _ := newTestServer(t)

	w := doJSON(handler, http.MethodGet, "/api/users/user-1", "", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"message":"Token not provided"}`, w.Body.String())

	w = doJSON(handler, http.MethodGet, "/api/users/user-1", "", "not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid or expired token"}`, w.Body.String())
}

func TestAccountMaintenanceFlow(t *testing.T) {
	handler, repo := newTestServer(t)
	register(t, handler, "testUser", "Prueba123!")
	token, id := login(t, handler, "testUser", "Prueba123!")

	// Lookup by id and by name.
	w := doJSON(handler, http.MethodGet, "/api/users/"+id, "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userName":"testUser"`)

	w = doJSON(handler, http.MethodGet, "/api/users/user/testUser", "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"`+id+`"`)

	// A weak replacement password is rejected before any mutation.
	originalHash := repo.users[id].PasswordHash
	w = doJSON(handler, http.MethodPut, "/api/users/"+id,
		`{"userName":"testUserUpdated","password":"123456"}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "testUser", repo.users[id].UserName)
	assert.Equal(t, originalHash, repo.users[id].PasswordHash)

	// A valid partial update goes through.
	w = doJSON(handler, http.MethodPut, "/api/users/"+id,
		`{"userName":"testUserUpdated","password":"Prueba1234!"}`, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User updated successfully"}`, w.Body.String())
	assert.Equal(t, "testUserUpdated", repo.users[id].UserName)
	assert.NotEqual(t, originalHash, repo.users[id].PasswordHash)

	// Delete, then a lookup renders null.
	w = doJSON(handler, http.MethodDelete, "/api/users/"+id, "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, w.Body.String())

	w = doJSON(handler, http.MethodGet, "/api/users/"+id, "", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	handler, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
