package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/deliverymx/user-service/internal/application"
	"github.com/deliverymx/user-service/internal/domain/entity"
	"github.com/deliverymx/user-service/pkg/validation"
)

type stubRepo struct {
	users map[string]entity.User
}

func newStubRepo() *stubRepo { return &stubRepo{users: map[string]entity.User{}} }

func (s *stubRepo) Save(ctx context.Context, u entity.User) (entity.User, error) {
	s.users[u.ID()] = u
	return u, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (entity.User, error) {
	// Case-insensitive like the storage query.
	var inactive entity.User
	for _, u := range s.users {
		if !strings.EqualFold(u.Contact().Email(), email) {
			continue
		}
		if u.IsActive() {
			return u, nil
		}
		inactive = u
	}
	return inactive, nil
}

func (s *stubRepo) FindAll(ctx context.Context) ([]entity.User, error) {
	out := make([]entity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	svc := userapp.NewService(newStubRepo(), nil, logger, nil, "", nil, "", nil, nil)
	h := NewUserHandler(svc, logger)

	r := gin.New()
	users := r.Group("/api/users")
	{
		users.POST("", h.Create)
		users.GET("", h.GetByEmail)
		users.GET("/all", h.List)
		users.GET("/:id", h.GetByID)
		users.DELETE("/:id", h.Delete)
		users.POST("/:id/addresses", h.AddAddress)
		users.DELETE("/:id/addresses", h.RemoveAddress)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func createPayload() map[string]any {
	return map[string]any{
		"name":      "Maria",
		"last_name": "Lopez",
		"contact":   map[string]any{"email": "maria@example.com", "phone": "+525512345678"},
		"password":  "Str0ng!pass",
		"role":      "customer",
	}
}

func createdUserID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.ID)
	return envelope.Data.ID
}

func TestCreateUserEndpoint(t *testing.T) {
	t.Run("creates and returns 201", func(t *testing.T) {
		r := newTestRouter(t)
		rec := doJSON(t, r, http.MethodPost, "/api/users", createPayload())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"role":"customer"`)
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("missing fields get 400 with details", func(t *testing.T) {
		r := newTestRouter(t)
		payload := createPayload()
		delete(payload, "password")
		rec := doJSON(t, r, http.MethodPost, "/api/users", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "password")
	})

	t.Run("weak password is rejected at binding", func(t *testing.T) {
		r := newTestRouter(t)
		payload := createPayload()
		payload["password"] = "weakpass"
		rec := doJSON(t, r, http.MethodPost, "/api/users", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("any symbol satisfies the password rule", func(t *testing.T) {
		r := newTestRouter(t)
		payload := createPayload()
		payload["password"] = "Passw0rd_"
		rec := doJSON(t, r, http.MethodPost, "/api/users", payload)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("symbol-less password is rejected by the domain", func(t *testing.T) {
		r := newTestRouter(t)
		payload := createPayload()
		payload["password"] = "Passw0rd1"
		rec := doJSON(t, r, http.MethodPost, "/api/users", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "password")
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		r := newTestRouter(t)
		payload := createPayload()
		payload["role"] = "admin"
		rec := doJSON(t, r, http.MethodPost, "/api/users", payload)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate active email gets 409", func(t *testing.T) {
		r := newTestRouter(t)
		first := doJSON(t, r, http.MethodPost, "/api/users", createPayload())
		require.Equal(t, http.StatusCreated, first.Code)

		second := doJSON(t, r, http.MethodPost, "/api/users", createPayload())
		assert.Equal(t, http.StatusConflict, second.Code)
	})
}

func TestGetUserEndpoints(t *testing.T) {
	r := newTestRouter(t)
	created := doJSON(t, r, http.MethodPost, "/api/users", createPayload())
	require.Equal(t, http.StatusCreated, created.Code)
	id := createdUserID(t, created)

	t.Run("by id", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/users/"+id, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("by id not found", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/users/nope", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("by email", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/users?email=maria@example.com", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("by malformed email", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/users?email=not-an-email", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, r, http.MethodGet, "/api/users/all", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	r := newTestRouter(t)
	created := doJSON(t, r, http.MethodPost, "/api/users", createPayload())
	require.Equal(t, http.StatusCreated, created.Code)
	id := createdUserID(t, created)

	rec := doJSON(t, r, http.MethodDelete, "/api/users/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// A deactivated account reads as gone.
	rec = doJSON(t, r, http.MethodGet, "/api/users/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Deleting again is a conflict, not idempotent success.
	rec = doJSON(t, r, http.MethodDelete, "/api/users/"+id, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddressEndpoints(t *testing.T) {
	r := newTestRouter(t)
	created := doJSON(t, r, http.MethodPost, "/api/users", createPayload())
	require.Equal(t, http.StatusCreated, created.Code)
	id := createdUserID(t, created)

	addr := map[string]any{
		"street":       "Av. Reforma",
		"number":       "100",
		"neighborhood": "Juárez",
		"city":         "Ciudad de México",
		"state":        "CDMX",
		"zip_code":     "06600",
		"country":      "México",
	}

	rec := doJSON(t, r, http.MethodPost, "/api/users/"+id+"/addresses", addr)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Same door again is a conflict.
	rec = doJSON(t, r, http.MethodPost, "/api/users/"+id+"/addresses", addr)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/api/users/"+id+"/addresses", addr)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Removing an address that is no longer there is a 404.
	rec = doJSON(t, r, http.MethodDelete, "/api/users/"+id+"/addresses", addr)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Incomplete address payloads never reach the service.
	bad := map[string]any{"street": "Av. Reforma"}
	rec = doJSON(t, r, http.MethodPost, "/api/users/"+id+"/addresses", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
