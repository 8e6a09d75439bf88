package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/profilekeeper/backend/internal/middleware"
	"github.com/profilekeeper/backend/internal/models"
	"github.com/profilekeeper/backend/internal/services"
)

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) Get(ctx context.Context, key string) (models.Profile, error) {
	args := m.Called(ctx, key)
	prof, _ := args.Get(0).(models.Profile)
	return prof, args.Error(1)
}

func (m *mockProfileStore) Merge(ctx context.Context, key string, fields models.Profile) error {
	return m.Called(ctx, key, fields).Error(0)
}

func (m *mockProfileStore) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type response struct {
	Success bool                   `json:"success"`
	User    map[string]interface{} `json:"user"`
	Error   string                 `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func asUser(req *http.Request, email string) *http.Request {
	ctx := middleware.WithIdentity(req.Context(), middleware.Identity{UID: "uid-1", Email: email})
	return req.WithContext(ctx)
}

func putBody(t *testing.T, body interface{}) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func newFileBackedHandler(t *testing.T) (*ProfileHandler, *services.FileProfileStore) {
	t.Helper()
	store, err := services.NewFileProfileStore(t.TempDir(), "users")
	require.NoError(t, err)
	return NewProfileHandler(services.NewProfileService(store), 0), store
}

func TestProfileHandler_Unauthorized(t *testing.T) {
	store := &mockProfileStore{}
	handler := NewProfileHandler(services.NewProfileService(store), 0)

	t.Run("get", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/profile", nil)
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized", decode(t, w).Error)
	})

	t.Run("put", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/user/profile", putBody(t, map[string]string{"name": "Ann"}))
		w := httptest.NewRecorder()

		handler.UpdateProfile(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Unauthorized", decode(t, w).Error)
	})

	store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Merge", mock.Anything, mock.Anything, mock.Anything)
}

func TestProfileHandler_GetProfile(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		handler, _ := newFileBackedHandler(t)
		req := asUser(httptest.NewRequest(http.MethodGet, "/api/user/profile", nil), "ann@example.com")
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decode(t, w).Error)
	})

	t.Run("success returns the document as stored", func(t *testing.T) {
		handler, store := newFileBackedHandler(t)
		stored := models.Profile{"name": "Ann", "email": "ann@example.com", "image": "a.png"}
		require.NoError(t, store.Merge(context.Background(), "ann@example.com", stored))

		req := asUser(httptest.NewRequest(http.MethodGet, "/api/user/profile", nil), "ann@example.com")
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user":{"name":"Ann","email":"ann@example.com","image":"a.png"}}`, w.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		store := &mockProfileStore{}
		store.On("Get", mock.Anything, "ann@example.com").Return(nil, errors.New("deadline exceeded"))
		handler := NewProfileHandler(services.NewProfileService(store), 0)

		req := asUser(httptest.NewRequest(http.MethodGet, "/api/user/profile", nil), "ann@example.com")
		w := httptest.NewRecorder()

		handler.GetProfile(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Failed to fetch profile", decode(t, w).Error)
		store.AssertExpectations(t)
	})
}

func TestProfileHandler_UpdateProfile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    map[string]interface{}
		wantMsg string
	}{
		{"missing name", map[string]interface{}{"bio": "hi"}, "Name is required"},
		{"blank name", map[string]interface{}{"name": "   "}, "Name is required"},
		{"name 51", map[string]interface{}{"name": strings.Repeat("n", 51)}, "Name must be 50 characters or less"},
		{"bio 201", map[string]interface{}{"name": "Ann", "bio": strings.Repeat("b", 201)}, "Bio must be 200 characters or less"},
		{"location 51", map[string]interface{}{"name": "Ann", "location": strings.Repeat("l", 51)}, "Location must be 50 characters or less"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockProfileStore{}
			handler := NewProfileHandler(services.NewProfileService(store), 0)

			req := asUser(httptest.NewRequest(http.MethodPut, "/api/user/profile", putBody(t, tt.body)), "ann@example.com")
			w := httptest.NewRecorder()

			handler.UpdateProfile(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, decode(t, w).Error)
			store.AssertNotCalled(t, "Merge", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestProfileHandler_UpdateProfile_InvalidBody(t *testing.T) {
	handler, _ := newFileBackedHandler(t)

	for _, body := range []string{"", "{not json", `{"name": 42}`} {
		req := asUser(httptest.NewRequest(http.MethodPut, "/api/user/profile", strings.NewReader(body)), "ann@example.com")
		w := httptest.NewRecorder()

		handler.UpdateProfile(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
		assert.Equal(t, "Invalid request body", decode(t, w).Error, body)
	}
}

func TestProfileHandler_UpdateProfile_BoundaryLengthsAccepted(t *testing.T) {
	handler, _ := newFileBackedHandler(t)
	body := map[string]string{
		"name":     strings.Repeat("n", 50),
		"bio":      strings.Repeat("b", 200),
		"location": strings.Repeat("l", 50),
	}

	req := asUser(httptest.NewRequest(http.MethodPut, "/api/user/profile", putBody(t, body)), "ann@example.com")
	w := httptest.NewRecorder()

	handler.UpdateProfile(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Equal(t, body["name"], resp.User["name"])
	assert.Equal(t, body["bio"], resp.User["bio"])
}

func TestProfileHandler_UpdateProfile_OmittedFieldsStoredEmpty(t *testing.T) {
	handler, store := newFileBackedHandler(t)
	require.NoError(t, store.Merge(context.Background(), "ann@example.com", models.Profile{"bio": "old", "location": "Oslo"}))

	req := asUser(httptest.NewRequest(http.MethodPut, "/api/user/profile", putBody(t, map[string]string{"name": "Ann"})), "ann@example.com")
	w := httptest.NewRecorder()

	handler.UpdateProfile(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	stored, err := store.Get(context.Background(), "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "", stored["bio"])
	assert.Equal(t, "", stored["location"])
}

func TestProfileHandler_UpdateProfile_StoreFailure(t *testing.T) {
	store := &mockProfileStore{}
	store.On("Merge", mock.Anything, "ann@example.com", mock.Anything).Return(errors.New("unavailable"))
	handler := NewProfileHandler(services.NewProfileService(store), 0)

	req := asUser(httptest.NewRequest(http.MethodPut, "/api/user/profile", putBody(t, map[string]string{"name": "Ann"})), "ann@example.com")
	w := httptest.NewRecorder()

	handler.UpdateProfile(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to update profile", decode(t, w).Error)
}

func TestProfileHandler_UpdateProfile_WritesOnlyOwnDocument(t *testing.T) {
	store := &mockProfileStore{}
	store.On("Merge", mock.Anything, "ann@example.com", mock.MatchedBy(func(fields models.Profile) bool {
		return fields["name"] == "Ann" && fields["bio"] == "hi" && fields["location"] == "NYC" && fields["updatedAt"] != ""
	})).Return(nil)
	store.On("Get", mock.Anything, "ann@example.com").Return(models.Profile{"name": "Ann", "bio": "hi", "location": "NYC"}, nil)
	handler := NewProfileHandler(services.NewProfileService(store), 0)

	body := map[string]string{"name": " Ann ", "bio": "hi ", "location": " NYC"}
	req := asUser(httptest.NewRequest(http.MethodPut, "/api/user/profile", putBody(t, body)), "ann@example.com")
	w := httptest.NewRecorder()

	handler.UpdateProfile(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}
