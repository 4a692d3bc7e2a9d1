package photo

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdant/service/internal/middleware"
	"github.com/verdant/service/internal/response"
)

func newTestRouter(repo *fakeRepo, store *fakeStore) http.Handler {
	h := NewHandler(newTestService(repo, store), store)
	r := chi.NewRouter()
	r.Post("/plants/{plantID}/stages", h.AddStage)
	r.Post("/plants/{plantID}/photos", h.Upload)
	r.Delete("/photos/{photoID}", h.Delete)
	return r
}

func authed(req *http.Request, userID string) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestStageUploadMissingImage(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	repo.owners["42"] = "u1"
	router := newTestRouter(repo, store)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("status", "germinated"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/plants/42/stages", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, authed(req, "u1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Missing required fields", env.Message)
	assert.NotEmpty(t, env.Error)

	assert.Empty(t, repo.stages, "no record created")
	assert.Empty(t, store.objects, "no blob uploaded")
}

func TestStageUploadHappyPath(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	repo.owners["42"] = "u1"
	router := newTestRouter(repo, store)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "sprout photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("status", "germinated"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/plants/42/stages", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, authed(req, "u1"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var env struct {
		Message string      `json:"message"`
		Data    GrowthStage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.NotEmpty(t, env.Data.ID)
	assert.Equal(t, "germinated", env.Data.Status)
	require.NotNil(t, env.Data.ObjectKey)
	// Sanitized key: the space in the filename must not survive.
	assert.NotContains(t, *env.Data.ObjectKey, " ")
	assert.Equal(t, "http://store.local/"+*env.Data.ObjectKey, env.Data.URL)
	assert.Len(t, repo.stages, 1)
}

func TestDeleteUnknownPhotoReturns404(t *testing.T) {
	repo, store := newFakeRepo(), newFakeStore()
	router := newTestRouter(repo, store)

	req := httptest.NewRequest(http.MethodDelete, "/photos/nope", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, authed(req, "u1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.deleted)
}
