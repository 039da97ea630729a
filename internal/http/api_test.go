package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundflow/internal/auth"
	"fundflow/internal/repository/sqldb"
	"fundflow/internal/service"
	"fundflow/internal/storage"
)

type fakeStorage struct {
	fail bool
}

func (s *fakeStorage) UploadImage(ctx context.Context, file storage.File) (string, error) {
	if s.fail {
		return "", fmt.Errorf("upload failed")
	}
	return "https://bucket.s3.us-east-1.amazonaws.com/" + file.Name, nil
}

func newTestRouter(t *testing.T, store storage.Service) *gin.Engine {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := sqldb.Open(context.Background(), sqldb.Config{
		Driver: sqldb.DriverSQLite,
		Path:   ":memory:",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := sqldb.NewUserRepository(db)
	campaignRepo := sqldb.NewCampaignRepository(db)
	require.NoError(t, userRepo.Init(context.Background()))
	require.NoError(t, campaignRepo.Init(context.Background()))

	sessions := auth.NewSessions("test-secret", time.Hour)
	handler := NewHandler(
		service.NewAuthService(userRepo),
		service.NewCampaignService(campaignRepo),
		sessions,
		store,
		db,
		"pk_test_123",
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.RegisterRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func signupAnn(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	rec := doJSON(router, http.MethodPost, "/api/auth/signup",
		`{"name":"Ann","email":"ann@x.com","password":"password1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func TestSignupLoginFlow(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})

	rec := doJSON(router, http.MethodPost, "/api/auth/signup",
		`{"name":"Ann","email":"ann@x.com","password":"password1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ann@x.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
	assert.NotEmpty(t, body["token"])
	sessionCookie(t, rec)

	rec = doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"ann@x.com","password":"wrongpass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"ann@x.com","password":"password1"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLoginFailureShapeDoesNotLeak(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})
	signupAnn(t, router)

	unknown := doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"nobody@x.com","password":"password1"}`)
	wrong := doJSON(router, http.MethodPost, "/api/auth/login",
		`{"email":"ann@x.com","password":"wrongpass"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestSignupDuplicateEmail(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})
	signupAnn(t, router)

	rec := doJSON(router, http.MethodPost, "/api/auth/signup",
		`{"name":"Other Ann","email":"ann@x.com","password":"password2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSessionRestoreAndLogout(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})
	cookie := signupAnn(t, router)

	rec := doJSON(router, http.MethodGet, "/api/auth/session", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ann@x.com", user["email"])

	rec = doJSON(router, http.MethodPost, "/api/auth/logout", "", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cleared := sessionCookie(t, rec)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// cold start without a stored session record is anonymous
	rec = doJSON(router, http.MethodGet, "/api/auth/session", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCampaignCreateAndDashboard(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})
	cookie := signupAnn(t, router)

	payload := `{
		"title": "Fix roof",
		"description": "The roof needs fixing before winter.",
		"goal_amount": 500.00,
		"category": "Community",
		"image_url": "https://img.example/roof.jpg",
		"campaign_deadline": "2026-12-31"
	}`
	rec := doJSON(router, http.MethodPost, "/api/campaigns", payload, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decodeBody(t, rec)
	assert.Equal(t, "0.00", created["current_amount"])
	assert.Equal(t, "500.00", created["goal_amount"])
	assert.Equal(t, "2026-12-31", created["campaign_deadline"])

	rec = doJSON(router, http.MethodGet, "/api/campaigns", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dashboard := decodeBody(t, rec)
	campaigns := dashboard["campaigns"].([]any)
	require.Len(t, campaigns, 1)
	assert.Equal(t, "Fix roof", campaigns[0].(map[string]any)["title"])
	assert.Equal(t, "0.00", dashboard["total_raised"])
}

func TestCampaignRequiresSession(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})

	rec := doJSON(router, http.MethodPost, "/api/campaigns", `{"title":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(router, http.MethodGet, "/api/campaigns", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCampaignBadDeadline(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})
	cookie := signupAnn(t, router)

	payload := `{
		"title": "Fix roof",
		"description": "desc",
		"goal_amount": 500,
		"category": "Community",
		"campaign_deadline": "31/12/2026"
	}`
	rec := doJSON(router, http.MethodPost, "/api/campaigns", payload, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func uploadRequest(t *testing.T, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if withFile {
		part, err := writer.CreateFormFile("file", "pic.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/uploads", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, true))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["imageUrl"], "pic.jpg")
}

func TestUploadImageMissingFile(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, false))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no file uploaded", decodeBody(t, rec)["error"])
}

func TestUploadImageFailure(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{fail: true})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, true))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUploadImageStorageNotConfigured(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, true))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "storage service not configured", decodeBody(t, rec)["error"])
}

func TestDatabaseProbe(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})

	rec := doJSON(router, http.MethodGet, "/api/health/db", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Database connected successfully", body["message"])
}

func TestPaymentConfig(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})

	rec := doJSON(router, http.MethodGet, "/api/payments/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pk_test_123", decodeBody(t, rec)["publishableKey"])
}

func TestCategoriesEndpoint(t *testing.T) {
	router := newTestRouter(t, &fakeStorage{})

	rec := doJSON(router, http.MethodGet, "/api/campaigns/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decodeBody(t, rec)["categories"].([]any)
	assert.Contains(t, categories, "Community")
}
