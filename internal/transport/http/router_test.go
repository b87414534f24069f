package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krishiconnect/internal/handler"
	"krishiconnect/internal/httputil"
	"krishiconnect/internal/model"
	"krishiconnect/internal/repository"
	"krishiconnect/internal/service"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store := repository.NewContentStore(nil)
	registry := repository.NewReportRegistry(nil)

	engagement := service.NewEngagementService(store)
	moderation := service.NewModerationService(registry, store, nil)
	return NewRouter(RouterConfig{
		PostHandler:    handler.NewPostHandler(service.NewPostService(store, nil), engagement),
		CommentHandler: handler.NewCommentHandler(service.NewCommentService(store), engagement),
		FeedHandler:    handler.NewFeedHandler(service.NewFeedService(nil, store)),
		ReportHandler:  handler.NewReportHandler(service.NewReportService(registry, store, nil), moderation),
		MediaHandler:   handler.NewMediaHandler(nil),
		JWTSecret:      testSecret,
	})
}

func token(t *testing.T, sub, role string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      sub,
		"name":     sub + " name",
		"role":     role,
		"location": "Pune",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func do(t *testing.T, h http.Handler, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	h := newTestRouter(t)
	farmerTok := token(t, "u-farmer", model.RoleFarmer)
	expertTok := token(t, "u-expert", model.RoleExpert)

	rec := do(t, h, http.MethodPost, "/posts", "", map[string]string{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/posts", farmerTok, map[string]interface{}{
		"content": "Which variety for black soil?",
		"type":    "question",
		"tags":    []string{"soil"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[model.Post](t, rec)
	assert.Equal(t, "u-farmer", post.Author.ID)
	assert.Equal(t, "Pune", post.Author.Location)
	assert.True(t, post.IsOwnPost)

	rec = do(t, h, http.MethodPost, "/posts/1/like", expertTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[model.Post](t, rec).Liked)

	rec = do(t, h, http.MethodGet, "/posts?kind=question", expertTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	posts := decode[[]model.Post](t, rec)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Liked)
	assert.False(t, posts[0].IsOwnPost)

	rec = do(t, h, http.MethodPost, "/posts/1/comments", expertTok, map[string]string{"content": "Try JS-335"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/posts/1/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Comment](t, rec), 1)

	rec = do(t, h, http.MethodPatch, "/posts/1", expertTok, map[string]string{"content": "hijack"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodDelete, "/posts/1", farmerTok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/posts/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	h := newTestRouter(t)
	tok := token(t, "u-farmer", model.RoleFarmer)

	rec := do(t, h, http.MethodPost, "/posts", tok, map[string]string{"content": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.CodeValidation, decode[httputil.ErrorResponse](t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/posts/1/comments", tok, map[string]string{"content": "orphan"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/posts/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestModerationOverHTTP(t *testing.T) {
	h := newTestRouter(t)
	farmerTok := token(t, "u-farmer", model.RoleFarmer)
	customerTok := token(t, "u-customer", model.RoleCustomer)
	adminTok := token(t, "u-admin", model.RoleAdmin)

	rec := do(t, h, http.MethodPost, "/posts", farmerTok, map[string]string{"content": "Buy followers now"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/reports", customerTok, map[string]interface{}{
		"type": "post", "content_id": 1, "reason": "harassment",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.CodeInvalidReason, decode[httputil.ErrorResponse](t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/reports", customerTok, map[string]interface{}{
		"type": "post", "content_id": 99, "reason": "spam",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, model.CodeContentNotFound, decode[httputil.ErrorResponse](t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/reports", customerTok, map[string]interface{}{
		"type": "post", "content_id": 1, "reason": "spam",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	report := decode[model.Report](t, rec)
	assert.Equal(t, model.ReportStatusPending, report.Status)

	rec = do(t, h, http.MethodGet, "/admin/reports", customerTok, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodGet, "/admin/reports?status=pending", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Report](t, rec), 1)

	rec = do(t, h, http.MethodPost, "/admin/reports/"+report.ID+"/accept", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.ReportStatusAccepted, decode[model.Report](t, rec).Status)

	rec = do(t, h, http.MethodGet, "/posts/1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "accept deletes content by default")

	rec = do(t, h, http.MethodPost, "/admin/reports/"+report.ID+"/decline", adminTok, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, model.CodeAlreadyReviewed, decode[httputil.ErrorResponse](t, rec).Error.Code)

	rec = do(t, h, http.MethodGet, "/admin/reports/stats", adminTok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[model.ReportStats](t, rec)
	assert.Equal(t, 1, stats.Accepted)

	rec = do(t, h, http.MethodGet, "/admin/reports/nope", adminTok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAcceptKeepingContent(t *testing.T) {
	h := newTestRouter(t)
	farmerTok := token(t, "u-farmer", model.RoleFarmer)
	adminTok := token(t, "u-admin", model.RoleAdmin)

	do(t, h, http.MethodPost, "/posts", farmerTok, map[string]string{"content": "borderline"})
	rec := do(t, h, http.MethodPost, "/reports", token(t, "u-c", model.RoleCustomer), map[string]interface{}{
		"type": "post", "content_id": 1, "reason": "other",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	report := decode[model.Report](t, rec)

	rec = do(t, h, http.MethodPost, "/admin/reports/"+report.ID+"/accept", adminTok, map[string]bool{"delete_content": false})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/posts/1", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMediaUnavailableWithoutR2(t *testing.T) {
	h := newTestRouter(t)
	rec := do(t, h, http.MethodPost, "/media/posts/presign", token(t, "u-farmer", model.RoleFarmer),
		map[string]interface{}{"content_type": "image/png", "file_size": 1024})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRejectsBadTokens(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/posts", "garbage", map[string]string{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, model.CodeTokenInvalid, decode[httputil.ErrorResponse](t, rec).Error.Code)

	rec = do(t, h, http.MethodPost, "/posts", token(t, "u-x", "wizard"), map[string]string{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u-farmer", "role": model.RoleFarmer, "exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	rec = do(t, h, http.MethodPost, "/posts", signed, map[string]string{"content": "x"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, model.CodeTokenExpired, decode[httputil.ErrorResponse](t, rec).Error.Code)
}
