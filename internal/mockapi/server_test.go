package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/qrtag/internal/logging"
	"github.com/dmitrijs2005/qrtag/internal/mockapi/auth"
	"github.com/dmitrijs2005/qrtag/internal/mockapi/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StubDelay = 0
	cfg.JWTSecret = "test-secret"
	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := NewServer(context.Background(), testConfig(), logging.Discard())
	require.NoError(t, err)
	return s
}

type apiResp struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func do(t *testing.T, s *Server, method, path, token string, body any) (int, apiResp) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var out apiResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

func loginDemo(t *testing.T, s *Server) string {
	t.Helper()
	code, resp := do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "demo@example.com", "password": "password"})
	require.Equal(t, http.StatusOK, code)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	code, resp := do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "demo@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid credentials", resp.Message)

	code, resp = do(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{"email": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)

	token := loginDemo(t, s)
	code, resp = do(t, s, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"email":"demo@example.com"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	expired, err := auth.GenerateToken("x", "x@y", []byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name, method, path, token, message string
	}{
		{"no token", http.MethodGet, "/api/auth/me", "", "Authentication required"},
		{"garbage", http.MethodGet, "/api/qr/user", "garbage", "Invalid token"},
		{"expired", http.MethodDelete, "/api/qr/QR001", expired, "Token expired"},
		{"unknown user", http.MethodPut, "/api/qr/QR001", mustToken(t, "ghost"), "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := do(t, s, tt.method, tt.path, tt.token, map[string]string{})
			assert.Equal(t, http.StatusUnauthorized, code)
			assert.Equal(t, tt.message, resp.Message)
		})
	}
}

func mustToken(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(userID, "", []byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return tok
}

func TestQRCodeFlow(t *testing.T) {
	s := newTestServer(t)
	token := loginDemo(t, s)

	code, resp := do(t, s, http.MethodGet, "/api/qr/QR001", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"status":"inactive"`)

	code, resp = do(t, s, http.MethodPost, "/api/qr/QR001/activate", token, map[string]any{"itemName": "Keys"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = do(t, s, http.MethodPost, "/api/qr/QR001/activate", token, map[string]any{
		"itemName": "Keys", "ownerName": "Demo", "ownerPhone": "+15551234567", "showPhone": false,
	})
	require.Equal(t, http.StatusOK, code, resp.Message)
	assert.Equal(t, "QR code activated successfully", resp.Message)

	code, resp = do(t, s, http.MethodPost, "/api/qr/QR001/activate", token, map[string]any{
		"itemName": "Keys", "ownerName": "Demo", "ownerPhone": "+15551234567",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "QR code already activated", resp.Message)

	// finder does not see the hidden phone
	_, resp = do(t, s, http.MethodGet, "/api/qr/QR001", "", nil)
	assert.NotContains(t, string(resp.Data), "+15551234567")
	// owner does
	_, resp = do(t, s, http.MethodGet, "/api/qr/QR001", token, nil)
	assert.Contains(t, string(resp.Data), "+15551234567")

	code, resp = do(t, s, http.MethodGet, "/api/qr/user", token, nil)
	require.Equal(t, http.StatusOK, code)
	var list struct {
		QRCodes []tagView `json:"qrCodes"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	require.Len(t, list.QRCodes, 1)
	assert.Equal(t, 1, list.QRCodes[0].ScanCount)

	code, resp = do(t, s, http.MethodPut, "/api/qr/QR001", token, map[string]any{"message": "Call me"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), `"message":"Call me"`)

	code, _ = do(t, s, http.MethodDelete, "/api/qr/QR001", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = do(t, s, http.MethodPut, "/api/qr/QR001", token, map[string]any{})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "QR code not found", resp.Message)

	code, _ = do(t, s, http.MethodGet, "/api/qr/NOPE", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestForgotPassword(t *testing.T) {
	s := newTestServer(t)

	for _, email := range []string{"demo@example.com", "stranger@example.com"} {
		code, resp := do(t, s, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": email})
		assert.Equal(t, http.StatusOK, code)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Message)
	}

	code, _ := do(t, s, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestNotificationStubs(t *testing.T) {
	s := newTestServer(t)

	code, resp := do(t, s, http.MethodPost, "/api/send-whatsapp", "", map[string]string{"to": "+15551234567", "message": "Found your keys"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(resp.Data), "messageId")

	code, resp = do(t, s, http.MethodPost, "/api/send-email", "", map[string]string{"to": "a@b.c", "subject": "Found", "body": "hi"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Email sent successfully", resp.Message)

	code, _ = do(t, s, http.MethodPost, "/api/send-whatsapp", "", map[string]string{"to": ""})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = do(t, s, http.MethodPost, "/api/send-email", "", map[string]string{"to": "a@b.c"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStubDelayHonorsCancellation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.StubDelay = time.Hour
	s, err := NewServer(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/send-email", bytes.NewBufferString(`{"to":"a@b.c","subject":"x"}`)).WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.Handler().ServeHTTP(rec, req)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stub did not return after cancellation")
	}
}

func TestUploadImage(t *testing.T) {
	s := newTestServer(t)

	upload := func(filename string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if filename != "" {
			fw, err := w.CreateFormFile("image", filename)
			require.NoError(t, err)
			_, _ = fw.Write([]byte("fake image bytes"))
		}
		require.NoError(t, w.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/upload-image", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	rec := upload("photo.JPG")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"/uploads/`)

	assert.Equal(t, http.StatusBadRequest, upload("notes.txt").Code)
	assert.Equal(t, http.StatusBadRequest, upload("").Code)
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestNoRoute(t *testing.T) {
	s := newTestServer(t)
	code, resp := do(t, s, http.MethodGet, "/api/nothing", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, resp.Success)
}

func TestNewServerGeneratesSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig()
	cfg.JWTSecret = ""

	s, err := NewServer(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.Len(t, s.secret, 64)

	token := loginDemo(t, s)
	code, _ := do(t, s, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, code)
}
