package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libjwt "github.com/aiauto/content-tools/internal/lib/jwt"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestJWTMiddleware(t *testing.T) {
	maker := libjwt.NewJWTMaker("test-secret", time.Hour)
	validToken, err := maker.GenerateToken("uid-123", "user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectNext     bool
	}{
		{
			name:           "валидный токен пропускается дальше",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
			expectNext:     true,
		},
		{
			name:           "отсутствующий заголовок",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "заголовок без префикса Bearer",
			authHeader:     validToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "мусор вместо токена",
			authHeader:     "Bearer not-a-token",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var gotUID any
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				gotUID = r.Context().Value(UserUID)
				w.WriteHeader(http.StatusOK)
			})

			handler := JWTMiddleware(maker, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodPost, "/tools/use", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
			if tt.expectNext {
				assert.Equal(t, "uid-123", gotUID)
			}
		})
	}
}
