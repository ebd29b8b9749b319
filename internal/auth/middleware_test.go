package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, secret string, userID uint, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiresIn).Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestAuthMiddleware_SlidingSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil, nil)

	tests := []struct {
		name      string
		expiresIn time.Duration
		renewed   bool
	}{
		{"PastHalfLife", TokenDuration/2 - time.Hour, true},
		{"FreshSession", TokenDuration/2 + time.Hour, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := signedToken(t, cfg.JWTSecret, 7, tt.expiresIn)
			req := httptest.NewRequest(http.MethodGet, "/bookings/MP1", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: old})

			rr, userID, ok := serveWith(handler, req)
			if !ok || userID != 7 {
				t.Fatalf("expected guest 7 in context, got %d (ok=%v)", userID, ok)
			}

			var renewed *http.Cookie
			for _, c := range rr.Result().Cookies() {
				if c.Name == CookieName {
					renewed = c
				}
			}
			if tt.renewed && (renewed == nil || renewed.Value == old) {
				t.Errorf("expected a fresh session cookie")
			}
			if !tt.renewed && renewed != nil {
				t.Errorf("did not expect the session cookie to be reissued")
			}
		})
	}
}

func serveWith(handler *AuthHandler, req *http.Request) (*httptest.ResponseRecorder, uint, bool) {
	var userID uint
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok = r.Context().Value(UserIDKey).(uint)
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	handler.AuthMiddleware(next).ServeHTTP(rr, req)
	return rr, userID, ok
}

func TestAuthMiddleware_PassThrough(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil, nil)

	t.Run("NoCookie", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/properties", nil)
		rr, _, ok := serveWith(handler, req)
		if rr.Code != http.StatusOK || ok {
			t.Errorf("expected anonymous pass-through, got %d (user set: %v)", rr.Code, ok)
		}
	})

	t.Run("InvalidCookie", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/properties", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
		rr, _, ok := serveWith(handler, req)
		if rr.Code != http.StatusOK || ok {
			t.Errorf("expected anonymous pass-through, got %d (user set: %v)", rr.Code, ok)
		}
	})

	t.Run("ValidCookie", func(t *testing.T) {
		token, _ := handler.GenerateToken(42)
		req, _ := http.NewRequest("GET", "/me", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		_, userID, ok := serveWith(handler, req)
		if !ok || userID != 42 {
			t.Errorf("expected user 42 in context, got %d (set: %v)", userID, ok)
		}
	})
}

func TestAuthMiddleware_APIKey(t *testing.T) {
	handler, db := setupHandler(t)

	user := models.User{IdentityID: "script", Role: models.RoleStaff}
	db.Create(&user)
	key := "0123456789abcdef"
	db.Omit("User").Create(&models.APIKey{UserID: user.ID, KeyHash: models.HashAPIKey(key), Last4: "cdef", Name: "bank sync"})

	req, _ := http.NewRequest("GET", "/admin/bookings", nil)
	req.Header.Set("X-API-KEY", key)
	_, userID, ok := serveWith(handler, req)
	if !ok || userID != user.ID {
		t.Fatalf("expected API key to resolve user %d, got %d (set: %v)", user.ID, userID, ok)
	}

	var stored models.APIKey
	db.First(&stored)
	if stored.LastUsedAt == nil {
		t.Errorf("expected last_used_at to be recorded")
	}

	req, _ = http.NewRequest("GET", "/admin/bookings", nil)
	req.Header.Set("X-API-KEY", "wrong")
	if _, _, ok := serveWith(handler, req); ok {
		t.Errorf("expected unknown API key to stay anonymous")
	}

	ctx := context.WithValue(context.Background(), UserIDKey, user.ID)
	if _, err := handler.Require(ctx, "", "bookings", "write"); err != nil {
		t.Errorf("expected API key user to manage bookings, got %v", err)
	}
}
