package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/authz"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	CookieName    = "auth_token"
	TokenDuration = 24 * time.Hour

	stateCookieName = "oauth_state"
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	users       *repository.UserRepository
	authorizer  *authz.Authorizer
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config, users *repository.UserRepository, authorizer *authz.Authorizer) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       cfg.OAuthScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.OAuthAuthURL,
				TokenURL: cfg.OAuthTokenURL,
			},
		},
		users:      users,
		authorizer: authorizer,
		cfg:        cfg,
	}
}

// AuthInput is embedded in every huma input that needs a signed-in user.
type AuthInput struct {
	Cookie string `cookie:"auth_token"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

type identity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	state, err := r.Cookie(stateCookieName)
	if err != nil || state.Value == "" || state.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid login state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		logrus.WithError(err).Warn("OAuth code exchange failed")
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(h.cfg.OAuthUserInfoURL)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		http.Error(w, "Failed to get user info", http.StatusBadGateway)
		return
	}

	var id identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil || id.Subject == "" {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	user, err := h.users.Upsert(r.Context(), &models.User{
		IdentityID: id.Subject,
		Email:      id.Email,
		Name:       id.Name,
		Avatar:     id.Picture,
	}, h.isAdminEmail(id.Email))
	if err != nil {
		logrus.WithError(err).Error("Failed to save user")
		http.Error(w, "Failed to save user", http.StatusInternalServerError)
		return
	}
	if user.Status != models.UserActive {
		http.Error(w, "Tài khoản đã bị khóa", http.StatusForbidden)
		return
	}

	jwtToken, err := h.GenerateToken(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, h.sessionCookie(jwtToken))

	logrus.WithFields(logrus.Fields{"user": user.ID, "role": user.Role}).Info("User logged in")
	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusFound)
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) isAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, admin := range h.cfg.AdminEmails {
		if strings.ToLower(strings.TrimSpace(admin)) == email {
			return true
		}
	}
	return false
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// ParseToken validates a session token and returns its user and expiry.
func (h *AuthHandler) ParseToken(tokenString string) (uint, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, errors.New("invalid token claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, time.Time{}, errors.New("invalid token claims")
	}
	var exp time.Time
	if expClaim, err := claims.GetExpirationTime(); err == nil && expClaim != nil {
		exp = expClaim.Time
	}
	return uint(userIDFloat), exp, nil
}

func (h *AuthHandler) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(h.cfg.FrontendURL, "https://"),
	}
}

// Authorize resolves the signed-in user from the request context (set by
// AuthMiddleware) or from the session cookie. Inactive and banned users are
// refused.
func (h *AuthHandler) Authorize(ctx context.Context, cookie string) (*models.User, error) {
	userID, ok := ctx.Value(UserIDKey).(uint)
	if !ok {
		if cookie == "" {
			return nil, huma.Error401Unauthorized("Vui lòng đăng nhập")
		}
		id, _, err := h.ParseToken(cookie)
		if err != nil {
			return nil, huma.Error401Unauthorized("Phiên đăng nhập không hợp lệ")
		}
		userID = id
	}

	user, err := h.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, huma.Error401Unauthorized("Tài khoản không tồn tại")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Lỗi hệ thống, vui lòng thử lại")
	}
	if user.Status != models.UserActive {
		return nil, huma.Error403Forbidden("Tài khoản đã bị khóa")
	}
	return user, nil
}

// Require authorizes the user and checks the role policy for resource and
// action.
func (h *AuthHandler) Require(ctx context.Context, cookie, resource, action string) (*models.User, error) {
	user, err := h.Authorize(ctx, cookie)
	if err != nil {
		return nil, err
	}
	if !h.authorizer.Allowed(user.Role, resource, action) {
		return nil, huma.Error403Forbidden("Bạn không có quyền thực hiện thao tác này")
	}
	return user, nil
}

type MeInput struct {
	AuthInput
}

type MeOutput struct {
	Body struct {
		models.User
		IsStaff bool `json:"isStaff"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeInput) (*MeOutput, error) {
	user, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}
	out := &MeOutput{}
	out.Body.User = *user
	out.Body.IsStaff = user.IsStaff()
	return out, nil
}
