package handlers

import (
	"context"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/authz"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

// APIKeyHandler manages keys for staff scripts such as bank statement
// reconciliation. Keys act with the role of their owner.
type APIKeyHandler struct {
	users       *service.UserService
	authHandler *auth.AuthHandler
}

func NewAPIKeyHandler(users *service.UserService, authHandler *auth.AuthHandler) *APIKeyHandler {
	return &APIKeyHandler{users: users, authHandler: authHandler}
}

type CreateAPIKeyInput struct {
	auth.AuthInput
	Body struct {
		Name      string     `json:"name"`
		ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	}
}

type APIKeyResponse struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Key        string     `json:"key"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	LastUsedAt *time.Time `json:"lastUsedAt"`
}

func apiKeyResponse(k *models.APIKey, key string) APIKeyResponse {
	return APIKeyResponse{
		ID:         k.ID,
		Name:       k.Name,
		Key:        key,
		CreatedAt:  k.CreatedAt,
		ExpiresAt:  k.ExpiresAt,
		LastUsedAt: k.LastUsedAt,
	}
}

type CreateAPIKeyOutput struct {
	Body APIKeyResponse
}

// HandleCreate is the only response that carries the full key.
func (h *APIKeyHandler) HandleCreate(ctx context.Context, input *CreateAPIKeyInput) (*CreateAPIKeyOutput, error) {
	user, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceBookings, authz.ActionRead)
	if err != nil {
		return nil, err
	}
	if input.Body.ExpiresAt != nil && input.Body.ExpiresAt.Before(time.Now()) {
		return nil, huma.Error422UnprocessableEntity("Thời hạn khóa phải ở tương lai")
	}

	key, apiKey, err := h.users.CreateAPIKey(ctx, user.ID, input.Body.Name, input.Body.ExpiresAt)
	if err != nil {
		return nil, toHumaError(err, userNotFound)
	}
	return &CreateAPIKeyOutput{Body: apiKeyResponse(apiKey, key)}, nil
}

type ListAPIKeysInput struct {
	auth.AuthInput
}

type ListAPIKeysOutput struct {
	Body []APIKeyResponse
}

func (h *APIKeyHandler) HandleList(ctx context.Context, input *ListAPIKeysInput) (*ListAPIKeysOutput, error) {
	user, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	apiKeys, err := h.users.ListAPIKeys(ctx, user.ID)
	if err != nil {
		return nil, toHumaError(err, userNotFound)
	}

	response := make([]APIKeyResponse, 0, len(apiKeys))
	for i := range apiKeys {
		response = append(response, apiKeyResponse(&apiKeys[i], "..."+apiKeys[i].Last4))
	}
	return &ListAPIKeysOutput{Body: response}, nil
}

type DeleteAPIKeyInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *APIKeyHandler) HandleDelete(ctx context.Context, input *DeleteAPIKeyInput) (*struct{}, error) {
	user, err := h.authHandler.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	if err := h.users.DeleteAPIKey(ctx, user.ID, input.ID); err != nil {
		return nil, toHumaError(err, "Không tìm thấy khóa API")
	}
	return nil, nil
}
