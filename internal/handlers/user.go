package handlers

import (
	"context"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/authz"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/service"
)

const userNotFound = "Không tìm thấy người dùng"

type UserHandler struct {
	users       *service.UserService
	authHandler *auth.AuthHandler
}

func NewUserHandler(users *service.UserService, authHandler *auth.AuthHandler) *UserHandler {
	return &UserHandler{users: users, authHandler: authHandler}
}

type ListUsersInput struct {
	auth.AuthInput
	Role   string `query:"role" required:"false" enum:"admin,staff,customer"`
	Status string `query:"status" required:"false" enum:"active,inactive,banned"`
	Search string `query:"q" required:"false" doc:"Name, e-mail or phone"`
}

type ListUsersOutput struct {
	Body []service.UserWithStats
}

func (h *UserHandler) HandleList(ctx context.Context, input *ListUsersInput) (*ListUsersOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceUsers, authz.ActionRead); err != nil {
		return nil, err
	}
	users, err := h.users.List(ctx, repository.UserFilter{
		Role:   models.Role(input.Role),
		Status: models.UserStatus(input.Status),
		Search: input.Search,
	})
	if err != nil {
		return nil, toHumaError(err, userNotFound)
	}
	if users == nil {
		users = []service.UserWithStats{}
	}
	return &ListUsersOutput{Body: users}, nil
}

type UpdateUserInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Name   *string `json:"name,omitempty"`
		Phone  *string `json:"phone,omitempty"`
		Role   *string `json:"role,omitempty" enum:"admin,staff,customer"`
		Status *string `json:"status,omitempty" enum:"active,inactive,banned"`
	}
}

type UserOutput struct {
	Body *models.User
}

func (h *UserHandler) HandleUpdate(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	actor, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceUsers, authz.ActionWrite)
	if err != nil {
		return nil, err
	}
	update := service.UserUpdate{Name: input.Body.Name, Phone: input.Body.Phone}
	if input.Body.Role != nil {
		role := models.Role(*input.Body.Role)
		update.Role = &role
	}
	if input.Body.Status != nil {
		status := models.UserStatus(*input.Body.Status)
		update.Status = &status
	}
	u, err := h.users.Update(ctx, actor.ID, input.ID, update)
	if err != nil {
		return nil, toHumaError(err, userNotFound)
	}
	return &UserOutput{Body: u}, nil
}
