package handlers

import (
	"context"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/authz"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/notifications"
)

type NotificationHandler struct {
	poller      *notifications.Poller
	authHandler *auth.AuthHandler
}

func NewNotificationHandler(poller *notifications.Poller, authHandler *auth.AuthHandler) *NotificationHandler {
	return &NotificationHandler{poller: poller, authHandler: authHandler}
}

type NotificationsInput struct {
	auth.AuthInput
}

type NotificationsOutput struct {
	Body struct {
		notifications.Snapshot
		Total int `json:"total"`
	}
}

// HandleList returns the latest poller snapshot; it never hits the database.
func (h *NotificationHandler) HandleList(ctx context.Context, input *NotificationsInput) (*NotificationsOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceNotifications, authz.ActionRead); err != nil {
		return nil, err
	}
	snap := h.poller.Snapshot()
	out := &NotificationsOutput{}
	out.Body.Snapshot = snap
	out.Body.Total = snap.Total()
	return out, nil
}
