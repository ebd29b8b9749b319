package handlers

import (
	"context"
	"strings"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/authz"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

const adminBookingNotFound = "Không tìm thấy đơn đặt"

type AdminBookingHandler struct {
	bookings    *service.BookingService
	authHandler *auth.AuthHandler
}

func NewAdminBookingHandler(bookings *service.BookingService, authHandler *auth.AuthHandler) *AdminBookingHandler {
	return &AdminBookingHandler{bookings: bookings, authHandler: authHandler}
}

type ListBookingsInput struct {
	auth.AuthInput
	PropertyID uint   `query:"propertyId" required:"false"`
	Status     string `query:"status" required:"false" doc:"Comma separated statuses"`
	Reschedule string `query:"reschedule" required:"false" enum:"true,false"`
	Search     string `query:"q" required:"false" doc:"Code, guest name, phone or e-mail"`
	From       string `query:"from" required:"false" doc:"YYYY-MM-DD"`
	To         string `query:"to" required:"false" doc:"YYYY-MM-DD"`
	Limit      int    `query:"limit" required:"false" minimum:"0" maximum:"200" default:"50"`
	Offset     int    `query:"offset" required:"false" minimum:"0"`
}

type ListBookingsOutput struct {
	Body struct {
		Items []models.Booking `json:"items"`
		Total int64            `json:"total"`
	}
}

func (input *ListBookingsInput) filter() (repository.BookingFilter, error) {
	f := repository.BookingFilter{
		PropertyID: input.PropertyID,
		Search:     input.Search,
		Limit:      input.Limit,
		Offset:     input.Offset,
	}
	for _, raw := range strings.Split(input.Status, ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		status, err := booking.ParseStatus(raw)
		if err != nil {
			return f, huma.Error422UnprocessableEntity("Trạng thái không hợp lệ: " + raw)
		}
		f.Statuses = append(f.Statuses, status)
	}
	if input.Reschedule != "" {
		requested := input.Reschedule == "true"
		f.RescheduleRequested = &requested
	}
	var err error
	if input.From != "" {
		if f.From, err = calendar.ParseDate(input.From); err != nil {
			return f, huma.Error422UnprocessableEntity("Ngày bắt đầu không hợp lệ")
		}
	}
	if input.To != "" {
		if f.To, err = calendar.ParseDate(input.To); err != nil {
			return f, huma.Error422UnprocessableEntity("Ngày kết thúc không hợp lệ")
		}
	}
	return f, nil
}

func (h *AdminBookingHandler) HandleList(ctx context.Context, input *ListBookingsInput) (*ListBookingsOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceBookings, authz.ActionRead); err != nil {
		return nil, err
	}
	filter, err := input.filter()
	if err != nil {
		return nil, err
	}
	items, total, err := h.bookings.List(ctx, filter)
	if err != nil {
		return nil, toHumaError(err, adminBookingNotFound)
	}
	out := &ListBookingsOutput{}
	out.Body.Items = items
	out.Body.Total = total
	if out.Body.Items == nil {
		out.Body.Items = []models.Booking{}
	}
	return out, nil
}

type BookingCodeInput struct {
	auth.AuthInput
	Code string `path:"code"`
}

func (h *AdminBookingHandler) HandleGet(ctx context.Context, input *BookingCodeInput) (*BookingOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceBookings, authz.ActionRead); err != nil {
		return nil, err
	}
	b, err := h.bookings.Get(ctx, input.Code)
	if err != nil {
		return nil, toHumaError(err, adminBookingNotFound)
	}
	return &BookingOutput{Body: BookingView{
		Booking: *b,
		Balance: b.Remaining(),
		Payment: h.bookings.PaymentFor(b),
	}}, nil
}

type HistoryOutput struct {
	Body []models.BookingHistory
}

func (h *AdminBookingHandler) HandleHistory(ctx context.Context, input *BookingCodeInput) (*HistoryOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceBookings, authz.ActionRead); err != nil {
		return nil, err
	}
	history, err := h.bookings.History(ctx, input.Code)
	if err != nil {
		return nil, toHumaError(err, adminBookingNotFound)
	}
	return &HistoryOutput{Body: history}, nil
}

type ConfirmInput struct {
	auth.AuthInput
	Code string `path:"code"`
	Body struct {
		PaymentMethod string `json:"paymentMethod,omitempty" doc:"Defaults to bank_transfer"`
	}
}

func (h *AdminBookingHandler) HandleConfirm(ctx context.Context, input *ConfirmInput) (*BookingOutput, error) {
	user, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceBookings, authz.ActionWrite)
	if err != nil {
		return nil, err
	}
	b, err := h.bookings.Confirm(ctx, input.Code, input.Body.PaymentMethod, user.ID)
	if err != nil {
		return nil, toHumaError(err, adminBookingNotFound)
	}
	return &BookingOutput{Body: BookingView{Booking: *b, Balance: b.Remaining()}}, nil
}

type transition func(ctx context.Context, code string, actorID uint) (*models.Booking, error)

// transitionHandler adapts a lifecycle operation without a payload to a huma
// handler.
func (h *AdminBookingHandler) transitionHandler(fire transition) func(context.Context, *BookingCodeInput) (*BookingOutput, error) {
	return func(ctx context.Context, input *BookingCodeInput) (*BookingOutput, error) {
		user, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceBookings, authz.ActionWrite)
		if err != nil {
			return nil, err
		}
		b, err := fire(ctx, input.Code, user.ID)
		if err != nil {
			return nil, toHumaError(err, adminBookingNotFound)
		}
		return &BookingOutput{Body: BookingView{Booking: *b, Balance: b.Remaining()}}, nil
	}
}

func (h *AdminBookingHandler) HandleReject() func(context.Context, *BookingCodeInput) (*BookingOutput, error) {
	return h.transitionHandler(h.bookings.Reject)
}

func (h *AdminBookingHandler) HandleCheckIn() func(context.Context, *BookingCodeInput) (*BookingOutput, error) {
	return h.transitionHandler(h.bookings.CheckIn)
}

func (h *AdminBookingHandler) HandleComplete() func(context.Context, *BookingCodeInput) (*BookingOutput, error) {
	return h.transitionHandler(h.bookings.Complete)
}

func (h *AdminBookingHandler) HandleCancel() func(context.Context, *BookingCodeInput) (*BookingOutput, error) {
	return h.transitionHandler(h.bookings.Cancel)
}

func (h *AdminBookingHandler) HandleAcceptReschedule() func(context.Context, *BookingCodeInput) (*BookingOutput, error) {
	return h.transitionHandler(h.bookings.AcceptReschedule)
}

func (h *AdminBookingHandler) HandleRejectReschedule() func(context.Context, *BookingCodeInput) (*BookingOutput, error) {
	return h.transitionHandler(h.bookings.RejectReschedule)
}
