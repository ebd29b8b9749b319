package handlers

import (
	"context"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/payment"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

const bookingNotFound = "Không tìm thấy đơn đặt, vui lòng kiểm tra mã đơn và số điện thoại"

// BookingHandler serves the guest side: quotes, checkout and self-service on
// an existing booking identified by code and phone.
type BookingHandler struct {
	bookings    *service.BookingService
	authHandler *auth.AuthHandler
}

func NewBookingHandler(bookings *service.BookingService, authHandler *auth.AuthHandler) *BookingHandler {
	return &BookingHandler{bookings: bookings, authHandler: authHandler}
}

func parseStay(checkIn, checkOut string) (calendar.Range, error) {
	start, err := calendar.ParseDate(checkIn)
	if err != nil {
		return calendar.Range{}, huma.Error422UnprocessableEntity("Ngày nhận phòng không hợp lệ")
	}
	end, err := calendar.ParseDate(checkOut)
	if err != nil {
		return calendar.Range{}, huma.Error422UnprocessableEntity("Ngày trả phòng không hợp lệ")
	}
	return calendar.Range{Start: start, End: end}, nil
}

type QuoteInput struct {
	Body struct {
		PropertyID uint   `json:"propertyId"`
		CheckIn    string `json:"checkIn" doc:"YYYY-MM-DD"`
		CheckOut   string `json:"checkOut" doc:"YYYY-MM-DD"`
		Guests     int    `json:"guests,omitempty" minimum:"0"`
	}
}

type QuoteOutput struct {
	Body *service.QuoteResult
}

func (h *BookingHandler) HandleQuote(ctx context.Context, input *QuoteInput) (*QuoteOutput, error) {
	stay, err := parseStay(input.Body.CheckIn, input.Body.CheckOut)
	if err != nil {
		return nil, err
	}
	q, err := h.bookings.Quote(ctx, input.Body.PropertyID, stay, input.Body.Guests)
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	return &QuoteOutput{Body: q}, nil
}

type CreateBookingRequest struct {
	auth.AuthInput
	Body struct {
		PropertyID uint   `json:"propertyId"`
		CheckIn    string `json:"checkIn" doc:"YYYY-MM-DD"`
		CheckOut   string `json:"checkOut" doc:"YYYY-MM-DD"`
		Guests     int    `json:"guests,omitempty" minimum:"0"`
		GuestName  string `json:"guestName"`
		GuestPhone string `json:"guestPhone"`
		GuestEmail string `json:"guestEmail,omitempty"`
		Note       string `json:"note,omitempty"`
	}
}

type BookingView struct {
	models.Booking
	Balance int64                 `json:"remaining"`
	Payment *payment.Instructions `json:"payment,omitempty"`
}

type BookingOutput struct {
	Body BookingView
}

func (h *BookingHandler) view(b *models.Booking) *BookingOutput {
	return &BookingOutput{Body: BookingView{
		Booking: *b,
		Balance: b.Remaining(),
		Payment: h.bookings.PaymentFor(b),
	}}
}

// HandleCreate books a stay. Signing in is optional; a signed-in guest gets
// the booking linked to their account.
func (h *BookingHandler) HandleCreate(ctx context.Context, input *CreateBookingRequest) (*BookingOutput, error) {
	stay, err := parseStay(input.Body.CheckIn, input.Body.CheckOut)
	if err != nil {
		return nil, err
	}

	in := service.CreateBookingInput{
		PropertyID: input.Body.PropertyID,
		CheckIn:    stay.Start,
		CheckOut:   stay.End,
		Guests:     input.Body.Guests,
		GuestName:  input.Body.GuestName,
		GuestPhone: input.Body.GuestPhone,
		GuestEmail: input.Body.GuestEmail,
		Note:       input.Body.Note,
	}
	if user, err := h.authHandler.Authorize(ctx, input.Cookie); err == nil {
		in.UserID = &user.ID
	}

	receipt, err := h.bookings.Create(ctx, in)
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	return &BookingOutput{Body: BookingView{
		Booking: *receipt.Booking,
		Balance: receipt.Booking.Remaining(),
		Payment: receipt.Payment,
	}}, nil
}

type LookupInput struct {
	Code  string `path:"code"`
	Phone string `query:"phone" doc:"Phone number given at checkout"`
}

func (h *BookingHandler) HandleLookup(ctx context.Context, input *LookupInput) (*BookingOutput, error) {
	b, err := h.bookings.Lookup(ctx, input.Code, input.Phone)
	if err != nil {
		return nil, toHumaError(err, bookingNotFound)
	}
	return h.view(b), nil
}

type GuestCancelInput struct {
	Code string `path:"code"`
	Body struct {
		Phone string `json:"phone"`
	}
}

func (h *BookingHandler) HandleCancel(ctx context.Context, input *GuestCancelInput) (*BookingOutput, error) {
	b, err := h.bookings.GuestCancel(ctx, input.Code, input.Body.Phone)
	if err != nil {
		return nil, toHumaError(err, bookingNotFound)
	}
	return h.view(b), nil
}

type RescheduleInput struct {
	Code string `path:"code"`
	Body struct {
		Phone       string `json:"phone"`
		NewCheckIn  string `json:"newCheckIn" doc:"YYYY-MM-DD"`
		NewCheckOut string `json:"newCheckOut" doc:"YYYY-MM-DD"`
	}
}

func (h *BookingHandler) HandleReschedule(ctx context.Context, input *RescheduleInput) (*BookingOutput, error) {
	proposed, err := parseStay(input.Body.NewCheckIn, input.Body.NewCheckOut)
	if err != nil {
		return nil, err
	}
	b, err := h.bookings.RequestReschedule(ctx, input.Code, input.Body.Phone, proposed)
	if err != nil {
		return nil, toHumaError(err, bookingNotFound)
	}
	return h.view(b), nil
}
