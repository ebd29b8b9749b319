package handlers

import (
	"errors"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/pricing"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/service"
	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"
)

// messages are the guest-facing texts for the errors a guest can fix.
var messages = []struct {
	err error
	msg string
}{
	{service.ErrGuestNameRequired, "Vui lòng nhập họ tên"},
	{service.ErrGuestPhoneInvalid, "Số điện thoại không hợp lệ"},
	{service.ErrGuestEmailInvalid, "Email không hợp lệ"},
	{service.ErrGuestsInvalid, "Số khách không hợp lệ"},
	{service.ErrTooManyGuests, "Số khách vượt quá sức chứa của căn"},
	{service.ErrPastCheckIn, "Ngày nhận phòng đã qua"},
	{service.ErrPropertyName, "Vui lòng nhập tên căn"},
	{service.ErrUnknownMode, "Chế độ chọn ngày không hợp lệ"},
	{service.ErrInvalidRole, "Vai trò hoặc trạng thái không hợp lệ"},
	{service.ErrDatesUnavailable, "Ngày đã được đặt, vui lòng chọn ngày khác"},
	{service.ErrPropertyInUse, "Căn đang có đơn đặt, không thể xóa"},
	{service.ErrSelfDemotion, "Không thể tự thay đổi vai trò hoặc trạng thái của mình"},
	{calendar.ErrInvalidRange, "Ngày trả phòng phải sau ngày nhận phòng"},
	{pricing.ErrContactForPrice, "Vui lòng liên hệ để biết giá căn này"},
	{pricing.ErrPastDate, "Không thể đổi giá ngày đã qua"},
	{pricing.ErrInvalidPrice, "Giá phải lớn hơn 0"},
	{pricing.ErrNoSelection, "Chưa chọn ngày nào"},
	{pricing.ErrNoSuchOverride, "Ngày này không có giá riêng"},
	{booking.ErrTerminal, "Đơn đã hoàn tất hoặc đã hủy"},
	{booking.ErrNoRescheduleRequest, "Đơn không có yêu cầu đổi lịch"},
	{booking.ErrRescheduleRequested, "Đơn đã có yêu cầu đổi lịch đang chờ duyệt"},
	{booking.ErrCheckInNotReached, "Chưa đến ngày nhận phòng"},
	{booking.ErrCheckOutNotReached, "Chưa đến ngày trả phòng"},
	{booking.ErrMissingProposedDates, "Vui lòng chọn ngày mới"},
	{booking.ErrSameDates, "Ngày mới trùng với lịch hiện tại"},
}

func messageFor(err error, fallback string) string {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return fallback
}

// toHumaError maps service errors to HTTP errors. notFound names the missing
// thing for 404 responses.
func toHumaError(err error, notFound string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return huma.Error404NotFound(messageFor(err, notFound))
	case errors.Is(err, service.ErrValidation):
		return huma.Error422UnprocessableEntity(messageFor(err, "Dữ liệu không hợp lệ"), err)
	case errors.Is(err, service.ErrConflict):
		return huma.Error409Conflict(messageFor(err, "Dữ liệu đã thay đổi, vui lòng thử lại"), err)
	case errors.Is(err, service.ErrInvalidTransition):
		return huma.Error409Conflict(messageFor(err, "Không thể thực hiện thao tác ở trạng thái hiện tại"), err)
	case errors.Is(err, service.ErrForbidden):
		return huma.Error403Forbidden(messageFor(err, "Bạn không có quyền thực hiện thao tác này"))
	}
	logrus.WithError(err).Error("Request failed")
	return huma.Error500InternalServerError("Lỗi hệ thống, vui lòng thử lại")
}
