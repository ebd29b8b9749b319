package notifier

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier e-mails the guest about their own booking. Bookings without
// an e-mail address are skipped.
type MailNotifier struct {
	sender mailSender
	from   string
}

func NewMailNotifier(cfg *config.Config) *MailNotifier {
	return &MailNotifier{
		sender: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

// guestEvents are the changes a guest hears about by e-mail.
var guestEvents = map[booking.Event]bool{
	booking.EventConfirm:          true,
	booking.EventReject:           true,
	booking.EventAdminCancel:      true,
	booking.EventAcceptReschedule: true,
	booking.EventRejectReschedule: true,
}

// Guest-supplied fields pass through html/template so they are escaped.
var (
	newBookingMail = template.Must(template.New("new").Parse(
		`<p>Xin chào {{.Guest}},</p>` +
			`<p>Chúng tôi đã nhận đơn <b>{{.Code}}</b> cho {{.Property}} từ {{.CheckIn}} đến {{.CheckOut}}.</p>` +
			`<p>Tổng tiền: {{.Total}}. Vui lòng chuyển khoản tiền cọc {{.Deposit}} để giữ phòng.</p>`))
	bookingEventMail = template.Must(template.New("event").Parse(
		`<p>Xin chào {{.Guest}},</p>` +
			`<p>Đơn <b>{{.Code}}</b> tại {{.Property}}: {{.Change}}.</p>` +
			`<p>Ngày lưu trú: {{.CheckIn}} đến {{.CheckOut}}.</p>`))
)

type mailData struct {
	Guest    string
	Code     string
	Property string
	CheckIn  string
	CheckOut string
	Total    string
	Deposit  string
	Change   string
}

func newMailData(b *models.Booking) mailData {
	return mailData{
		Guest:    b.GuestName,
		Code:     b.Code,
		Property: propertyName(b),
		CheckIn:  b.CheckIn.String(),
		CheckOut: b.CheckOut.String(),
		Total:    FormatVND(b.TotalPrice),
		Deposit:  FormatVND(b.DepositAmount),
	}
}

func render(tmpl *template.Template, data mailData) (string, error) {
	var body strings.Builder
	if err := tmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

func (n *MailNotifier) NotifyNewBooking(ctx context.Context, b *models.Booking) error {
	body, err := render(newBookingMail, newMailData(b))
	if err != nil {
		return err
	}
	return n.send(ctx, b, fmt.Sprintf("Đã nhận đơn đặt phòng %s", b.Code), body)
}

func (n *MailNotifier) NotifyBookingEvent(ctx context.Context, b *models.Booking, event booking.Event) error {
	if !guestEvents[event] {
		return nil
	}
	data := newMailData(b)
	data.Change = strings.ToLower(EventLabel(event))
	body, err := render(bookingEventMail, data)
	if err != nil {
		return err
	}
	return n.send(ctx, b, fmt.Sprintf("Đơn %s: %s", b.Code, EventLabel(event)), body)
}

func (n *MailNotifier) send(ctx context.Context, b *models.Booking, subject, html string) error {
	if b.GuestEmail == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", b.GuestEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	return n.sender.DialAndSend(m)
}
