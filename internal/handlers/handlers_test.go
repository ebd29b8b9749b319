package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/authz"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/booking"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/config"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/database"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/notifications"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/payment"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/repository"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/service"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type env struct {
	db            *gorm.DB
	auth          *auth.AuthHandler
	poller        *notifications.Poller
	properties    *PropertyHandler
	bookings      *BookingHandler
	adminBookings *AdminBookingHandler
	notifications *NotificationHandler
	users         *UserHandler
	apiKeys       *APIKeyHandler
	admin         models.User
	staff         models.User
	customer      models.User
}

func setup(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		BankID:            "VCB",
		BankAccount:       "0123456789",
		BankAccountName:   "MINH PHAT VILLA",
		QRTemplate:        "compact2",
		PaymentMemoSuffix: "COC",
		PaymentWindow:     15 * time.Minute,
	}
	clock := fixedClock(time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC))

	propertyRepo := repository.NewPropertyRepository(db, nil)
	bookingRepo := repository.NewBookingRepository(db)
	userRepo := repository.NewUserRepository(db)

	authorizer, err := authz.New()
	if err != nil {
		t.Fatalf("failed to build authorizer: %v", err)
	}
	authHandler := auth.NewAuthHandler(cfg, userRepo, authorizer)

	bookingService := service.NewBookingService(propertyRepo, bookingRepo, payment.NewQRBuilder(cfg), nil, nil, clock, time.UTC)
	propertyService := service.NewPropertyService(propertyRepo, bookingRepo, clock, time.UTC)
	userService := service.NewUserService(userRepo, bookingRepo)
	poller := notifications.NewPoller(bookingRepo, clock, time.UTC, 1)

	e := &env{
		db:            db,
		auth:          authHandler,
		poller:        poller,
		properties:    NewPropertyHandler(propertyService, authHandler),
		bookings:      NewBookingHandler(bookingService, authHandler),
		adminBookings: NewAdminBookingHandler(bookingService, authHandler),
		notifications: NewNotificationHandler(poller, authHandler),
		users:         NewUserHandler(userService, authHandler),
		apiKeys:       NewAPIKeyHandler(userService, authHandler),
		admin:         models.User{IdentityID: "admin", Name: "Admin", Role: models.RoleAdmin},
		staff:         models.User{IdentityID: "staff", Name: "Staff", Role: models.RoleStaff},
		customer:      models.User{IdentityID: "customer", Name: "Guest", Role: models.RoleCustomer},
	}
	for _, u := range []*models.User{&e.admin, &e.staff, &e.customer} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	return e
}

func as(u models.User) context.Context {
	return context.WithValue(context.Background(), auth.UserIDKey, u.ID)
}

func statusOf(err error) int {
	var se huma.StatusError
	if errors.As(err, &se) {
		return se.GetStatus()
	}
	return 0
}

func (e *env) createVilla(t *testing.T, body PropertyBody) models.Property {
	t.Helper()
	input := &CreatePropertyInput{Body: body}
	resp, err := e.properties.HandleCreate(as(e.admin), input)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	return resp.Body.Property
}

func villaBody() PropertyBody {
	return PropertyBody{
		Name:         "Villa Biển Xanh",
		WeekdayPrice: 1_000_000,
		WeekendPrice: 2_000_000,
		MaxGuests:    6,
		Images:       []string{"https://example.com/cover.jpg"},
	}
}

func (e *env) book(t *testing.T, propertyID uint, in, out string) BookingView {
	t.Helper()
	input := &CreateBookingRequest{}
	input.Body.PropertyID = propertyID
	input.Body.CheckIn = in
	input.Body.CheckOut = out
	input.Body.Guests = 2
	input.Body.GuestName = "Nguyễn Văn A"
	input.Body.GuestPhone = "0901 234 567"
	resp, err := e.bookings.HandleCreate(context.Background(), input)
	if err != nil {
		t.Fatalf("HandleCreate booking returned error: %v", err)
	}
	return resp.Body
}

func TestGuestBookingFlow(t *testing.T) {
	e := setup(t)
	villa := e.createVilla(t, villaBody())
	if villa.Slug != "villa-bien-xanh" {
		t.Errorf("expected slug villa-bien-xanh, got %s", villa.Slug)
	}

	quoteInput := &QuoteInput{}
	quoteInput.Body.PropertyID = villa.ID
	quoteInput.Body.CheckIn = "2025-06-02"
	quoteInput.Body.CheckOut = "2025-06-04"
	quote, err := e.bookings.HandleQuote(context.Background(), quoteInput)
	if err != nil {
		t.Fatalf("HandleQuote returned error: %v", err)
	}
	if quote.Body.TotalPrice != 2_000_000 || !quote.Body.Available {
		t.Errorf("unexpected quote %+v", quote.Body)
	}

	created := e.book(t, villa.ID, "2025-06-02", "2025-06-04")
	if !strings.HasPrefix(created.Code, "MP") {
		t.Errorf("expected MP booking code, got %s", created.Code)
	}
	if created.DepositAmount != 1_000_000 || created.Balance != 1_000_000 {
		t.Errorf("unexpected deposit %d / balance %d", created.DepositAmount, created.Balance)
	}
	if created.Payment == nil || created.Payment.Memo != created.Code+" COC" {
		t.Errorf("expected payment instructions with memo, got %+v", created.Payment)
	}

	// the same dates are gone
	input := &CreateBookingRequest{}
	input.Body.PropertyID = villa.ID
	input.Body.CheckIn = "2025-06-03"
	input.Body.CheckOut = "2025-06-05"
	input.Body.GuestName = "Trần B"
	input.Body.GuestPhone = "0912345678"
	if _, err := e.bookings.HandleCreate(context.Background(), input); statusOf(err) != http.StatusConflict {
		t.Errorf("expected 409 for overlapping booking, got %v", err)
	}

	lookup, err := e.bookings.HandleLookup(context.Background(), &LookupInput{Code: strings.ToLower(created.Code), Phone: "0901234567"})
	if err != nil {
		t.Fatalf("HandleLookup returned error: %v", err)
	}
	if lookup.Body.Payment == nil {
		t.Errorf("expected pending booking to carry payment instructions")
	}
	if _, err := e.bookings.HandleLookup(context.Background(), &LookupInput{Code: created.Code, Phone: "0999999999"}); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 for wrong phone, got %v", err)
	}

	cal, err := e.properties.HandleCalendar(context.Background(), &CalendarInput{ID: villa.ID, Month: "2025-06"})
	if err != nil {
		t.Fatalf("HandleCalendar returned error: %v", err)
	}
	if len(cal.Body.Days) != 30 {
		t.Fatalf("expected 30 days in June, got %d", len(cal.Body.Days))
	}
	if !cal.Body.Days[1].Booked || cal.Body.Days[1].Code != "" {
		t.Errorf("expected 2 June booked without a code, got %+v", cal.Body.Days[1])
	}
	if cal.Body.Days[3].Booked {
		t.Errorf("expected check-out day to be free")
	}

	adminCal, err := e.properties.HandleAdminCalendar(as(e.staff), &AdminCalendarInput{CalendarInput: CalendarInput{ID: villa.ID, Month: "2025-06"}})
	if err != nil {
		t.Fatalf("HandleAdminCalendar returned error: %v", err)
	}
	if adminCal.Body.Days[1].Code != created.Code {
		t.Errorf("expected admin calendar to show the booking code, got %q", adminCal.Body.Days[1].Code)
	}

	cancelInput := &GuestCancelInput{Code: created.Code}
	cancelInput.Body.Phone = "0901234567"
	cancelled, err := e.bookings.HandleCancel(context.Background(), cancelInput)
	if err != nil {
		t.Fatalf("HandleCancel returned error: %v", err)
	}
	if cancelled.Body.Status != booking.StatusCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Body.Status)
	}
}

func TestCreateBookingLinksSignedInUser(t *testing.T) {
	e := setup(t)
	villa := e.createVilla(t, villaBody())

	input := &CreateBookingRequest{}
	input.Body.PropertyID = villa.ID
	input.Body.CheckIn = "2025-06-10"
	input.Body.CheckOut = "2025-06-11"
	input.Body.GuestName = "Guest"
	input.Body.GuestPhone = "0901234567"
	resp, err := e.bookings.HandleCreate(as(e.customer), input)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	if resp.Body.UserID == nil || *resp.Body.UserID != e.customer.ID {
		t.Errorf("expected booking linked to user %d, got %v", e.customer.ID, resp.Body.UserID)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	e := setup(t)
	villa := e.createVilla(t, villaBody())

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		phone    string
		guests   int
		status   int
	}{
		{"malformed date", "02/06/2025", "2025-06-04", "0901234567", 1, http.StatusUnprocessableEntity},
		{"zero nights", "2025-06-04", "2025-06-04", "0901234567", 1, http.StatusUnprocessableEntity},
		{"past check-in", "2025-05-01", "2025-05-03", "0901234567", 1, http.StatusUnprocessableEntity},
		{"bad phone", "2025-06-02", "2025-06-04", "12", 1, http.StatusUnprocessableEntity},
		{"too many guests", "2025-06-02", "2025-06-04", "0901234567", 7, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &CreateBookingRequest{}
			input.Body.PropertyID = villa.ID
			input.Body.CheckIn = tt.checkIn
			input.Body.CheckOut = tt.checkOut
			input.Body.GuestName = "Guest"
			input.Body.GuestPhone = tt.phone
			input.Body.Guests = tt.guests
			if _, err := e.bookings.HandleCreate(context.Background(), input); statusOf(err) != tt.status {
				t.Errorf("expected %d, got %v", tt.status, err)
			}
		})
	}

	input := &CreateBookingRequest{}
	input.Body.PropertyID = 999
	input.Body.CheckIn = "2025-06-02"
	input.Body.CheckOut = "2025-06-04"
	input.Body.GuestName = "Guest"
	input.Body.GuestPhone = "0901234567"
	if _, err := e.bookings.HandleCreate(context.Background(), input); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 for unknown property, got %v", err)
	}
}

func TestAdminBookingLifecycle(t *testing.T) {
	e := setup(t)
	villa := e.createVilla(t, villaBody())
	created := e.book(t, villa.ID, "2025-06-02", "2025-06-04")

	if _, err := e.adminBookings.HandleList(as(e.customer), &ListBookingsInput{}); statusOf(err) != http.StatusForbidden {
		t.Errorf("expected 403 for customer, got %v", err)
	}
	if _, err := e.adminBookings.HandleList(context.Background(), &ListBookingsInput{}); statusOf(err) != http.StatusUnauthorized {
		t.Errorf("expected 401 for anonymous, got %v", err)
	}

	list, err := e.adminBookings.HandleList(as(e.staff), &ListBookingsInput{Status: "pending", Search: "0901"})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if list.Body.Total != 1 || list.Body.Items[0].Code != created.Code {
		t.Errorf("unexpected list %+v", list.Body)
	}
	if _, err := e.adminBookings.HandleList(as(e.staff), &ListBookingsInput{Status: "unknown"}); statusOf(err) != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown status, got %v", err)
	}

	confirmInput := &ConfirmInput{Code: created.Code}
	confirmed, err := e.adminBookings.HandleConfirm(as(e.staff), confirmInput)
	if err != nil {
		t.Fatalf("HandleConfirm returned error: %v", err)
	}
	if confirmed.Body.Status != booking.StatusConfirmed || confirmed.Body.PaymentMethod != service.DefaultPaymentMethod {
		t.Errorf("unexpected confirmed booking %+v", confirmed.Body.State)
	}

	// confirming twice is a state conflict
	if _, err := e.adminBookings.HandleConfirm(as(e.staff), confirmInput); statusOf(err) != http.StatusConflict {
		t.Errorf("expected 409 for second confirm, got %v", err)
	}

	// check-in date not reached yet
	checkIn := e.adminBookings.HandleCheckIn()
	if _, err := checkIn(as(e.staff), &BookingCodeInput{Code: created.Code}); statusOf(err) != http.StatusConflict {
		t.Errorf("expected 409 before the check-in date, got %v", err)
	}

	cancel := e.adminBookings.HandleCancel()
	if _, err := cancel(as(e.staff), &BookingCodeInput{Code: created.Code}); err != nil {
		t.Fatalf("admin cancel returned error: %v", err)
	}

	history, err := e.adminBookings.HandleHistory(as(e.staff), &BookingCodeInput{Code: created.Code})
	if err != nil {
		t.Fatalf("HandleHistory returned error: %v", err)
	}
	if len(history.Body) != 3 || history.Body[0].Event != booking.EventAdminCancel || *history.Body[0].ActorID != e.staff.ID {
		t.Errorf("unexpected history %+v", history.Body)
	}

	if _, err := e.adminBookings.HandleGet(as(e.staff), &BookingCodeInput{Code: "MPNOPE"}); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 for unknown code, got %v", err)
	}
}

func TestRescheduleThroughHandlers(t *testing.T) {
	e := setup(t)
	villa := e.createVilla(t, villaBody())
	created := e.book(t, villa.ID, "2025-06-02", "2025-06-04")
	other := e.book(t, villa.ID, "2025-06-10", "2025-06-12")

	for _, code := range []string{created.Code, other.Code} {
		if _, err := e.adminBookings.HandleConfirm(as(e.staff), &ConfirmInput{Code: code}); err != nil {
			t.Fatalf("HandleConfirm returned error: %v", err)
		}
	}

	request := &RescheduleInput{Code: created.Code}
	request.Body.Phone = "0901234567"
	request.Body.NewCheckIn = "2025-06-11"
	request.Body.NewCheckOut = "2025-06-13"
	if _, err := e.bookings.HandleReschedule(context.Background(), request); statusOf(err) != http.StatusConflict {
		t.Errorf("expected 409 for dates held by another booking, got %v", err)
	}

	request.Body.NewCheckIn = "2025-06-20"
	request.Body.NewCheckOut = "2025-06-22"
	resp, err := e.bookings.HandleReschedule(context.Background(), request)
	if err != nil {
		t.Fatalf("HandleReschedule returned error: %v", err)
	}
	if !resp.Body.RescheduleRequested {
		t.Errorf("expected a pending reschedule request")
	}

	e.poller.Refresh(context.Background())
	notes, err := e.notifications.HandleList(as(e.staff), &NotificationsInput{})
	if err != nil {
		t.Fatalf("notifications HandleList returned error: %v", err)
	}
	if len(notes.Body.RescheduleRequests) != 1 || notes.Body.RescheduleRequests[0].Code != created.Code {
		t.Errorf("unexpected reschedule notifications %+v", notes.Body.RescheduleRequests)
	}

	accept := e.adminBookings.HandleAcceptReschedule()
	moved, err := accept(as(e.staff), &BookingCodeInput{Code: created.Code})
	if err != nil {
		t.Fatalf("accept reschedule returned error: %v", err)
	}
	if moved.Body.CheckIn != calendar.New(2025, time.June, 20) || moved.Body.RescheduleRequested {
		t.Errorf("unexpected state after accept %+v", moved.Body.State)
	}
	if moved.Body.TotalPrice != created.TotalPrice {
		t.Errorf("expected original price to be kept, got %d", moved.Body.TotalPrice)
	}
}

func TestContactForPriceHidesRates(t *testing.T) {
	e := setup(t)
	body := villaBody()
	body.Name = "Homestay Đà Lạt"
	body.Type = "homestay"
	body.ContactForPrice = true
	body.ContactPriceWeekday = "Liên hệ"
	villa := e.createVilla(t, body)

	list, err := e.properties.HandleList(context.Background(), &ListPropertiesInput{Type: "homestay"})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if len(list.Body) != 1 || list.Body[0].WeekdayPrice != 0 || list.Body[0].WeekendPrice != 0 {
		t.Errorf("expected rates to be hidden, got %+v", list.Body)
	}

	quoteInput := &QuoteInput{}
	quoteInput.Body.PropertyID = villa.ID
	quoteInput.Body.CheckIn = "2025-06-02"
	quoteInput.Body.CheckOut = "2025-06-04"
	if _, err := e.bookings.HandleQuote(context.Background(), quoteInput); statusOf(err) != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for contact-for-price quote, got %v", err)
	}
}

func TestPriceEditing(t *testing.T) {
	e := setup(t)
	villa := e.createVilla(t, villaBody())

	selection, err := e.properties.HandleSelection(as(e.admin), &SelectionInput{ID: villa.ID, Month: "2025-06", Mode: "saturdays"})
	if err != nil {
		t.Fatalf("HandleSelection returned error: %v", err)
	}
	if len(selection.Body.Dates) != 4 {
		t.Fatalf("expected 4 Saturdays in June 2025, got %v", selection.Body.Dates)
	}

	set := &SetPricesInput{ID: villa.ID}
	for _, d := range selection.Body.Dates {
		set.Body.Dates = append(set.Body.Dates, d.String())
	}
	set.Body.Price = 3_000_000
	if _, err := e.properties.HandleSetPrices(as(e.staff), set); statusOf(err) != http.StatusForbidden {
		t.Errorf("expected staff to be refused price edits, got %v", err)
	}
	resp, err := e.properties.HandleSetPrices(as(e.admin), set)
	if err != nil {
		t.Fatalf("HandleSetPrices returned error: %v", err)
	}
	if len(resp.Body.Updated) != 4 {
		t.Errorf("expected 4 updated dates, got %v", resp.Body.Updated)
	}

	past := &SetPricesInput{ID: villa.ID}
	past.Body.Dates = []string{"2025-05-01"}
	past.Body.Price = 3_000_000
	if _, err := e.properties.HandleSetPrices(as(e.admin), past); statusOf(err) != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for a past date, got %v", err)
	}

	if _, err := e.properties.HandleRemovePrice(as(e.admin), &RemovePriceInput{ID: villa.ID, Date: "2025-06-07"}); err != nil {
		t.Fatalf("HandleRemovePrice returned error: %v", err)
	}
	if _, err := e.properties.HandleRemovePrice(as(e.admin), &RemovePriceInput{ID: villa.ID, Date: "2025-06-07"}); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 when removing a missing price, got %v", err)
	}

	cal, err := e.properties.HandleCalendar(context.Background(), &CalendarInput{ID: villa.ID, Month: "2025-06"})
	if err != nil {
		t.Fatalf("HandleCalendar returned error: %v", err)
	}
	if cal.Body.Days[6].Price != 2_000_000 || cal.Body.Days[13].Price != 3_000_000 {
		t.Errorf("unexpected Saturday prices %d and %d", cal.Body.Days[6].Price, cal.Body.Days[13].Price)
	}
}

func TestDeletePropertyInUse(t *testing.T) {
	e := setup(t)
	villa := e.createVilla(t, villaBody())
	e.book(t, villa.ID, "2025-06-02", "2025-06-04")

	if _, err := e.properties.HandleDelete(as(e.admin), &DeletePropertyInput{ID: villa.ID}); statusOf(err) != http.StatusConflict {
		t.Errorf("expected 409 for property with active bookings, got %v", err)
	}

	empty := villaBody()
	empty.Name = "Villa Trống"
	spare := e.createVilla(t, empty)
	if _, err := e.properties.HandleDelete(as(e.admin), &DeletePropertyInput{ID: spare.ID}); err != nil {
		t.Fatalf("HandleDelete returned error: %v", err)
	}
	if _, err := e.properties.HandleGet(context.Background(), &PropertyIDInput{ID: spare.ID}); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected deleted property to be gone, got %v", err)
	}
}

func TestUserManagement(t *testing.T) {
	e := setup(t)

	if _, err := e.users.HandleList(as(e.staff), &ListUsersInput{}); statusOf(err) != http.StatusForbidden {
		t.Errorf("expected staff to be refused, got %v", err)
	}
	list, err := e.users.HandleList(as(e.admin), &ListUsersInput{Role: "staff"})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if len(list.Body) != 1 || list.Body[0].ID != e.staff.ID {
		t.Errorf("unexpected users %+v", list.Body)
	}

	banned := "banned"
	update := &UpdateUserInput{ID: e.customer.ID}
	update.Body.Status = &banned
	resp, err := e.users.HandleUpdate(as(e.admin), update)
	if err != nil {
		t.Fatalf("HandleUpdate returned error: %v", err)
	}
	if resp.Body.Status != models.UserBanned {
		t.Errorf("expected banned, got %s", resp.Body.Status)
	}
	if _, err := e.adminBookings.HandleList(as(e.customer), &ListBookingsInput{}); statusOf(err) != http.StatusForbidden {
		t.Errorf("expected banned user to be refused, got %v", err)
	}

	customer := "customer"
	self := &UpdateUserInput{ID: e.admin.ID}
	self.Body.Role = &customer
	if _, err := e.users.HandleUpdate(as(e.admin), self); statusOf(err) != http.StatusForbidden {
		t.Errorf("expected 403 for self demotion, got %v", err)
	}
}

func TestAPIKeys(t *testing.T) {
	e := setup(t)

	createInput := &CreateAPIKeyInput{}
	createInput.Body.Name = "bank sync"
	if _, err := e.apiKeys.HandleCreate(as(e.customer), createInput); statusOf(err) != http.StatusForbidden {
		t.Errorf("expected customer to be refused, got %v", err)
	}
	created, err := e.apiKeys.HandleCreate(as(e.staff), createInput)
	if err != nil {
		t.Fatalf("HandleCreate returned error: %v", err)
	}
	if len(created.Body.Key) != 64 {
		t.Errorf("expected a 64 character key, got %q", created.Body.Key)
	}

	list, err := e.apiKeys.HandleList(as(e.staff), &ListAPIKeysInput{})
	if err != nil {
		t.Fatalf("HandleList returned error: %v", err)
	}
	if len(list.Body) != 1 || list.Body[0].Key != "..."+created.Body.Key[60:] {
		t.Errorf("expected a masked key, got %+v", list.Body)
	}

	if _, err := e.apiKeys.HandleDelete(as(e.admin), &DeleteAPIKeyInput{ID: created.Body.ID}); statusOf(err) != http.StatusNotFound {
		t.Errorf("expected 404 when deleting another user's key, got %v", err)
	}
	if _, err := e.apiKeys.HandleDelete(as(e.staff), &DeleteAPIKeyInput{ID: created.Body.ID}); err != nil {
		t.Fatalf("HandleDelete returned error: %v", err)
	}
}
