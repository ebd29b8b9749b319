package handlers

import (
	"context"
	"time"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/auth"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/authz"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/models"
	"github.com/MinhPhatVilla/WebVilla-sub000/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

const propertyNotFound = "Không tìm thấy căn"

type PropertyHandler struct {
	properties  *service.PropertyService
	authHandler *auth.AuthHandler
}

func NewPropertyHandler(properties *service.PropertyService, authHandler *auth.AuthHandler) *PropertyHandler {
	return &PropertyHandler{properties: properties, authHandler: authHandler}
}

// publicProperty hides the numeric rates of contact-for-price properties and
// leaves per-date prices to the calendar endpoint.
func publicProperty(p models.Property) models.Property {
	p.Overrides = nil
	if p.ContactForPrice {
		p.WeekdayPrice = 0
		p.WeekendPrice = 0
	}
	return p
}

type ListPropertiesInput struct {
	Type string `query:"type" enum:"villa,homestay" required:"false" doc:"Filter by property type"`
}

type ListPropertiesOutput struct {
	Body []models.Property
}

func (h *PropertyHandler) HandleList(ctx context.Context, input *ListPropertiesInput) (*ListPropertiesOutput, error) {
	list, err := h.properties.List(ctx, models.PropertyType(input.Type))
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	out := &ListPropertiesOutput{Body: make([]models.Property, len(list))}
	for i, p := range list {
		out.Body[i] = publicProperty(p)
	}
	return out, nil
}

type PropertyIDInput struct {
	ID uint `path:"id"`
}

type PropertyOutput struct {
	Body models.Property
}

func (h *PropertyHandler) HandleGet(ctx context.Context, input *PropertyIDInput) (*PropertyOutput, error) {
	p, err := h.properties.Get(ctx, input.ID)
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	return &PropertyOutput{Body: publicProperty(*p)}, nil
}

type CalendarInput struct {
	ID    uint   `path:"id"`
	Month string `query:"month" required:"false" pattern:"^[0-9]{4}-[0-9]{2}$" doc:"Month as YYYY-MM, defaults to the current month"`
}

type CalendarOutput struct {
	Body *service.CalendarMonth
}

func (h *PropertyHandler) month(value string) (int, time.Month, error) {
	if value == "" {
		today := h.properties.Today()
		return today.Year, today.Month, nil
	}
	year, month, err := calendar.ParseMonth(value)
	if err != nil {
		return 0, 0, huma.Error422UnprocessableEntity("Tháng không hợp lệ, định dạng YYYY-MM")
	}
	return year, month, nil
}

// HandleCalendar is the guest calendar: booked days carry no booking code.
func (h *PropertyHandler) HandleCalendar(ctx context.Context, input *CalendarInput) (*CalendarOutput, error) {
	year, month, err := h.month(input.Month)
	if err != nil {
		return nil, err
	}
	cal, err := h.properties.Calendar(ctx, input.ID, year, month)
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	for i := range cal.Days {
		cal.Days[i].Code = ""
	}
	return &CalendarOutput{Body: cal}, nil
}

type AdminCalendarInput struct {
	auth.AuthInput
	CalendarInput
}

func (h *PropertyHandler) HandleAdminCalendar(ctx context.Context, input *AdminCalendarInput) (*CalendarOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourcePrices, authz.ActionRead); err != nil {
		return nil, err
	}
	year, month, err := h.month(input.Month)
	if err != nil {
		return nil, err
	}
	cal, err := h.properties.Calendar(ctx, input.ID, year, month)
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	return &CalendarOutput{Body: cal}, nil
}

type PropertyBody struct {
	Name                string   `json:"name" minLength:"1"`
	Slug                string   `json:"slug,omitempty"`
	Type                string   `json:"type,omitempty" enum:"villa,homestay"`
	Description         string   `json:"description,omitempty"`
	Address             string   `json:"address,omitempty"`
	WeekdayPrice        int64    `json:"weekdayPrice,omitempty" minimum:"0"`
	WeekendPrice        int64    `json:"weekendPrice,omitempty" minimum:"0"`
	ContactForPrice     bool     `json:"isContactForPrice,omitempty"`
	ContactPriceWeekday string   `json:"contactPriceWeekday,omitempty"`
	ContactPriceWeekend string   `json:"contactPriceWeekend,omitempty"`
	MaxGuests           int      `json:"maxGuests,omitempty" minimum:"0"`
	Bedrooms            int      `json:"bedrooms,omitempty"`
	Bathrooms           int      `json:"bathrooms,omitempty"`
	Rating              float64  `json:"rating,omitempty" minimum:"0" maximum:"5"`
	Amenities           []string `json:"amenities,omitempty"`
	Images              []string `json:"images,omitempty"`
}

func (b PropertyBody) model() models.Property {
	return models.Property{
		Name:                b.Name,
		Slug:                b.Slug,
		Type:                models.PropertyType(b.Type),
		Description:         b.Description,
		Address:             b.Address,
		WeekdayPrice:        b.WeekdayPrice,
		WeekendPrice:        b.WeekendPrice,
		ContactForPrice:     b.ContactForPrice,
		ContactPriceWeekday: b.ContactPriceWeekday,
		ContactPriceWeekend: b.ContactPriceWeekend,
		MaxGuests:           b.MaxGuests,
		Bedrooms:            b.Bedrooms,
		Bathrooms:           b.Bathrooms,
		Rating:              b.Rating,
		Amenities:           b.Amenities,
		Images:              b.Images,
	}
}

type CreatePropertyInput struct {
	auth.AuthInput
	Body PropertyBody
}

type SavedPropertyOutput struct {
	Body struct {
		Property models.Property `json:"property"`
		Warnings []string        `json:"warnings"`
	}
}

func savedProperty(p *models.Property, warnings []string) *SavedPropertyOutput {
	out := &SavedPropertyOutput{}
	out.Body.Property = *p
	out.Body.Warnings = warnings
	if out.Body.Warnings == nil {
		out.Body.Warnings = []string{}
	}
	return out
}

func (h *PropertyHandler) HandleCreate(ctx context.Context, input *CreatePropertyInput) (*SavedPropertyOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceProperties, authz.ActionWrite); err != nil {
		return nil, err
	}
	p := input.Body.model()
	warnings, err := h.properties.Create(ctx, &p)
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	return savedProperty(&p, warnings), nil
}

type UpdatePropertyInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body PropertyBody
}

func (h *PropertyHandler) HandleUpdate(ctx context.Context, input *UpdatePropertyInput) (*SavedPropertyOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceProperties, authz.ActionWrite); err != nil {
		return nil, err
	}
	p, warnings, err := h.properties.Update(ctx, input.ID, input.Body.model())
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	return savedProperty(p, warnings), nil
}

type DeletePropertyInput struct {
	auth.AuthInput
	ID uint `path:"id"`
}

func (h *PropertyHandler) HandleDelete(ctx context.Context, input *DeletePropertyInput) (*struct{}, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourceProperties, authz.ActionWrite); err != nil {
		return nil, err
	}
	if err := h.properties.Delete(ctx, input.ID); err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	return nil, nil
}

type SetPricesInput struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body struct {
		Dates []string `json:"dates" minItems:"1" doc:"Dates as YYYY-MM-DD"`
		Price int64    `json:"price" minimum:"1"`
	}
}

type SetPricesOutput struct {
	Body struct {
		Updated []calendar.Date `json:"updated"`
	}
}

func (h *PropertyHandler) HandleSetPrices(ctx context.Context, input *SetPricesInput) (*SetPricesOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourcePrices, authz.ActionWrite); err != nil {
		return nil, err
	}
	dates := make([]calendar.Date, 0, len(input.Body.Dates))
	for _, s := range input.Body.Dates {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("Ngày không hợp lệ: " + s)
		}
		dates = append(dates, d)
	}
	written, err := h.properties.SetPrices(ctx, input.ID, dates, input.Body.Price)
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	out := &SetPricesOutput{}
	out.Body.Updated = written
	return out, nil
}

type RemovePriceInput struct {
	auth.AuthInput
	ID   uint   `path:"id"`
	Date string `path:"date" doc:"YYYY-MM-DD"`
}

func (h *PropertyHandler) HandleRemovePrice(ctx context.Context, input *RemovePriceInput) (*struct{}, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourcePrices, authz.ActionWrite); err != nil {
		return nil, err
	}
	d, err := calendar.ParseDate(input.Date)
	if err != nil {
		return nil, huma.Error422UnprocessableEntity("Ngày không hợp lệ: " + input.Date)
	}
	if err := h.properties.RemovePrice(ctx, input.ID, d); err != nil {
		return nil, toHumaError(err, "Ngày này không có giá riêng")
	}
	return nil, nil
}

type SelectionInput struct {
	auth.AuthInput
	ID    uint   `path:"id"`
	Month string `query:"month" required:"false" pattern:"^[0-9]{4}-[0-9]{2}$"`
	Mode  string `query:"mode" required:"false" enum:"saturdays,future"`
}

type SelectionOutput struct {
	Body struct {
		Dates []calendar.Date `json:"dates"`
	}
}

// HandleSelection lists the dates a bulk price edit would touch.
func (h *PropertyHandler) HandleSelection(ctx context.Context, input *SelectionInput) (*SelectionOutput, error) {
	if _, err := h.authHandler.Require(ctx, input.Cookie, authz.ResourcePrices, authz.ActionRead); err != nil {
		return nil, err
	}
	if _, err := h.properties.Get(ctx, input.ID); err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	year, month, err := h.month(input.Month)
	if err != nil {
		return nil, err
	}
	dates, err := h.properties.SelectDates(year, month, service.SelectionMode(input.Mode))
	if err != nil {
		return nil, toHumaError(err, propertyNotFound)
	}
	out := &SelectionOutput{}
	out.Body.Dates = dates
	if out.Body.Dates == nil {
		out.Body.Dates = []calendar.Date{}
	}
	return out, nil
}
