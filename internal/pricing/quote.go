package pricing

import (
	"errors"

	"github.com/MinhPhatVilla/WebVilla-sub000/internal/calendar"
)

var ErrContactForPrice = errors.New("property is priced on request")

// DepositPercent of the total is collected by bank transfer when booking.
const DepositPercent = 50

type NightPrice struct {
	Date   calendar.Date `json:"date"`
	Price  int64         `json:"price"`
	Source Source        `json:"source"`
}

type Quote struct {
	Nights     int          `json:"nights"`
	TotalPrice int64        `json:"totalPrice"`
	Deposit    int64        `json:"deposit"`
	Remaining  int64        `json:"remaining"`
	Nightly    []NightPrice `json:"nightly"`
}

// Calculate prices every night of the stay individually so that custom prices
// inside the range are honored.
func Calculate(rates Rates, stay calendar.Range) (Quote, error) {
	if stay.Nights() <= 0 {
		return Quote{}, calendar.ErrInvalidRange
	}

	q := Quote{Nights: stay.Nights()}
	for _, d := range stay.Days() {
		price := PriceFor(rates, d)
		q.Nightly = append(q.Nightly, NightPrice{Date: d, Price: price, Source: SourceFor(rates, d)})
		q.TotalPrice += price
	}
	q.Deposit = Deposit(q.TotalPrice)
	q.Remaining = q.TotalPrice - q.Deposit
	return q, nil
}

// Deposit is ceil(total * 50%).
func Deposit(total int64) int64 {
	if total <= 0 {
		return 0
	}
	return (total*DepositPercent + 99) / 100
}
