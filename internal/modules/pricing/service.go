package pricing

import (
	"math"
	"time"

	"guesthouse/internal/domain"
)

type QuoteRequest struct {
	CheckIn  time.Time
	CheckOut time.Time // exclusive
	RoomType domain.RoomType
	Calendar Calendar
	Addons   []domain.Addon
	Discount int

	// ApplyDeposit scales the payable amount down to the up-front fraction.
	ApplyDeposit bool
	DepositRate  float64
}

type Quote struct {
	NightlyPrices   []int
	Nights          int
	RoomTotal       int
	AddonTotal      int
	TotalAmount     int
	Discount        int
	FinalAmount     int
	AveragePerNight int
}

// Compute is a pure function: identical inputs always yield an identical
// quote. It runs at quote time, at submission time and on the price recheck,
// and the three results must never drift.
func Compute(req QuoteRequest) (*Quote, error) {
	in := dateOnly(req.CheckIn)
	out := dateOnly(req.CheckOut)
	if !out.After(in) {
		return nil, ErrInvalidRange
	}

	q := &Quote{Discount: req.Discount}
	for night := in; night.Before(out); night = night.AddDate(0, 0, 1) {
		price := req.RoomType.BasePrice
		if req.Calendar.IsHoliday(night) {
			price += req.RoomType.HolidaySurcharge
		}
		q.NightlyPrices = append(q.NightlyPrices, price)
		q.RoomTotal += price
	}
	q.Nights = len(q.NightlyPrices)

	for _, a := range req.Addons {
		q.AddonTotal += a.Price
	}
	q.TotalAmount = q.RoomTotal + q.AddonTotal

	payable := q.TotalAmount - req.Discount
	if payable < 0 {
		payable = 0
	}
	if req.ApplyDeposit {
		q.FinalAmount = int(math.Round(float64(payable) * req.DepositRate))
	} else {
		q.FinalAmount = payable
	}

	q.AveragePerNight = int(math.Round(float64(q.RoomTotal) / float64(q.Nights)))
	return q, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
