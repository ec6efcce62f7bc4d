package notifier

import (
	"fmt"
	"strings"
	"text/template"

	"guesthouse/internal/domain"
)

// templateVars is the substitution context exposed to subject and body
// templates. Dates are preformatted so templates stay plain.
type templateVars struct {
	GuestName   string
	BookingCode string
	RoomName    string
	CheckIn     string
	CheckOut    string
	Nights      int
	TotalAmount int
	Discount    int
	FinalAmount int
	BankInfo    string
	ExpiryDate  string
}

func varsFromBooking(b *domain.Booking, reservedDays int) templateVars {
	return templateVars{
		GuestName:   b.GuestName,
		BookingCode: b.Code,
		RoomName:    b.RoomName,
		CheckIn:     b.CheckIn.Format("2006-01-02"),
		CheckOut:    b.CheckOut.Format("2006-01-02"),
		Nights:      b.Nights,
		TotalAmount: b.TotalAmount,
		Discount:    b.Discount,
		FinalAmount: b.FinalAmount,
		BankInfo:    b.BankInfo,
		ExpiryDate:  b.Expiry(reservedDays).Format("2006-01-02"),
	}
}

func render(name, text string, vars templateVars) (string, error) {
	tpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, vars); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return sb.String(), nil
}
