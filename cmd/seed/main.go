package main

import (
	"context"
	"log"
	"os"
	"time"

	"guesthouse/internal/database"
	"guesthouse/internal/domain"
	"guesthouse/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "guesthouse.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		repository.BookingModel(),
		repository.RoomTypeModel(),
		repository.HolidayModel(),
		repository.EmailTemplateModel(),
		repository.GatewayPaymentModel(),
		repository.PromoCodeModel(),
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data so the seed can be re-run.
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM gateway_payments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM email_templates")
	db.Exec("DELETE FROM holidays")
	db.Exec("DELETE FROM promo_codes")
	db.Exec("DELETE FROM room_types")

	ctx := context.Background()

	// ================== ROOM TYPES ==================
	log.Println("Creating room types...")
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	roomTypes := []domain.RoomType{
		{Name: "sea-double", DisplayName: "Sea View Double", BasePrice: 2000, HolidaySurcharge: 500, Active: true},
		{Name: "garden-twin", DisplayName: "Garden Twin", BasePrice: 1800, HolidaySurcharge: 400, Active: true},
		{Name: "family-quad", DisplayName: "Family Quad", BasePrice: 3200, HolidaySurcharge: 800, Active: true},
		{Name: "attic-single", DisplayName: "Attic Single", BasePrice: 1200, HolidaySurcharge: 300, Active: false},
	}
	for i := range roomTypes {
		if err := roomTypeRepo.Create(ctx, &roomTypes[i]); err != nil {
			log.Printf("room type %s: %v", roomTypes[i].Name, err)
		}
	}

	// ================== HOLIDAYS ==================
	log.Println("Creating holiday overrides...")
	holidayRepo := repository.NewHolidayRepository(db)
	holidays := []domain.Holiday{
		{Date: date(2026, 1, 1), Name: "New Year's Day", IsHoliday: true},
		{Date: date(2026, 2, 16), Name: "Lunar New Year's Eve", IsHoliday: true},
		{Date: date(2026, 2, 17), Name: "Lunar New Year", IsHoliday: true},
		{Date: date(2026, 2, 18), Name: "Lunar New Year", IsHoliday: true},
		{Date: date(2026, 4, 5), Name: "Tomb Sweeping Day", IsHoliday: true},
		{Date: date(2026, 6, 19), Name: "Dragon Boat Festival", IsHoliday: true},
		{Date: date(2026, 9, 25), Name: "Mid-Autumn Festival", IsHoliday: true},
		{Date: date(2026, 10, 10), Name: "National Day", IsHoliday: true},
		// Working Saturday, priced as a weekday.
		{Date: date(2026, 2, 14), Name: "Make-up workday", IsHoliday: false},
	}
	for i := range holidays {
		if err := holidayRepo.Upsert(ctx, &holidays[i]); err != nil {
			log.Printf("holiday %s: %v", holidays[i].Name, err)
		}
	}

	// ================== EMAIL TEMPLATES ==================
	log.Println("Creating email templates...")
	templateRepo := repository.NewEmailTemplateRepository(db)
	templates := []domain.EmailTemplate{
		{
			Key:     domain.TplConfirmation,
			Enabled: true,
			Subject: "Booking {{.BookingCode}} received",
			Body: "Dear {{.GuestName}},\n\n" +
				"We have received your booking {{.BookingCode}} for {{.RoomName}},\n" +
				"{{.CheckIn}} to {{.CheckOut}} ({{.Nights}} nights), amount due {{.FinalAmount}}.\n\n" +
				"{{.BankInfo}}\n\n" +
				"Please complete payment before {{.ExpiryDate}} or the reservation will be released.\n",
			SendHour: 10,
		},
		{
			Key:     domain.TplPaymentReminder,
			Enabled: true,
			Subject: "Payment reminder for booking {{.BookingCode}}",
			Body: "Dear {{.GuestName}},\n\n" +
				"Your reservation {{.BookingCode}} ({{.RoomName}}, check-in {{.CheckIn}}) is still unpaid.\n" +
				"Amount due: {{.FinalAmount}}. The hold expires on {{.ExpiryDate}}.\n\n" +
				"{{.BankInfo}}\n",
			SendHour: 10,
		},
		{
			Key:        domain.TplCheckinReminder,
			Enabled:    true,
			Subject:    "See you soon! Check-in on {{.CheckIn}}",
			Body:       "Dear {{.GuestName}},\n\nYour stay in {{.RoomName}} begins on {{.CheckIn}}. Booking code: {{.BookingCode}}.\n",
			OffsetDays: 1,
			SendHour:   9,
		},
		{
			Key:        domain.TplFeedbackRequest,
			Enabled:    true,
			Subject:    "How was your stay?",
			Body:       "Dear {{.GuestName}},\n\nThank you for staying with us. We would love to hear about your visit ({{.CheckIn}} to {{.CheckOut}}).\n",
			OffsetDays: 2,
			SendHour:   18,
		},
	}
	for i := range templates {
		if err := templateRepo.Save(ctx, &templates[i]); err != nil {
			log.Printf("template %s: %v", templates[i].Key, err)
		}
	}

	// ================== PROMO CODES ==================
	log.Println("Creating promo codes...")
	promoRepo := repository.NewPromoCodeRepository(db)
	promos := []domain.PromoCode{
		{Code: "WELCOME200", Discount: 200, Active: true},
		{Code: "RETURN500", Discount: 500, Active: true},
		{Code: "EXPIRED100", Discount: 100, Active: false},
	}
	for i := range promos {
		if err := promoRepo.Save(ctx, &promos[i]); err != nil {
			log.Printf("promo %s: %v", promos[i].Code, err)
		}
	}

	log.Println("Seed complete.")
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
