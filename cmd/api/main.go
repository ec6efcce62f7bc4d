package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"guesthouse/internal/config"
	"guesthouse/internal/database"
	"guesthouse/internal/middleware"
	"guesthouse/internal/modules/admin"
	"guesthouse/internal/modules/booking"
	"guesthouse/internal/modules/notifier"
	"guesthouse/internal/modules/payment"
	"guesthouse/internal/modules/scheduler"
	"guesthouse/internal/pkg/logger"
	"guesthouse/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	log := logger.New(cfg.AppEnv)
	defer log.Sync()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		repository.BookingModel(),
		repository.RoomTypeModel(),
		repository.HolidayModel(),
		repository.EmailTemplateModel(),
		repository.GatewayPaymentModel(),
		repository.PromoCodeModel(),
	); err != nil {
		log.Fatal("auto-migrate failed", zap.Error(err))
	}

	bookingRepo := repository.NewBookingRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	holidayRepo := repository.NewHolidayRepository(db)
	templateRepo := repository.NewEmailTemplateRepository(db)
	paymentRepo := repository.NewGatewayPaymentRepository(db)
	promoRepo := repository.NewPromoCodeRepository(db)

	mailer := notifier.NewMailer(log, smtpTransports(cfg)...)
	notifierService := notifier.NewService(templateRepo, mailer, cfg.ReservedDays, log)

	settings := booking.StaticSettings{
		DepositRate:     cfg.DepositRate,
		DepositEnabled:  cfg.DepositEnabled,
		ReservedDays:    cfg.ReservedDays,
		BankInfo:        cfg.BankInfo,
		TransferEnabled: cfg.TransferEnabled,
		CardEnabled:     cfg.CardEnabled,
		HolidayWeekdays: cfg.HolidayWeekdays,
	}
	bookingService := booking.NewService(bookingRepo, roomTypeRepo, holidayRepo, promoRepo, notifierService, settings, log)
	bookingHandler := booking.NewHandler(bookingService)

	gw := cfg.Gateway()
	signer := payment.NewSigner(gw.HashKey, gw.HashIV)
	paymentService := payment.NewService(signer, paymentRepo, bookingService, payment.Config{
		MerchantID:  gw.MerchantID,
		CheckoutURL: gw.CheckoutURL,
		ReturnURL:   cfg.ReturnURL,
		ClientBack:  cfg.ClientBack,
	}, log)
	paymentHandler := payment.NewHandler(paymentService, log)

	adminHandler := admin.NewHandler(bookingService, bookingRepo, roomTypeRepo, holidayRepo, templateRepo, promoRepo)

	sched := scheduler.NewService(bookingRepo, templateRepo, notifierService, bookingService, scheduler.Config{
		ReservedDays: cfg.ReservedDays,
		Location:     cfg.SchedulerLocation,
		SweepHour:    cfg.SweepHour,
		DefaultHour:  cfg.DefaultSendHour,
	}, scheduler.SystemClock(), log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)

	if cfg.AppEnv == "prod" || cfg.AppEnv == "production" || cfg.AppEnv == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		bookingHandler.RegisterRoutes(v1)
		paymentHandler.RegisterRoutes(v1)
		paymentHandler.RegisterPublicRoutes(v1)

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.AdminTokenAuth(cfg.AdminToken, log))
		{
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		log.Info("server listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	sched.Stop()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
}

func smtpTransports(cfg *config.Config) []notifier.Transport {
	var out []notifier.Transport
	for _, sc := range []config.SMTPConfig{cfg.SMTPPrimary, cfg.SMTPFallback} {
		t := notifier.NewSMTPTransport(sc)
		if t.Configured() {
			out = append(out, t)
		}
	}
	return out
}
