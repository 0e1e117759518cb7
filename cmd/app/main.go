package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/travelagency/api"
	"github.com/Domenick1991/travelagency/config"
	"github.com/Domenick1991/travelagency/internal/bootstrap"
	"github.com/Domenick1991/travelagency/internal/cache"
	"github.com/Domenick1991/travelagency/internal/integrations"
	"github.com/Domenick1991/travelagency/internal/kafka"
	"github.com/Domenick1991/travelagency/internal/logger"
	"github.com/Domenick1991/travelagency/internal/service/booking"
	"github.com/Domenick1991/travelagency/internal/service/cart"
	"github.com/Domenick1991/travelagency/internal/service/customers"
	"github.com/Domenick1991/travelagency/internal/service/destinations"
	"github.com/Domenick1991/travelagency/internal/service/inventory"
	"github.com/Domenick1991/travelagency/internal/service/packages"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()
	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.OpenRepositories(ctx, cfg.Database, zl)
	if err != nil {
		zl.Fatal("open storage", zap.Error(err))
	}
	defer repos.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.PackagesTTL(), cfg.Booking.CartTTL())
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		zl.Fatal("connect redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}

	var producer booking.Producer
	if cfg.Kafka.Enabled() {
		kp := kafka.NewProducer(cfg.Kafka.Brokers, zl)
		defer kp.Close()
		producer = kp
	} else {
		zl.Warn("kafka brokers not configured, booking events are not published")
	}

	httpClient := integrations.NewHTTPClient(cfg.Integrations.Timeout())
	fx := integrations.NewFXClient(cfg.Integrations.FrankfurterURL, httpClient, zl)
	weather := integrations.NewWeatherClient(cfg.Integrations.OpenMeteoURL, httpClient, zl)
	holidays := integrations.NewHolidayClient(cfg.Integrations.NagerDateURL, httpClient, zl)
	countries := integrations.NewCountryClient(cfg.Integrations.RestCountriesURL, httpClient, zl)

	ledger := inventory.NewLedger(repos.Packages, repos.Bookings, zl.Named("ledger"))
	bookingService := booking.NewBookingService(
		repos.Bookings,
		repos.Packages,
		repos.Customers,
		producer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithConverter(fx),
		booking.WithPackageCache(redisCache),
		booking.WithLogger(zl.Named("booking")),
	)
	packageService := packages.NewPackageService(
		repos.Packages,
		repos.Destinations,
		packages.WithCache(redisCache),
		packages.WithConverter(fx),
		packages.WithWeather(weather),
		packages.WithHolidays(holidays),
		packages.WithLogger(zl.Named("packages")),
	)
	customerService := customers.NewCustomerService(repos.Customers, zl.Named("customers"))
	destinationService := destinations.NewDestinationService(
		repos.Destinations,
		destinations.WithCountries(countries),
		destinations.WithPackageCache(redisCache),
		destinations.WithImportLimit(cfg.Integrations.ImportLimit),
		destinations.WithLogger(zl.Named("destinations")),
	)
	cartService := cart.NewCartService(
		redisCache,
		packageService,
		ledger,
		bookingService,
		customerService,
		cart.WithCheckoutLockTTL(cfg.Booking.CheckoutLockTTL()),
		cart.WithLogger(zl.Named("cart")),
	)

	router := api.NewRouter(cfg.HTTP, api.Handlers{
		Packages:     api.NewPackageHandler(packageService, ledger),
		Destinations: api.NewDestinationHandler(destinationService),
		Customers:    api.NewCustomerHandler(customerService),
		Bookings:     api.NewBookingHandler(bookingService, ledger),
		Cart:         api.NewCartHandler(cartService, int(cfg.Booking.CartTTL().Seconds())),
	}, zl)

	if err := bootstrap.Run(ctx, cfg, router, zl); err != nil {
		zl.Error("server error", zap.Error(err))
		os.Exit(1)
	}
}
