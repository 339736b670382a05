package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"ecobid/internal/adapter/api"
	"ecobid/internal/adapter/api/handler"
	apimiddleware "ecobid/internal/adapter/api/middleware"
	"ecobid/internal/adapter/api/router"
	"ecobid/internal/adapter/repository"
	"ecobid/internal/domain/service"
	"ecobid/internal/infrastructure/broadcast"
	"ecobid/internal/infrastructure/notification"
	"ecobid/internal/infrastructure/websocket"
	"ecobid/internal/usecase"
	"ecobid/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from environment variable (for production), file
	// path fallback for local development.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	bidRepo := repository.NewFirestoreBidRepository(firestoreClient)
	transactionRepo := repository.NewFirestoreTransactionRepository(firestoreClient)
	deliveryRepo := repository.NewFirestoreDeliveryRepository(firestoreClient)
	userRepo := repository.NewFirestoreUserRepository(firestoreClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	// Redis fans bid events out to websocket subscribers across
	// instances. Without Redis the live feed is simply off.
	bidPublisher := service.NewNoopBidEventPublisher()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()

		bidPublisher = broadcast.NewRedisPublisher(redisClient)
		broadcast.NewRedisSubscriber(redisClient, wsManager).Start(ctx)
	}

	notifier := service.NewLogNotifier()
	if cfg.NatsURL != "" {
		natsConn, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsConn.Close()

		notifier = notification.NewNatsNotifier(natsConn)
	}

	paymentService := service.NewStripePaymentService(cfg.StripeSecretKey, cfg.StripeSuccessURL, cfg.StripeCancelURL)

	listingUseCase := usecase.NewListingUseCase(listingRepo, bidRepo)
	bidUseCase := usecase.NewBidUseCase(bidRepo, listingRepo, bidPublisher)
	auctionUseCase := usecase.NewAuctionUseCase(listingRepo, bidRepo, userRepo, notifier, cfg.PaymentWindow, cfg.PaymentSweepInterval)
	deliveryUseCase := usecase.NewDeliveryUseCase(deliveryRepo, notifier, cfg.DeliveryLeadDays)
	paymentUseCase := usecase.NewPaymentUseCase(listingRepo, transactionRepo, paymentService, notifier, deliveryUseCase)

	handler.Setup(listingUseCase, bidUseCase, auctionUseCase, paymentUseCase, deliveryUseCase)

	auctionUseCase.StartPaymentWindowSweep(ctx)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	wsHandler := handler.NewWebSocketHandler(wsManager)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	router.Setup(e, authMiddleware)
	router.SetupWebSocketRouter(e, wsHandler)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
