package main

import (
	"context"
	"log"
	"strings"

	api "freshkeep-backend/cmd/api"
	authUsecase "freshkeep-backend/internal/auth/usecase"
	devicedomain "freshkeep-backend/internal/device/domain"
	deviceRepo "freshkeep-backend/internal/device/repository"
	"freshkeep-backend/internal/events"
	itemRepo "freshkeep-backend/internal/item/repository"
	itemUsecase "freshkeep-backend/internal/item/usecase"
	"freshkeep-backend/internal/notification"
	"freshkeep-backend/internal/notification/dispatcher"
	notifdomain "freshkeep-backend/internal/notification/domain"
	notifRepo "freshkeep-backend/internal/notification/repository"
	"freshkeep-backend/internal/notifier"
	"freshkeep-backend/pkg/config"
	"freshkeep-backend/pkg/database"
	"freshkeep-backend/pkg/fcm"
	"freshkeep-backend/pkg/firebase"
	"freshkeep-backend/pkg/openfoodfacts"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.HouseholdPasswordHash == "" {
		log.Printf("[WARN] HOUSEHOLD_PASSWORD_HASH not set, login will be rejected for every password")
	}

	// Initialize database
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&notifdomain.ScheduledNotification{}, &devicedomain.DeviceToken{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	ctx := context.Background()

	// Firestore holds the food items; without it there is nothing to serve.
	app, err := firebase.NewApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize Firebase app:", err)
	}
	firestoreClient, err := firebase.NewFirestoreClient(ctx, app)
	if err != nil {
		log.Fatal("Failed to initialize Firestore client:", err)
	}
	defer firestoreClient.Close()

	// Initialize repositories (dependency injection)
	itemRepository := itemRepo.NewFirestoreItemRepository(firestoreClient)
	notificationRepository := notifRepo.NewGormNotificationRepository(db)
	deviceRepository := deviceRepo.NewDeviceRepository(db)

	// Initialize FCM client (optional, reminders queue up without it)
	var fcmClient *fcm.Client
	fcmClient, err = fcm.NewClient(ctx, app)
	if err != nil {
		log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		fcmClient = nil
	}

	// Notification service and delivery loop
	notificationService := notification.NewService(notificationRepository, notifdomain.DefaultHandlerConfig())

	var pusher dispatcher.Pusher
	if fcmClient != nil {
		pusher = fcmClient
	}
	notificationDispatcher := dispatcher.NewDispatcher(notificationRepository, deviceRepository, pusher)
	notificationDispatcher.Start()

	// Delivery receipt subscriber (Pub/Sub, optional)
	if cfg.ReceiptTopic != "" {
		// Extract short topic name from full resource name if necessary
		topicName := cfg.ReceiptTopic
		if parts := strings.Split(topicName, "/"); len(parts) > 1 {
			topicName = parts[len(parts)-1]
		}

		receiptSubscriber, err := events.NewSubscriber(cfg.FirebaseProjectID, topicName, notificationRepository, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize receipt subscriber: %v", err)
		} else {
			receiptSubscriber.Start(ctx)
		}
	}

	// Initialize use cases (dependency injection)
	offClient := openfoodfacts.NewClient(cfg.OpenFoodFactsBaseURL)
	reminderNotifier := notifier.New(itemRepository, notificationService)
	itemUsecaseInstance := itemUsecase.NewItemUsecase(itemRepository, offClient, reminderNotifier)
	authUsecaseInstance := authUsecase.NewAuthUsecase(cfg)

	// Reconcile reminders for items saved while the service was down
	sweep := notifier.NewSweep(itemRepository, reminderNotifier)
	go sweep.Run(ctx)

	// Initialize HTTP handler
	handler := api.NewHandler(authUsecaseInstance, itemUsecaseInstance, deviceRepository)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
