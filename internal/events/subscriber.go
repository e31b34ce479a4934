package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"freshkeep-backend/internal/notification/repository"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// DeliveryReceipt is the payload the mobile clients publish back after a push
// notification arrives on a device or the user taps it.
type DeliveryReceipt struct {
	NotificationID string `json:"notificationId"`
	Event          string `json:"event"` // "received" or "opened"
	DeviceToken    string `json:"deviceToken,omitempty"`
	Timestamp      int64  `json:"timestamp,omitempty"` // unix seconds, client clock
}

// Subscriber consumes delivery receipts from a Pub/Sub topic. It owns the
// client connection and the receive loop; Close may be called at most any
// number of times but only tears the subscription down once.
type Subscriber struct {
	pubsubClient *pubsub.Client
	notifRepo    repository.NotificationRepository
	topicName    string
	subName      string

	mu        sync.Mutex
	seen      map[string]bool // notificationId+event pairs already processed
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func NewSubscriber(projectID, topicName string, notifRepo repository.NotificationRepository, credentialsFile string) (*Subscriber, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %v", err)
	}

	return &Subscriber{
		pubsubClient: client,
		notifRepo:    notifRepo,
		topicName:    topicName,
		subName:      topicName + "-sub", // Convention: topic-sub
		seen:         make(map[string]bool),
	}, nil
}

// Start ensures the subscription exists and begins receiving in a background
// goroutine. The loop runs until Close is called or ctx is cancelled.
func (s *Subscriber) Start(ctx context.Context) {
	log.Printf("[Events] Starting receipt subscriber with topic: %s, subscription: %s", s.topicName, s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		log.Printf("[Events] Error checking subscription existence: %v", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.topicName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			log.Printf("[Events] Error checking topic existence: %v", err)
			return
		}
		if !topicExists {
			log.Printf("[Events] Topic %s does not exist, cannot create subscription", s.topicName)
			return
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName, pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			log.Printf("[Events] Failed to create subscription: %v", err)
			return
		}
		log.Printf("[Events] Created subscription: %s", s.subName)
	}

	receiveCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		log.Printf("[Events] Listening for receipts on subscription: %s", s.subName)
		err := sub.Receive(receiveCtx, func(ctx context.Context, msg *pubsub.Message) {
			s.HandleMessage(msg.Data)
			msg.Ack()
		})
		if err != nil && receiveCtx.Err() == nil {
			log.Printf("[Events] Error receiving messages: %v", err)
		}
	}()
}

// HandleMessage processes one receipt payload. Malformed payloads and
// duplicate deliveries are logged and dropped; receipts never fail the
// subscription.
func (s *Subscriber) HandleMessage(data []byte) {
	var receipt DeliveryReceipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		log.Printf("[Events] Failed to unmarshal receipt: %v", err)
		return
	}
	if receipt.NotificationID == "" {
		log.Printf("[Events] Dropping receipt without notification id: %s", string(data))
		return
	}

	key := receipt.NotificationID + ":" + receipt.Event
	s.mu.Lock()
	if s.seen[key] {
		s.mu.Unlock()
		log.Printf("[Events] Skipping duplicate receipt %s", key)
		return
	}
	s.seen[key] = true
	s.mu.Unlock()

	notification, err := s.notifRepo.FindByID(receipt.NotificationID)
	if err != nil {
		log.Printf("[Events] Error looking up notification %s: %v", receipt.NotificationID, err)
		return
	}
	if notification == nil {
		log.Printf("[Events] Receipt for unknown notification %s, ignoring", receipt.NotificationID)
		return
	}

	switch receipt.Event {
	case "received":
		log.Printf("[Events] Notification %s (%s) reached a device", notification.ID, notification.Title)
	case "opened":
		log.Printf("[Events] Notification %s (%s) was opened by the user", notification.ID, notification.Title)
	default:
		log.Printf("[Events] Unknown receipt event %q for notification %s", receipt.Event, notification.ID)
	}
}

// Close stops the receive loop and releases the client. Safe to call more
// than once; only the first call does the teardown.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		cancel := s.cancel
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		if err := s.pubsubClient.Close(); err != nil {
			log.Printf("[Events] Error closing pubsub client: %v", err)
		}
		log.Printf("[Events] Receipt subscriber closed")
	})
}
