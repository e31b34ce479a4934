package fcm

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
}

// NewClient creates an FCM client from an already-initialized Firebase app
func NewClient(ctx context.Context, app *firebase.App) (*Client, error) {
	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("[FCM] Client initialized successfully")
	return &Client{
		messagingClient: messagingClient,
	}, nil
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title    string
	Body     string
	ImageURL string            // Optional notification image
	Data     map[string]string // Custom data payload
}

// SendToDevices sends a push notification to multiple device tokens
// Returns a list of tokens that failed to receive the notification
func (c *Client) SendToDevices(ctx context.Context, tokens []string, notification NotificationData) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title:    notification.Title,
			Body:     notification.Body,
			ImageURL: notification.ImageURL,
		},
		Data: notification.Data,
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	log.Printf("[FCM] Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)

	// Collect failed tokens
	var failedTokens []string
	for i, resp := range response.Responses {
		if !resp.Success {
			failedTokens = append(failedTokens, tokens[i])
			log.Printf("[FCM] Failed to send to token %s: %v", truncateToken(tokens[i]), resp.Error)
		}
	}

	return failedTokens, nil
}

func truncateToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:12] + "..."
}
