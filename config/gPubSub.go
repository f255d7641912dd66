package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// AlertMessage is the payload published for each critical analysis alert.
type AlertMessage struct {
	AnalysisDate  string    `json:"analysis_date"`
	GeneratedAt   time.Time `json:"generated_at"`
	Severity      string    `json:"severity"`
	Category      string    `json:"category"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	CorrelationId string    `json:"correlation_id,omitempty"`
}

const pubsubMaxAttempts = 3

var (
	pubsubClient   *pubsub.Client
	pubsubClientMu sync.Mutex
)

func getPubSubProjectID() string {
	if v := os.Getenv("PUBSUB_PROJECT_ID"); v != "" {
		return v
	}
	if v := os.Getenv("GOOGLE_CLOUD_PROJECT"); v != "" {
		return v
	}
	return os.Getenv("GCP_PROJECT")
}

// AlertsTopic is the Pub/Sub topic for critical alerts; empty disables publishing.
func AlertsTopic() string {
	return strings.TrimSpace(os.Getenv("ALERTS_PUBSUB_TOPIC"))
}

// GetPubSubClient returns the shared Pub/Sub client, creating it on first use.
// It uses Application Default Credentials unless PUBSUB_CREDENTIALS_JSON is provided.
func GetPubSubClient(ctx context.Context) (*pubsub.Client, error) {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		return pubsubClient, nil
	}

	projectID := getPubSubProjectID()
	if projectID == "" {
		return nil, errors.New("PUBSUB_PROJECT_ID/GOOGLE_CLOUD_PROJECT not set")
	}
	credJSON := os.Getenv("PUBSUB_CREDENTIALS_JSON")

	var lastErr error
	for attempt := 1; attempt <= pubsubMaxAttempts; attempt++ {
		var (
			c   *pubsub.Client
			err error
		)
		if credJSON != "" {
			c, err = pubsub.NewClient(ctx, projectID, option.WithCredentialsJSON([]byte(credJSON)))
		} else {
			c, err = pubsub.NewClient(ctx, projectID)
		}
		if err == nil {
			pubsubClient = c
			log.Printf("pubsub client ready (project_id=%s attempt=%d)", projectID, attempt)
			return c, nil
		}
		lastErr = err
		sleep := time.Second * time.Duration(1<<attempt)
		log.Printf("failed to init pubsub client (project_id=%s attempt=%d): %v; retrying in %s", projectID, attempt, err, sleep)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
	return nil, fmt.Errorf("init pubsub client: %w", lastErr)
}

// PublishAlert publishes msg to topicName and returns the server-assigned message ID.
func PublishAlert(ctx context.Context, topicName string, msg AlertMessage) (string, error) {
	if topicName == "" {
		return "", errors.New("topic is required")
	}
	client, err := GetPubSubClient(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	result := client.Topic(topicName).Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"severity": msg.Severity,
			"category": msg.Category,
		},
	})
	return result.Get(ctx)
}

func ClosePubSub() {
	pubsubClientMu.Lock()
	defer pubsubClientMu.Unlock()
	if pubsubClient != nil {
		_ = pubsubClient.Close()
		pubsubClient = nil
	}
}
