// Package eventbridge publishes learning progress events to AWS
// EventBridge. Publication is best-effort: the command handlers log and
// continue when publishing fails.
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitae-backend/application/ports"
)

const (
	eventSource               = "vitae.learning"
	detailTypeChapterComplete = "ChapterCompleted"
)

// Publisher implements the EventBus interface using AWS EventBridge
type Publisher struct {
	client       *eventbridge.Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, eventBusName string, logger *zap.Logger) ports.EventBus {
	return &Publisher{
		client:       client,
		eventBusName: eventBusName,
		logger:       logger,
	}
}

// chapterCompletedDetail is the event payload consumers receive
type chapterCompletedDetail struct {
	EventID      string `json:"eventId"`
	UserID       string `json:"userId"`
	CourseID     string `json:"courseId"`
	ChapterIndex int    `json:"chapterIndex"`
	Percent      int    `json:"percent"`
	OccurredAt   string `json:"occurredAt"`
}

// PublishChapterCompleted sends a chapter completion event to EventBridge
func (p *Publisher) PublishChapterCompleted(ctx context.Context, userID, courseID string, chapterIndex, percent int) error {
	detail := chapterCompletedDetail{
		EventID:      uuid.New().String(),
		UserID:       userID,
		CourseID:     courseID,
		ChapterIndex: chapterIndex,
		Percent:      percent,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}

	encoded, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("failed to marshal event detail: %w", err)
	}

	input := &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(p.eventBusName),
				Source:       aws.String(eventSource),
				DetailType:   aws.String(detailTypeChapterComplete),
				Detail:       aws.String(string(encoded)),
				Time:         aws.Time(time.Now().UTC()),
			},
		},
	}

	result, err := p.client.PutEvents(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to publish event to EventBridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for _, entry := range result.Entries {
			if entry.ErrorCode != nil {
				p.logger.Error("Failed to publish event",
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	p.logger.Debug("Chapter completed event published",
		zap.String("courseID", courseID),
		zap.Int("chapterIndex", chapterIndex),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}
