package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"vitae-backend/application/ports"
	"vitae-backend/domain/learning"
	pkgerrors "vitae-backend/pkg/errors"
)

// ProgressRepository implements ports.ProgressRepository on a single
// DynamoDB table. Items are keyed PK=USER#<userID>, SK=PROGRESS#<courseID>
// so one Query retrieves all of a user's course progress.
type ProgressRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) ports.ProgressRepository {
	return &ProgressRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// progressItem represents the DynamoDB item structure for course progress
type progressItem struct {
	PK                string `dynamodbav:"PK"`
	SK                string `dynamodbav:"SK"`
	EntityType        string `dynamodbav:"EntityType"`
	UserID            string `dynamodbav:"UserID"`
	CourseID          string `dynamodbav:"CourseID"`
	CompletedChapters []int  `dynamodbav:"CompletedChapters,numberset,omitempty"`
	UpdatedAt         string `dynamodbav:"UpdatedAt"`
}

func progressKey(userID, courseID string) (string, string) {
	return fmt.Sprintf("USER#%s", userID), fmt.Sprintf("PROGRESS#%s", courseID)
}

// Save persists a course's progress state
func (r *ProgressRepository) Save(ctx context.Context, userID string, state *learning.ProgressState) error {
	pk, sk := progressKey(userID, state.CourseID)
	item := progressItem{
		PK:                pk,
		SK:                sk,
		EntityType:        "PROGRESS",
		UserID:            userID,
		CourseID:          state.CourseID,
		CompletedChapters: state.CompletedIndices(),
		UpdatedAt:         time.Now().UTC().Format(time.RFC3339),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.NewDatabaseError("marshal progress", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		r.logger.Error("Failed to save progress to DynamoDB",
			zap.Error(err),
			zap.String("courseID", state.CourseID),
		)
		return r.classify("save progress", err)
	}

	r.logger.Debug("Saved progress",
		zap.String("userID", userID),
		zap.String("courseID", state.CourseID),
		zap.Int("completedChapters", len(state.Completed)),
	)
	return nil
}

// Get retrieves the progress state for a course
func (r *ProgressRepository) Get(ctx context.Context, userID, courseID string) (*learning.ProgressState, error) {
	pk, sk := progressKey(userID, courseID)
	input := &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	}

	result, err := r.client.GetItem(ctx, input)
	if err != nil {
		return nil, r.classify("get progress", err)
	}
	if len(result.Item) == 0 {
		return nil, pkgerrors.NewNotFoundError("course progress")
	}

	var item progressItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.NewDatabaseError("unmarshal progress", err)
	}

	return rebuildState(item), nil
}

// GetOrCreate retrieves the progress state for a course, starting empty on
// first access. The empty state is not persisted until the first Save.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, userID, courseID string) (*learning.ProgressState, error) {
	state, err := r.Get(ctx, userID, courseID)
	if err == nil {
		return state, nil
	}
	if pkgerrors.IsType(err, pkgerrors.ErrorTypeNotFound) {
		return learning.NewProgressState(courseID), nil
	}
	return nil, err
}

// ListByUser retrieves all progress states for a user with a single Query
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]*learning.ProgressState, error) {
	keyCond := expression.Key("PK").Equal(expression.Value(fmt.Sprintf("USER#%s", userID))).
		And(expression.Key("SK").BeginsWith("PROGRESS#"))

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("build progress query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	result, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, r.classify("list progress", err)
	}

	states := make([]*learning.ProgressState, 0, len(result.Items))
	for _, raw := range result.Items {
		var item progressItem
		if err := attributevalue.UnmarshalMap(raw, &item); err != nil {
			r.logger.Warn("Failed to unmarshal progress item", zap.Error(err))
			continue
		}
		states = append(states, rebuildState(item))
	}
	return states, nil
}

// Delete removes the progress state for a course. Deleting progress that
// was never saved is not an error.
func (r *ProgressRepository) Delete(ctx context.Context, userID, courseID string) error {
	pk, sk := progressKey(userID, courseID)
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: sk},
		},
	}

	if _, err := r.client.DeleteItem(ctx, input); err != nil {
		var notFound *types.ResourceNotFoundException
		if errors.As(err, &notFound) {
			return nil
		}
		return r.classify("delete progress", err)
	}

	r.logger.Debug("Deleted progress",
		zap.String("userID", userID),
		zap.String("courseID", courseID),
	)
	return nil
}

// classify maps AWS API failures onto the application error taxonomy.
// Throttling surfaces as a timeout so callers treat it as retryable.
func (r *ProgressRepository) classify(operation string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ProvisionedThroughputExceededException", "ThrottlingException", "RequestLimitExceeded":
			return pkgerrors.NewTimeoutError(operation).WithCause(err)
		}
		r.logger.Warn("DynamoDB API error",
			zap.String("operation", operation),
			zap.String("code", apiErr.ErrorCode()),
		)
	}
	return pkgerrors.NewDatabaseError(operation, err)
}

func rebuildState(item progressItem) *learning.ProgressState {
	state := learning.NewProgressState(item.CourseID)
	for _, idx := range item.CompletedChapters {
		state.MarkComplete(idx)
	}
	return state
}
