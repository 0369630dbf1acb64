package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Metrics publishes engine metrics to CloudWatch. Publishing is
// fire-and-forget: a metrics failure must never fail the request that
// produced it.
type Metrics struct {
	client    *cloudwatch.Client
	namespace string
	logger    *zap.Logger
	enabled   bool
}

// NewMetrics creates a new metrics publisher
func NewMetrics(client *cloudwatch.Client, namespace string, logger *zap.Logger, enabled bool) *Metrics {
	return &Metrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
		enabled:   enabled,
	}
}

// CountReconciliation records the provenance of one reconciled mutation
// response: "reconciled" when the server collection was located,
// "optimistic" when the engine fell back to a local mutation.
func (m *Metrics) CountReconciliation(ctx context.Context, provenance string, op string) {
	m.putCount(ctx, "NoteReconciliation", 1, []types.Dimension{
		{Name: aws.String("Provenance"), Value: aws.String(provenance)},
		{Name: aws.String("Operation"), Value: aws.String(op)},
	})
}

// CountSearchOutcome records how a search payload resolved: "candidates",
// "aggregate", "empty" or "unrecognized".
func (m *Metrics) CountSearchOutcome(ctx context.Context, outcome string) {
	m.putCount(ctx, "SearchNormalization", 1, []types.Dimension{
		{Name: aws.String("Outcome"), Value: aws.String(outcome)},
	})
}

// CountChapterCompleted records a durable chapter completion.
func (m *Metrics) CountChapterCompleted(ctx context.Context) {
	m.putCount(ctx, "ChapterCompleted", 1, nil)
}

func (m *Metrics) putCount(ctx context.Context, name string, value float64, dims []types.Dimension) {
	if !m.enabled || m.client == nil {
		return
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String(name),
				Value:      aws.Float64(value),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(time.Now()),
				Dimensions: dims,
			},
		},
	})
	if err != nil {
		m.logger.Warn("failed to publish metric",
			zap.String("metric", name),
			zap.Error(err),
		)
	}
}
