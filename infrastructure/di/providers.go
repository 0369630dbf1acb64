package di

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awscloudwatch "github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"vitae-backend/application/ports"
	"vitae-backend/infrastructure/backend"
	"vitae-backend/infrastructure/config"
	"vitae-backend/infrastructure/messaging/eventbridge"
	dynamopersistence "vitae-backend/infrastructure/persistence/dynamodb"
	"vitae-backend/pkg/auth"
	"vitae-backend/pkg/observability"
)

// ProvideLogger creates a new logger instance honoring LOG_LEVEL
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	return zapCfg.Build()
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client
func ProvideDynamoDBClient(awsCfg aws.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg)
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideCloudWatchClient creates a CloudWatch client
func ProvideCloudWatchClient(awsCfg aws.Config) *awscloudwatch.Client {
	return awscloudwatch.NewFromConfig(awsCfg)
}

// ProvideProgressRepository creates the durable progress repository
func ProvideProgressRepository(client *awsdynamodb.Client, cfg *config.Config, logger *zap.Logger) ports.ProgressRepository {
	return dynamopersistence.NewProgressRepository(client, cfg.DynamoDBTable, logger)
}

// ProvideRemoteGateway creates the remote backend client
func ProvideRemoteGateway(cfg *config.Config, tracer *observability.Tracer, logger *zap.Logger) ports.RemoteGateway {
	client := backend.NewClient(cfg, logger)
	if cfg.EnableTracing {
		client = client.WithTracer(tracer)
	}
	return client
}

// ProvideEventBus creates the EventBridge event bus
func ProvideEventBus(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) ports.EventBus {
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideMetrics creates the CloudWatch metrics sink
func ProvideMetrics(client *awscloudwatch.Client, cfg *config.Config, logger *zap.Logger) *observability.Metrics {
	return observability.NewMetrics(client, cfg.MetricsNamespace, logger, cfg.EnableMetrics)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer() *observability.Tracer {
	return observability.NewTracer("vitae-backend")
}

// ProvideJWTValidator creates the token validator
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	jwtCfg := auth.JWTConfig{
		SecretKey: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
	}
	if cfg.JWTAudience != "" {
		jwtCfg.Audience = []string{cfg.JWTAudience}
	}
	return auth.NewJWTValidator(jwtCfg)
}
