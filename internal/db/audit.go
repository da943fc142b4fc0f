package db

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"github.com/spacesedan/safegram/internal/models"
)

const (
	MODERATION_AUDIT_TABLE_NAME = "ModerationAudit"

	// Audit records exist for operational monitoring, not retention.
	auditRecordTTL = 24 * time.Hour
)

type AuditRecord struct {
	RecordID      string  `dynamodbav:"record_id"`
	Text          string  `dynamodbav:"text"`
	Category      string  `dynamodbav:"category"`
	IsSafe        bool    `dynamodbav:"is_safe"`
	Confidence    float64 `dynamodbav:"confidence"`
	Explanation   string  `dynamodbav:"explanation"`
	FlaggedReason string  `dynamodbav:"flagged_reason,omitempty"`
	CreatedAt     int64   `dynamodbav:"created_at"`
	TTL           int64   `dynamodbav:"ttl"`
}

// AuditLogger records every analyzed candidate and verdict in DynamoDB.
// Writes are fire-and-forget: no retry, no queuing, and a failure is logged
// but never surfaced to the submission path.
type AuditLogger struct {
	client *dynamodb.Client
}

func NewAuditLogger(client *dynamodb.Client) *AuditLogger {
	return &AuditLogger{client: client}
}

func (a *AuditLogger) LogVerdict(ctx context.Context, text string, verdict models.SafetyVerdict) {
	now := time.Now()
	record := AuditRecord{
		RecordID:      uuid.NewString(),
		Text:          text,
		Category:      string(verdict.Category),
		IsSafe:        verdict.IsSafe,
		Confidence:    verdict.Confidence,
		Explanation:   verdict.Explanation,
		FlaggedReason: verdict.FlaggedReason,
		CreatedAt:     now.Unix(),
		TTL:           now.Add(auditRecordTTL).Unix(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		slog.Error("[AuditLog] Failed to marshal audit record",
			slog.String("error", err.Error()))
		return
	}

	_, err = a.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(MODERATION_AUDIT_TABLE_NAME),
		Item:      item,
	})
	if err != nil {
		slog.Error("[AuditLog] Failed to write audit record",
			slog.String("error", err.Error()))
	}
}
