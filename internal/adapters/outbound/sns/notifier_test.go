package sns

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/shopspring/decimal"

	"github.com/riskdesk/orderqueue/internal/ports/outbound"
)

// mockSNSClient implements SNSPublisher for testing.
type mockSNSClient struct {
	publishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
	calls       []*sns.PublishInput
}

func (m *mockSNSClient) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.calls = append(m.calls, params)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, params, optFns...)
	}
	return &sns.PublishOutput{
		MessageId: aws.String("test-message-id"),
	}, nil
}

const testTopicARN = "arn:aws:sns:ap-south-1:123456789:order-submissions"

func testEvent() outbound.SubmissionEvent {
	return outbound.SubmissionEvent{
		OrderID:     "240830000123456",
		SheetRow:    4,
		Symbol:      "INFY",
		Exchange:    "NSE",
		Direction:   "BUY",
		Quantity:    10,
		Product:     "CNC",
		LimitPrice:  decimal.RequireFromString("1520.45"),
		SubmittedAt: time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC),
	}
}

func TestNewNotifier_RequiresClient(t *testing.T) {
	_, err := NewNotifier(nil, Config{TopicARN: testTopicARN})
	if err == nil {
		t.Error("expected error for nil client")
	}
	if err.Error() != "sns client is required" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewNotifier_RequiresTopicARN(t *testing.T) {
	_, err := NewNotifier(&mockSNSClient{}, Config{TopicARN: ""})
	if err == nil {
		t.Error("expected error for missing topic ARN")
	}
	if err.Error() != "topic ARN is required" {
		t.Errorf("expected error %q, got %q", "topic ARN is required", err.Error())
	}
}

func TestNewNotifier_AppliesDefaults(t *testing.T) {
	notifier, err := NewNotifier(&mockSNSClient{}, Config{TopicARN: testTopicARN})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.config.MaxRetries != 3 {
		t.Errorf("expected MaxRetries=3, got %d", notifier.config.MaxRetries)
	}
	if notifier.config.InitialBackoff != 100*time.Millisecond {
		t.Errorf("expected InitialBackoff=100ms, got %v", notifier.config.InitialBackoff)
	}
	if notifier.config.BackoffFactor != 2.0 {
		t.Errorf("expected BackoffFactor=2.0, got %v", notifier.config.BackoffFactor)
	}
}

func TestNotifySubmission_Success(t *testing.T) {
	client := &mockSNSClient{}
	notifier, err := NewNotifier(client, Config{TopicARN: testTopicARN})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := notifier.NotifySubmission(context.Background(), testEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(client.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(client.calls))
	}

	call := client.calls[0]
	if *call.TopicArn != testTopicARN {
		t.Errorf("unexpected topic ARN: %s", *call.TopicArn)
	}

	// Filtering attributes
	if attr, ok := call.MessageAttributes["exchange"]; !ok || *attr.StringValue != "NSE" {
		t.Errorf("exchange attribute = %v", call.MessageAttributes["exchange"])
	}
	if attr, ok := call.MessageAttributes["direction"]; !ok || *attr.StringValue != "BUY" {
		t.Errorf("direction attribute = %v", call.MessageAttributes["direction"])
	}

	// Body round-trips as JSON
	var decoded outbound.SubmissionEvent
	if err := json.Unmarshal([]byte(*call.Message), &decoded); err != nil {
		t.Fatalf("failed to unmarshal message: %v", err)
	}
	if decoded.OrderID != "240830000123456" {
		t.Errorf("OrderID = %q", decoded.OrderID)
	}
	if !decoded.LimitPrice.Equal(decimal.RequireFromString("1520.45")) {
		t.Errorf("LimitPrice = %s", decoded.LimitPrice)
	}
}

func TestNotifySubmission_RetriesThrottling(t *testing.T) {
	attempts := 0
	client := &mockSNSClient{
		publishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			attempts++
			if attempts < 3 {
				return nil, &types.ThrottledException{Message: aws.String("slow down")}
			}
			return &sns.PublishOutput{MessageId: aws.String("ok")}, nil
		},
	}
	notifier, err := NewNotifier(client, Config{
		TopicARN:       testTopicARN,
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := notifier.NotifySubmission(context.Background(), testEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestNotifySubmission_ExhaustsRetries(t *testing.T) {
	client := &mockSNSClient{
		publishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("network down")
		},
	}
	notifier, err := NewNotifier(client, Config{
		TopicARN:       testTopicARN,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2.0,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = notifier.NotifySubmission(context.Background(), testEvent())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if len(client.calls) != 3 {
		t.Errorf("expected 3 attempts (1 + 2 retries), got %d", len(client.calls))
	}
}

func TestNotifySubmission_ContextCancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &mockSNSClient{
		publishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			cancel()
			return nil, errors.New("transient")
		},
	}
	notifier, err := NewNotifier(client, Config{
		TopicARN:       testTopicARN,
		MaxRetries:     5,
		InitialBackoff: 50 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = notifier.NotifySubmission(ctx, testEvent())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNotifier_ClosedRejectsPublish(t *testing.T) {
	client := &mockSNSClient{}
	notifier, err := NewNotifier(client, Config{TopicARN: testTopicARN})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := notifier.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := notifier.NotifySubmission(context.Background(), testEvent()); err == nil {
		t.Error("expected error publishing after Close")
	}
	if len(client.calls) != 0 {
		t.Errorf("expected no calls after Close, got %d", len(client.calls))
	}
}
