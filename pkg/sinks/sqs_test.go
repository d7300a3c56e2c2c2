package sinks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/rikkicom/call2fa-go/internal/domain"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-456")}, nil
}

func TestSQSSinkPublishSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	sink := &sqsSink{
		id:       "sqs-1",
		queueURL: "https://sqs.example/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := sink.Publish(context.Background(), Event{
		ReceiptID: "r1",
		Call:      domain.CallStatus{CallID: "95831458", Status: domain.CallStatusNoAnswer},
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://sqs.example/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["call_id"]
	if !ok || attr.StringValue == nil || aws.ToString(attr.StringValue) != "95831458" {
		t.Fatalf("call_id attribute missing or wrong: %#v", attr)
	}
	if client.input.MessageBody == nil || !strings.Contains(aws.ToString(client.input.MessageBody), `"status":"no-answer"`) {
		t.Fatalf("MessageBody missing status: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSSinkPublishError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	sink := &sqsSink{
		id:       "sqs-1",
		queueURL: "https://sqs.example/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := sink.Publish(context.Background(), Event{
		Call: domain.CallStatus{CallID: "95831458"},
	})
	if err == nil {
		t.Fatalf("expected error from Publish")
	}
}
