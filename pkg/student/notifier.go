package student

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// EventSaved é o tipo do evento publicado após um insert.
const EventSaved = "student.saved"

// Notifier avisa outros sistemas sobre registros gravados.
type Notifier interface {
	StudentSaved(ctx context.Context, rec Record) error
}

// SQSClient interface para facilitar mock
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type savedEvent struct {
	Event     string `json:"event"`
	StudentID any    `json:"studentid"`
}

// SQSNotifier publica os eventos numa fila SQS.
type SQSNotifier struct {
	client   SQSClient
	queueURL string
}

func NewSQSNotifier(client SQSClient, queueURL string) *SQSNotifier {
	return &SQSNotifier{client: client, queueURL: queueURL}
}

func (n *SQSNotifier) StudentSaved(ctx context.Context, rec Record) error {
	body, err := json.Marshal(savedEvent{Event: EventSaved, StudentID: rec.StudentID})
	if err != nil {
		return fmt.Errorf("notifier: encode event: %w", err)
	}

	_, err = n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(EventSaved)},
		},
	})
	if err != nil {
		return fmt.Errorf("notifier: send message: %w", err)
	}
	return nil
}

// NoopNotifier é usado quando nenhuma fila está configurada.
type NoopNotifier struct{}

func (NoopNotifier) StudentSaved(context.Context, Record) error { return nil }
