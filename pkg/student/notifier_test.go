package student

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSQSClient struct {
	mock.Mock
}

func (m *MockSQSClient) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

func TestSQSNotifier_StudentSaved(t *testing.T) {
	mockSQS := new(MockSQSClient)
	mockSQS.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		return *in.QueueUrl == "https://sqs.ap-south-1.amazonaws.com/123/students" &&
			*in.MessageBody == `{"event":"student.saved","studentid":"s1"}` &&
			*in.MessageAttributes["event"].StringValue == EventSaved
	})).Return(&sqs.SendMessageOutput{}, nil)

	n := NewSQSNotifier(mockSQS, "https://sqs.ap-south-1.amazonaws.com/123/students")
	rec := mustParse(t, `{"studentid":"s1","name":"Alice","class":"5A","age":11}`)

	require.NoError(t, n.StudentSaved(context.Background(), rec))
	mockSQS.AssertExpectations(t)
}

func TestSQSNotifier_NumericID(t *testing.T) {
	mockSQS := new(MockSQSClient)
	mockSQS.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		return *in.MessageBody == `{"event":"student.saved","studentid":42}`
	})).Return(&sqs.SendMessageOutput{}, nil)

	n := NewSQSNotifier(mockSQS, "https://queue")
	rec := mustParse(t, `{"studentid":42,"name":"Alice","class":"5A","age":11}`)

	require.NoError(t, n.StudentSaved(context.Background(), rec))
	mockSQS.AssertExpectations(t)
}

func TestSQSNotifier_Error(t *testing.T) {
	mockSQS := new(MockSQSClient)
	mockSQS.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	n := NewSQSNotifier(mockSQS, "https://queue")
	err := n.StudentSaved(context.Background(), Record{StudentID: "s1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNoopNotifier(t *testing.T) {
	assert.NoError(t, NoopNotifier{}.StudentSaved(context.Background(), Record{}))
}
