package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/iyhunko/sheets-storefront/internal/config"
	"github.com/iyhunko/sheets-storefront/internal/repository/memory"
	"github.com/iyhunko/sheets-storefront/internal/service"
	"github.com/iyhunko/sheets-storefront/internal/source"
	sqspkg "github.com/iyhunko/sheets-storefront/internal/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQueue is an in-process queue implementing both the publisher and consumer SQS APIs.
type fakeQueue struct {
	mu       sync.Mutex
	messages []types.Message
	deleted  []string
}

func (q *fakeQueue) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	handle := "handle-" + time.Now().Format(time.RFC3339Nano)
	q.messages = append(q.messages, types.Message{
		Body:              params.MessageBody,
		ReceiptHandle:     &handle,
		MessageAttributes: params.MessageAttributes,
	})
	id := "msg-1"
	return &sqs.SendMessageOutput{MessageId: &id}, nil
}

func (q *fakeQueue) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	// stand-in for long polling
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	out := &sqs.ReceiveMessageOutput{Messages: q.messages}
	q.messages = nil
	return out, nil
}

func (q *fakeQueue) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, *params.ReceiptHandle)
	return &sqs.DeleteMessageOutput{}, nil
}

func (q *fakeQueue) deletedCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.deleted)
}

func TestInquiryFlow_Integration(t *testing.T) {
	const queueURL = "https://sqs.us-east-1.amazonaws.com/123456789/catalogue-inquiries"
	queue := &fakeQueue{}

	sheet := NewSheetServer(t, catalogueCSV)
	svc := service.NewCatalogueService(
		source.NewCSVSource(sheet.URL, sheet.Client()),
		memory.NewSnapshotRepository(memory.DefaultRetention),
		sqspkg.NewPublisher(queue, queueURL),
		service.Options{MessagingBaseURL: "https://wa.me/10000000000"},
	)
	_, err := svc.Refresh(t.Context())
	require.NoError(t, err)
	router := NewRouter(&config.Config{Env: "dev"}, svc)

	// when a customer opens an inquiry
	w := doRequest(router, http.MethodGet, "/inquiry?code=C1")
	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	assert.True(t, strings.HasPrefix(location, "https://wa.me/10000000000?text="))

	// then the published message carries the served product and the same link
	queue.mu.Lock()
	require.Len(t, queue.messages, 1)
	var msg sqspkg.InquiryMessage
	require.NoError(t, json.Unmarshal([]byte(*queue.messages[0].Body), &msg))
	queue.mu.Unlock()
	assert.Equal(t, "C1", msg.Code)
	assert.Equal(t, "Collar Luna", msg.Name)
	assert.Equal(t, location, msg.Link)

	// and the notifier consumes and deletes it
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	consumer := sqspkg.NewConsumer(queue, queueURL)
	go func() {
		_ = consumer.Start(ctx)
	}()

	assert.Eventually(t, func() bool {
		return queue.deletedCount() == 1
	}, 2*time.Second, 20*time.Millisecond)
}
