package ocr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"vitalwatch-service/internal/app/contracts"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/dto/events"
)

type publishedEvent struct {
	queue   string
	payload interface{}
}

type fakeTransport struct {
	mu         sync.Mutex
	deliveries chan amqp.Delivery
	published  []publishedEvent
	publishErr map[string]error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{
		deliveries: make(chan amqp.Delivery, 8),
		publishErr: make(map[string]error),
	}
}

func (f *fakeTransport) Publish(_ context.Context, queue string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.publishErr[queue]; err != nil {
		return err
	}
	f.published = append(f.published, publishedEvent{queue: queue, payload: payload})
	return nil
}

func (f *fakeTransport) Consume(string, string) (<-chan amqp.Delivery, error) {
	return f.deliveries, nil
}

func (f *fakeTransport) Close() error { return nil }

func (f *fakeTransport) events() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]publishedEvent, len(f.published))
	copy(out, f.published)
	return out
}

type fakeAcknowledger struct {
	mu   sync.Mutex
	acks int
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *fakeAcknowledger) Nack(uint64, bool, bool) error { return nil }
func (a *fakeAcknowledger) Reject(uint64, bool) error     { return nil }

func (a *fakeAcknowledger) ackCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acks
}

type fakeImageStore struct {
	image []byte
	err   error
}

func (s *fakeImageStore) FetchImage(context.Context, string) ([]byte, error) {
	return s.image, s.err
}

type fakeNormalizer struct {
	out []byte
	err error
}

func (n *fakeNormalizer) Normalize(_ context.Context, raw []byte) ([]byte, error) {
	if n.err != nil {
		return nil, n.err
	}
	if n.out != nil {
		return n.out, nil
	}
	return raw, nil
}

type fakeRecognizer struct {
	mu       sync.Mutex
	received []byte
	result   *contracts.RecognitionResult
	err      error
}

func (r *fakeRecognizer) Recognize(_ context.Context, image []byte) (*contracts.RecognitionResult, error) {
	r.mu.Lock()
	r.received = image
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

func (r *fakeRecognizer) lastInput() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.received
}

func validSubmission() events.ImageSubmission {
	return events.ImageSubmission{
		DataID:        "data-1",
		UserID:        "user-1",
		UserEmail:     "patient@example.com",
		ImagePath:     "uploads/data-1.jpg",
		CorrelationID: "corr-1",
		Timestamp:     time.Now().UTC(),
	}
}

// runOne pushes a single delivery through the worker and waits for Run to
// drain the closed channel.
func runOne(t *testing.T, worker *Worker, transport *fakeTransport, body []byte, ack *fakeAcknowledger) {
	t.Helper()

	transport.deliveries <- amqp.Delivery{Body: body, DeliveryTag: 1, Acknowledger: ack}
	close(transport.deliveries)

	done := make(chan struct{})
	go func() {
		_ = worker.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not finish processing")
	}
}

func TestWorker_PublishesExtractedVitalsOnSuccess(t *testing.T) {
	transport := newFakeTransport()
	recognizer := &fakeRecognizer{result: &contracts.RecognitionResult{
		Text:       "HR: 72 SpO2: 98%",
		Confidence: 91.5,
		Words:      4,
		Lines:      2,
	}}
	worker := NewWorker("ocr-worker-0-1", transport,
		&fakeImageStore{image: []byte("jpeg-bytes")}, &fakeNormalizer{}, recognizer, zap.NewNop())

	body, err := json.Marshal(validSubmission())
	assert.NoError(t, err)
	ack := &fakeAcknowledger{}

	runOne(t, worker, transport, body, ack)

	published := transport.events()
	assert.Len(t, published, 1)
	assert.Equal(t, constvars.QueueVitalsExtracted, published[0].queue)

	extracted, ok := published[0].payload.(*events.VitalsExtracted)
	assert.True(t, ok)
	assert.Equal(t, "data-1", extracted.DataID)
	assert.Equal(t, "user-1", extracted.UserID)
	assert.Equal(t, "corr-1", extracted.CorrelationID)
	assert.Equal(t, "ocr-worker-0-1", extracted.WorkerID)
	assert.Equal(t, 91.5, extracted.OCRConfidence)
	assert.Equal(t, "HR: 72 SpO2: 98%", extracted.ExtractedData.RawText)
	assert.NotNil(t, extracted.ExtractedData.HeartRate)
	assert.Equal(t, 72, *extracted.ExtractedData.HeartRate)
	assert.NotNil(t, extracted.ExtractedData.OxygenSaturation)
	assert.Equal(t, 98, *extracted.ExtractedData.OxygenSaturation)
	assert.Equal(t, 4, extracted.Metadata.WordsDetected)

	assert.Equal(t, 1, ack.ackCount())
}

func TestWorker_PublishesErrorEventWhenRecognitionFails(t *testing.T) {
	transport := newFakeTransport()
	recognizer := &fakeRecognizer{err: errors.New("engine unreachable")}
	worker := NewWorker("ocr-worker-0-1", transport,
		&fakeImageStore{image: []byte("jpeg-bytes")}, &fakeNormalizer{}, recognizer, zap.NewNop())

	body, err := json.Marshal(validSubmission())
	assert.NoError(t, err)
	ack := &fakeAcknowledger{}

	runOne(t, worker, transport, body, ack)

	published := transport.events()
	assert.Len(t, published, 1)
	assert.Equal(t, constvars.QueueError, published[0].queue)

	errorEvent, ok := published[0].payload.(events.ErrorEvent)
	assert.True(t, ok)
	assert.Equal(t, constvars.ServiceOCR, errorEvent.Service)
	assert.Equal(t, "data-1", errorEvent.DataID)
	assert.Equal(t, "corr-1", errorEvent.CorrelationID)
	assert.Contains(t, errorEvent.Error, "engine unreachable")

	assert.Equal(t, 1, ack.ackCount())
}

func TestWorker_FallsBackToRawImageWhenNormalizationFails(t *testing.T) {
	transport := newFakeTransport()
	recognizer := &fakeRecognizer{result: &contracts.RecognitionResult{Text: "HR: 80", Confidence: 70}}
	worker := NewWorker("ocr-worker-0-1", transport,
		&fakeImageStore{image: []byte("raw-bytes")},
		&fakeNormalizer{err: errors.New("not an image")}, recognizer, zap.NewNop())

	body, err := json.Marshal(validSubmission())
	assert.NoError(t, err)

	runOne(t, worker, transport, body, &fakeAcknowledger{})

	assert.Equal(t, []byte("raw-bytes"), recognizer.lastInput())
	published := transport.events()
	assert.Len(t, published, 1)
	assert.Equal(t, constvars.QueueVitalsExtracted, published[0].queue)
}

func TestWorker_PublishesErrorEventForInvalidSubmission(t *testing.T) {
	transport := newFakeTransport()
	worker := NewWorker("ocr-worker-0-1", transport,
		&fakeImageStore{}, &fakeNormalizer{}, &fakeRecognizer{}, zap.NewNop())

	submission := validSubmission()
	submission.ImagePath = ""
	body, err := json.Marshal(submission)
	assert.NoError(t, err)
	ack := &fakeAcknowledger{}

	runOne(t, worker, transport, body, ack)

	published := transport.events()
	assert.Len(t, published, 1)
	assert.Equal(t, constvars.QueueError, published[0].queue)
	assert.Equal(t, 1, ack.ackCount())
}

func TestWorker_AcksAndDropsUnparseableBody(t *testing.T) {
	transport := newFakeTransport()
	worker := NewWorker("ocr-worker-0-1", transport,
		&fakeImageStore{}, &fakeNormalizer{}, &fakeRecognizer{}, zap.NewNop())

	ack := &fakeAcknowledger{}
	runOne(t, worker, transport, []byte("not json at all"), ack)

	assert.Empty(t, transport.events())
	assert.Equal(t, 1, ack.ackCount())
}

func TestWorker_PublishesErrorEventWhenExtractedPublishFails(t *testing.T) {
	transport := newFakeTransport()
	transport.publishErr[constvars.QueueVitalsExtracted] = errors.New("channel closed")
	recognizer := &fakeRecognizer{result: &contracts.RecognitionResult{Text: "HR: 72", Confidence: 90}}
	worker := NewWorker("ocr-worker-0-1", transport,
		&fakeImageStore{image: []byte("jpeg-bytes")}, &fakeNormalizer{}, recognizer, zap.NewNop())

	body, err := json.Marshal(validSubmission())
	assert.NoError(t, err)

	runOne(t, worker, transport, body, &fakeAcknowledger{})

	published := transport.events()
	assert.Len(t, published, 1)
	assert.Equal(t, constvars.QueueError, published[0].queue)
}
