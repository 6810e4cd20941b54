package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"vitalwatch-service/internal/app/config"
	"vitalwatch-service/internal/app/contracts"
	"vitalwatch-service/internal/pkg/constvars"
	"vitalwatch-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// EngineClient talks to the external OCR engine over HTTP. Requests are rate
// limited across all workers sharing the client and bounded by the configured
// per-request timeout.
type EngineClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	log        *zap.Logger
}

type engineResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Words      int     `json:"words"`
	Lines      int     `json:"lines"`
}

func NewEngineClient(ocrConfig config.OCR, log *zap.Logger) *EngineClient {
	requestsPerSecond := ocrConfig.EngineRequestsPerSecond
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &EngineClient{
		baseURL:    ocrConfig.EngineBaseURL,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		timeout:    time.Duration(ocrConfig.EngineTimeoutInSeconds) * time.Second,
		log:        log,
	}
}

func (c *EngineClient) Recognize(ctx context.Context, image []byte) (*contracts.RecognitionResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, exceptions.ErrOCREngineRequest(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/recognize", bytes.NewReader(image))
	if err != nil {
		return nil, exceptions.ErrOCREngineRequest(err)
	}
	req.Header.Set("Content-Type", constvars.MIMEOctetStream)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, exceptions.ErrOCREngineTimeout(err)
		}
		return nil, exceptions.ErrOCREngineRequest(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != constvars.StatusOK {
		return nil, exceptions.ErrOCREngineRequest(fmt.Errorf("engine returned status %d", resp.StatusCode))
	}

	var decoded engineResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}

	return &contracts.RecognitionResult{
		Text:       decoded.Text,
		Confidence: decoded.Confidence,
		Words:      decoded.Words,
		Lines:      decoded.Lines,
	}, nil
}
