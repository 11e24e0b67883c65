package annotation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"golang.org/x/time/rate"

	"github.com/ademuri/taste-tools/internal/taste"
)

const DefaultModel = "gpt-5-mini"

// OpenAIClient annotates songs through the Responses API with a strict JSON
// schema.
type OpenAIClient struct {
	client   openai.Client
	model    string
	limiter  *rate.Limiter
	attempts uint
	delay    time.Duration

	requestOptions []option.RequestOption
}

type Option func(*OpenAIClient)

// WithRequestOptions passes options through to the OpenAI client, for
// example a different base URL.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *OpenAIClient) {
		c.requestOptions = append(c.requestOptions, opts...)
	}
}

// WithLimiter replaces the default one-request-per-second limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *OpenAIClient) {
		c.limiter = l
	}
}

// WithRetry sets the number of attempts and the initial backoff delay.
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *OpenAIClient) {
		c.attempts = attempts
		c.delay = delay
	}
}

func NewOpenAIClient(apiKey, model string, opts ...Option) *OpenAIClient {
	if model == "" {
		model = DefaultModel
	}
	c := &OpenAIClient{
		model:    model,
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		attempts: 3,
		delay:    5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}

	// Retries are handled here so they share the limiter.
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, c.requestOptions...)
	c.client = openai.NewClient(reqOpts...)
	return c
}

// Model is the model name sent with each request.
func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) Annotate(ctx context.Context, songs []string) ([]taste.RawTrackAnnotation, error) {
	if len(songs) == 0 {
		return []taste.RawTrackAnnotation{}, nil
	}

	params := responses.ResponseNewParams{
		Model:        c.model,
		Instructions: openai.String(annotationInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(buildInput(songs), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "TrackAnnotations",
					Schema:      annotationSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Per-song audio and mood annotations"),
					Type:        "json_schema",
				},
			},
		},
	}

	var resp *responses.Response
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
			var err error
			resp, err = c.client.Responses.New(ctx, params)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
	)
	if err != nil {
		return nil, fmt.Errorf("annotation: request: %w", err)
	}

	return decodeBatch(resp.OutputText(), songs)
}

// isRetryable reports whether err is a rate limit or server error.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests") ||
		strings.Contains(s, "server_error")
}
