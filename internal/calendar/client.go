package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/rofi-calendar/internal/instrumentation"
	"github.com/teemow/rofi-calendar/internal/logging"
	"github.com/teemow/rofi-calendar/internal/settings"
)

const operationList = "list"

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

type clientOptions struct {
	endpoint string
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
}

// Option configures a Client
type Option func(*clientOptions)

// WithEndpoint overrides the Calendar API base URL
func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) {
		o.endpoint = endpoint
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithMetrics records every page request as a Google API operation
func WithMetrics(metrics *instrumentation.Metrics) Option {
	return func(o *clientOptions) {
		o.metrics = metrics
	}
}

// NewClient creates a Calendar client that sends requests with httpClient.
// httpClient is expected to carry the OAuth credentials.
func NewClient(ctx context.Context, httpClient *http.Client, opts ...Option) (*Client, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("http client cannot be nil")
	}

	o := &clientOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	svcOpts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if o.endpoint != "" {
		svcOpts = append(svcOpts, option.WithEndpoint(o.endpoint))
	}

	svc, err := calendar.NewService(ctx, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		logger:  logging.WithService(o.logger, instrumentation.ServiceCalendar),
		metrics: o.metrics,
	}, nil
}

// FetchEvents returns every event of calendarID that overlaps window,
// in start-time order. Recurring events are expanded into instances.
// Pages are requested until the response carries no next page token.
func (c *Client) FetchEvents(ctx context.Context, calendarID string, window settings.TimeWindow) ([]Event, error) {
	logger := c.logger.With(logging.Calendar(calendarID))

	events := make([]Event, 0)
	pageToken := ""
	for page := 0; ; page++ {
		resp, err := c.listPage(ctx, calendarID, window, pageToken, page)
		if err != nil {
			logger.Debug("list events failed", slog.Int("page", page), logging.Status(logging.StatusError), logging.Err(err))
			return nil, &FetchError{CalendarID: calendarID, Err: err}
		}

		for _, item := range resp.Items {
			events = append(events, toEvent(item))
		}
		logger.Debug("fetched events page", slog.Int("page", page), slog.Int("items", len(resp.Items)), logging.Status(logging.StatusSuccess))

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return events, nil
}

func (c *Client) listPage(ctx context.Context, calendarID string, window settings.TimeWindow, pageToken string, page int) (*calendar.Events, error) {
	ctx, span := instrumentation.StartGoogleAPISpan(ctx, instrumentation.ServiceCalendar, operationList,
		attribute.String(instrumentation.SpanAttrCalendarID, calendarID),
		attribute.Int(instrumentation.SpanAttrPage, page),
	)
	defer span.End()

	call := c.svc.Events.List(calendarID).
		TimeMin(window.Start.Format(time.RFC3339Nano)).
		TimeMax(window.End.Format(time.RFC3339Nano)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	start := time.Now()
	resp, err := call.Do()
	duration := time.Since(start)

	c.logger.Debug("google api call",
		logging.Operation(operationList),
		logging.Calendar(calendarID),
		slog.Duration(logging.KeyDuration, duration),
	)

	if err != nil {
		instrumentation.SetSpanError(span, err)
		c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operationList, instrumentation.StatusError, duration)
		return nil, err
	}

	span.SetAttributes(attribute.Int(instrumentation.SpanAttrItems, len(resp.Items)))
	instrumentation.SetSpanSuccess(span)
	c.metrics.RecordGoogleAPIOperation(ctx, instrumentation.ServiceCalendar, operationList, instrumentation.StatusSuccess, duration)
	return resp, nil
}
