package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client provides instance-scoped Redis storage for sheets.
// All keys and channels are automatically namespaced with the instance name.
// The client is thread-safe and can be used concurrently from multiple goroutines.
type Client struct {
	rdb          *redis.Client
	instanceName string
	now          func() time.Time
	logger       *zap.Logger
}

var _ Store = (*Client)(nil)

// NewClient creates a new sheet client for the specified instance.
//
// Parameters:
//   - redisOpts: Redis connection options (address, password, DB, etc.)
//   - instanceName: tally instance identifier (must not be empty)
//
// Returns an error if instanceName is empty.
func NewClient(redisOpts *redis.Options, instanceName string) (*Client, error) {
	if instanceName == "" {
		return nil, fmt.Errorf("instance name cannot be empty")
	}

	return &Client{
		rdb:          redis.NewClient(redisOpts),
		instanceName: instanceName,
		now:          time.Now,
		logger:       zap.NewNop(),
	}, nil
}

// SetLogger sets the logger used for failures that do not fail the
// operation, such as an unpublished row event. A nil logger discards them.
func (c *Client) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// InstanceName returns the namespace this client operates in.
func (c *Client) InstanceName() string {
	return c.instanceName
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies Redis connectivity. Useful for health checks.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Headers reads the header row of a sheet.
// Returns ErrSheetNotFound if the header key does not exist.
func (c *Client) Headers(ctx context.Context, sheetName string) ([]string, error) {
	if err := ValidateName(sheetName); err != nil {
		return nil, err
	}

	data, err := c.rdb.Get(ctx, HeadersKey(c.instanceName, sheetName)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers from Redis: %w", err)
	}

	headers, err := DecodeRow(data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize headers: %w", err)
	}
	return headers, nil
}

// Rows reads every data row of a sheet with LRANGE 0 -1.
func (c *Client) Rows(ctx context.Context, sheetName string) ([]Row, error) {
	// Existence is defined by the header row; a sheet may have no rows yet.
	if _, err := c.Headers(ctx, sheetName); err != nil {
		return nil, err
	}

	raw, err := c.rdb.LRange(ctx, RowsKey(c.instanceName, sheetName), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from Redis: %w", err)
	}

	rows, err := DecodeRows(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize rows: %w", err)
	}
	return rows, nil
}

// SetHeaders writes the header row and registers the sheet name.
// When the sheet already holds rows, the new header must keep the old width.
func (c *Client) SetHeaders(ctx context.Context, sheetName string, headers []string) error {
	if err := ValidateName(sheetName); err != nil {
		return err
	}
	if err := ValidateHeaders(headers); err != nil {
		return fmt.Errorf("invalid headers: %w", err)
	}

	rowCount, err := c.rdb.LLen(ctx, RowsKey(c.instanceName, sheetName)).Result()
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}
	if rowCount > 0 {
		existing, err := c.Headers(ctx, sheetName)
		if err != nil && !IsNotFound(err) {
			return err
		}
		if existing != nil && len(existing) != len(headers) {
			return fmt.Errorf("%w: sheet %q has %d rows of width %d, new header has %d columns",
				ErrRowWidth, sheetName, rowCount, len(existing), len(headers))
		}
	}

	encoded, err := EncodeRow(headers)
	if err != nil {
		return fmt.Errorf("failed to serialize headers: %w", err)
	}

	_, err = c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, HeadersKey(c.instanceName, sheetName), encoded, 0)
		pipe.SAdd(ctx, SheetsKey(c.instanceName), sheetName)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write headers to Redis: %w", err)
	}
	return nil
}

// AppendRow appends a row with RPUSH and publishes a RowEvent.
// Publishes full event JSON to tally:{instance}:sheet:{name}:row_events after
// a successful write. The row is committed once RPUSH succeeds, so a failed
// publish is logged and the event is still returned without error.
func (c *Client) AppendRow(ctx context.Context, sheetName string, row Row) (*RowEvent, error) {
	headers, err := c.Headers(ctx, sheetName)
	if err != nil {
		return nil, err
	}
	if err := checkWidth(headers, row); err != nil {
		return nil, err
	}

	encoded, err := EncodeRow(row)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize row: %w", err)
	}

	length, err := c.rdb.RPush(ctx, RowsKey(c.instanceName, sheetName), encoded).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to append row to Redis: %w", err)
	}

	event := &RowEvent{
		ID:          uuid.New().String(),
		Sheet:       sheetName,
		Index:       int(length) - 1,
		Values:      append(Row(nil), row...),
		CreatedAtMs: c.now().UnixMilli(),
	}

	c.publish(ctx, event)
	return event, nil
}

// publish sends event to the sheet's row-events channel. Pub/Sub delivery is
// at-most-once, so failures are logged rather than returned.
func (c *Client) publish(ctx context.Context, event *RowEvent) {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		c.logger.Warn("Failed to marshal row event",
			zap.String("sheet", event.Sheet),
			zap.Int("index", event.Index),
			zap.Error(err))
		return
	}

	channel := RowEventsChannel(c.instanceName, event.Sheet)
	if err := c.rdb.Publish(ctx, channel, eventJSON).Err(); err != nil {
		c.logger.Warn("Failed to publish row event",
			zap.String("channel", channel),
			zap.String("event_id", event.ID),
			zap.Int("index", event.Index),
			zap.Error(err))
	}
}

// Sheets returns all registered sheet names, sorted.
func (c *Client) Sheets(ctx context.Context) ([]string, error) {
	names, err := c.rdb.SMembers(ctx, SheetsKey(c.instanceName)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet names from Redis: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	sort.Strings(names)
	return names, nil
}

// Subscription represents an active Pub/Sub subscription to row events.
// Caller must call Close() when done to clean up resources.
type Subscription struct {
	events <-chan *RowEvent
	errors <-chan error
	cancel func()
	done   <-chan struct{}
	once   sync.Once
}

// Events returns the channel of row events.
// The channel will be closed when the subscription is closed or the context is cancelled.
func (s *Subscription) Events() <-chan *RowEvent {
	return s.events
}

// Errors returns the channel of subscription errors.
// Errors include JSON unmarshaling and validation failures; the offending
// message is skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and waits for its goroutine to exit.
// Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	<-s.done
	return nil
}

// SubscribeRowEvents subscribes to row events of one sheet.
// The subscription is confirmed by Redis before this method returns, so
// rows appended afterwards are delivered. Context cancellation also stops
// the subscription.
//
// Events are delivered on a buffered channel (size 10). Redis Pub/Sub is
// at-most-once: slow subscribers may miss events.
func (c *Client) SubscribeRowEvents(ctx context.Context, sheetName string) (*Subscription, error) {
	if err := ValidateName(sheetName); err != nil {
		return nil, err
	}

	channel := RowEventsChannel(c.instanceName, sheetName)
	pubsub := c.rdb.Subscribe(ctx, channel)

	// Wait for the subscription confirmation.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	eventsChan := make(chan *RowEvent, 10)
	errorsChan := make(chan error, 10)
	done := make(chan struct{})

	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(done)
		defer close(eventsChan)
		defer close(errorsChan)
		defer pubsub.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event RowEvent
				err := json.Unmarshal([]byte(msg.Payload), &event)
				if err != nil {
					err = fmt.Errorf("failed to unmarshal row event: %w", err)
				} else if vErr := event.Validate(); vErr != nil {
					err = fmt.Errorf("invalid row event: %w", vErr)
				}
				if err != nil {
					select {
					case errorsChan <- err:
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case eventsChan <- &event:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		events: eventsChan,
		errors: errorsChan,
		cancel: cancelFunc,
		done:   done,
	}, nil
}
