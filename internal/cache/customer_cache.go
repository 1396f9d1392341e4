package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/events"
)

// CustomerSummary is the read-only projection served from Redis. It never
// carries credentials or reset tokens, and it is never consulted by the
// rule-enforcing services: a stale entry can only produce a stale read.
type CustomerSummary struct {
	ID              string                `json:"id"`
	FullName        string                `json:"full_name"`
	Phone           string                `json:"phone"`
	Email           string                `json:"email"`
	City            string                `json:"city"`
	Community       string                `json:"community"`
	Landmark        string                `json:"landmark"`
	WasteType       domain.WasteType      `json:"waste_type"`
	Frequency       domain.Frequency      `json:"frequency"`
	Status          domain.CustomerStatus `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	AgreedAmountUSD *domain.Amount        `json:"agreed_amount_usd,omitempty"`
	AgreedAmountLRD *domain.Amount        `json:"agreed_amount_lrd,omitempty"`
	QuoteStartDate  *time.Time            `json:"quote_start_date,omitempty"`
}

// CustomerSummaryCache caches customer summaries with a TTL.
type CustomerSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCustomerSummaryCache constructs the cache. A nil client disables it.
func NewCustomerSummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CustomerSummaryCache {
	return &CustomerSummaryCache{client: client, ttl: ttl, logger: logger}
}

func summaryKey(customerID string) string {
	return "customer_summary:" + customerID
}

// Get returns the cached summary, or false when absent or unreadable.
func (c *CustomerSummaryCache) Get(ctx context.Context, customerID string) (*CustomerSummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, summaryKey(customerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var summary CustomerSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

// Set stores a summary. Failures are logged and ignored.
func (c *CustomerSummaryCache) Set(ctx context.Context, summary *CustomerSummary) {
	if c == nil || c.client == nil || summary == nil {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, summaryKey(summary.ID), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("summary cache set failed", zap.Error(err))
	}
}

// Invalidate drops a customer's cached summary.
func (c *CustomerSummaryCache) Invalidate(ctx context.Context, customerID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, summaryKey(customerID)).Err(); err != nil {
		c.logger.Warn("summary cache invalidate failed", zap.Error(err))
	}
}

// RegisterInvalidation drops cached entries whenever a mutation event touches
// the customer.
func (c *CustomerSummaryCache) RegisterInvalidation(dispatcher events.Dispatcher) {
	if c == nil || dispatcher == nil {
		return
	}
	handler := func(ctx context.Context, event events.Event) error {
		c.Invalidate(ctx, event.CustomerID)
		return nil
	}
	dispatcher.Subscribe(events.EventCustomerUpdated, handler)
	dispatcher.Subscribe(events.EventQuoteIssued, handler)
	dispatcher.Subscribe(events.EventPaymentSubmitted, handler)
	dispatcher.Subscribe(events.EventPaymentVerified, handler)
}
