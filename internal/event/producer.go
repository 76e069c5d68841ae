// Package event publishes query analytics to Kafka. Publication is
// fire-and-forget: a broker outage degrades to a logged warning, never a
// failed query.
package event

import (
	"context"
	"log/slog"

	"github.com/ketanjain7981/shop-savy/pkg/kafka"
	"github.com/ketanjain7981/shop-savy/pkg/logger"
)

const (
	TopicAnalytics = "shopping.analytics"

	EventSearchPerformed       = "search.performed"
	EventProductViewed         = "product.viewed"
	EventRecommendationsServed = "recommendations.served"

	sourceName    = "query-engine"
	aggregateType = "session"
)

// SearchPerformedData is the payload of a search.performed event.
type SearchPerformedData struct {
	Query   string `json:"query"`
	Results int    `json:"results"`
}

// ProductViewedData is the payload of a product.viewed event.
type ProductViewedData struct {
	ProductID int64 `json:"product_id"`
}

// RecommendationsServedData is the payload of a recommendations.served event.
type RecommendationsServedData struct {
	Basis   string `json:"basis"`
	Results int    `json:"results"`
}

// Publisher emits query analytics events keyed by conversation session.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher creates an analytics publisher on top of a Kafka producer.
func NewPublisher(producer *kafka.Producer, log *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: log}
}

func (p *Publisher) SearchPerformed(ctx context.Context, query string, results int) {
	p.publish(ctx, EventSearchPerformed, SearchPerformedData{Query: query, Results: results})
}

func (p *Publisher) ProductViewed(ctx context.Context, productID int64) {
	p.publish(ctx, EventProductViewed, ProductViewedData{ProductID: productID})
}

func (p *Publisher) RecommendationsServed(ctx context.Context, basis string, results int) {
	p.publish(ctx, EventRecommendationsServed, RecommendationsServedData{Basis: basis, Results: results})
}

func (p *Publisher) publish(ctx context.Context, eventType string, data any) {
	aggregateID := logger.SessionIDFromContext(ctx)
	if aggregateID == "" {
		aggregateID = "anonymous"
	}

	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, sourceName, data)
	if err != nil {
		p.logger.WarnContext(ctx, "analytics event not built",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.producer.Publish(ctx, TopicAnalytics, evt); err != nil {
		p.logger.WarnContext(ctx, "analytics event dropped",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
	}
}
