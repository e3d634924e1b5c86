package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"time"

	"github.com/segmentio/kafka-go"

	"securelead/models"
	"securelead/utils"
)

// LeadConsumer читает события lead_events и поддерживает вторичные
// представления: кеш в Redis и поисковый индекс в Elasticsearch.
// В основное хранилище консьюмер не пишет — запись уже сделал API.
type LeadConsumer struct {
	cache    utils.RedisClient
	es       utils.ElasticsearchClient
	reader   *kafka.Reader
	shutdown chan struct{}
}

func NewLeadConsumer(cache utils.RedisClient, es utils.ElasticsearchClient) *LeadConsumer {
	return &LeadConsumer{
		cache: cache,
		es:    es,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: []string{os.Getenv("KAFKA_BROKER")},
			Topic:   utils.LeadEventsTopic,
			GroupID: "securelead-group",
			MaxWait: 10 * time.Second,
		}),
		shutdown: make(chan struct{}),
	}
}

func (c *LeadConsumer) Start(ctx context.Context) {
	log.Println("Starting lead events consumer...")

	go func() {
		for {
			select {
			case <-c.shutdown:
				return
			default:
				c.processMessages(ctx)
			}
		}
	}()
}

func (c *LeadConsumer) Stop() {
	close(c.shutdown)
	if err := c.reader.Close(); err != nil {
		log.Printf("Error closing Kafka reader: %v", err)
	}
}

func (c *LeadConsumer) processMessages(ctx context.Context) {
	msg, err := c.reader.ReadMessage(ctx)
	if err != nil {
		// После Close ридер отдаёт io.EOF — это не ошибка, а остановка
		if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
			return
		}
		log.Printf("Kafka read error: %v (will retry)", err)
		c.backoff(5 * time.Second)
		return
	}

	var event models.LeadEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("Failed to unmarshal lead event: %v", err)
		return
	}

	c.handleEvent(ctx, event)
}

// backoff ждёт перед повторной попыткой чтения, но не задерживает Stop.
func (c *LeadConsumer) backoff(d time.Duration) {
	select {
	case <-c.shutdown:
	case <-time.After(d):
	}
}

func (c *LeadConsumer) handleEvent(ctx context.Context, event models.LeadEvent) {
	switch event.Event {
	case "lead_created", "lead_updated":
		c.cacheLead(ctx, event)
		c.indexLead(ctx, event)
	case "lead_deleted":
		c.removeLead(ctx, event.LeadID)
	default:
		log.Printf("Unknown event type: %s", event.Event)
		return
	}

	log.Printf("Processed %s event for lead %s", event.Event, event.LeadID)
}

func (c *LeadConsumer) cacheLead(ctx context.Context, event models.LeadEvent) {
	if c.cache == nil || event.Lead == nil {
		return
	}

	leadJSON, err := json.Marshal(event.Lead)
	if err != nil {
		log.Printf("Failed to marshal lead %s: %v", event.LeadID, err)
		return
	}

	if err := c.cache.SetToCache(ctx, utils.LeadCacheKey(event.LeadID), string(leadJSON), 24*time.Hour); err != nil {
		log.Printf("Failed to cache lead %s: %v", event.LeadID, err)
	}
}

func (c *LeadConsumer) indexLead(ctx context.Context, event models.LeadEvent) {
	if c.es == nil || event.Lead == nil {
		return
	}

	if err := c.es.IndexLead(ctx, utils.LeadsIndex, event.LeadID, event.Lead); err != nil {
		log.Printf("Failed to index lead %s: %v", event.LeadID, err)
	}
}

func (c *LeadConsumer) removeLead(ctx context.Context, leadID string) {
	if c.cache != nil {
		if err := c.cache.DeleteFromCache(ctx, utils.LeadCacheKey(leadID)); err != nil {
			log.Printf("Failed to remove lead %s from cache: %v", leadID, err)
		}
	}

	if c.es != nil {
		if err := c.es.DeleteLead(ctx, utils.LeadsIndex, leadID); err != nil {
			log.Printf("Failed to remove lead %s from index: %v", leadID, err)
		}
	}
}
