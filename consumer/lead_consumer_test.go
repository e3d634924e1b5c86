package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"securelead/models"
)

type fakeCache struct {
	values map[string]string
}

func (f *fakeCache) GetFromCache(ctx context.Context, key string) (string, error) {
	val, ok := f.values[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return val, nil
}

func (f *fakeCache) SetToCache(ctx context.Context, key string, value string, expiration time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeCache) DeleteFromCache(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeCache) Close() error { return nil }

type fakeIndex struct {
	docs map[string]interface{}
}

func (f *fakeIndex) IndexLead(ctx context.Context, index string, id string, document interface{}) error {
	f.docs[id] = document
	return nil
}

func (f *fakeIndex) SearchLeads(ctx context.Context, index string, query map[string]interface{}) ([]map[string]interface{}, error) {
	return nil, nil
}

func (f *fakeIndex) DeleteLead(ctx context.Context, index string, id string) error {
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Close() error { return nil }

func newTestConsumer() (*LeadConsumer, *fakeCache, *fakeIndex) {
	cache := &fakeCache{values: make(map[string]string)}
	index := &fakeIndex{docs: make(map[string]interface{})}

	// Reader не нужен: handleEvent тестируется напрямую
	return &LeadConsumer{cache: cache, es: index, shutdown: make(chan struct{})}, cache, index
}

func TestHandleLeadCreated(t *testing.T) {
	c, cache, index := newTestConsumer()

	lead := &models.Lead{
		ID:        primitive.NewObjectID(),
		Name:      "Test User",
		Email:     "testuser@example.com",
		CreatedAt: time.Now().UTC(),
	}
	leadID := lead.ID.Hex()

	c.handleEvent(context.Background(), models.LeadEvent{
		Event:  "lead_created",
		LeadID: leadID,
		Lead:   lead,
	})

	cached, ok := cache.values["lead:"+leadID]
	if !ok {
		t.Fatal("lead was not cached")
	}

	var fromCache models.Lead
	if err := json.Unmarshal([]byte(cached), &fromCache); err != nil {
		t.Fatalf("cached value is not a lead: %v", err)
	}
	if fromCache.Name != "Test User" {
		t.Errorf("cached lead = %+v", fromCache)
	}

	if _, ok := index.docs[leadID]; !ok {
		t.Error("lead was not indexed")
	}
}

func TestHandleLeadUpdated(t *testing.T) {
	c, cache, index := newTestConsumer()

	lead := &models.Lead{ID: primitive.NewObjectID(), Name: "Before", Email: "before@example.com"}
	leadID := lead.ID.Hex()
	cache.values["lead:"+leadID] = `{"name":"Before"}`

	lead.Name = "After"
	c.handleEvent(context.Background(), models.LeadEvent{
		Event:  "lead_updated",
		LeadID: leadID,
		Lead:   lead,
	})

	var fromCache models.Lead
	if err := json.Unmarshal([]byte(cache.values["lead:"+leadID]), &fromCache); err != nil {
		t.Fatalf("cached value is not a lead: %v", err)
	}
	if fromCache.Name != "After" {
		t.Errorf("cache was not refreshed: %+v", fromCache)
	}

	if index.docs[leadID] != lead {
		t.Error("index was not refreshed")
	}
}

func TestHandleLeadDeleted(t *testing.T) {
	c, cache, index := newTestConsumer()

	leadID := primitive.NewObjectID().Hex()
	cache.values["lead:"+leadID] = `{"name":"Test User"}`
	index.docs[leadID] = struct{}{}

	c.handleEvent(context.Background(), models.LeadEvent{
		Event:  "lead_deleted",
		LeadID: leadID,
	})

	if _, ok := cache.values["lead:"+leadID]; ok {
		t.Error("lead still cached after delete")
	}
	if _, ok := index.docs[leadID]; ok {
		t.Error("lead still indexed after delete")
	}
}

func TestBackoffReturnsOnShutdown(t *testing.T) {
	c, _, _ := newTestConsumer()
	close(c.shutdown)

	done := make(chan struct{})
	go func() {
		c.backoff(5 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("backoff kept waiting after shutdown")
	}
}

func TestHandleUnknownEvent(t *testing.T) {
	c, cache, index := newTestConsumer()

	c.handleEvent(context.Background(), models.LeadEvent{
		Event:  "lead_exploded",
		LeadID: primitive.NewObjectID().Hex(),
	})

	if len(cache.values) != 0 || len(index.docs) != 0 {
		t.Error("unknown event mutated state")
	}
}
