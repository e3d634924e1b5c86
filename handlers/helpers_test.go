package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"securelead/models"
	"securelead/utils"
)

// Фейковый репозиторий в памяти; повторяет контракт MongoRepository,
// включая валидацию и перевод строкового ID в ObjectID.
type fakeRepo struct {
	leads map[string]models.Lead
	order []string
	fail  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: make(map[string]models.Lead)}
}

func (f *fakeRepo) ListLeads(ctx context.Context) ([]models.Lead, error) {
	if f.fail {
		return nil, errors.New("store is down")
	}

	leads := make([]models.Lead, 0, len(f.order))
	for _, id := range f.order {
		leads = append(leads, f.leads[id])
	}
	return leads, nil
}

func (f *fakeRepo) GetLeadByID(ctx context.Context, id string) (*models.Lead, error) {
	if f.fail {
		return nil, errors.New("store is down")
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, &models.ValidationError{Message: "Invalid lead ID"}
	}

	lead, ok := f.leads[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &lead, nil
}

func (f *fakeRepo) CreateLead(ctx context.Context, lead *models.Lead) (string, error) {
	if err := models.ValidateNewLead(lead); err != nil {
		return "", err
	}
	if f.fail {
		return "", errors.New("store is down")
	}

	oid := primitive.NewObjectID()
	lead.ID = oid
	lead.CreatedAt = time.Now().UTC()

	f.leads[oid.Hex()] = *lead
	f.order = append(f.order, oid.Hex())
	return oid.Hex(), nil
}

func (f *fakeRepo) UpdateLead(ctx context.Context, id string, lead *models.Lead) error {
	if err := models.ValidateLeadUpdate(id, lead); err != nil {
		return err
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return &models.ValidationError{Message: "Invalid lead ID"}
	}
	if f.fail {
		return errors.New("store is down")
	}

	stored, ok := f.leads[id]
	if !ok {
		return models.ErrNotFound
	}

	stored.Name = lead.Name
	stored.Email = lead.Email
	stored.Phone = lead.Phone
	stored.Location = lead.Location
	f.leads[id] = stored

	// Как и MongoRepository, возвращаем обновлённый документ целиком
	*lead = stored
	return nil
}

func (f *fakeRepo) DeleteLead(ctx context.Context, id string) error {
	if id == "" {
		return &models.ValidationError{Message: "Missing ID for deletion"}
	}
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return &models.ValidationError{Message: "Invalid lead ID"}
	}
	if f.fail {
		return errors.New("store is down")
	}

	if _, ok := f.leads[id]; !ok {
		return models.ErrNotFound
	}

	delete(f.leads, id)
	for i, stored := range f.order {
		if stored == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRepo) Close(ctx context.Context) error { return nil }

// Фейковый кеш в памяти.
type fakeCache struct {
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string]string)}
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

// Фейковый поисковый клиент: отдаёт заранее заданные документы.
type fakeSearch struct {
	results []map[string]interface{}
	err     error
	queries []map[string]interface{}
}

func (f *fakeSearch) IndexLead(ctx context.Context, index string, id string, document interface{}) error {
	return nil
}

func (f *fakeSearch) SearchLeads(ctx context.Context, index string, query map[string]interface{}) ([]map[string]interface{}, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func (f *fakeSearch) DeleteLead(ctx context.Context, index string, id string) error {
	return nil
}

func (f *fakeSearch) Close() error { return nil }

// Фейковый продюсер: складывает тела сообщений в канал, чтобы тест мог
// дождаться асинхронной публикации.
type fakeProducer struct {
	messages chan []byte
}

func newFakeProducer() *fakeProducer {
	return &fakeProducer{messages: make(chan []byte, 16)}
}

func (f *fakeProducer) SendMessage(ctx context.Context, topic string, key, value []byte) error {
	f.messages <- value
	return nil
}

func (f *fakeProducer) Close() error { return nil }

var (
	_ models.Repository         = (*fakeRepo)(nil)
	_ utils.RedisClient         = (*fakeCache)(nil)
	_ utils.ElasticsearchClient = (*fakeSearch)(nil)
	_ utils.KafkaProducer       = (*fakeProducer)(nil)
)

func newTestRouter(h *LeadHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.SetHTMLTemplate(BackgroundTemplate())

	router.GET("/leads", h.ListLeads)
	router.POST("/leads", h.CreateLead)
	router.PUT("/leads", h.UpdateLead)
	router.DELETE("/leads", h.DeleteLead)
	router.GET("/leads/:id", h.GetLead)
	router.GET("/search", h.SearchLeads)
	router.POST("/enrich", EnrichLead)
	router.GET("/background/:name", BackgroundReportPage)

	return router
}
