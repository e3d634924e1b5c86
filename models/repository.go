package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"securelead/monitoring"
	"securelead/utils"
)

type Repository interface {
	ListLeads(ctx context.Context) ([]Lead, error)
	GetLeadByID(ctx context.Context, id string) (*Lead, error)
	CreateLead(ctx context.Context, lead *Lead) (string, error)
	UpdateLead(ctx context.Context, id string, lead *Lead) error
	DeleteLead(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// MongoRepository работает с одной коллекцией leads.
type MongoRepository struct {
	client *mongo.Client
	leads  *mongo.Collection
}

func NewMongoRepository(ctx context.Context) (*MongoRepository, error) {
	client, err := utils.MongoClient(ctx)
	if err != nil {
		return nil, err
	}

	return &MongoRepository{
		client: client,
		leads:  client.Database(utils.MongoDatabase()).Collection("leads"),
	}, nil
}

func (r *MongoRepository) ListLeads(ctx context.Context) ([]Lead, error) {
	monitoring.StoreQueries.Inc()

	cursor, err := r.leads.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query leads: %w", err)
	}

	// Пустая коллекция — это пустой список, а не ошибка
	leads := make([]Lead, 0)
	if err := cursor.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("failed to decode leads: %w", err)
	}

	return leads, nil
}

func (r *MongoRepository) GetLeadByID(ctx context.Context, id string) (*Lead, error) {
	oid, err := parseLeadID(id)
	if err != nil {
		return nil, err
	}

	monitoring.StoreQueries.Inc()

	var lead Lead
	if err := r.leads.FindOne(ctx, bson.M{"_id": oid}).Decode(&lead); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch lead %s: %w", id, err)
	}

	return &lead, nil
}

// CreateLead назначает CreatedAt, вставляет документ и возвращает новый ID.
func (r *MongoRepository) CreateLead(ctx context.Context, lead *Lead) (string, error) {
	if err := ValidateNewLead(lead); err != nil {
		return "", err
	}

	lead.ID = primitive.NilObjectID
	lead.CreatedAt = time.Now().UTC()

	monitoring.StoreQueries.Inc()

	result, err := r.leads.InsertOne(ctx, lead)
	if err != nil {
		return "", fmt.Errorf("failed to insert lead: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	lead.ID = oid

	return oid.Hex(), nil
}

// UpdateLead заменяет четыре изменяемых поля; ID и CreatedAt не трогаются.
// В lead возвращается обновлённый документ целиком, включая исходный
// CreatedAt, чтобы вызывающий публиковал полную запись.
func (r *MongoRepository) UpdateLead(ctx context.Context, id string, lead *Lead) error {
	if err := ValidateLeadUpdate(id, lead); err != nil {
		return err
	}

	oid, err := parseLeadID(id)
	if err != nil {
		return err
	}

	monitoring.StoreQueries.Inc()

	var updated Lead
	err = r.leads.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"name":     lead.Name,
			"email":    lead.Email,
			"phone":    lead.Phone,
			"location": lead.Location,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		// Ноль совпадений — это не успех, а отсутствие лида
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update lead %s: %w", id, err)
	}

	*lead = updated
	return nil
}

func (r *MongoRepository) DeleteLead(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Message: "Missing ID for deletion"}
	}

	oid, err := parseLeadID(id)
	if err != nil {
		return err
	}

	monitoring.StoreQueries.Inc()

	result, err := r.leads.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete lead %s: %w", id, err)
	}

	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *MongoRepository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}

// parseLeadID переводит строковый ID в нативный ObjectID хранилища.
// Структурно невалидный ID — ошибка клиента, а не сбой сервера.
func parseLeadID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &ValidationError{Message: "Invalid lead ID"}
	}
	return oid, nil
}
