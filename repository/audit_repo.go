package repository

import (
	"context"

	"github.com/orthoime/medicase-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type AuditRepo interface {
	AddEntry(ctx context.Context, entry *types.AuditLog) error
	ListByResource(ctx context.Context, resourceType, resourceID string, limit int64) ([]*types.AuditLog, error)
}

type auditRepo struct {
	collection *mongo.Collection
}

func NewAuditRepo(db *mongo.Database) AuditRepo {
	collection := db.Collection("audit_logs")
	collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{
			{Key: "resource_type", Value: 1},
			{Key: "resource_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return &auditRepo{
		collection: collection,
	}
}

func (r *auditRepo) AddEntry(ctx context.Context, entry *types.AuditLog) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *auditRepo) ListByResource(ctx context.Context, resourceType, resourceID string, limit int64) ([]*types.AuditLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	filter := map[string]string{
		"resource_type": resourceType,
		"resource_id":   resourceID,
	}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*types.AuditLog
	for cursor.Next(ctx) {
		var entry types.AuditLog
		if err := cursor.Decode(&entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}
