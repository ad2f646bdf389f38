package repository

import (
	"context"
	"time"

	"github.com/orthoime/medicase-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type DocumentRepo interface {
	CreateDocument(ctx context.Context, doc *types.Document) error
	GetDocument(ctx context.Context, id string) (*types.Document, error)
	ListDocumentsByCase(ctx context.Context, caseID string) ([]*types.Document, error)
	UpdateDocument(ctx context.Context, doc *types.Document) error
	UpsertStatus(ctx context.Context, doc *types.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

type documentRepo struct {
	collection *mongo.Collection
}

func NewDocumentRepo(db *mongo.Database) DocumentRepo {
	collection := db.Collection("documents")
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "case_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "analysis_status", Value: 1}},
		},
	}
	collection.Indexes().CreateMany(context.Background(), indexes)

	return &documentRepo{
		collection: collection,
	}
}

func (r *documentRepo) CreateDocument(ctx context.Context, doc *types.Document) error {
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func (r *documentRepo) GetDocument(ctx context.Context, id string) (*types.Document, error) {
	var doc types.Document
	err := r.collection.FindOne(ctx, map[string]string{"_id": id}).Decode(&doc)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ListDocumentsByCase(ctx context.Context, caseID string) ([]*types.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, map[string]string{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []*types.Document
	for cursor.Next(ctx) {
		var doc types.Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, nil
}

func (r *documentRepo) UpdateDocument(ctx context.Context, doc *types.Document) error {
	_, err := r.collection.ReplaceOne(ctx, map[string]string{"_id": doc.ID}, doc)
	return err
}

// UpsertStatus writes the document's analysis status and metadata, creating
// the tracking row when the document was analyzed without a prior upload.
func (r *documentRepo) UpsertStatus(ctx context.Context, doc *types.Document) error {
	doc.UpdateAt = time.Now().Unix()
	update := map[string]interface{}{
		"$set": map[string]interface{}{
			"analysis_status": doc.Status,
			"document_type":   doc.DocumentType,
			"quality_score":   doc.QualityScore,
			"analyzed_at":     doc.AnalyzedAt,
			"updated_at":      doc.UpdateAt,
		},
		"$setOnInsert": map[string]interface{}{
			"case_id":    doc.CaseID,
			"file_name":  doc.FileName,
			"created_at": doc.UpdateAt,
		},
	}
	opts := options.UpdateOne().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, map[string]string{"_id": doc.ID}, update, opts)
	return err
}

func (r *documentRepo) DeleteDocument(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, map[string]string{"_id": id})
	return err
}
