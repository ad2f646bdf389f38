package repository

import (
	"context"

	"github.com/orthoime/medicase-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type CaseFilter struct {
	Status      []string
	Priority    string
	PhysicianID string
	Search      string
}

type CaseRepo interface {
	CreateCase(ctx context.Context, c *types.Case) error
	GetCase(ctx context.Context, id string) (*types.Case, error)
	ListCases(ctx context.Context, filter CaseFilter, limit, offset int64) ([]*types.Case, int64, error)
	UpdateCase(ctx context.Context, c *types.Case) error
	DeleteCase(ctx context.Context, id string) error
	CountCasesForYear(ctx context.Context, prefix string) (int64, error)
	AddStatusChange(ctx context.Context, change *types.CaseStatusChange) error
	ListStatusChanges(ctx context.Context, caseID string) ([]*types.CaseStatusChange, error)
}

type caseRepo struct {
	collection        *mongo.Collection
	historyCollection *mongo.Collection
}

func NewCaseRepo(db *mongo.Database) CaseRepo {
	collection := db.Collection("cases")
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "case_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "priority", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}
	collection.Indexes().CreateMany(context.Background(), indexes)

	history := db.Collection("case_status_history")
	history.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{
			{Key: "case_id", Value: 1},
			{Key: "changed_at", Value: -1},
		},
	})

	return &caseRepo{
		collection:        collection,
		historyCollection: history,
	}
}

func (r *caseRepo) CreateCase(ctx context.Context, c *types.Case) error {
	_, err := r.collection.InsertOne(ctx, c)
	return err
}

func (r *caseRepo) GetCase(ctx context.Context, id string) (*types.Case, error) {
	var c types.Case
	err := r.collection.FindOne(ctx, map[string]string{"_id": id}).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepo) ListCases(ctx context.Context, filter CaseFilter, limit, offset int64) ([]*types.Case, int64, error) {
	query := make(map[string]interface{})
	if len(filter.Status) > 0 {
		query["status"] = map[string]interface{}{"$in": filter.Status}
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.PhysicianID != "" {
		query["assigned_physician_id"] = filter.PhysicianID
	}
	if filter.Search != "" {
		regex := map[string]interface{}{"$regex": filter.Search, "$options": "i"}
		query["$or"] = []map[string]interface{}{
			{"case_number": regex},
			{"patient_first_name": regex},
			{"patient_last_name": regex},
		}
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var cases []*types.Case
	for cursor.Next(ctx) {
		var c types.Case
		if err := cursor.Decode(&c); err != nil {
			return nil, 0, err
		}
		cases = append(cases, &c)
	}
	return cases, total, nil
}

func (r *caseRepo) UpdateCase(ctx context.Context, c *types.Case) error {
	_, err := r.collection.ReplaceOne(ctx, map[string]string{"_id": c.ID}, c)
	return err
}

func (r *caseRepo) DeleteCase(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, map[string]string{"_id": id})
	return err
}

// CountCasesForYear counts cases whose case number starts with the given
// year prefix, used to pick the next sequential case number.
func (r *caseRepo) CountCasesForYear(ctx context.Context, prefix string) (int64, error) {
	return r.collection.CountDocuments(ctx, map[string]interface{}{
		"case_number": map[string]interface{}{"$regex": "^" + prefix},
	})
}

func (r *caseRepo) AddStatusChange(ctx context.Context, change *types.CaseStatusChange) error {
	_, err := r.historyCollection.InsertOne(ctx, change)
	return err
}

func (r *caseRepo) ListStatusChanges(ctx context.Context, caseID string) ([]*types.CaseStatusChange, error) {
	opts := options.Find().SetSort(bson.D{{Key: "changed_at", Value: -1}})
	cursor, err := r.historyCollection.Find(ctx, map[string]string{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var changes []*types.CaseStatusChange
	for cursor.Next(ctx) {
		var change types.CaseStatusChange
		if err := cursor.Decode(&change); err != nil {
			return nil, err
		}
		changes = append(changes, &change)
	}
	return changes, nil
}
