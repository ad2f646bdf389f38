package repository

import (
	"context"

	"github.com/orthoime/medicase-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ExtractionRepo stores the rows produced by document analysis. Inserts are
// append-only: re-analysis of a document adds rows, it never replaces them.
type ExtractionRepo interface {
	BulkInsertEntities(ctx context.Context, rows []*types.EntityRow) error
	BulkInsertDates(ctx context.Context, rows []*types.DateRow) error
	BulkInsertSections(ctx context.Context, rows []*types.SectionRow) error
	ListEntitiesByCase(ctx context.Context, caseID string) ([]*types.EntityRow, error)
	ListDatesByCase(ctx context.Context, caseID string) ([]*types.DateRow, error)
	ListSectionsByDocument(ctx context.Context, documentID string) ([]*types.SectionRow, error)
	// SupportsExtendedSchema reports whether the entity collection accepts
	// the extended row shape. Checked once at wiring time, not per write.
	SupportsExtendedSchema(ctx context.Context) bool
}

type extractionRepo struct {
	entities *mongo.Collection
	dates    *mongo.Collection
	sections *mongo.Collection
}

func NewExtractionRepo(db *mongo.Database) ExtractionRepo {
	entities := db.Collection("medical_entities")
	entities.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "document_id", Value: 1}}},
	})

	dates := db.Collection("clinical_dates")
	dates.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "date_value", Value: 1}}},
		{Keys: bson.D{{Key: "document_id", Value: 1}}},
	})

	sections := db.Collection("document_sections")
	sections.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "document_id", Value: 1}},
	})

	return &extractionRepo{
		entities: entities,
		dates:    dates,
		sections: sections,
	}
}

func (r *extractionRepo) BulkInsertEntities(ctx context.Context, rows []*types.EntityRow) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := r.entities.InsertMany(ctx, docs)
	return err
}

func (r *extractionRepo) BulkInsertDates(ctx context.Context, rows []*types.DateRow) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := r.dates.InsertMany(ctx, docs)
	return err
}

func (r *extractionRepo) BulkInsertSections(ctx context.Context, rows []*types.SectionRow) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row)
	}
	_, err := r.sections.InsertMany(ctx, docs)
	return err
}

func (r *extractionRepo) ListEntitiesByCase(ctx context.Context, caseID string) ([]*types.EntityRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.entities.Find(ctx, map[string]string{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []*types.EntityRow
	for cursor.Next(ctx) {
		var row types.EntityRow
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

func (r *extractionRepo) ListDatesByCase(ctx context.Context, caseID string) ([]*types.DateRow, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date_value", Value: 1}})
	cursor, err := r.dates.Find(ctx, map[string]string{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []*types.DateRow
	for cursor.Next(ctx) {
		var row types.DateRow
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

func (r *extractionRepo) ListSectionsByDocument(ctx context.Context, documentID string) ([]*types.SectionRow, error) {
	cursor, err := r.sections.Find(ctx, map[string]string{"document_id": documentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []*types.SectionRow
	for cursor.Next(ctx) {
		var row types.SectionRow
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, &row)
	}
	return rows, nil
}

// SupportsExtendedSchema inspects the entity collection's validator. A
// validator that does not list the icd10_code field means the deployment
// still runs the minimal schema and extended fields must be withheld.
func (r *extractionRepo) SupportsExtendedSchema(ctx context.Context) bool {
	db := r.entities.Database()
	cursor, err := db.ListCollections(ctx, map[string]string{"name": r.entities.Name()})
	if err != nil {
		return true
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var spec struct {
			Options struct {
				Validator bson.M `bson:"validator"`
			} `bson:"options"`
		}
		if err := cursor.Decode(&spec); err != nil {
			return true
		}
		if len(spec.Options.Validator) == 0 {
			return true
		}
		return validatorAllowsField(spec.Options.Validator, "icd10_code")
	}
	return true
}

func validatorAllowsField(validator bson.M, field string) bool {
	schema, ok := validator["$jsonSchema"].(bson.M)
	if !ok {
		return true
	}
	props, ok := schema["properties"].(bson.M)
	if !ok {
		return true
	}
	_, ok = props[field]
	return ok
}
