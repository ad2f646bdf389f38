package repository

import (
	"context"

	"github.com/orthoime/medicase-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type ExaminationRepo interface {
	CreateExamination(ctx context.Context, exam *types.Examination) error
	GetExamination(ctx context.Context, id string) (*types.Examination, error)
	ListExaminationsByCase(ctx context.Context, caseID string) ([]*types.Examination, error)
	UpdateExamination(ctx context.Context, exam *types.Examination) error

	AddROMMeasurement(ctx context.Context, m *types.ROMMeasurement) error
	ListROMMeasurements(ctx context.Context, examinationID string) ([]types.ROMMeasurement, error)
	AddStrengthTest(ctx context.Context, t *types.StrengthTest) error
	ListStrengthTests(ctx context.Context, examinationID string) ([]types.StrengthTest, error)
	AddSpecialTest(ctx context.Context, t *types.SpecialTest) error
	ListSpecialTests(ctx context.Context, examinationID string) ([]types.SpecialTest, error)
}

type examinationRepo struct {
	exams    *mongo.Collection
	rom      *mongo.Collection
	strength *mongo.Collection
	special  *mongo.Collection
}

func NewExaminationRepo(db *mongo.Database) ExaminationRepo {
	exams := db.Collection("examinations")
	exams.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "exam_date", Value: -1}},
	})
	rom := db.Collection("rom_measurements")
	rom.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "examination_id", Value: 1}},
	})
	strength := db.Collection("strength_tests")
	strength.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "examination_id", Value: 1}},
	})
	special := db.Collection("special_tests")
	special.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "examination_id", Value: 1}},
	})

	return &examinationRepo{
		exams:    exams,
		rom:      rom,
		strength: strength,
		special:  special,
	}
}

func (r *examinationRepo) CreateExamination(ctx context.Context, exam *types.Examination) error {
	_, err := r.exams.InsertOne(ctx, exam)
	return err
}

func (r *examinationRepo) GetExamination(ctx context.Context, id string) (*types.Examination, error) {
	var exam types.Examination
	err := r.exams.FindOne(ctx, map[string]string{"_id": id}).Decode(&exam)
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examinationRepo) ListExaminationsByCase(ctx context.Context, caseID string) ([]*types.Examination, error) {
	cursor, err := r.exams.Find(ctx, map[string]string{"case_id": caseID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var exams []*types.Examination
	for cursor.Next(ctx) {
		var exam types.Examination
		if err := cursor.Decode(&exam); err != nil {
			return nil, err
		}
		exams = append(exams, &exam)
	}
	return exams, nil
}

func (r *examinationRepo) UpdateExamination(ctx context.Context, exam *types.Examination) error {
	_, err := r.exams.ReplaceOne(ctx, map[string]string{"_id": exam.ID}, exam)
	return err
}

func (r *examinationRepo) AddROMMeasurement(ctx context.Context, m *types.ROMMeasurement) error {
	_, err := r.rom.InsertOne(ctx, m)
	return err
}

func (r *examinationRepo) ListROMMeasurements(ctx context.Context, examinationID string) ([]types.ROMMeasurement, error) {
	cursor, err := r.rom.Find(ctx, map[string]string{"examination_id": examinationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []types.ROMMeasurement
	for cursor.Next(ctx) {
		var row types.ROMMeasurement
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *examinationRepo) AddStrengthTest(ctx context.Context, t *types.StrengthTest) error {
	_, err := r.strength.InsertOne(ctx, t)
	return err
}

func (r *examinationRepo) ListStrengthTests(ctx context.Context, examinationID string) ([]types.StrengthTest, error) {
	cursor, err := r.strength.Find(ctx, map[string]string{"examination_id": examinationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []types.StrengthTest
	for cursor.Next(ctx) {
		var row types.StrengthTest
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *examinationRepo) AddSpecialTest(ctx context.Context, t *types.SpecialTest) error {
	_, err := r.special.InsertOne(ctx, t)
	return err
}

func (r *examinationRepo) ListSpecialTests(ctx context.Context, examinationID string) ([]types.SpecialTest, error) {
	cursor, err := r.special.Find(ctx, map[string]string{"examination_id": examinationID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []types.SpecialTest
	for cursor.Next(ctx) {
		var row types.SpecialTest
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
