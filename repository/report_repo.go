package repository

import (
	"context"

	"github.com/orthoime/medicase-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type ReportRepo interface {
	CreateReport(ctx context.Context, report *types.Report) error
	GetReport(ctx context.Context, id string) (*types.Report, error)
	ListReportsByCase(ctx context.Context, caseID string) ([]*types.Report, error)
	UpdateReport(ctx context.Context, report *types.Report) error

	AddSection(ctx context.Context, section *types.ReportSection) error
	GetSection(ctx context.Context, id string) (*types.ReportSection, error)
	ListSections(ctx context.Context, reportID string) ([]types.ReportSection, error)
	UpdateSection(ctx context.Context, section *types.ReportSection) error
	DeleteSections(ctx context.Context, reportID string) error
}

type reportRepo struct {
	reports  *mongo.Collection
	sections *mongo.Collection
}

func NewReportRepo(db *mongo.Database) ReportRepo {
	reports := db.Collection("reports")
	reports.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "case_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	sections := db.Collection("report_sections")
	sections.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "report_id", Value: 1}, {Key: "order", Value: 1}},
	})
	return &reportRepo{
		reports:  reports,
		sections: sections,
	}
}

func (r *reportRepo) CreateReport(ctx context.Context, report *types.Report) error {
	_, err := r.reports.InsertOne(ctx, report)
	return err
}

func (r *reportRepo) GetReport(ctx context.Context, id string) (*types.Report, error) {
	var report types.Report
	err := r.reports.FindOne(ctx, map[string]string{"_id": id}).Decode(&report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepo) ListReportsByCase(ctx context.Context, caseID string) ([]*types.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.reports.Find(ctx, map[string]string{"case_id": caseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []*types.Report
	for cursor.Next(ctx) {
		var report types.Report
		if err := cursor.Decode(&report); err != nil {
			return nil, err
		}
		reports = append(reports, &report)
	}
	return reports, nil
}

func (r *reportRepo) UpdateReport(ctx context.Context, report *types.Report) error {
	_, err := r.reports.ReplaceOne(ctx, map[string]string{"_id": report.ID}, report)
	return err
}

func (r *reportRepo) AddSection(ctx context.Context, section *types.ReportSection) error {
	_, err := r.sections.InsertOne(ctx, section)
	return err
}

func (r *reportRepo) GetSection(ctx context.Context, id string) (*types.ReportSection, error) {
	var section types.ReportSection
	err := r.sections.FindOne(ctx, map[string]string{"_id": id}).Decode(&section)
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *reportRepo) ListSections(ctx context.Context, reportID string) ([]types.ReportSection, error) {
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}})
	cursor, err := r.sections.Find(ctx, map[string]string{"report_id": reportID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sections []types.ReportSection
	for cursor.Next(ctx) {
		var section types.ReportSection
		if err := cursor.Decode(&section); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func (r *reportRepo) UpdateSection(ctx context.Context, section *types.ReportSection) error {
	_, err := r.sections.ReplaceOne(ctx, map[string]string{"_id": section.ID}, section)
	return err
}

func (r *reportRepo) DeleteSections(ctx context.Context, reportID string) error {
	_, err := r.sections.DeleteMany(ctx, map[string]string{"report_id": reportID})
	return err
}
