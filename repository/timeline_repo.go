package repository

import (
	"context"

	"github.com/orthoime/medicase-be/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type TimelineRepo interface {
	AddEvent(ctx context.Context, event *types.TimelineEvent) error
	ListEventsByCase(ctx context.Context, caseID string, eventTypes []string, milestonesOnly bool) ([]*types.TimelineEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}

type timelineRepo struct {
	collection *mongo.Collection
}

func NewTimelineRepo(db *mongo.Database) TimelineRepo {
	collection := db.Collection("timeline_events")
	collection.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{
			{Key: "case_id", Value: 1},
			{Key: "event_date", Value: 1},
		},
	})
	return &timelineRepo{
		collection: collection,
	}
}

func (r *timelineRepo) AddEvent(ctx context.Context, event *types.TimelineEvent) error {
	_, err := r.collection.InsertOne(ctx, event)
	return err
}

func (r *timelineRepo) ListEventsByCase(ctx context.Context, caseID string, eventTypes []string, milestonesOnly bool) ([]*types.TimelineEvent, error) {
	filter := map[string]interface{}{"case_id": caseID}
	if len(eventTypes) > 0 {
		filter["event_type"] = map[string]interface{}{"$in": eventTypes}
	}
	if milestonesOnly {
		filter["is_milestone"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*types.TimelineEvent
	for cursor.Next(ctx) {
		var event types.TimelineEvent
		if err := cursor.Decode(&event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}
	return events, nil
}

func (r *timelineRepo) DeleteEvent(ctx context.Context, id string) error {
	_, err := r.collection.DeleteOne(ctx, map[string]string{"_id": id})
	return err
}
