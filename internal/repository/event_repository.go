package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"profile-service/internal/models"
	"profile-service/internal/utils"
)

// EventRepository is the row-store surface the stats pipeline needs:
// insert-one and filter-by-window with ordering. Events are append-only;
// there is no update or delete.
type EventRepository interface {
	Insert(ctx context.Context, ev *models.InteractionEvent) error
	FindByProfile(ctx context.Context, profileID string, from, to time.Time) ([]*models.InteractionEvent, error)
}

type MongoEventRepository struct {
	col *mongo.Collection
}

func NewMongoEventRepository(col *mongo.Collection) *MongoEventRepository {
	return &MongoEventRepository{col: col}
}

func (r *MongoEventRepository) Insert(ctx context.Context, ev *models.InteractionEvent) error {
	if ev.ID == "" {
		ev.ID = utils.NewID()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, ev)
	return err
}

// FindByProfile returns events with created_at in [from, to), newest first.
func (r *MongoEventRepository) FindByProfile(ctx context.Context, profileID string, from, to time.Time) ([]*models.InteractionEvent, error) {
	filter := bson.M{
		"profile_id": profileID,
		"created_at": bson.M{"$gte": from, "$lt": to},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*models.InteractionEvent
	for cur.Next(ctx) {
		var ev models.InteractionEvent
		if err := cur.Decode(&ev); err != nil {
			return nil, err
		}
		out = append(out, &ev)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
