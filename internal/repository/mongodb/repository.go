package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/domain/models"
)

const (
	batchesColl   = "batches"
	flocksColl    = "flocks"
	unitsColl     = "units"
	eggPackColl   = "egg_pack_quality"
	fertilityColl = "fertility_analysis"
)

// MongoDBRepository reads batches from a MongoDB mirror of the hatchery
// tables. Documents keep the relational keys (id, flock_id, unit_id,
// batch_id) as plain fields.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	logger *zap.Logger
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		if discErr := client.Disconnect(context.WithoutCancel(ctx)); discErr != nil {
			logger.Warn("failed to disconnect after ping failure", zap.Error(discErr))
		}
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
		logger: logger,
	}, nil
}

// FetchBatches returns every batch with its joined documents, newest set
// date first.
func (r *MongoDBRepository) FetchBatches(ctx context.Context) ([]models.RawBatch, error) {
	collection := r.client.Database(r.dbName).Collection(batchesColl)

	cursor, err := collection.Aggregate(ctx, batchesPipeline())
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate batches: %w", err)
	}
	defer cursor.Close(ctx)

	var batches []models.RawBatch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, fmt.Errorf("failed to decode batches: %w", err)
	}

	r.logger.Debug("batches fetched", zap.Int("count", len(batches)))
	return batches, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func batchesPipeline() mongo.Pipeline {
	lookup := func(from, localField, foreignField, as string) bson.D {
		return bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: from},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: foreignField},
			{Key: "as", Value: as},
		}}}
	}

	return mongo.Pipeline{
		lookup(flocksColl, "flock_id", "id", "flocks"),
		// Batches without a flock are dropped, like the inner join upstream.
		bson.D{{Key: "$unwind", Value: "$flocks"}},
		lookup(unitsColl, "unit_id", "id", "units"),
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$units"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		lookup(eggPackColl, "id", "batch_id", "egg_pack_quality"),
		lookup(fertilityColl, "id", "batch_id", "fertility"),
		bson.D{{Key: "$addFields", Value: bson.D{
			{Key: "set_date", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$type", Value: "$set_date"}}, "date"}}},
				bson.D{{Key: "$dateToString", Value: bson.D{
					{Key: "format", Value: "%Y-%m-%d"},
					{Key: "date", Value: "$set_date"},
				}}},
				"$set_date",
			}}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "set_date", Value: -1}}}},
	}
}
