package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

const snapshotCollection = "inventory_snapshots"

// SnapshotArchive stores daily inventory summaries.
type SnapshotArchive interface {
	SaveSnapshot(ctx context.Context, snap models.InventorySnapshot) error
	LatestSnapshots(ctx context.Context, limit int64) ([]models.InventorySnapshot, error)
}

// MongoDBRepository implements SnapshotArchive for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

var _ SnapshotArchive = (*MongoDBRepository)(nil)

// NewMongoDBRepository connects to uri and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to mongodb: %w", models.ErrRepository, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: failed to ping mongodb: %w", models.ErrRepository, err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: snapshotCollection,
	}, nil
}

// SaveSnapshot upserts the snapshot of its day, so a rerun replaces it.
func (r *MongoDBRepository) SaveSnapshot(ctx context.Context, snap models.InventorySnapshot) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	_, err := r.collection().ReplaceOne(ctx,
		bson.M{"date": snap.Date},
		snap,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save inventory snapshot: %w", models.ErrRepository, err)
	}
	return nil
}

// LatestSnapshots returns up to limit snapshots, newest day first.
func (r *MongoDBRepository) LatestSnapshots(ctx context.Context, limit int64) ([]models.InventorySnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit)
	cur, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query inventory snapshots: %w", models.ErrRepository, err)
	}
	defer cur.Close(ctx)

	var out []models.InventorySnapshot
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("%w: failed to decode inventory snapshots: %w", models.ErrRepository, err)
	}
	return out, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}
