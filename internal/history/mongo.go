package history

import (
	"context"
	"fmt"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	ForecastResultsCollection        = "forecast_results"
	ReorderStrategiesCollection      = "reorder_strategies"
	ReorderRecommendationsCollection = "reorder_recommendations"
	SupplierClustersCollection       = "supplier_clusters"
	ShippingBottlenecksCollection    = "shipping_bottlenecks"
	EDASummariesCollection           = "eda_summaries"
)

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to the configured database, pinging before
// returning so a bad URI fails at startup.
func NewMongoStore(cfg config.MongoConfig) (Store, error) {
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	log.Info().Str("database", cfg.DBName).Msg("connected to mongodb")
	return &mongoStore{client: client, db: client.Database(cfg.DBName)}, nil
}

func (s *mongoStore) SaveForecasts(ctx context.Context, results map[string]*domain.ForecastResult) error {
	coll := s.db.Collection(ForecastResultsCollection)
	now := time.Now().UTC()
	for category, result := range results {
		doc := *result
		doc.Timestamp = now
		if err := upsert(ctx, coll, bson.M{"category": category}, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *mongoStore) SavePolicies(ctx context.Context, policies []domain.ReorderPolicy) error {
	coll := s.db.Collection(ReorderStrategiesCollection)
	now := time.Now().UTC()
	for _, p := range policies {
		if err := upsert(ctx, coll, bson.M{"category": p.Category}, timestamped(p, now)); err != nil {
			return err
		}
	}
	return nil
}

func (s *mongoStore) SaveRecommendations(ctx context.Context, recs []domain.Recommendation) error {
	coll := s.db.Collection(ReorderRecommendationsCollection)
	now := time.Now().UTC()
	for _, r := range recs {
		if err := upsert(ctx, coll, bson.M{"category": r.Category}, timestamped(r, now)); err != nil {
			return err
		}
	}
	return nil
}

func (s *mongoStore) SaveClusters(ctx context.Context, clusters []domain.SupplierCluster) error {
	coll := s.db.Collection(SupplierClustersCollection)
	now := time.Now().UTC()
	for _, c := range clusters {
		if err := upsert(ctx, coll, bson.M{"seller_id": c.SellerID}, timestamped(c, now)); err != nil {
			return err
		}
	}
	return nil
}

func (s *mongoStore) SaveBottlenecks(ctx context.Context, bottlenecks []domain.Bottleneck) error {
	coll := s.db.Collection(ShippingBottlenecksCollection)
	now := time.Now().UTC()
	for _, b := range bottlenecks {
		if err := upsert(ctx, coll, bson.M{"seller_id": b.SellerID}, timestamped(b, now)); err != nil {
			return err
		}
	}
	return nil
}

// SaveEDASummary appends to the insert-only summary log.
func (s *mongoStore) SaveEDASummary(ctx context.Context, summary *domain.EDASummary) error {
	doc := *summary
	doc.Timestamp = time.Now().UTC()
	if _, err := s.db.Collection(EDASummariesCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert eda summary: %w", err)
	}
	return nil
}

func (s *mongoStore) RecentForecasts(ctx context.Context, limit int) ([]domain.ForecastResult, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.db.Collection(ForecastResultsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find recent forecasts: %w", err)
	}
	defer cursor.Close(ctx)

	results := make([]domain.ForecastResult, 0, limit)
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode recent forecasts: %w", err)
	}
	return results, nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func upsert(ctx context.Context, coll *mongo.Collection, filter bson.M, doc interface{}) error {
	opts := options.Replace().SetUpsert(true)
	if _, err := coll.ReplaceOne(ctx, filter, doc, opts); err != nil {
		return fmt.Errorf("upsert %s: %w", coll.Name(), err)
	}
	return nil
}

// timestamped wraps a document with the write time without requiring a
// Timestamp field on every model.
func timestamped(doc interface{}, now time.Time) bson.M {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return bson.M{"timestamp": now}
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return bson.M{"timestamp": now}
	}
	m["timestamp"] = now
	return m
}
