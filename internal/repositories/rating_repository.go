package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/boxerly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RatingRepository defines the interface for rating data operations
type RatingRepository interface {
	CreateRating(ctx context.Context, rating *models.Rating) error
	GetByCombatAndFrom(ctx context.Context, combatID primitive.ObjectID, fromID string) (*models.Rating, error)
	GetRatingsForAccount(ctx context.Context, toID string, skip, limit int64) ([]models.Rating, error)
	GetAverages(ctx context.Context, toID string) (*models.RatingAverages, error)
}

// MongoRatingRepository implements RatingRepository for MongoDB
type MongoRatingRepository struct {
	collection *mongo.Collection
}

// NewMongoRatingRepository creates a new MongoRatingRepository
func NewMongoRatingRepository(db *mongo.Database) *MongoRatingRepository {
	return &MongoRatingRepository{collection: db.Collection("ratings")}
}

// CreateRating creates a new rating in MongoDB
func (r *MongoRatingRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, rating)
	return err
}

// GetByCombatAndFrom retrieves the rating a given account left on a combat
func (r *MongoRatingRepository) GetByCombatAndFrom(ctx context.Context, combatID primitive.ObjectID, fromID string) (*models.Rating, error) {
	var rating models.Rating
	err := r.collection.FindOne(ctx, bson.M{"combat_id": combatID, "from_id": fromID}).Decode(&rating)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("rating not found")
		}
		return nil, err
	}
	return &rating, nil
}

// GetRatingsForAccount retrieves ratings received by an account
func (r *MongoRatingRepository) GetRatingsForAccount(ctx context.Context, toID string, skip, limit int64) ([]models.Rating, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"to_id": toID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ratings []models.Rating
	if err = cursor.All(ctx, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// GetAverages aggregates per-dimension averages for an account, rounded to
// two decimals. When the account has no ratings every field is zero.
func (r *MongoRatingRepository) GetAverages(ctx context.Context, toID string) (*models.RatingAverages, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"to_id": toID}}},
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"punctuality":   bson.M{"$avg": "$punctuality"},
			"attitude":      bson.M{"$avg": "$attitude"},
			"technique":     bson.M{"$avg": "$technique"},
			"intensity":     bson.M{"$avg": "$intensity"},
			"sportsmanship": bson.M{"$avg": "$sportsmanship"},
			"count":         bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":           0,
			"punctuality":   bson.M{"$round": bson.A{"$punctuality", 2}},
			"attitude":      bson.M{"$round": bson.A{"$attitude", 2}},
			"technique":     bson.M{"$round": bson.A{"$technique", 2}},
			"intensity":     bson.M{"$round": bson.A{"$intensity", 2}},
			"sportsmanship": bson.M{"$round": bson.A{"$sportsmanship", 2}},
			"count":         1,
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.RatingAverages
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.RatingAverages{}, nil
	}
	return &results[0], nil
}
