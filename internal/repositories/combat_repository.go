package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boxerly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrCombatNotFound is returned when a combat lookup matches no document.
var ErrCombatNotFound = errors.New("combat not found")

// ErrResultAlreadySet is returned when a result is set on a combat that
// already has a winner. Results are write-once and never overwritten.
var ErrResultAlreadySet = errors.New("combat result already set")

// CombatRepository defines the interface for combat data operations
type CombatRepository interface {
	CreateCombat(ctx context.Context, combat *models.Combat) error
	GetCombatByID(ctx context.Context, id string) (*models.Combat, error)
	GetCombatsByParticipant(ctx context.Context, accountID string, skip, limit int64) ([]models.Combat, error)
	GetInvitations(ctx context.Context, opponentID string, skip, limit int64) ([]models.Combat, error)
	GetCompletedHistory(ctx context.Context, accountID string, now time.Time, skip, limit int64) ([]models.Combat, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetImage(ctx context.Context, id, imageKey string) error
	DeleteCombat(ctx context.Context, id string) error
	SetResult(ctx context.Context, id, winner string) error
	GetMostFrequentOpponent(ctx context.Context, accountID string, now time.Time) (*models.OpponentCount, error)
	GetTopGyms(ctx context.Context, accountID string, now time.Time, limit int64) ([]models.GymCount, error)
	GetCombatsPerMonth(ctx context.Context, accountID string, now time.Time) ([]models.MonthCount, error)
}

// MongoCombatRepository implements CombatRepository for MongoDB
type MongoCombatRepository struct {
	collection *mongo.Collection
}

// NewMongoCombatRepository creates a new MongoCombatRepository
func NewMongoCombatRepository(db *mongo.Database) *MongoCombatRepository {
	return &MongoCombatRepository{collection: db.Collection("combats")}
}

// participantFilter matches combats where the account is creator or opponent.
func participantFilter(accountID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"creator_id": accountID},
		bson.M{"opponent_id": accountID},
	}}
}

// completedHistoryFilter matches a participant's completed history: combats
// with a recorded result, plus accepted combats whose date already passed
// (treated as having occurred without a result).
func completedHistoryFilter(accountID string, now time.Time) bson.M {
	return bson.M{"$and": bson.A{
		participantFilter(accountID),
		bson.M{"$or": bson.A{
			bson.M{"status": models.CombatStatusCompleted},
			bson.M{"status": models.CombatStatusAccepted, "date": bson.M{"$lt": now}},
		}},
	}}
}

// CreateCombat creates a new combat in MongoDB with status pending
func (r *MongoCombatRepository) CreateCombat(ctx context.Context, combat *models.Combat) error {
	combat.ID = primitive.NewObjectID()
	combat.Status = models.CombatStatusPending
	combat.CreatedAt = time.Now()
	combat.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, combat)
	return err
}

// GetCombatByID retrieves a combat by ID from MongoDB
func (r *MongoCombatRepository) GetCombatByID(ctx context.Context, id string) (*models.Combat, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid combat ID format: %w", err)
	}

	var combat models.Combat
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&combat)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCombatNotFound
		}
		return nil, err
	}
	return &combat, nil
}

// GetCombatsByParticipant retrieves combats where the account is creator or opponent
func (r *MongoCombatRepository) GetCombatsByParticipant(ctx context.Context, accountID string, skip, limit int64) ([]models.Combat, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, participantFilter(accountID), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var combats []models.Combat
	if err = cursor.All(ctx, &combats); err != nil {
		return nil, err
	}
	return combats, nil
}

// GetInvitations retrieves pending combats awaiting the given opponent's response
func (r *MongoCombatRepository) GetInvitations(ctx context.Context, opponentID string, skip, limit int64) ([]models.Combat, error) {
	filter := bson.M{"opponent_id": opponentID, "status": models.CombatStatusPending}
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var combats []models.Combat
	if err = cursor.All(ctx, &combats); err != nil {
		return nil, err
	}
	return combats, nil
}

// GetCompletedHistory retrieves a participant's completed combats
func (r *MongoCombatRepository) GetCompletedHistory(ctx context.Context, accountID string, now time.Time, skip, limit int64) ([]models.Combat, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := r.collection.Find(ctx, completedHistoryFilter(accountID, now), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var combats []models.Combat
	if err = cursor.All(ctx, &combats); err != nil {
		return nil, err
	}
	return combats, nil
}

// UpdateStatus updates the lifecycle status of a combat
func (r *MongoCombatRepository) UpdateStatus(ctx context.Context, id, status string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid combat ID format: %w", err)
	}

	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCombatNotFound
	}
	return nil
}

// SetImage attaches an uploaded image key to a combat
func (r *MongoCombatRepository) SetImage(ctx context.Context, id, imageKey string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid combat ID format: %w", err)
	}

	update := bson.M{"$set": bson.M{"image_key": imageKey, "updated_at": time.Now()}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrCombatNotFound
	}
	return nil
}

// DeleteCombat deletes a combat by ID from MongoDB. Rejecting an invitation
// removes the record outright rather than keeping a soft status.
func (r *MongoCombatRepository) DeleteCombat(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid combat ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCombatNotFound
	}
	return nil
}

// SetResult records the winner and transitions the combat to completed. The
// update is conditional on no winner being present, so a second call can
// never overwrite the first.
func (r *MongoCombatRepository) SetResult(ctx context.Context, id, winner string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid combat ID format: %w", err)
	}

	filter := bson.M{"_id": objID, "winner": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{
		"winner":     winner,
		"status":     models.CombatStatusCompleted,
		"updated_at": time.Now(),
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrResultAlreadySet
	}
	return nil
}

// GetMostFrequentOpponent aggregates the account's completed history by
// counterpart and returns the most frequent one. Ties resolve to whichever
// opponent the stable sort yields first.
func (r *MongoCombatRepository) GetMostFrequentOpponent(ctx context.Context, accountID string, now time.Time) (*models.OpponentCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: completedHistoryFilter(accountID, now)}},
		{{Key: "$project", Value: bson.M{
			"opponent": bson.M{"$cond": bson.A{
				bson.M{"$eq": bson.A{"$creator_id", accountID}},
				"$opponent_id",
				"$creator_id",
			}},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$opponent", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: 1}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.OpponentCount
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// GetTopGyms aggregates the account's completed history by gym
func (r *MongoCombatRepository) GetTopGyms(ctx context.Context, accountID string, now time.Time, limit int64) ([]models.GymCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: completedHistoryFilter(accountID, now)}},
		{{Key: "$group", Value: bson.M{"_id": "$gym_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.GymCount
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetCombatsPerMonth buckets the account's completed history by month ("2006-01")
func (r *MongoCombatRepository) GetCombatsPerMonth(ctx context.Context, accountID string, now time.Time) ([]models.MonthCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: completedHistoryFilter(accountID, now)}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m", "date": "$date"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.MonthCount
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
