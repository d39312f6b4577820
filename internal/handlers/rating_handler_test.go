package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRatingRepository struct {
	mu      sync.Mutex
	ratings []*models.Rating
}

func (f *fakeRatingRepository) CreateRating(_ context.Context, rating *models.Rating) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rating.ID = primitive.NewObjectID()
	rating.CreatedAt = time.Now()
	f.ratings = append(f.ratings, rating)
	return nil
}

func (f *fakeRatingRepository) GetByCombatAndFrom(_ context.Context, combatID primitive.ObjectID, fromID string) (*models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.ratings {
		if r.CombatID == combatID && r.FromID == fromID {
			return r, nil
		}
	}
	return nil, errors.New("rating not found")
}

func (f *fakeRatingRepository) GetRatingsForAccount(_ context.Context, toID string, skip, limit int64) ([]models.Rating, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Rating
	for _, r := range f.ratings {
		if r.ToID == toID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRatingRepository) GetAverages(_ context.Context, toID string) (*models.RatingAverages, error) {
	return &models.RatingAverages{}, nil
}

type ratingTestEnv struct {
	handler *RatingHandler
	combats *fakeCombatRepository
	ratings *fakeRatingRepository
}

func newRatingTestEnv(t *testing.T) *ratingTestEnv {
	t.Helper()

	combats := newFakeCombatRepository()
	ratings := &fakeRatingRepository{}
	notifier := notify.NewNotifier(nil, fakeFollowRepository{}, &fakeNotificationRepository{}, &recordingBroadcaster{})

	return &ratingTestEnv{
		handler: NewRatingHandler(ratings, combats, notifier),
		combats: combats,
		ratings: ratings,
	}
}

const ratingBody = `{"punctuality":5,"attitude":4,"technique":3,"intensity":4,"sportsmanship":5}`

func (env *ratingTestEnv) seedCombat(t *testing.T, status string, date time.Time) *models.Combat {
	t.Helper()
	combat := &models.Combat{CreatorID: "1", OpponentID: "2", GymID: "9", Date: date}
	require.NoError(t, env.combats.CreateCombat(context.Background(), combat))
	require.NoError(t, env.combats.UpdateStatus(context.Background(), combat.ID.Hex(), status))
	combat.Status = status
	return combat
}

func TestCreateRatingRequiresParticipation(t *testing.T) {
	env := newRatingTestEnv(t)
	combat := env.seedCombat(t, models.CombatStatusCompleted, time.Now().Add(-24*time.Hour))

	c := authedRequest(t, http.MethodPost, "/combats/"+combat.ID.Hex()+"/ratings", ratingBody, 3)
	c.SetParamNames("id")
	c.SetParamValues(combat.ID.Hex())

	err := env.handler.CreateRating(c)
	assert.Equal(t, http.StatusForbidden, httpError(t, err).Code)
}

func TestCreateRatingBeforeCombatTookPlace(t *testing.T) {
	env := newRatingTestEnv(t)

	// Accepted but scheduled in the future
	combat := env.seedCombat(t, models.CombatStatusAccepted, time.Now().Add(72*time.Hour))

	c := authedRequest(t, http.MethodPost, "/combats/"+combat.ID.Hex()+"/ratings", ratingBody, 1)
	c.SetParamNames("id")
	c.SetParamValues(combat.ID.Hex())

	err := env.handler.CreateRating(c)
	assert.Equal(t, http.StatusConflict, httpError(t, err).Code)
}

func TestCreateRatingAcceptedPastDateCounts(t *testing.T) {
	env := newRatingTestEnv(t)

	// Accepted with a past date counts as completed even without a result
	combat := env.seedCombat(t, models.CombatStatusAccepted, time.Now().Add(-72*time.Hour))

	c := authedRequest(t, http.MethodPost, "/combats/"+combat.ID.Hex()+"/ratings", ratingBody, 1)
	c.SetParamNames("id")
	c.SetParamValues(combat.ID.Hex())

	require.NoError(t, env.handler.CreateRating(c))
	require.Len(t, env.ratings.ratings, 1)
	assert.Equal(t, "1", env.ratings.ratings[0].FromID)
	assert.Equal(t, "2", env.ratings.ratings[0].ToID, "rating always targets the other participant")
}

func TestCreateRatingOncePerParticipant(t *testing.T) {
	env := newRatingTestEnv(t)
	combat := env.seedCombat(t, models.CombatStatusCompleted, time.Now().Add(-24*time.Hour))

	first := authedRequest(t, http.MethodPost, "/combats/"+combat.ID.Hex()+"/ratings", ratingBody, 1)
	first.SetParamNames("id")
	first.SetParamValues(combat.ID.Hex())
	require.NoError(t, env.handler.CreateRating(first))

	second := authedRequest(t, http.MethodPost, "/combats/"+combat.ID.Hex()+"/ratings", ratingBody, 1)
	second.SetParamNames("id")
	second.SetParamValues(combat.ID.Hex())

	err := env.handler.CreateRating(second)
	assert.Equal(t, http.StatusConflict, httpError(t, err).Code)

	// The opponent can still leave their own rating
	opponent := authedRequest(t, http.MethodPost, "/combats/"+combat.ID.Hex()+"/ratings", ratingBody, 2)
	opponent.SetParamNames("id")
	opponent.SetParamValues(combat.ID.Hex())
	require.NoError(t, env.handler.CreateRating(opponent))
	assert.Len(t, env.ratings.ratings, 2)
}
