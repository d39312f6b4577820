package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/boxerly/backend/internal/ws"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory repository fakes. They implement just enough behavior for the
// handler tests, mirroring the error contracts of the real implementations.

type fakeCombatRepository struct {
	mu      sync.Mutex
	combats map[string]*models.Combat
}

func newFakeCombatRepository() *fakeCombatRepository {
	return &fakeCombatRepository{combats: make(map[string]*models.Combat)}
}

func (f *fakeCombatRepository) CreateCombat(_ context.Context, combat *models.Combat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	combat.ID = primitive.NewObjectID()
	combat.Status = models.CombatStatusPending
	combat.CreatedAt = time.Now()
	combat.UpdatedAt = time.Now()
	f.combats[combat.ID.Hex()] = combat
	return nil
}

func (f *fakeCombatRepository) GetCombatByID(_ context.Context, id string) (*models.Combat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	combat, ok := f.combats[id]
	if !ok {
		return nil, repositories.ErrCombatNotFound
	}
	copied := *combat
	return &copied, nil
}

func (f *fakeCombatRepository) GetCombatsByParticipant(_ context.Context, accountID string, skip, limit int64) ([]models.Combat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Combat
	for _, combat := range f.combats {
		if combat.IsParticipant(accountID) {
			out = append(out, *combat)
		}
	}
	return out, nil
}

func (f *fakeCombatRepository) GetInvitations(_ context.Context, opponentID string, skip, limit int64) ([]models.Combat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Combat
	for _, combat := range f.combats {
		if combat.OpponentID == opponentID && combat.Status == models.CombatStatusPending {
			out = append(out, *combat)
		}
	}
	return out, nil
}

func (f *fakeCombatRepository) GetCompletedHistory(_ context.Context, accountID string, now time.Time, skip, limit int64) ([]models.Combat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Combat
	for _, combat := range f.combats {
		if combat.IsParticipant(accountID) && combat.CountsAsCompleted(now) {
			out = append(out, *combat)
		}
	}
	return out, nil
}

func (f *fakeCombatRepository) UpdateStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	combat, ok := f.combats[id]
	if !ok {
		return repositories.ErrCombatNotFound
	}
	combat.Status = status
	return nil
}

func (f *fakeCombatRepository) SetImage(_ context.Context, id, imageKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	combat, ok := f.combats[id]
	if !ok {
		return repositories.ErrCombatNotFound
	}
	combat.ImageKey = imageKey
	return nil
}

func (f *fakeCombatRepository) DeleteCombat(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.combats[id]; !ok {
		return repositories.ErrCombatNotFound
	}
	delete(f.combats, id)
	return nil
}

func (f *fakeCombatRepository) SetResult(_ context.Context, id, winner string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	combat, ok := f.combats[id]
	if !ok || combat.Winner != "" {
		return repositories.ErrResultAlreadySet
	}
	combat.Winner = winner
	combat.Status = models.CombatStatusCompleted
	return nil
}

func (f *fakeCombatRepository) GetMostFrequentOpponent(_ context.Context, accountID string, now time.Time) (*models.OpponentCount, error) {
	return nil, nil
}

func (f *fakeCombatRepository) GetTopGyms(_ context.Context, accountID string, now time.Time, limit int64) ([]models.GymCount, error) {
	return nil, nil
}

func (f *fakeCombatRepository) GetCombatsPerMonth(_ context.Context, accountID string, now time.Time) ([]models.MonthCount, error) {
	return nil, nil
}

type fakeUserRepository struct {
	users map[uint]*models.User
}

func newFakeUserRepository(ids ...uint) *fakeUserRepository {
	f := &fakeUserRepository{users: make(map[uint]*models.User)}
	for _, id := range ids {
		f.users[id] = &models.User{ID: id, Visible: true}
	}
	return f
}

func (f *fakeUserRepository) CreateUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) GetUserByID(id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, user := range f.users {
		if user.FirebaseUID == firebaseUID {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) DeleteUser(id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepository) SetVisibility(id uint, visible bool) error {
	if user, ok := f.users[id]; ok {
		user.Visible = visible
	}
	return nil
}

func (f *fakeUserRepository) SearchUsers(query string, offset, limit int) ([]models.User, error) {
	return nil, nil
}

type fakeGymRepository struct {
	gyms map[uint]*models.Gym
}

func newFakeGymRepository(ids ...uint) *fakeGymRepository {
	f := &fakeGymRepository{gyms: make(map[uint]*models.Gym)}
	for _, id := range ids {
		f.gyms[id] = &models.Gym{ID: id, Visible: true}
	}
	return f
}

func (f *fakeGymRepository) CreateGym(gym *models.Gym) error {
	f.gyms[gym.ID] = gym
	return nil
}

func (f *fakeGymRepository) GetGymByID(id uint) (*models.Gym, error) {
	gym, ok := f.gyms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return gym, nil
}

func (f *fakeGymRepository) GetGymByEmail(email string) (*models.Gym, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeGymRepository) UpdateGym(gym *models.Gym) error {
	f.gyms[gym.ID] = gym
	return nil
}

func (f *fakeGymRepository) DeleteGym(id uint) error {
	delete(f.gyms, id)
	return nil
}

func (f *fakeGymRepository) SetVisibility(id uint, visible bool) error {
	return nil
}

func (f *fakeGymRepository) ListGyms(offset, limit int) ([]models.Gym, error) {
	return nil, nil
}

func (f *fakeGymRepository) SearchGyms(query string, offset, limit int) ([]models.Gym, error) {
	return nil, nil
}

type fakeNotificationRepository struct {
	mu      sync.Mutex
	created []*models.Notification
}

func (f *fakeNotificationRepository) CreateNotification(notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, notification)
	return nil
}

func (f *fakeNotificationRepository) GetByRecipientID(recipientID uint, offset, limit int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.created {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationRepository) MarkAsRead(notificationID, recipientID uint) error {
	return nil
}

func (f *fakeNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return nil
}

type fakeFollowRepository struct{}

func (fakeFollowRepository) CreateFollow(follow *models.Follow) error          { return nil }
func (fakeFollowRepository) DeleteFollow(followerID, followingID uint) error   { return nil }
func (fakeFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	return false, nil
}
func (fakeFollowRepository) GetFollowers(userID uint, offset, limit int) ([]models.User, error) {
	return nil, nil
}
func (fakeFollowRepository) GetFollowing(userID uint, offset, limit int) ([]models.User, error) {
	return nil, nil
}
func (fakeFollowRepository) GetFollowersCount(userID uint) (int64, error)       { return 0, nil }
func (fakeFollowRepository) GetFollowingCount(userID uint) (int64, error)       { return 0, nil }
func (fakeFollowRepository) GetFollowerDeviceTokens(userID uint) ([]string, error) {
	return nil, nil
}

// recordingBroadcaster captures socket events handed to the gateway registry.
type recordingBroadcaster struct {
	mu     sync.Mutex
	events []ws.Event
}

func (b *recordingBroadcaster) BroadcastToAccounts(accountIDs []string, event ws.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}
