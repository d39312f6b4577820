package handlers

import (
	"net/http"
	"sync"
	"testing"

	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryFollowRepository struct {
	fakeFollowRepository
	mu    sync.Mutex
	edges map[[2]uint]*models.Follow
}

func newMemoryFollowRepository() *memoryFollowRepository {
	return &memoryFollowRepository{edges: make(map[[2]uint]*models.Follow)}
}

func (m *memoryFollowRepository) CreateFollow(follow *models.Follow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[[2]uint{follow.FollowerID, follow.FollowingID}] = follow
	return nil
}

func (m *memoryFollowRepository) DeleteFollow(followerID, followingID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{followerID, followingID}
	if _, ok := m.edges[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.edges, key)
	return nil
}

func (m *memoryFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[[2]uint{followerID, followingID}]
	return ok, nil
}

func newFollowTestEnv(t *testing.T) (*FollowHandler, *memoryFollowRepository, *fakeNotificationRepository) {
	t.Helper()

	follows := newMemoryFollowRepository()
	notifications := &fakeNotificationRepository{}
	notifier := notify.NewNotifier(nil, follows, notifications, &recordingBroadcaster{})
	return NewFollowHandler(follows, newFakeUserRepository(1, 2), notifier), follows, notifications
}

func TestFollowUserCreatesEdgeAndNotifies(t *testing.T) {
	handler, follows, notifications := newFollowTestEnv(t)

	c := authedRequest(t, http.MethodPost, "/users/2/follow", `{"device_token":"tok-1"}`, 1)
	c.SetParamNames("id")
	c.SetParamValues("2")

	require.NoError(t, handler.FollowUser(c))

	following, err := follows.IsFollowing(1, 2)
	require.NoError(t, err)
	assert.True(t, following)

	require.Len(t, notifications.created, 1)
	assert.Equal(t, "follow", notifications.created[0].Type)
	assert.Equal(t, uint(2), notifications.created[0].RecipientID)
}

func TestFollowUserIsIdempotent(t *testing.T) {
	handler, follows, notifications := newFollowTestEnv(t)

	for i := 0; i < 2; i++ {
		c := authedRequest(t, http.MethodPost, "/users/2/follow", `{}`, 1)
		c.SetParamNames("id")
		c.SetParamValues("2")
		require.NoError(t, handler.FollowUser(c), "attempt %d", i+1)
		assert.Equal(t, http.StatusOK, c.Response().Status, "attempt %d", i+1)
	}

	assert.Len(t, follows.edges, 1)
	assert.Len(t, notifications.created, 1, "repeat follow fires no second notification")
}

func TestFollowUserSelf(t *testing.T) {
	handler, _, _ := newFollowTestEnv(t)

	c := authedRequest(t, http.MethodPost, "/users/1/follow", `{}`, 1)
	c.SetParamNames("id")
	c.SetParamValues("1")

	err := handler.FollowUser(c)
	assert.Equal(t, http.StatusBadRequest, httpError(t, err).Code)
}

func TestFollowUserUnknownTarget(t *testing.T) {
	handler, _, _ := newFollowTestEnv(t)

	c := authedRequest(t, http.MethodPost, "/users/99/follow", `{}`, 1)
	c.SetParamNames("id")
	c.SetParamValues("99")

	err := handler.FollowUser(c)
	assert.Equal(t, http.StatusNotFound, httpError(t, err).Code)
}

func TestUnfollowWithoutEdge(t *testing.T) {
	handler, _, _ := newFollowTestEnv(t)

	c := authedRequest(t, http.MethodDelete, "/users/2/follow", "", 1)
	c.SetParamNames("id")
	c.SetParamValues("2")

	err := handler.UnfollowUser(c)
	assert.Equal(t, http.StatusNotFound, httpError(t, err).Code)
}
