// Package notify delivers side-channel notifications after the primary write
// has committed: persisted notification rows, real-time socket events, and
// best-effort FCM pushes. Push failures are logged and swallowed, never
// surfaced to the caller.
package notify

import (
	"context"
	"log"
	"strconv"

	"firebase.google.com/go/v4/messaging"
	"github.com/boxerly/backend/internal/models"
	"github.com/boxerly/backend/internal/repositories"
	"github.com/boxerly/backend/internal/ws"
)

// Broadcaster is the narrow slice of the gateway's connection registry the
// notifier needs.
type Broadcaster interface {
	BroadcastToAccounts(accountIDs []string, event ws.Event)
}

// Notifier fans notifications out over the persisted, real-time and push channels.
type Notifier struct {
	messaging     *messaging.Client // nil when Firebase credentials are absent
	follows       repositories.FollowRepository
	notifications repositories.NotificationRepository
	hub           Broadcaster
}

// NewNotifier creates a Notifier. The messaging client may be nil; push
// delivery is then skipped.
func NewNotifier(msg *messaging.Client, follows repositories.FollowRepository, notifications repositories.NotificationRepository, hub Broadcaster) *Notifier {
	return &Notifier{messaging: msg, follows: follows, notifications: notifications, hub: hub}
}

// CombatInvitation notifies the opponent of a freshly created combat.
func (n *Notifier) CombatInvitation(ctx context.Context, combat *models.Combat, actorID uint, actorName string) {
	opponentID, err := strconv.ParseUint(combat.OpponentID, 10, 32)
	if err != nil {
		log.Printf("notify: invalid opponent id %q: %v", combat.OpponentID, err)
		return
	}

	notification := &models.Notification{
		Type:        "combat_invitation",
		ActorID:     actorID,
		RecipientID: uint(opponentID),
		TargetID:    combat.ID.Hex(),
		TargetType:  "combat",
		Message:     actorName + " challenged you to a combat",
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		log.Printf("notify: failed to persist invitation notification: %v", err)
	}

	n.hub.BroadcastToAccounts([]string{combat.OpponentID}, ws.Event{
		Type: ws.EventCombatInvitation,
		Data: combat,
	})
}

// CombatResponse notifies the creator of the opponent's accept/reject decision
// and cascades a best-effort push to the followers of both participants.
func (n *Notifier) CombatResponse(ctx context.Context, combat *models.Combat, responderID uint, responderName, status string) {
	creatorID, err := strconv.ParseUint(combat.CreatorID, 10, 32)
	if err != nil {
		log.Printf("notify: invalid creator id %q: %v", combat.CreatorID, err)
		return
	}

	message := responderName + " accepted your combat invitation"
	if status == models.CombatStatusRejected {
		message = responderName + " rejected your combat invitation"
	}

	notification := &models.Notification{
		Type:        "combat_response",
		ActorID:     responderID,
		RecipientID: uint(creatorID),
		TargetID:    combat.ID.Hex(),
		TargetType:  "combat",
		Message:     message,
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		log.Printf("notify: failed to persist response notification: %v", err)
	}

	n.hub.BroadcastToAccounts([]string{combat.CreatorID}, ws.Event{
		Type: ws.EventCombatResponse,
		Data: map[string]interface{}{"combat_id": combat.ID.Hex(), "status": status},
	})

	// Fan out to the followers of both participants.
	tokens := n.followerTokens(responderID)
	tokens = append(tokens, n.followerTokens(uint(creatorID))...)
	n.push(ctx, tokens, "Combat update", responderName+" responded to a combat invitation")
}

// Followed notifies an account that it gained a follower.
func (n *Notifier) Followed(ctx context.Context, followerID uint, followerName string, followingID uint) {
	notification := &models.Notification{
		Type:        "follow",
		ActorID:     followerID,
		RecipientID: followingID,
		TargetID:    strconv.FormatUint(uint64(followerID), 10),
		TargetType:  "account",
		Message:     followerName + " started following you",
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		log.Printf("notify: failed to persist follow notification: %v", err)
	}

	n.hub.BroadcastToAccounts([]string{strconv.FormatUint(uint64(followingID), 10)}, ws.Event{
		Type: ws.EventNotification,
		Data: notification,
	})
}

// RatingReceived notifies an account of a new peer rating.
func (n *Notifier) RatingReceived(ctx context.Context, rating *models.Rating, actorID uint, actorName string) {
	toID, err := strconv.ParseUint(rating.ToID, 10, 32)
	if err != nil {
		log.Printf("notify: invalid rating target id %q: %v", rating.ToID, err)
		return
	}

	notification := &models.Notification{
		Type:        "rating",
		ActorID:     actorID,
		RecipientID: uint(toID),
		TargetID:    rating.CombatID.Hex(),
		TargetType:  "combat",
		Message:     actorName + " rated your combat",
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		log.Printf("notify: failed to persist rating notification: %v", err)
	}

	n.hub.BroadcastToAccounts([]string{rating.ToID}, ws.Event{
		Type: ws.EventNotification,
		Data: notification,
	})
}

func (n *Notifier) followerTokens(accountID uint) []string {
	tokens, err := n.follows.GetFollowerDeviceTokens(accountID)
	if err != nil {
		log.Printf("notify: failed to load follower device tokens for %d: %v", accountID, err)
		return nil
	}
	return tokens
}

// push sends an FCM multicast. Best-effort: every failure is logged and dropped.
func (n *Notifier) push(ctx context.Context, tokens []string, title, body string) {
	if n.messaging == nil || len(tokens) == 0 {
		return
	}

	res, err := n.messaging.SendEachForMulticast(ctx, &messaging.MulticastMessage{
		Tokens:       tokens,
		Notification: &messaging.Notification{Title: title, Body: body},
	})
	if err != nil {
		log.Printf("notify: push delivery failed: %v", err)
		return
	}
	if res.FailureCount > 0 {
		log.Printf("notify: push delivered with %d/%d failures", res.FailureCount, len(tokens))
	}
}
