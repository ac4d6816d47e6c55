package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vinnybad/choremander/internal/model"
	"github.com/vinnybad/choremander/internal/store"
)

// Notifier fans approval requests out to every subscribed device. Sends run
// on a background goroutine so ledger operations never wait on the push
// service; expired subscriptions are pruned as failures come back.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(service *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{service: service, subs: subs, logger: logger}
}

// CompletionPending notifies that a chore completion awaits review.
func (n *Notifier) CompletionPending(child model.Child, chore model.Chore) {
	n.broadcast(completionPayload(child, chore))
}

// ClaimPending notifies that a reward claim awaits review.
func (n *Notifier) ClaimPending(child model.Child, reward model.Reward) {
	n.broadcast(claimPayload(child, reward))
}

func completionPayload(child model.Child, chore model.Chore) Payload {
	return Payload{
		Title: "Chore Approval Needed",
		Body:  fmt.Sprintf("%s finished %q", child.Name, chore.Name),
		URL:   "/approvals",
		Tag:   "chore-approval",
	}
}

func claimPayload(child model.Child, reward model.Reward) Payload {
	return Payload{
		Title: "Reward Approval Needed",
		Body:  fmt.Sprintf("%s wants to claim %q", child.Name, reward.Name),
		URL:   "/approvals",
		Tag:   "reward-approval",
	}
}

func (n *Notifier) broadcast(payload Payload) {
	go func() {
		subs, err := n.subs.List()
		if err != nil {
			n.logger.Error("list push subscriptions", "error", err)
			return
		}
		for _, sub := range subs {
			if err := n.service.Send(&sub, payload); err != nil {
				if errors.Is(err, ErrExpired) {
					if err := n.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
						n.logger.Error("prune expired subscription", "error", err)
					}
					continue
				}
				n.logger.Warn("send push notification", "endpoint", sub.Endpoint, "error", err)
			}
		}
	}()
}
