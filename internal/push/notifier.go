package push

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/avelan/rationd/internal/model"
	"github.com/avelan/rationd/internal/store"
)

// Notifier sends low-stock alerts to every registered subscription. It is
// edge-triggered: handlers call NotifyLowStock after a mutation leaves an
// item at or below its threshold, and each item alerts once until its stock
// rises back above the threshold.
type Notifier struct {
	svc    *Service
	store  *store.PushStore
	logger *slog.Logger

	mu      sync.Mutex
	alerted map[int64]bool
}

func NewNotifier(svc *Service, ps *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{
		svc:     svc,
		store:   ps,
		logger:  logger,
		alerted: make(map[int64]bool),
	}
}

// StockChanged inspects an item after any mutation and fires or resets the
// low-stock alert as needed. Safe for concurrent use.
func (n *Notifier) StockChanged(item *model.StockItem) {
	if item == nil {
		return
	}

	n.mu.Lock()
	already := n.alerted[item.ID]
	low := item.LowStock()
	if low {
		n.alerted[item.ID] = true
	} else {
		delete(n.alerted, item.ID)
	}
	n.mu.Unlock()

	if !low || already {
		return
	}
	n.notifyLowStock(item)
}

// ItemDeleted clears alert state for a removed item.
func (n *Notifier) ItemDeleted(itemID int64) {
	n.mu.Lock()
	delete(n.alerted, itemID)
	n.mu.Unlock()
}

func (n *Notifier) notifyLowStock(item *model.StockItem) {
	subs, err := n.store.List()
	if err != nil {
		n.logger.Error("list subscriptions", "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}

	payload := Payload{
		Title: "Low stock alert",
		Body:  fmt.Sprintf("%s is low: %g remaining (threshold %g)", item.ItemName, item.CurrentStock, item.Threshold),
		Tag:   fmt.Sprintf("low-stock-%d", item.ID),
	}

	for i := range subs {
		sub := subs[i]
		go func() {
			if err := n.svc.Send(&sub, payload); err != nil {
				if errors.Is(err, ErrExpired) {
					if derr := n.store.DeleteByEndpoint(sub.Endpoint); derr != nil {
						n.logger.Error("remove expired subscription", "error", derr)
					}
					return
				}
				n.logger.Error("send low stock alert", "subscription", sub.ID, "error", err)
			}
		}()
	}
}
