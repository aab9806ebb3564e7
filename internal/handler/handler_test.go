package handler

import (
	"io"
	"log/slog"
	"testing"

	"github.com/avelan/rationd/internal/database"
	"github.com/avelan/rationd/internal/push"
	"github.com/avelan/rationd/internal/store"
	ws "github.com/avelan/rationd/internal/websocket"
)

type handlerFixture struct {
	families *store.FamilyStore
	stock    *store.StockStore
	sales    *store.SaleStore
	users    *store.UserStore
	sessions *store.SessionStore
	hub      *ws.Hub
	notifier *push.Notifier
	logger   *slog.Logger
}

func setupHandlerTest(t *testing.T) *handlerFixture {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &handlerFixture{
		families: store.NewFamilyStore(db),
		stock:    store.NewStockStore(db),
		sales:    store.NewSaleStore(db),
		users:    store.NewUserStore(db),
		sessions: store.NewSessionStore(db),
		hub:      ws.NewHub(logger),
		notifier: push.NewNotifier(push.NewService("", ""), store.NewPushStore(db), logger),
		logger:   logger,
	}
}
