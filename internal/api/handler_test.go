package api

import (
	"context"
	"testing"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
	"storefront-service/internal/session"
	"storefront-service/internal/zones"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	carts map[string][]models.CartLine
}

func (p *memPersister) SaveCart(_ context.Context, owner string, lines []models.CartLine) error {
	p.carts[owner] = lines
	return nil
}

func (p *memPersister) LoadCart(_ context.Context, owner string) ([]models.CartLine, error) {
	return p.carts[owner], nil
}

func testManager(ttl time.Duration) *session.Manager {
	cat := &session.Catalog{
		Index:     catalog.NewIndex(nil),
		Inventory: catalog.NewInventory(nil),
		Zones:     zones.NewResolver(nil),
		Config:    models.StoreConfig{},
	}
	return session.NewManager(cat, &memPersister{carts: make(map[string][]models.CartLine)}, ttl)
}

func TestOrchestratorReusedForSameSession(t *testing.T) {
	h := NewHandler(testManager(0), nil, nil, nil, nil, nil, "FAYM", "GHS")
	sess := h.sessions.Create(context.Background())

	o1 := h.orchestratorFor(sess)
	o2 := h.orchestratorFor(sess)
	assert.Same(t, o1, o2)
}

func TestOrchestratorRebuiltForRestoredSession(t *testing.T) {
	mgr := testManager(time.Nanosecond)
	h := NewHandler(mgr, nil, nil, nil, nil, nil, "FAYM", "GHS")
	ctx := context.Background()

	sess := mgr.Create(ctx)
	o1 := h.orchestratorFor(sess)

	// idle past the TTL so the next lookup evicts and restores
	time.Sleep(time.Millisecond)
	restored, err := mgr.Get(ctx, sess.ID())
	require.NoError(t, err)
	require.NotSame(t, sess, restored)

	o2 := h.orchestratorFor(restored)
	assert.NotSame(t, o1, o2, "an orchestrator bound to the evicted session must not be reused")

	// and the rebuilt one is stable from here on
	assert.Same(t, o2, h.orchestratorFor(restored))
}

func TestDropCheckoutForgetsOrchestrator(t *testing.T) {
	h := NewHandler(testManager(0), nil, nil, nil, nil, nil, "FAYM", "GHS")
	sess := h.sessions.Create(context.Background())

	o1 := h.orchestratorFor(sess)
	h.dropCheckout(sess.ID())

	h.mu.Lock()
	_, held := h.checkouts[sess.ID()]
	h.mu.Unlock()
	assert.False(t, held)

	assert.NotSame(t, o1, h.orchestratorFor(sess))
}
