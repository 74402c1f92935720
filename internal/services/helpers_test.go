package services

import (
	"bytes"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/eshop/backoffice/internal/audit"
	"github.com/eshop/backoffice/internal/store/memory"
)

// stepClock returns a clock that advances one second on every call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Second)
		return now
	}
}

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	auditBuf  *bytes.Buffer
	ledger    *LedgerService
	inventory *InventoryService
	orders    *OrderService
	overview  *OverviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	buf := &bytes.Buffer{}
	auditLogger := audit.NewLogger(log.New(buf, "", 0))
	clock := stepClock(testEpoch)

	ledger := NewLedgerService(st, auditLogger)
	ledger.now = clock
	inventory := NewInventoryService(st)
	inventory.now = clock
	orders := NewOrderService(st, auditLogger)
	orders.now = clock

	return &fixture{
		store:     st,
		auditBuf:  buf,
		ledger:    ledger,
		inventory: inventory,
		orders:    orders,
		overview:  NewOverviewService(st),
	}
}
