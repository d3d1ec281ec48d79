package services

import (
	"errors"
	"testing"
	"time"

	"pos_manager/internal/models"
	"pos_manager/internal/repository"
	"pos_manager/internal/storage"
)

type tableEnv struct {
	orderRepo repository.OrderRepository
	tableRepo repository.TableRepository
	orders    OrderService
	tables    TableService
}

func newTableEnv(t *testing.T) *tableEnv {
	t.Helper()
	store := storage.NewMemoryStore()
	orderRepo, err := repository.NewOrderRepository(store)
	if err != nil {
		t.Fatal(err)
	}
	tableRepo, err := repository.NewTableRepository(store)
	if err != nil {
		t.Fatal(err)
	}
	return &tableEnv{
		orderRepo: orderRepo,
		tableRepo: tableRepo,
		orders:    NewOrderService(orderRepo, tableRepo),
		tables:    NewTableService(tableRepo, orderRepo),
	}
}

func (e *tableEnv) createOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := e.orders.CreateOrder(&models.Order{
		Items:    []models.OrderItem{{Name: "Es Teh", Quantity: 1, UnitPrice: 8000}},
		Subtotal: 8000,
	})
	if err != nil {
		t.Fatal(err)
	}
	return order
}

func (e *tableEnv) provisionTable(t *testing.T, name string) *models.Table {
	t.Helper()
	table, err := e.tables.ProvisionTable(name)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func assertLinked(t *testing.T, e *tableEnv, tableID, orderID string) {
	t.Helper()
	table, err := e.tableRepo.GetByID(tableID)
	if err != nil {
		t.Fatal(err)
	}
	order, err := e.orderRepo.GetByID(orderID)
	if err != nil {
		t.Fatal(err)
	}
	if table.OrderID != orderID || order.TableID != tableID {
		t.Fatalf("links disagree: table.order=%q order.table=%q", table.OrderID, order.TableID)
	}
}

func TestTableAssignAndRelease(t *testing.T) {
	e := newTableEnv(t)
	order := e.createOrder(t)
	table := e.provisionTable(t, "T1")

	if err := e.tables.Assign(table.ID, order.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	assertLinked(t, e, table.ID, order.ID)

	if err := e.tables.Release(table.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	gotTable, _ := e.tableRepo.GetByID(table.ID)
	gotOrder, _ := e.orderRepo.GetByID(order.ID)
	if gotTable.OrderID != "" || gotOrder.TableID != "" {
		t.Fatalf("links not cleared: table.order=%q order.table=%q", gotTable.OrderID, gotOrder.TableID)
	}

	// Releasing an already free table is a no-op success.
	if err := e.tables.Release(table.ID); err != nil {
		t.Fatalf("release of free table: %v", err)
	}
}

func TestTableAssignConflict(t *testing.T) {
	e := newTableEnv(t)
	o1 := e.createOrder(t)
	o2 := e.createOrder(t)
	table := e.provisionTable(t, "T1")

	if err := e.tables.Assign(table.ID, o1.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.tables.Assign(table.ID, o2.ID); !errors.Is(err, repository.ErrTableOccupied) {
		t.Fatalf("assign to occupied table = %v, want ErrTableOccupied", err)
	}
	// The losing assignment changed nothing.
	assertLinked(t, e, table.ID, o1.ID)
	gotO2, _ := e.orderRepo.GetByID(o2.ID)
	if gotO2.TableID != "" {
		t.Fatalf("losing order gained a table link: %q", gotO2.TableID)
	}
}

func TestTableAssignIdempotentForSameOrder(t *testing.T) {
	e := newTableEnv(t)
	order := e.createOrder(t)
	table := e.provisionTable(t, "T1")

	if err := e.tables.Assign(table.ID, order.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.tables.Assign(table.ID, order.ID); err != nil {
		t.Fatalf("re-assign of same order = %v, want success", err)
	}
	assertLinked(t, e, table.ID, order.ID)
}

func TestTableAssignMovesOrder(t *testing.T) {
	e := newTableEnv(t)
	order := e.createOrder(t)
	t1 := e.provisionTable(t, "T1")
	t2 := e.provisionTable(t, "T2")

	if err := e.tables.Assign(t1.ID, order.ID); err != nil {
		t.Fatal(err)
	}
	if err := e.tables.Assign(t2.ID, order.ID); err != nil {
		t.Fatalf("move: %v", err)
	}
	assertLinked(t, e, t2.ID, order.ID)
	gotT1, _ := e.tableRepo.GetByID(t1.ID)
	if gotT1.OrderID != "" {
		t.Fatalf("previous table still linked: %q", gotT1.OrderID)
	}
}

func TestTableAssignUnknownIDs(t *testing.T) {
	e := newTableEnv(t)
	order := e.createOrder(t)
	table := e.provisionTable(t, "T1")

	if err := e.tables.Assign(table.ID, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("assign of missing order = %v, want ErrNotFound", err)
	}
	if err := e.tables.Assign("missing", order.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("assign to missing table = %v, want ErrNotFound", err)
	}
}

func TestFindByOrderID(t *testing.T) {
	e := newTableEnv(t)
	order := e.createOrder(t)
	table := e.provisionTable(t, "T1")

	if _, err := e.tables.FindByOrderID(order.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("lookup before assignment = %v, want ErrNotFound", err)
	}
	if err := e.tables.Assign(table.ID, order.ID); err != nil {
		t.Fatal(err)
	}
	got, err := e.tables.FindByOrderID(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != table.ID {
		t.Fatalf("FindByOrderID = %s, want %s", got.ID, table.ID)
	}
}

func TestCreateOrderWithTableClaimsIt(t *testing.T) {
	e := newTableEnv(t)
	table := e.provisionTable(t, "T1")

	order, err := e.orders.CreateOrder(&models.Order{
		Items:     []models.OrderItem{{Name: "Kopi", Quantity: 1, UnitPrice: 15000}},
		Subtotal:  15000,
		TableID:   table.ID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	assertLinked(t, e, table.ID, order.ID)

	// A second order cannot be created onto the occupied table.
	if _, err := e.orders.CreateOrder(&models.Order{
		Items:    []models.OrderItem{{Name: "Teh", Quantity: 1, UnitPrice: 8000}},
		Subtotal: 8000,
		TableID:  table.ID,
	}); !errors.Is(err, repository.ErrTableOccupied) {
		t.Fatalf("create onto occupied table = %v, want ErrTableOccupied", err)
	}
}
