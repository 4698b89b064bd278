package order

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var orderCols = []string{"id", "total_amount", "total_items", "status", "paid", "created_at", "updated_at"}

func orderRow(id string, amount float64, items int, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderCols).AddRow(id, amount, items, status, false, now, now)
}

func TestCreate_CommitsHeaderAndItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), 25.0, 3).
		WillReturnRows(orderRow("o1", 25, 3, "PENDING"))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), 1, 2, 10.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), 2, 1, 5.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.Create(context.Background(), Order{
		TotalAmount: 25,
		TotalItems:  3,
		Items: []Item{
			{ProductID: 1, Quantity: 2, Price: 10},
			{ProductID: 2, Quantity: 1, Price: 5},
		},
	})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.ID != "o1" || created.Status != StatusPending {
		t.Fatalf("unexpected order %+v", created)
	}
	if len(created.Items) != 2 {
		t.Fatalf("expected items on the created order, got %d", len(created.Items))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreate_RollsBackWhenItemInsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), 10.0, 1).
		WillReturnRows(orderRow("o1", 10, 1, "PENDING"))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), 1, 1, 10.0).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err = repo.Create(context.Background(), Order{
		TotalAmount: 10,
		TotalItems:  1,
		Items:       []Item{{ProductID: 1, Quantity: 1, Price: 10}},
	})
	if err == nil {
		t.Fatal("expected an error when an item insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindByID_ReturnsOrderWithItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM orders WHERE id").
		WithArgs("o1").
		WillReturnRows(orderRow("o1", 25, 3, "PENDING"))
	mock.ExpectQuery("FROM order_items").
		WithArgs("o1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity", "price"}).
			AddRow(1, 2, 10.0).
			AddRow(2, 1, 5.0))

	ord, err := repo.FindByID(context.Background(), "o1")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if ord == nil {
		t.Fatal("expected an order")
	}
	if len(ord.Items) != 2 || ord.Items[0].ProductID != 1 || ord.Items[1].Price != 5 {
		t.Fatalf("unexpected items %+v", ord.Items)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestFindByID_AbsentIsNotAnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("FROM orders WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	ord, err := repo.FindByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("absence is not an error, got %v", err)
	}
	if ord != nil {
		t.Fatalf("expected nil order, got %+v", ord)
	}
}

func TestCountAndList_WithStatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT count").
		WithArgs("PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("FROM orders").
		WithArgs("PENDING", 2, 2).
		WillReturnRows(orderRow("o3", 10, 1, "PENDING"))

	total, err := repo.Count(context.Background(), StatusPending)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 7 {
		t.Fatalf("expected total 7, got %d", total)
	}

	orders, err := repo.List(context.Background(), StatusPending, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 || orders[0].ID != "o3" {
		t.Fatalf("unexpected orders %+v", orders)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE orders").
		WithArgs("missing", "DELIVERED").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.UpdateStatus(context.Background(), "missing", StatusDelivered)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatus_ReplacesStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE orders").
		WithArgs("o1", "CANCELLED").
		WillReturnRows(orderRow("o1", 25, 3, "CANCELLED"))

	ord, err := repo.UpdateStatus(context.Background(), "o1", StatusCancelled)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if ord.Status != StatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", ord.Status)
	}
}

func TestMarkPaid(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(orderCols).
		AddRow("o1", 25.0, 3, "PAID", true, time.Now(), time.Now())
	mock.ExpectQuery("UPDATE orders").
		WithArgs("o1", "PAID").
		WillReturnRows(rows)

	ord, err := repo.MarkPaid(context.Background(), "o1")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if ord.Status != StatusPaid || !ord.Paid {
		t.Fatalf("expected a paid order, got %+v", ord)
	}
}
