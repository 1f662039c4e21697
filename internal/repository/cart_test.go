package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/arvachan/solestore/internal/variant"
)

func setupCartMock(t *testing.T) (*PostgresCartRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresCartRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestLinesByUser(t *testing.T) {
	repo, mock, cleanup := setupCartMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"id", "product_id", "quantity", "selected_size", "selected_color",
		"id", "name", "price", "image_url",
	}).
		AddRow("l1", "p1", 2, "9", "Black", "p1", "Oxford Classic", 1999.0, "https://img/p1").
		AddRow("l2", "p2", 1, "One Size", "Default", "p2", "Canvas Tote", 899.0, "https://img/p2")

	mock.ExpectQuery("SELECT (.+) FROM cart_items ci").
		WithArgs("u1").
		WillReturnRows(rows)

	lines, err := repo.LinesByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Quantity != 2 || lines[0].Product.Price != 1999.0 {
		t.Errorf("unexpected first line: %+v", lines[0])
	}
	if lines[1].SelectedSize != "One Size" || lines[1].SelectedColor != "Default" {
		t.Errorf("unexpected second line: %+v", lines[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestLinesByUser_Error(t *testing.T) {
	repo, mock, cleanup := setupCartMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM cart_items ci").
		WithArgs("u1").
		WillReturnError(errors.New("query failed"))

	_, err := repo.LinesByUser(context.Background(), "u1")
	if err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindLine_Found(t *testing.T) {
	repo, mock, cleanup := setupCartMock(t)
	defer cleanup()

	key := variant.Key{ProductID: "p1", Size: "9", Color: "Black"}
	rows := sqlmock.NewRows([]string{"id", "product_id", "quantity", "selected_size", "selected_color"}).
		AddRow("l1", "p1", 3, "9", "Black")

	mock.ExpectQuery("SELECT id, product_id, quantity, selected_size, selected_color").
		WithArgs("u1", "p1", "9", "Black").
		WillReturnRows(rows)

	line, err := repo.FindLine(context.Background(), "u1", key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line == nil || line.Quantity != 3 {
		t.Errorf("unexpected line: %+v", line)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindLine_NotFound(t *testing.T) {
	repo, mock, cleanup := setupCartMock(t)
	defer cleanup()

	key := variant.Key{ProductID: "p1", Size: "9", Color: "Black"}
	mock.ExpectQuery("SELECT id, product_id, quantity, selected_size, selected_color").
		WithArgs("u1", "p1", "9", "Black").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "quantity", "selected_size", "selected_color"}))

	line, err := repo.FindLine(context.Background(), "u1", key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if line != nil {
		t.Errorf("expected nil line, got %+v", line)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestInsertLine(t *testing.T) {
	repo, mock, cleanup := setupCartMock(t)
	defer cleanup()

	key := variant.Key{ProductID: "p1", Size: "9", Color: "Black"}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_items (id, user_id, product_id, quantity, selected_size, selected_color)`)).
		WithArgs(sqlmock.AnyArg(), "u1", "p1", 1, "9", "Black").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.InsertLine(context.Background(), "u1", key, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	repo, mock, cleanup := setupCartMock(t)
	defer cleanup()

	key := variant.Key{ProductID: "p1", Size: "9", Color: "Black"}
	mock.ExpectExec("UPDATE cart_items SET quantity").
		WithArgs("u1", "p1", "9", "Black", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateQuantity(context.Background(), "u1", key, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDeleteLine(t *testing.T) {
	repo, mock, cleanup := setupCartMock(t)
	defer cleanup()

	key := variant.Key{ProductID: "p1", Size: "9", Color: "Black"}
	mock.ExpectExec("DELETE FROM cart_items").
		WithArgs("u1", "p1", "9", "Black").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteLine(context.Background(), "u1", key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestDeleteAllLines(t *testing.T) {
	repo, mock, cleanup := setupCartMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_items WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteAllLines(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
