package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/testutil"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func TestCreateTransaction(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		tx, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense,
			models.CategoryFood, dec(t, "25.50"), "Lunch", date)
		testutil.AssertNoError(t, err)

		if tx.ID == "" {
			t.Fatal("expected non-empty transaction ID")
		}
		if tx.UserID != user.ID {
			t.Errorf("expected owner %s, got %s", user.ID, tx.UserID)
		}
		if !tx.Amount.Equal(dec(t, "25.50")) {
			t.Errorf("expected amount 25.50, got %s", tx.Amount)
		}
	})

	t.Run("zero_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome,
			models.CategorySalary, decimal.Zero, "", date)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("negative_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeIncome,
			models.CategorySalary, dec(t, "-5.00"), "", date)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("too_many_decimal_places_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense,
			models.CategoryFood, dec(t, "1.999"), "", date)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("too_many_digits_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense,
			models.CategoryFood, dec(t, "100000000.00"), "", date)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("invalid_type_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateTransaction(user.ID, models.TransactionType("transfer"),
			models.CategoryFood, dec(t, "10.00"), "", date)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("invalid_category_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense,
			models.TransactionCategory("gambling"), dec(t, "10.00"), "", date)
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})
}

func TestGetUserTransactions(t *testing.T) {
	t.Run("ordered_most_recent_first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		recent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.CreateTransaction(user.ID, models.TransactionTypeExpense,
			models.CategoryFood, dec(t, "10.00"), "older", old)
		testutil.AssertNoError(t, err)
		_, err = svc.CreateTransaction(user.ID, models.TransactionTypeExpense,
			models.CategoryFood, dec(t, "20.00"), "newer", recent)
		testutil.AssertNoError(t, err)

		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if len(page.Data) != 2 {
			t.Fatalf("expected 2 transactions, got %d", len(page.Data))
		}
		if page.Data[0].Description != "newer" {
			t.Errorf("expected newest first, got %q", page.Data[0].Description)
		}
	})

	t.Run("excludes_other_users", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		owner := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, owner.ID, models.TransactionTypeIncome, "100.00")
		testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeIncome, "999.00")

		page, err := svc.GetUserTransactions(owner.ID, pagination.PageRequest{})
		testutil.AssertNoError(t, err)

		if page.TotalItems != 1 {
			t.Fatalf("expected only the owner's transaction, got %d", page.TotalItems)
		}
		if page.Data[0].UserID != owner.ID {
			t.Errorf("got a transaction owned by %s", page.Data[0].UserID)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		for i := 0; i < 5; i++ {
			testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "1.00")
		}

		page, err := svc.GetUserTransactions(user.ID, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)

		if len(page.Data) != 2 {
			t.Errorf("expected 2 items on page 2, got %d", len(page.Data))
		}
		if page.TotalItems != 5 {
			t.Errorf("expected 5 total items, got %d", page.TotalItems)
		}
		if page.TotalPages != 3 {
			t.Errorf("expected 3 total pages, got %d", page.TotalPages)
		}
	})
}

func TestGetTransactionByID(t *testing.T) {
	t.Run("owner_sees_own", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "50.00")

		tx, err := svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertNoError(t, err)
		if tx.ID != created.ID {
			t.Errorf("expected transaction %s, got %s", created.ID, tx.ID)
		}
	})

	t.Run("other_users_id_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, owner.ID, models.TransactionTypeIncome, "50.00")

		_, err := svc.GetTransactionByID(intruder.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestUpdateTransaction(t *testing.T) {
	t.Run("partial_update", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "30.00")

		amount := dec(t, "45.00")
		tx, err := svc.UpdateTransaction(user.ID, created.ID, TransactionUpdate{Amount: &amount})
		testutil.AssertNoError(t, err)

		if !tx.Amount.Equal(amount) {
			t.Errorf("expected amount 45.00, got %s", tx.Amount)
		}
		if tx.Type != created.Type {
			t.Errorf("expected type untouched, got %s", tx.Type)
		}
	})

	t.Run("invalid_amount_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "30.00")

		bad := dec(t, "-1.00")
		_, err := svc.UpdateTransaction(user.ID, created.ID, TransactionUpdate{Amount: &bad})
		testutil.AssertAppError(t, err, "VALIDATION_ERROR")
	})

	t.Run("cross_user_update_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, owner.ID, models.TransactionTypeExpense, "30.00")

		desc := "hijacked"
		_, err := svc.UpdateTransaction(intruder.ID, created.ID, TransactionUpdate{Description: &desc})
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestDeleteTransaction(t *testing.T) {
	t.Run("owner_deletes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "30.00")

		testutil.AssertNoError(t, svc.DeleteTransaction(user.ID, created.ID))

		_, err := svc.GetTransactionByID(user.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})

	t.Run("cross_user_delete_is_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		owner := testutil.CreateTestUser(t, db)
		intruder := testutil.CreateTestUser(t, db)
		created := testutil.CreateTestTransaction(t, db, owner.ID, models.TransactionTypeExpense, "30.00")

		err := svc.DeleteTransaction(intruder.ID, created.ID)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")

		_, err = svc.GetTransactionByID(owner.ID, created.ID)
		testutil.AssertNoError(t, err)
	})
}

func TestGetSummary(t *testing.T) {
	t.Run("empty_is_all_zeros", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		summary, err := svc.GetSummary(user.ID)
		testutil.AssertNoError(t, err)

		if !summary.TotalIncome.IsZero() || !summary.TotalExpenses.IsZero() || !summary.Balance.IsZero() {
			t.Errorf("expected all zeros, got %+v", summary)
		}
		if summary.TransactionCount != 0 {
			t.Errorf("expected 0 transactions, got %d", summary.TransactionCount)
		}
	})

	t.Run("sums_by_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "100.00")
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "30.00")
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "20.00")

		summary, err := svc.GetSummary(user.ID)
		testutil.AssertNoError(t, err)

		if !summary.TotalIncome.Equal(dec(t, "100.00")) {
			t.Errorf("expected income 100.00, got %s", summary.TotalIncome)
		}
		if !summary.TotalExpenses.Equal(dec(t, "50.00")) {
			t.Errorf("expected expenses 50.00, got %s", summary.TotalExpenses)
		}
		if !summary.Balance.Equal(dec(t, "50.00")) {
			t.Errorf("expected balance 50.00, got %s", summary.Balance)
		}
		if summary.TransactionCount != 3 {
			t.Errorf("expected 3 transactions, got %d", summary.TransactionCount)
		}
	})

	t.Run("exact_decimal_arithmetic", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "0.10")
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeExpense, "0.20")

		summary, err := svc.GetSummary(user.ID)
		testutil.AssertNoError(t, err)

		if !summary.TotalExpenses.Equal(dec(t, "0.30")) {
			t.Errorf("expected exactly 0.30, got %s", summary.TotalExpenses)
		}
	})

	t.Run("scoped_to_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db)

		user := testutil.CreateTestUser(t, db)
		other := testutil.CreateTestUser(t, db)
		testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "10.00")
		testutil.CreateTestTransaction(t, db, other.ID, models.TransactionTypeIncome, "1000.00")

		summary, err := svc.GetSummary(user.ID)
		testutil.AssertNoError(t, err)

		if !summary.TotalIncome.Equal(dec(t, "10.00")) {
			t.Errorf("expected only the caller's income, got %s", summary.TotalIncome)
		}
	})
}
