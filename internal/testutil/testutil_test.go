package testutil_test

import (
	"testing"

	"fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "user_profiles", "transactions", "badges", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have a non-empty ID")
	}
	if user.Profile == nil || user.Profile.UserID != user.ID {
		t.Fatal("user should have an attached profile")
	}

	tx := testutil.CreateTestTransaction(t, db, user.ID, models.TransactionTypeIncome, "100.50")
	if tx.Amount.String() != "100.5" {
		t.Errorf("expected amount 100.5, got %s", tx.Amount)
	}

	badge := testutil.CreateTestBadge(t, db, user.ID)
	if badge.Icon != models.DefaultBadgeIcon {
		t.Errorf("expected default icon, got %s", badge.Icon)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.ErrTransactionNotFound
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
