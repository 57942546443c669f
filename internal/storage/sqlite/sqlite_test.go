package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/mmynk/famiglia/internal/models"
	"github.com/mmynk/famiglia/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "famiglia-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func newTestGroup(t *testing.T, store *SQLiteStore, ownerID string) (*models.Group, *models.Member) {
	t.Helper()
	group := &models.Group{Name: "Casa", OwnerID: ownerID}
	owner := &models.Member{UserID: ownerID, Name: "Me", QuotaPercent: models.DefaultOwnerQuota}
	if err := store.CreateGroup(context.Background(), group, owner); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	return group, owner
}

func TestNew_ReopenRunsMigrationsOnce(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "famiglia.db")

	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("first New failed: %v", err)
	}
	ctx := context.Background()
	if err := first.CreateUser(ctx, models.NewUser("anna@example.com", "Anna", "hash")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("second New failed: %v", err)
	}
	defer second.Close()

	if _, err := second.GetUserByEmail(ctx, "anna@example.com"); err != nil {
		t.Errorf("user lost after reopening: %v", err)
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("Anna@Example.com", "Anna", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("lookup by email is case-insensitive", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "ANNA@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, user.ID)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("anna@example.com", "Other", "hash"))
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := store.GetUserByID(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestGroupsAndMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, owner := newTestGroup(t, store, "user-1")

	t.Run("owner member is created with the group", func(t *testing.T) {
		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 1 || members[0].ID != owner.ID || members[0].QuotaPercent != 100 {
			t.Fatalf("unexpected members: %+v", members)
		}

		ok, err := store.IsMember(ctx, group.ID, "user-1")
		if err != nil || !ok {
			t.Errorf("IsMember(user-1) = %v, %v; want true", ok, err)
		}
		ok, _ = store.IsMember(ctx, group.ID, "user-2")
		if ok {
			t.Error("IsMember(user-2) = true, want false")
		}
	})

	t.Run("ListGroupsForUser", func(t *testing.T) {
		groups, err := store.ListGroupsForUser(ctx, "user-1")
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("unexpected groups: %+v", groups)
		}
		groups, _ = store.ListGroupsForUser(ctx, "user-2")
		if len(groups) != 0 {
			t.Errorf("expected no groups for user-2, got %d", len(groups))
		}
	})

	t.Run("quota ceiling on add", func(t *testing.T) {
		// 100 + 10 = 110 is allowed
		partner := &models.Member{GroupID: group.ID, Name: "Luca", QuotaPercent: 10}
		if err := store.AddMember(ctx, partner); err != nil {
			t.Fatalf("AddMember at 110%% failed: %v", err)
		}

		extra := &models.Member{GroupID: group.ID, Name: "Zia", QuotaPercent: 0.5}
		err := store.AddMember(ctx, extra)
		if !errors.Is(err, storage.ErrQuotaCeilingExceeded) {
			t.Fatalf("expected ErrQuotaCeilingExceeded, got %v", err)
		}

		members, _ := store.ListMembers(ctx, group.ID)
		if len(members) != 2 {
			t.Errorf("rejected member was persisted: %d members", len(members))
		}
	})

	t.Run("quota ceiling on update excludes the member itself", func(t *testing.T) {
		owner.Name = "Anna"
		owner.QuotaPercent = 90
		if err := store.UpdateMember(ctx, owner); err != nil {
			t.Fatalf("UpdateMember failed: %v", err)
		}

		members, _ := store.ListMembers(ctx, group.ID)
		var luca *models.Member
		for _, m := range members {
			if m.Name == "Luca" {
				luca = m
			}
		}
		if luca == nil {
			t.Fatal("Luca not found")
		}

		luca.QuotaPercent = 20 // 90 + 20 = 110
		if err := store.UpdateMember(ctx, luca); err != nil {
			t.Errorf("UpdateMember to 110%% failed: %v", err)
		}
		luca.QuotaPercent = 21 // 90 + 21 = 111
		if err := store.UpdateMember(ctx, luca); !errors.Is(err, storage.ErrQuotaCeilingExceeded) {
			t.Errorf("expected ErrQuotaCeilingExceeded, got %v", err)
		}

		got, _ := store.GetMember(ctx, group.ID, luca.ID)
		if got.QuotaPercent != 20 {
			t.Errorf("quota after rejected update = %v, want 20", got.QuotaPercent)
		}
		if got, _ := store.GetMember(ctx, group.ID, owner.ID); got.UserID != "user-1" || got.Name != "Anna" {
			t.Errorf("owner after update = %+v", got)
		}
	})

	t.Run("member of another group is not found", func(t *testing.T) {
		other, _ := newTestGroup(t, store, "user-2")
		_, err := store.GetMember(ctx, other.ID, owner.ID)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		err = store.UpdateMember(ctx, &models.Member{ID: owner.ID, GroupID: other.ID, Name: "x"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound on update, got %v", err)
		}
	})

	t.Run("DeleteGroup cascades", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		members, _ := store.ListMembers(ctx, group.ID)
		if len(members) != 0 {
			t.Errorf("expected members to cascade, got %d", len(members))
		}
		if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})
}

func TestSeedDefaultCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, _ := newTestGroup(t, store, "user-1")

	first, err := store.SeedDefaultCategories(ctx, group.ID)
	if err != nil {
		t.Fatalf("SeedDefaultCategories failed: %v", err)
	}
	if len(first) != len(models.DefaultCategories) {
		t.Fatalf("expected %d categories, got %d", len(models.DefaultCategories), len(first))
	}

	second, err := store.SeedDefaultCategories(ctx, group.ID)
	if err != nil {
		t.Fatalf("second SeedDefaultCategories failed: %v", err)
	}
	if len(second) != len(first) {
		t.Fatalf("second seed returned %d categories, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Name != second[i].Name {
			t.Errorf("category %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}

	t.Run("concurrent seeding inserts once", func(t *testing.T) {
		other, _ := newTestGroup(t, store, "user-2")
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.SeedDefaultCategories(ctx, other.ID); err != nil {
					t.Errorf("SeedDefaultCategories failed: %v", err)
				}
			}()
		}
		wg.Wait()

		categories, _ := store.ListCategories(ctx, other.ID)
		if len(categories) != len(models.DefaultCategories) {
			t.Errorf("expected %d categories, got %d", len(models.DefaultCategories), len(categories))
		}
	})

	t.Run("deleting a category uncategorizes its expenses", func(t *testing.T) {
		utenze := first[2]
		e := &models.RecurringExpense{
			GroupID: group.ID, CategoryID: utenze.ID, Name: "Luce", Amount: 50,
			FrequencyType: models.FrequencyMonthly, FrequencyValue: 1, IsActive: true,
		}
		if err := store.CreateRecurringExpense(ctx, e); err != nil {
			t.Fatalf("CreateRecurringExpense failed: %v", err)
		}
		if err := store.DeleteCategory(ctx, group.ID, utenze.ID); err != nil {
			t.Fatalf("DeleteCategory failed: %v", err)
		}
		got, _ := store.GetRecurringExpense(ctx, group.ID, e.ID)
		if got.CategoryID != "" {
			t.Errorf("CategoryID = %q, want empty", got.CategoryID)
		}
	})
}

func TestRecurringExpenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, _ := newTestGroup(t, store, "user-1")

	day, startMonth, startYear := 15, 3, 2024
	e := &models.RecurringExpense{
		GroupID:        group.ID,
		Name:           "Gas",
		Amount:         120,
		FrequencyType:  models.FrequencyMonths,
		FrequencyValue: 2,
		DayOfMonth:     &day,
		IsActive:       true,
		StartMonth:     &startMonth,
		StartYear:      &startYear,
	}
	if err := store.CreateRecurringExpense(ctx, e); err != nil {
		t.Fatalf("CreateRecurringExpense failed: %v", err)
	}

	got, err := store.GetRecurringExpense(ctx, group.ID, e.ID)
	if err != nil {
		t.Fatalf("GetRecurringExpense failed: %v", err)
	}
	if got.FrequencyType != models.FrequencyMonths || got.FrequencyValue != 2 {
		t.Errorf("frequency mismatch: %s/%d", got.FrequencyType, got.FrequencyValue)
	}
	if got.DayOfMonth == nil || *got.DayOfMonth != 15 {
		t.Errorf("DayOfMonth = %v, want 15", got.DayOfMonth)
	}
	if got.StartMonth == nil || *got.StartMonth != 3 || got.EndMonth != nil || got.EndYear != nil {
		t.Errorf("window mismatch: %+v", got)
	}
	if !got.IsActive {
		t.Error("expected IsActive")
	}

	got.IsActive = false
	got.Amount = 130
	if err := store.UpdateRecurringExpense(ctx, got); err != nil {
		t.Fatalf("UpdateRecurringExpense failed: %v", err)
	}
	updated, _ := store.GetRecurringExpense(ctx, group.ID, e.ID)
	if updated.IsActive || updated.Amount != 130 {
		t.Errorf("update not persisted: %+v", updated)
	}

	all, _ := store.ListRecurringExpenses(ctx, group.ID)
	if len(all) != 1 {
		t.Errorf("ListRecurringExpenses returned %d, want 1 (inactive included)", len(all))
	}

	other, _ := newTestGroup(t, store, "user-2")
	if _, err := store.GetRecurringExpense(ctx, other.ID, e.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-group get: expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteRecurringExpense(ctx, other.ID, e.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-group delete: expected ErrNotFound, got %v", err)
	}
}

func TestOneTimeExpensesAndReceipts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, _ := newTestGroup(t, store, "user-1")

	e := &models.OneTimeExpense{GroupID: group.ID, Name: "Spesa", Amount: 42.5, Date: 1710000000, Month: 3, Year: 2024}
	if err := store.CreateOneTimeExpense(ctx, e); err != nil {
		t.Fatalf("CreateOneTimeExpense failed: %v", err)
	}

	listed, err := store.ListOneTimeExpenses(ctx, group.ID, 3, 2024)
	if err != nil {
		t.Fatalf("ListOneTimeExpenses failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ReceiptText != nil || listed[0].IsPaid {
		t.Fatalf("unexpected list: %+v", listed)
	}
	if other, _ := store.ListOneTimeExpenses(ctx, group.ID, 4, 2024); len(other) != 0 {
		t.Errorf("April should be empty, got %d", len(other))
	}

	empty := ""
	if err := store.SetReceiptText(ctx, group.ID, e.ID, &empty); err != nil {
		t.Fatalf("SetReceiptText failed: %v", err)
	}
	got, _ := store.GetOneTimeExpense(ctx, group.ID, e.ID)
	if got.ReceiptText == nil || *got.ReceiptText != "" {
		t.Errorf("expected empty receipt text to be persisted, got %v", got.ReceiptText)
	}

	if err := store.SetReceiptText(ctx, group.ID, e.ID, nil); err != nil {
		t.Fatalf("clearing receipt failed: %v", err)
	}
	got, _ = store.GetOneTimeExpense(ctx, group.ID, e.ID)
	if got.ReceiptText != nil {
		t.Errorf("expected receipt text cleared, got %q", *got.ReceiptText)
	}

	got.Amount = 50
	got.IsPaid = true
	if err := store.UpdateOneTimeExpense(ctx, got); err != nil {
		t.Fatalf("UpdateOneTimeExpense failed: %v", err)
	}
	if err := store.DeleteOneTimeExpense(ctx, group.ID, e.ID); err != nil {
		t.Fatalf("DeleteOneTimeExpense failed: %v", err)
	}
	if _, err := store.GetOneTimeExpense(ctx, group.ID, e.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRecordExpensePayment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, _ := newTestGroup(t, store, "user-1")

	categories, _ := store.SeedDefaultCategories(ctx, group.ID)
	expense := &models.RecurringExpense{
		GroupID: group.ID, CategoryID: categories[2].ID, Name: "Luce", Amount: 80,
		FrequencyType: models.FrequencyMonthly, FrequencyValue: 1, IsActive: true,
	}
	if err := store.CreateRecurringExpense(ctx, expense); err != nil {
		t.Fatalf("CreateRecurringExpense failed: %v", err)
	}

	mirrors := func(t *testing.T) []*models.OneTimeExpense {
		t.Helper()
		list, err := store.ListOneTimeExpenses(ctx, group.ID, 3, 2025)
		if err != nil {
			t.Fatalf("ListOneTimeExpenses failed: %v", err)
		}
		return list
	}

	first, err := store.RecordExpensePayment(ctx, group.ID, expense.ID, 3, 2025, 80)
	if err != nil {
		t.Fatalf("RecordExpensePayment failed: %v", err)
	}
	if first.Updated {
		t.Error("first record should not be an update")
	}
	if first.Mirror == nil || first.Mirror.ExpensePaymentID != first.Payment.ID || !first.Mirror.IsPaid {
		t.Fatalf("unexpected mirror: %+v", first.Mirror)
	}
	if first.Mirror.Name != "Luce" || first.Mirror.CategoryID != expense.CategoryID {
		t.Errorf("mirror should copy name and category, got %+v", first.Mirror)
	}

	t.Run("second record updates in place", func(t *testing.T) {
		second, err := store.RecordExpensePayment(ctx, group.ID, expense.ID, 3, 2025, 85)
		if err != nil {
			t.Fatalf("RecordExpensePayment failed: %v", err)
		}
		if !second.Updated || second.Payment.ID != first.Payment.ID {
			t.Errorf("expected update of %s, got %+v", first.Payment.ID, second.Payment)
		}
		if second.Mirror.ID != first.Mirror.ID {
			t.Errorf("mirror id changed: %s -> %s", first.Mirror.ID, second.Mirror.ID)
		}

		payments, _ := store.ListExpensePayments(ctx, group.ID, 3, 2025)
		if len(payments) != 1 || payments[0].Amount != 85 {
			t.Errorf("expected one payment of 85, got %+v", payments)
		}
		list := mirrors(t)
		if len(list) != 1 || list[0].Amount != 85 || !list[0].IsPaid {
			t.Errorf("expected one paid mirror of 85, got %+v", list)
		}
	})

	t.Run("missing mirror is re-created", func(t *testing.T) {
		if err := store.DeleteOneTimeExpense(ctx, group.ID, first.Mirror.ID); err != nil {
			t.Fatalf("DeleteOneTimeExpense failed: %v", err)
		}
		res, err := store.RecordExpensePayment(ctx, group.ID, expense.ID, 3, 2025, 90)
		if err != nil {
			t.Fatalf("RecordExpensePayment failed: %v", err)
		}
		if !res.Updated {
			t.Error("expected update")
		}
		list := mirrors(t)
		if len(list) != 1 || list[0].ID != res.Mirror.ID || list[0].Amount != 90 {
			t.Errorf("expected re-created mirror %s, got %+v", res.Mirror.ID, list)
		}
	})

	t.Run("unknown or foreign expense is not found", func(t *testing.T) {
		_, err := store.RecordExpensePayment(ctx, group.ID, "missing", 3, 2025, 10)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		other, _ := newTestGroup(t, store, "user-2")
		_, err = store.RecordExpensePayment(ctx, other.ID, expense.ID, 3, 2025, 10)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound for other group, got %v", err)
		}
	})

	t.Run("concurrent records keep one payment", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func(amount float64) {
				defer wg.Done()
				if _, err := store.RecordExpensePayment(ctx, group.ID, expense.ID, 4, 2025, amount); err != nil {
					t.Errorf("RecordExpensePayment failed: %v", err)
				}
			}(float64(100 + i))
		}
		wg.Wait()

		payments, _ := store.ListExpensePayments(ctx, group.ID, 4, 2025)
		if len(payments) != 1 {
			t.Errorf("expected 1 payment, got %d", len(payments))
		}
		list, _ := store.ListOneTimeExpenses(ctx, group.ID, 4, 2025)
		if len(list) != 1 {
			t.Errorf("expected 1 mirror, got %d", len(list))
		}
	})

	t.Run("deleting the payment deletes its mirror", func(t *testing.T) {
		payments, _ := store.ListExpensePayments(ctx, group.ID, 3, 2025)
		if err := store.DeleteExpensePayment(ctx, group.ID, payments[0].ID); err != nil {
			t.Fatalf("DeleteExpensePayment failed: %v", err)
		}
		if list := mirrors(t); len(list) != 0 {
			t.Errorf("expected mirror deleted, got %+v", list)
		}
		if err := store.DeleteExpensePayment(ctx, group.ID, payments[0].ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("deleting the recurring expense keeps mirrors unlinked", func(t *testing.T) {
		if err := store.DeleteRecurringExpense(ctx, group.ID, expense.ID); err != nil {
			t.Fatalf("DeleteRecurringExpense failed: %v", err)
		}
		payments, _ := store.ListExpensePayments(ctx, group.ID, 4, 2025)
		if len(payments) != 0 {
			t.Errorf("expected payments to cascade, got %d", len(payments))
		}
		list, _ := store.ListOneTimeExpenses(ctx, group.ID, 4, 2025)
		if len(list) != 1 {
			t.Fatalf("expected mirror to survive, got %d", len(list))
		}
		if list[0].ExpenseID != "" || list[0].ExpensePaymentID != "" {
			t.Errorf("expected mirror links cleared, got %+v", list[0])
		}
	})
}

func TestPayments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	group, owner := newTestGroup(t, store, "user-1")

	p := &models.Payment{GroupID: group.ID, MemberID: owner.ID, Month: 5, Year: 2025, AmountPaid: 150}
	if err := store.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	confirmed := &models.Payment{GroupID: group.ID, MemberID: owner.ID, Month: 5, Year: 2025, AmountPaid: 50, IsConfirmed: true}
	if err := store.CreatePayment(ctx, confirmed); err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if confirmed.ConfirmedAt == 0 {
		t.Error("expected ConfirmedAt to be set for a confirmed payment")
	}

	list, err := store.ListPayments(ctx, group.ID, 5, 2025)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(list))
	}

	if err := store.SetPaymentConfirmed(ctx, group.ID, p.ID, true, 1717000000); err != nil {
		t.Fatalf("SetPaymentConfirmed failed: %v", err)
	}
	got, _ := store.GetPayment(ctx, group.ID, p.ID)
	if !got.IsConfirmed || got.ConfirmedAt != 1717000000 {
		t.Errorf("expected confirmed at 1717000000, got %+v", got)
	}

	if err := store.SetPaymentConfirmed(ctx, group.ID, p.ID, false, 1717000001); err != nil {
		t.Fatalf("SetPaymentConfirmed failed: %v", err)
	}
	got, _ = store.GetPayment(ctx, group.ID, p.ID)
	if got.IsConfirmed || got.ConfirmedAt != 0 {
		t.Errorf("expected unconfirmed with cleared timestamp, got %+v", got)
	}

	if err := store.SetPaymentConfirmed(ctx, group.ID, "missing", true, 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	t.Run("removing a member cascades their payments", func(t *testing.T) {
		if err := store.RemoveMember(ctx, group.ID, owner.ID); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		list, _ := store.ListPayments(ctx, group.ID, 5, 2025)
		if len(list) != 0 {
			t.Errorf("expected payments to cascade, got %d", len(list))
		}
	})
}
