package core

import (
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		CategoryID: 1,
		Date:       NewDate(2025, 1, 1),
		Amount:     Money{Cents: 100},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{CategoryID: 1, Date: Date{}, Amount: Money{Cents: 100}},
		{CategoryID: 1, Date: NewDate(2025, 1, 1), Amount: Money{Cents: 0}},
		{CategoryID: 0, Date: NewDate(2025, 1, 1), Amount: Money{Cents: 100}},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestLimitValidate(t *testing.T) {
	good := Limit{Amount: Money{Cents: 50000}, Period: Monthly}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Limit{Amount: Money{Cents: 0}, Period: Monthly}).Validate(); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if err := (Limit{Amount: Money{Cents: 100}, Period: "weekly"}).Validate(); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestLimitOverall(t *testing.T) {
	if !(Limit{}).Overall() {
		t.Fatalf("zero category id should be overall")
	}
	if (Limit{CategoryID: 3}).Overall() {
		t.Fatalf("scoped limit should not be overall")
	}
}

func TestUserValidate(t *testing.T) {
	good := User{Email: "a@example.com", Name: "A"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []User{
		{Email: "", Name: "A"},
		{Email: "no-at-sign", Name: "A"},
		{Email: "a@example.com", Name: "  "},
	}
	for i, u := range bads {
		if err := u.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}
