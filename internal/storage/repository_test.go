package storage

import (
	"context"
	"testing"
	"time"

	"expenses/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RepositoryTestSuite exercises the repository against an in-memory database.
type RepositoryTestSuite struct {
	suite.Suite
	repo *Repository
	ctx  context.Context
	user *core.User
	cats map[string]int64
}

// SetupTest runs before each test.
func (s *RepositoryTestSuite) SetupTest() {
	repo, err := New(":memory:")
	require.NoError(s.T(), err, "failed to create test database")
	s.repo = repo
	s.ctx = context.Background()

	user, err := repo.CreateUser(s.ctx, "alice@example.com", "$2a$10$hash", "Alice")
	require.NoError(s.T(), err)
	s.user = user

	cats, err := repo.ListCategories(s.ctx, user.ID)
	require.NoError(s.T(), err)
	s.cats = make(map[string]int64, len(cats))
	for _, c := range cats {
		s.cats[c.Name] = c.ID
	}
}

// TearDownTest runs after each test.
func (s *RepositoryTestSuite) TearDownTest() {
	if s.repo != nil {
		s.repo.Close()
	}
}

func (s *RepositoryTestSuite) record(catName string, date core.Date, cents int64) (int64, core.LimitResult) {
	id, result, err := s.repo.RecordExpense(s.ctx, core.Expense{
		UserID:     s.user.ID,
		CategoryID: s.cats[catName],
		Date:       date,
		Amount:     core.Money{Cents: cents},
	})
	require.NoError(s.T(), err)
	return id, result
}

func (s *RepositoryTestSuite) limit(catID, cents int64) *core.Limit {
	l, err := s.repo.CreateLimit(s.ctx, core.Limit{
		UserID:     s.user.ID,
		CategoryID: catID,
		Amount:     core.Money{Cents: cents},
		Period:     core.Monthly,
	})
	require.NoError(s.T(), err)
	return l
}

func (s *RepositoryTestSuite) TestCreateUserSeedsDefaultCategories() {
	assert.Len(s.T(), s.cats, len(core.DefaultCategories))
	for _, name := range core.DefaultCategories {
		assert.Contains(s.T(), s.cats, name)
	}
}

func (s *RepositoryTestSuite) TestCreateUserDuplicateEmail() {
	_, err := s.repo.CreateUser(s.ctx, "alice@example.com", "$2a$10$other", "Alice Again")
	assert.ErrorIs(s.T(), err, ErrDuplicateEmail)
}

func (s *RepositoryTestSuite) TestSessionLifecycle() {
	expiresAt := time.Now().Add(time.Hour)
	require.NoError(s.T(), s.repo.CreateSession(s.ctx, "tok-1", s.user.ID, expiresAt))

	user, _, err := s.repo.SessionUser(s.ctx, "tok-1")
	require.NoError(s.T(), err)
	assert.Equal(s.T(), s.user.ID, user.ID)
	assert.Equal(s.T(), "alice@example.com", user.Email)

	// Renewal pushes the expiry forward.
	newExpiry := time.Now().Add(48 * time.Hour)
	require.NoError(s.T(), s.repo.RenewSession(s.ctx, "tok-1", newExpiry))
	_, got, err := s.repo.SessionUser(s.ctx, "tok-1")
	require.NoError(s.T(), err)
	assert.WithinDuration(s.T(), newExpiry, got, time.Second)

	require.NoError(s.T(), s.repo.DeleteSession(s.ctx, "tok-1"))
	_, _, err = s.repo.SessionUser(s.ctx, "tok-1")
	assert.Error(s.T(), err)
}

func (s *RepositoryTestSuite) TestExpiredSessionRejectedAndReaped() {
	require.NoError(s.T(), s.repo.CreateSession(s.ctx, "tok-old", s.user.ID, time.Now().Add(-time.Minute)))

	_, _, err := s.repo.SessionUser(s.ctx, "tok-old")
	assert.Error(s.T(), err, "expired session must not resolve")

	n, err := s.repo.DeleteExpiredSessions(s.ctx)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, n)
}

func (s *RepositoryTestSuite) TestRecordExpenseNoLimitNoAlert() {
	_, result := s.record("Food", core.NewDate(2025, 3, 10), 99999)
	assert.False(s.T(), result.Exceeded)

	count, err := s.repo.CountUnreadAlerts(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), count)
}

func (s *RepositoryTestSuite) TestRecordExpenseAtCeilingNoAlert() {
	s.limit(s.cats["Food"], 50000)

	// Exactly the ceiling: strictly-greater comparison must not fire.
	_, result := s.record("Food", core.NewDate(2025, 3, 10), 50000)
	assert.False(s.T(), result.Exceeded)
}

func (s *RepositoryTestSuite) TestRecordExpenseExceedsCeilingCreatesAlert() {
	s.limit(s.cats["Food"], 50000)

	_, result := s.record("Food", core.NewDate(2025, 3, 10), 60000)
	require.True(s.T(), result.Exceeded)
	assert.EqualValues(s.T(), 50000, result.Limit.Cents)
	assert.NotZero(s.T(), result.AlertID)

	count, err := s.repo.CountUnreadAlerts(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, count)
}

func (s *RepositoryTestSuite) TestCategoryLimitPreferredOverOverall() {
	s.limit(s.cats["Food"], 10000) // $100 on Food
	s.limit(0, 100000)             // $1000 overall

	_, result := s.record("Food", core.NewDate(2025, 3, 10), 15000)
	require.True(s.T(), result.Exceeded)
	assert.EqualValues(s.T(), 10000, result.Limit.Cents, "category-scoped limit must win over overall")
}

func (s *RepositoryTestSuite) TestOverallLimitAppliesWithoutCategoryLimit() {
	s.limit(0, 20000)

	// Spending spread over two categories still counts against overall.
	_, result := s.record("Food", core.NewDate(2025, 3, 2), 15000)
	assert.False(s.T(), result.Exceeded)
	_, result = s.record("Housing", core.NewDate(2025, 3, 20), 8000)
	require.True(s.T(), result.Exceeded)
	assert.EqualValues(s.T(), 20000, result.Limit.Cents)
}

func (s *RepositoryTestSuite) TestNewestLimitWinsWithinScope() {
	s.limit(s.cats["Food"], 10000)
	s.limit(s.cats["Food"], 30000)

	// Under the newer ceiling, over the older one: no alert.
	_, result := s.record("Food", core.NewDate(2025, 3, 10), 20000)
	assert.False(s.T(), result.Exceeded)

	_, result = s.record("Food", core.NewDate(2025, 3, 11), 15000)
	require.True(s.T(), result.Exceeded)
	assert.EqualValues(s.T(), 30000, result.Limit.Cents)
}

func (s *RepositoryTestSuite) TestPeriodSumAccumulates() {
	s.limit(s.cats["Food"], 50000)

	_, result := s.record("Food", core.NewDate(2025, 3, 5), 45000)
	assert.False(s.T(), result.Exceeded)
	_, result = s.record("Food", core.NewDate(2025, 3, 12), 4000)
	assert.False(s.T(), result.Exceeded, "450+40=490 stays under the $500 ceiling")
	_, result = s.record("Food", core.NewDate(2025, 3, 20), 6000)
	require.True(s.T(), result.Exceeded, "550 crosses the ceiling")
	assert.EqualValues(s.T(), 50000, result.Limit.Cents)
}

func (s *RepositoryTestSuite) TestMonthBoundariesIsolatePeriods() {
	s.limit(s.cats["Food"], 50000)

	// Spending on the last day of January must not count against March.
	_, result := s.record("Food", core.NewDate(2025, 1, 31), 49000)
	assert.False(s.T(), result.Exceeded)
	_, result = s.record("Food", core.NewDate(2025, 3, 1), 49000)
	assert.False(s.T(), result.Exceeded)

	// But the same month's first and last days share one window,
	// including day 31 of a 31-day month.
	_, result = s.record("Food", core.NewDate(2025, 3, 31), 2000)
	require.True(s.T(), result.Exceeded)
}

func (s *RepositoryTestSuite) TestLeapFebruaryWindow() {
	s.limit(s.cats["Food"], 10000)

	_, result := s.record("Food", core.NewDate(2024, 2, 1), 9000)
	assert.False(s.T(), result.Exceeded)
	_, result = s.record("Food", core.NewDate(2024, 2, 29), 2000)
	assert.True(s.T(), result.Exceeded, "Feb 29 belongs to February's window in a leap year")
}

func (s *RepositoryTestSuite) TestExpenseAndAlertAtomicity() {
	s.limit(s.cats["Food"], 10000)

	expenseID, result := s.record("Food", core.NewDate(2025, 3, 10), 20000)
	require.True(s.T(), result.Exceeded)

	alerts, err := s.repo.ListAlerts(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), alerts, 1)
	assert.Equal(s.T(), expenseID, alerts[0].ExpenseID)
	assert.EqualValues(s.T(), 10000, alerts[0].LimitCents)
	assert.EqualValues(s.T(), 20000, alerts[0].Amount.Cents)
	assert.Equal(s.T(), "Food", alerts[0].Category)
}

func (s *RepositoryTestSuite) TestRecordExpenseRejectsForeignCategory() {
	bob, err := s.repo.CreateUser(s.ctx, "bob@example.com", "$2a$10$hash", "Bob")
	require.NoError(s.T(), err)

	_, _, err = s.repo.RecordExpense(s.ctx, core.Expense{
		UserID:     bob.ID,
		CategoryID: s.cats["Food"], // Alice's category
		Date:       core.NewDate(2025, 3, 10),
		Amount:     core.Money{Cents: 1000},
	})
	assert.ErrorIs(s.T(), err, core.ErrInvalidCategory)

	// Nothing was inserted for Bob.
	expenses, err := s.repo.ListExpenses(s.ctx, bob.ID)
	require.NoError(s.T(), err)
	assert.Empty(s.T(), expenses)
}

func (s *RepositoryTestSuite) TestAlertReadsAreIdempotent() {
	s.limit(s.cats["Food"], 1000)
	s.record("Food", core.NewDate(2025, 3, 10), 2000)

	// Listing alone does not change read state.
	for i := 0; i < 3; i++ {
		alerts, err := s.repo.ListAlerts(s.ctx, s.user.ID)
		require.NoError(s.T(), err)
		require.Len(s.T(), alerts, 1)
		assert.False(s.T(), alerts[0].IsRead)
	}

	require.NoError(s.T(), s.repo.MarkAllAlertsRead(s.ctx, s.user.ID))

	count, err := s.repo.CountUnreadAlerts(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	assert.Zero(s.T(), count)

	// Marking again is a no-op.
	require.NoError(s.T(), s.repo.MarkAllAlertsRead(s.ctx, s.user.ID))
	alerts, err := s.repo.ListAlerts(s.ctx, s.user.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), alerts, 1)
	assert.True(s.T(), alerts[0].IsRead)
}

func (s *RepositoryTestSuite) TestDeleteLimit() {
	l := s.limit(s.cats["Food"], 10000)
	require.NoError(s.T(), s.repo.DeleteLimit(s.ctx, s.user.ID, l.ID))

	// Deleting again, or someone else's limit, reports not found.
	assert.ErrorIs(s.T(), s.repo.DeleteLimit(s.ctx, s.user.ID, l.ID), core.ErrNotFound)

	// And the limit no longer fires.
	_, result := s.record("Food", core.NewDate(2025, 3, 10), 20000)
	assert.False(s.T(), result.Exceeded)
}

func (s *RepositoryTestSuite) TestCreateLimitRejectsForeignCategory() {
	bob, err := s.repo.CreateUser(s.ctx, "bob@example.com", "$2a$10$hash", "Bob")
	require.NoError(s.T(), err)

	_, err = s.repo.CreateLimit(s.ctx, core.Limit{
		UserID:     bob.ID,
		CategoryID: s.cats["Food"],
		Amount:     core.Money{Cents: 10000},
		Period:     core.Monthly,
	})
	assert.ErrorIs(s.T(), err, core.ErrNotFound)
}

func (s *RepositoryTestSuite) TestMonthOverview() {
	s.record("Food", core.NewDate(2025, 3, 5), 2500)
	s.record("Food", core.NewDate(2025, 3, 6), 1500)
	s.record("Housing", core.NewDate(2025, 3, 7), 80000)
	s.record("Food", core.NewDate(2025, 4, 1), 999) // next month, excluded

	ov, err := s.repo.MonthOverview(s.ctx, s.user.ID, 2025, 3)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 84000, ov.Total.Cents)
	require.Len(s.T(), ov.ByCategory, len(core.DefaultCategories))
	assert.Equal(s.T(), "Housing", ov.ByCategory[0].Category, "largest category first")
	assert.EqualValues(s.T(), 80000, ov.ByCategory[0].Total.Cents)
	assert.Equal(s.T(), "Food", ov.ByCategory[1].Category)
	assert.EqualValues(s.T(), 4000, ov.ByCategory[1].Total.Cents)
}

func (s *RepositoryTestSuite) TestMonthlySummaryKeepsEmptyCategories() {
	s.record("Food", core.NewDate(2025, 3, 5), 1000)
	s.record("Food", core.NewDate(2025, 3, 6), 3000)

	summary, err := s.repo.MonthlySummary(s.ctx, s.user.ID, 2025, 3)
	require.NoError(s.T(), err)
	assert.Len(s.T(), summary, len(core.DefaultCategories), "empty categories stay in the report")

	require.Equal(s.T(), "Food", summary[0].Category, "highest total first")
	assert.EqualValues(s.T(), 4000, summary[0].Total.Cents)
	assert.EqualValues(s.T(), 2, summary[0].Count)
	assert.EqualValues(s.T(), 1000, summary[0].Min.Cents)
	assert.EqualValues(s.T(), 3000, summary[0].Max.Cents)
	assert.EqualValues(s.T(), 2000, summary[0].Avg.Cents)
}

func (s *RepositoryTestSuite) TestTrendsGroupByMonthAndCategory() {
	s.record("Food", core.NewDate(2025, 1, 10), 1000)
	s.record("Food", core.NewDate(2025, 1, 20), 2000)
	s.record("Housing", core.NewDate(2025, 2, 5), 5000)

	points, err := s.repo.Trends(s.ctx, s.user.ID, core.NewDate(2025, 1, 1), core.NewDate(2025, 2, 28))
	require.NoError(s.T(), err)
	require.Len(s.T(), points, 2)
	assert.Equal(s.T(), "2025-01", points[0].Month)
	assert.Equal(s.T(), "Food", points[0].Category)
	assert.EqualValues(s.T(), 3000, points[0].Total.Cents)
	assert.Equal(s.T(), "2025-02", points[1].Month)
	assert.Equal(s.T(), "Housing", points[1].Category)
}

func (s *RepositoryTestSuite) TestMonthlyTotals() {
	s.record("Food", core.NewDate(2025, 1, 10), 1000)
	s.record("Housing", core.NewDate(2025, 1, 20), 2000)
	s.record("Food", core.NewDate(2025, 2, 5), 500)

	totals, err := s.repo.MonthlyTotals(s.ctx, s.user.ID, core.NewDate(2025, 1, 1))
	require.NoError(s.T(), err)
	require.Len(s.T(), totals, 2)
	assert.EqualValues(s.T(), 3000, totals[0].Total.Cents)
	assert.EqualValues(s.T(), 500, totals[1].Total.Cents)
}

func (s *RepositoryTestSuite) TestGetAlertDetail() {
	s.limit(s.cats["Food"], 1000)
	_, result := s.record("Food", core.NewDate(2025, 3, 10), 2000)
	require.True(s.T(), result.Exceeded)

	detail, err := s.repo.GetAlertDetail(s.ctx, result.AlertID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "alice@example.com", detail.UserEmail)
	assert.Equal(s.T(), "Alice", detail.UserName)
	assert.Equal(s.T(), "Food", detail.Alert.Category)
	assert.EqualValues(s.T(), 2000, detail.Alert.Amount.Cents)
	assert.EqualValues(s.T(), 1000, detail.Alert.LimitCents)
	assert.Equal(s.T(), core.NewDate(2025, 3, 10), detail.Date)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
