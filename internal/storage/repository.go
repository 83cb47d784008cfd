package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expenses/internal/core"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

// Repository is the SQLite-backed store for users, categories, expenses,
// limits, alerts and sessions.
//
// The pool is capped at a single connection. SQLite serializes writers
// anyway, and the cap guarantees that the sum-and-check inside
// RecordExpense runs in the same transaction that inserted the expense with
// no concurrent writer in between.
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an ephemeral database.
func New(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping verifies the database connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ---- users ----

// CreateUser inserts a user and seeds the default category set in the same
// transaction. The email must be unique.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash, name string) (*core.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name) VALUES (?, ?, ?)`,
		email, passwordHash, name)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, fmt.Errorf("email %s: %w", email, ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	userID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}

	for _, cat := range core.DefaultCategories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (user_id, name) VALUES (?, ?)`,
			userID, cat); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", cat, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "User registered",
		"user_id", userID,
		"email", email,
		"seeded_categories", len(core.DefaultCategories))

	return &core.User{ID: userID, Email: email, Name: name}, nil
}

// ErrDuplicateEmail is returned by CreateUser when the email is taken.
var ErrDuplicateEmail = errors.New("email already registered")

// GetUserByEmail returns the user and their stored password hash.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*core.User, string, error) {
	var u core.User
	var hash string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, created_at FROM users WHERE email = ?`,
		email).Scan(&u.ID, &u.Email, &u.Name, &hash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", fmt.Errorf("user %s: %w", email, core.ErrNotFound)
		}
		return nil, "", fmt.Errorf("get user by email: %w", err)
	}
	return &u, hash, nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, name, created_at FROM users WHERE id = ?`,
		id).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// ---- sessions ----

func (r *Repository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at, last_activity) VALUES (?, ?, ?, ?)`,
		token, userID, expiresAt.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SessionUser resolves a session token to its user. Expired or unknown
// tokens return core.ErrNotFound.
func (r *Repository) SessionUser(ctx context.Context, token string) (*core.User, time.Time, error) {
	var u core.User
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.name, u.created_at, s.expires_at
		FROM sessions s
		JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?`,
		token, time.Now().UTC()).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, fmt.Errorf("session: %w", core.ErrNotFound)
		}
		return nil, time.Time{}, fmt.Errorf("resolve session: %w", err)
	}
	return &u, expiresAt, nil
}

func (r *Repository) RenewSession(ctx context.Context, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = ?, last_activity = ? WHERE token = ?`,
		expiresAt.UTC(), time.Now().UTC(), token)
	if err != nil {
		return fmt.Errorf("renew session: %w", err)
	}
	return nil
}

func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry and returns how
// many were removed.
func (r *Repository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ---- categories ----

func (r *Repository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, description
		FROM categories WHERE user_id = ?
		ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (*core.Category, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name, description) VALUES (?, ?, ?)`,
		c.UserID, c.Name, c.Description)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("category id: %w", err)
	}
	return &c, nil
}

func (r *Repository) GetCategory(ctx context.Context, userID, id int64) (*core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, description FROM categories WHERE id = ? AND user_id = ?`,
		id, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// ---- expenses and limit enforcement ----

// RecordExpense inserts the expense and evaluates the applicable budget
// limit in one transaction: either the expense and its alert (when the
// ceiling is crossed) both persist, or neither does.
//
// Limit selection prefers a limit scoped to the expense's category over the
// overall (uncategorized) limit for the same period; within a scope the
// most recently created limit wins. The period sum includes the expense
// just inserted, and an alert fires only when the sum STRICTLY exceeds the
// ceiling.
func (r *Repository) RecordExpense(ctx context.Context, e core.Expense) (int64, core.LimitResult, error) {
	var result core.LimitResult

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, result, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The category must exist and belong to the expense's user.
	var catOwner int64
	err = tx.QueryRowContext(ctx,
		`SELECT user_id FROM categories WHERE id = ?`, e.CategoryID).Scan(&catOwner)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, result, fmt.Errorf("category %d: %w", e.CategoryID, core.ErrNotFound)
		}
		return 0, result, fmt.Errorf("check category: %w", err)
	}
	if catOwner != e.UserID {
		return 0, result, fmt.Errorf("category %d not owned by user %d: %w",
			e.CategoryID, e.UserID, core.ErrInvalidCategory)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO expenses (user_id, category_id, amount_cents, expense_date, description)
		VALUES (?, ?, ?, ?, ?)`,
		e.UserID, e.CategoryID, e.Amount.Cents, e.Date.Format(dateLayout), e.Description)
	if err != nil {
		return 0, result, fmt.Errorf("insert expense: %w", err)
	}
	expenseID, err := res.LastInsertId()
	if err != nil {
		return 0, result, fmt.Errorf("expense id: %w", err)
	}

	window := core.PeriodWindow(core.Monthly, e.Date)

	var (
		limitID    int64
		limitCat   sql.NullInt64
		limitCents int64
	)
	err = tx.QueryRowContext(ctx, `
		SELECT id, category_id, amount_cents
		FROM limits
		WHERE user_id = ? AND period = ? AND (category_id = ? OR category_id IS NULL)
		ORDER BY (category_id IS NULL), id DESC
		LIMIT 1`,
		e.UserID, string(core.Monthly), e.CategoryID).Scan(&limitID, &limitCat, &limitCents)
	if errors.Is(err, sql.ErrNoRows) {
		// No applicable limit; just commit the expense.
		if err := tx.Commit(); err != nil {
			return 0, result, fmt.Errorf("commit: %w", err)
		}
		return expenseID, result, nil
	}
	if err != nil {
		return 0, result, fmt.Errorf("lookup limit: %w", err)
	}

	first := window.First.Format(dateLayout)
	last := window.Last.Format(dateLayout)

	var sum int64
	if limitCat.Valid {
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
			WHERE user_id = ? AND category_id = ? AND expense_date BETWEEN ? AND ?`,
			e.UserID, limitCat.Int64, first, last).Scan(&sum)
	} else {
		err = tx.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
			WHERE user_id = ? AND expense_date BETWEEN ? AND ?`,
			e.UserID, first, last).Scan(&sum)
	}
	if err != nil {
		return 0, result, fmt.Errorf("sum period expenses: %w", err)
	}

	if sum > limitCents {
		alertRes, err := tx.ExecContext(ctx, `
			INSERT INTO alerts (user_id, expense_id, limit_cents, alert_date, is_read)
			VALUES (?, ?, ?, ?, 0)`,
			e.UserID, expenseID, limitCents, time.Now().UTC())
		if err != nil {
			return 0, result, fmt.Errorf("insert alert: %w", err)
		}
		alertID, err := alertRes.LastInsertId()
		if err != nil {
			return 0, result, fmt.Errorf("alert id: %w", err)
		}
		result = core.LimitResult{
			Exceeded: true,
			Limit:    core.Money{Cents: limitCents},
			AlertID:  alertID,
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, core.LimitResult{}, fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Expense recorded",
		"expense_id", expenseID,
		"user_id", e.UserID,
		"category_id", e.CategoryID,
		"amount_cents", e.Amount.Cents,
		"limit_exceeded", result.Exceeded)

	return expenseID, result, nil
}

// ListExpenses returns a user's expenses with category names, newest first.
func (r *Repository) ListExpenses(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.id, e.user_id, e.category_id, c.name, e.amount_cents, e.expense_date, e.description
		FROM expenses e
		JOIN categories c ON e.category_id = c.id
		WHERE e.user_id = ?
		ORDER BY e.expense_date DESC, e.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	return scanExpenses(rows)
}

func scanExpenses(rows *sql.Rows) ([]core.Expense, error) {
	var out []core.Expense
	for rows.Next() {
		var e core.Expense
		var dateStr string
		if err := rows.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.Category,
			&e.Amount.Cents, &dateStr, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		t, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parse expense date %q: %w", dateStr, err)
		}
		e.Date = core.Date{Time: t}
		out = append(out, e)
	}
	return out, rows.Err()
}

// MonthOverview aggregates a month's total and per-category breakdown.
// Categories with no spending appear with a zero total, matching the
// dashboard's breakdown table.
func (r *Repository) MonthOverview(ctx context.Context, userID int64, year, month int) (core.MonthOverview, error) {
	overview := core.MonthOverview{Year: year, Month: month}
	window := core.PeriodWindow(core.Monthly, core.NewDate(year, month, 1))
	first := window.First.Format(dateLayout)
	last := window.Last.Format(dateLayout)

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM expenses
		WHERE user_id = ? AND expense_date BETWEEN ? AND ?`,
		userID, first, last).Scan(&overview.Total.Cents)
	if err != nil {
		return overview, fmt.Errorf("month total: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name, COALESCE(SUM(e.amount_cents), 0) AS total
		FROM categories c
		LEFT JOIN expenses e ON c.id = e.category_id AND e.expense_date BETWEEN ? AND ?
		WHERE c.user_id = ?
		GROUP BY c.name
		ORDER BY total DESC, c.name`,
		first, last, userID)
	if err != nil {
		return overview, fmt.Errorf("category breakdown: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ct core.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total.Cents); err != nil {
			return overview, fmt.Errorf("scan breakdown: %w", err)
		}
		overview.ByCategory = append(overview.ByCategory, ct)
	}
	return overview, rows.Err()
}

// MonthlySummary returns per-category distribution stats for the report
// month. Every category appears, including those without expenses.
func (r *Repository) MonthlySummary(ctx context.Context, userID int64, year, month int) ([]core.CategorySummary, error) {
	window := core.PeriodWindow(core.Monthly, core.NewDate(year, month, 1))
	first := window.First.Format(dateLayout)
	last := window.Last.Format(dateLayout)

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.name,
		       COALESCE(SUM(e.amount_cents), 0) AS total,
		       COUNT(e.id),
		       COALESCE(MIN(e.amount_cents), 0),
		       COALESCE(MAX(e.amount_cents), 0),
		       COALESCE(AVG(e.amount_cents), 0)
		FROM categories c
		LEFT JOIN expenses e ON c.id = e.category_id
		                    AND e.user_id = ?
		                    AND e.expense_date BETWEEN ? AND ?
		WHERE c.user_id = ?
		GROUP BY c.name
		ORDER BY total DESC, c.name`,
		userID, first, last, userID)
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	defer rows.Close()

	var out []core.CategorySummary
	for rows.Next() {
		var s core.CategorySummary
		var avg float64
		if err := rows.Scan(&s.Category, &s.Total.Cents, &s.Count,
			&s.Min.Cents, &s.Max.Cents, &avg); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.Avg = core.Money{Cents: int64(avg + 0.5)}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Trends returns per-category monthly totals between start and end inclusive.
func (r *Repository) Trends(ctx context.Context, userID int64, start, end core.Date) ([]core.TrendPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', e.expense_date) AS month, c.name, SUM(e.amount_cents)
		FROM expenses e
		JOIN categories c ON e.category_id = c.id
		WHERE e.user_id = ? AND e.expense_date BETWEEN ? AND ?
		GROUP BY month, c.name
		ORDER BY month, c.name`,
		userID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}
	defer rows.Close()

	var out []core.TrendPoint
	for rows.Next() {
		var p core.TrendPoint
		if err := rows.Scan(&p.Month, &p.Category, &p.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan trend point: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MonthlyTotals returns overall month totals since the given date, oldest
// first, for the dashboard chart.
func (r *Repository) MonthlyTotals(ctx context.Context, userID int64, since core.Date) ([]core.TrendPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', expense_date) AS month, SUM(amount_cents)
		FROM expenses
		WHERE user_id = ? AND expense_date >= ?
		GROUP BY month
		ORDER BY month`,
		userID, since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}
	defer rows.Close()

	var out []core.TrendPoint
	for rows.Next() {
		var p core.TrendPoint
		if err := rows.Scan(&p.Month, &p.Total.Cents); err != nil {
			return nil, fmt.Errorf("scan monthly total: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---- limits ----

func (r *Repository) ListLimits(ctx context.Context, userID int64) ([]core.Limit, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.user_id, COALESCE(l.category_id, 0), COALESCE(c.name, ''), l.amount_cents, l.period
		FROM limits l
		LEFT JOIN categories c ON l.category_id = c.id
		WHERE l.user_id = ?
		ORDER BY l.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list limits: %w", err)
	}
	defer rows.Close()

	var out []core.Limit
	for rows.Next() {
		var l core.Limit
		var period string
		if err := rows.Scan(&l.ID, &l.UserID, &l.CategoryID, &l.Category,
			&l.Amount.Cents, &period); err != nil {
			return nil, fmt.Errorf("scan limit: %w", err)
		}
		l.Period = core.Period(period)
		out = append(out, l)
	}
	return out, rows.Err()
}

// CreateLimit inserts a limit. A scoped limit's category must belong to the
// same user.
func (r *Repository) CreateLimit(ctx context.Context, l core.Limit) (*core.Limit, error) {
	var categoryID any
	if !l.Overall() {
		if _, err := r.GetCategory(ctx, l.UserID, l.CategoryID); err != nil {
			return nil, err
		}
		categoryID = l.CategoryID
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO limits (user_id, category_id, amount_cents, period) VALUES (?, ?, ?, ?)`,
		l.UserID, categoryID, l.Amount.Cents, string(l.Period))
	if err != nil {
		return nil, fmt.Errorf("insert limit: %w", err)
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("limit id: %w", err)
	}
	return &l, nil
}

func (r *Repository) DeleteLimit(ctx context.Context, userID, limitID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM limits WHERE id = ? AND user_id = ?`, limitID, userID)
	if err != nil {
		return fmt.Errorf("delete limit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("limit %d: %w", limitID, core.ErrNotFound)
	}
	return nil
}

// ---- alerts ----

// ListAlerts returns a user's alerts with expense context, newest first.
func (r *Repository) ListAlerts(ctx context.Context, userID int64) ([]core.Alert, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.user_id, a.expense_id, c.name, e.amount_cents, a.limit_cents, a.alert_date, a.is_read
		FROM alerts a
		JOIN expenses e ON a.expense_id = e.id
		JOIN categories c ON e.category_id = c.id
		WHERE a.user_id = ?
		ORDER BY a.alert_date DESC, a.is_read`, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var out []core.Alert
	for rows.Next() {
		var a core.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.ExpenseID, &a.Category,
			&a.Amount.Cents, &a.LimitCents, &a.Date, &a.IsRead); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repository) CountUnreadAlerts(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM alerts WHERE user_id = ? AND is_read = 0`,
		userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread alerts: %w", err)
	}
	return n, nil
}

// MarkAllAlertsRead flips every unread alert for the user to read.
func (r *Repository) MarkAllAlertsRead(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return fmt.Errorf("mark alerts read: %w", err)
	}
	return nil
}

// AlertDetail is an alert joined with its user and expense context, as
// needed by the notification worker.
type AlertDetail struct {
	Alert     core.Alert
	UserEmail string
	UserName  string
	Date      core.Date
}

// GetAlertDetail loads one alert with full context for delivery.
func (r *Repository) GetAlertDetail(ctx context.Context, alertID int64) (*AlertDetail, error) {
	var d AlertDetail
	var dateStr string
	err := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.user_id, a.expense_id, c.name, e.amount_cents, a.limit_cents, a.alert_date, a.is_read,
		       u.email, u.name, e.expense_date
		FROM alerts a
		JOIN expenses e ON a.expense_id = e.id
		JOIN categories c ON e.category_id = c.id
		JOIN users u ON a.user_id = u.id
		WHERE a.id = ?`, alertID).Scan(
		&d.Alert.ID, &d.Alert.UserID, &d.Alert.ExpenseID, &d.Alert.Category,
		&d.Alert.Amount.Cents, &d.Alert.LimitCents, &d.Alert.Date, &d.Alert.IsRead,
		&d.UserEmail, &d.UserName, &dateStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("alert %d: %w", alertID, core.ErrNotFound)
		}
		return nil, fmt.Errorf("get alert detail: %w", err)
	}
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse expense date %q: %w", dateStr, err)
	}
	d.Date = core.Date{Time: t}
	return &d, nil
}
