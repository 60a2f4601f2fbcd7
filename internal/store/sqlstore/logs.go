package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ryan-kosiba/nutriclaude/internal/model"
)

type logs struct{ s *Store }

type rowScanner interface {
	Scan(dest ...any) error
}

func selectColumns(t table) string {
	return `id, user_id, created_at, "timestamp", ` + strings.Join(t.columns, ", ")
}

func scanRecord(t table, row rowScanner) (*model.Record, error) {
	e, dest, after := t.target()
	r := &model.Record{Entry: e}
	all := append([]any{&r.ID, &r.UserID, timeValue{&r.CreatedAt}}, dest...)
	if err := row.Scan(all...); err != nil {
		return nil, err
	}
	if after != nil {
		after()
	}
	return r, nil
}

// insertRecord writes r into its kind's table. With ignoreDup, an existing id is left untouched.
func (s *Store) insertRecord(ctx context.Context, q queryer, r *model.Record, ignoreDup bool) (*model.Record, error) {
	if r == nil || r.Entry == nil {
		return nil, fmt.Errorf("record has no entry: %w", model.ErrValidation)
	}
	kind := r.Entry.Kind()
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	out := *r
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	out.CreatedAt = s.now().UTC()

	cols := append([]string{"id", "user_id", `"timestamp"`, "created_at"}, t.columns...)
	args := append([]any{out.ID, out.UserID, s.d.time(out.Entry.When()), s.d.time(out.CreatedAt)}, t.values(out.Entry)...)
	q1 := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		kind.Table(), strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	if ignoreDup {
		q1 += " ON CONFLICT (id) DO NOTHING"
	}
	if _, err := q.ExecContext(ctx, s.d.rebind(q1), args...); err != nil {
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}
	return &out, nil
}

func (l *logs) Insert(ctx context.Context, r *model.Record) (*model.Record, error) {
	return l.s.insertRecord(ctx, l.s.db, r, false)
}

func (l *logs) List(ctx context.Context, req model.ListLogsRequest) ([]*model.Record, error) {
	t, err := tableFor(req.Kind)
	if err != nil {
		return nil, err
	}
	where := []string{"user_id = ?"}
	args := []any{req.UserID}
	if !req.From.IsZero() {
		where = append(where, `"timestamp" >= ?`)
		args = append(args, l.s.d.time(req.From))
	}
	if !req.To.IsZero() {
		where = append(where, `"timestamp" <= ?`)
		args = append(args, l.s.d.time(req.To))
	}
	if req.ExerciseName != "" {
		if req.Kind != model.KindExercise {
			return nil, fmt.Errorf("exercise name filter on %s: %w", req.Kind, model.ErrValidation)
		}
		where = append(where, "exercise_name = ?")
		args = append(args, req.ExerciseName)
	}
	order := "ASC"
	if req.Desc {
		order = "DESC"
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY "timestamp" %s, created_at %s`,
		selectColumns(t), req.Kind.Table(), strings.Join(where, " AND "), order, order)
	if req.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", req.Limit)
	}

	rows, err := l.s.db.QueryContext(ctx, l.s.d.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", req.Kind, err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Record
	for rows.Next() {
		r, err := scanRecord(t, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", req.Kind, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (l *logs) Get(ctx context.Context, kind model.Kind, userID, id string) (*model.Record, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE user_id = ? AND id = ?", selectColumns(t), kind.Table())
	r, err := scanRecord(t, l.s.db.QueryRowContext(ctx, l.s.d.rebind(q), userID, id))
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (l *logs) Update(ctx context.Context, r *model.Record) (*model.Record, error) {
	if r == nil || r.Entry == nil {
		return nil, fmt.Errorf("record has no entry: %w", model.ErrValidation)
	}
	kind := r.Entry.Kind()
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	sets := []string{`"timestamp" = ?`}
	for _, c := range t.columns {
		sets = append(sets, c+" = ?")
	}
	args := append([]any{l.s.d.time(r.Entry.When())}, t.values(r.Entry)...)
	args = append(args, r.UserID, r.ID)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE user_id = ? AND id = ?", kind.Table(), strings.Join(sets, ", "))

	res, err := l.s.db.ExecContext(ctx, l.s.d.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", kind, err)
	}
	if err := affected(res); err != nil {
		return nil, err
	}
	return l.Get(ctx, kind, r.UserID, r.ID)
}

func (l *logs) Delete(ctx context.Context, kind model.Kind, userID, id string) error {
	if !kind.Persistent() {
		return fmt.Errorf("kind %q has no table: %w", kind, model.ErrValidation)
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE user_id = ? AND id = ?", kind.Table())
	res, err := l.s.db.ExecContext(ctx, l.s.d.rebind(q), userID, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	return affected(res)
}
