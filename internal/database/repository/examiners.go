package repository

import (
	"context"
	"database/sql"
)

// ExaminerRepo reads the examiner seed.
type ExaminerRepo struct {
	db *sql.DB
}

func NewExaminerRepo(db *sql.DB) *ExaminerRepo { return &ExaminerRepo{db: db} }

func (r *ExaminerRepo) List(ctx context.Context) ([]Examiner, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT key, id, name, badge_number, unit_name, contact, address, status
	FROM examiners ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Examiner
	for rows.Next() {
		var e Examiner
		var status string
		if err := rows.Scan(&e.Key, &e.ID, &e.Name, &e.BadgeNumber, &e.UnitName, &e.Contact, &e.Address, &status); err != nil {
			return nil, err
		}
		e.Status = Status(status)
		out = append(out, e)
	}
	return out, rows.Err()
}
