package repository

import (
	"context"
	"database/sql"
)

// EvidenceRepo reads the evidence seed.
type EvidenceRepo struct {
	db *sql.DB
}

func NewEvidenceRepo(db *sql.DB) *EvidenceRepo { return &EvidenceRepo{db: db} }

func (r *EvidenceRepo) List(ctx context.Context) ([]Evidence, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT key, id, case_number, name, category, location, custodian, collected_at, notes
	FROM evidence ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Evidence
	for rows.Next() {
		var e Evidence
		if err := rows.Scan(&e.Key, &e.ID, &e.CaseNumber, &e.Name, &e.Category, &e.Location,
			&e.Custodian, &e.CollectedAt, &e.Notes); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
