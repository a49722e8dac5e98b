package repository

import (
	"context"
	"database/sql"
)

// InjuryRepo reads the injury case seed.
type InjuryRepo struct {
	db *sql.DB
}

func NewInjuryRepo(db *sql.DB) *InjuryRepo { return &InjuryRepo{db: db} }

func (r *InjuryRepo) List(ctx context.Context) ([]Injury, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT key, id, name, expert, gender, age, height, weight, id_card, address,
	 injury_time, assessment_time, case_description, client_unit
	FROM injuries ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Injury
	for rows.Next() {
		var i Injury
		if err := rows.Scan(&i.Key, &i.ID, &i.Name, &i.Expert, &i.Gender, &i.Age, &i.Height, &i.Weight,
			&i.IDCard, &i.Address, &i.InjuryTime, &i.AssessmentTime, &i.CaseDescription, &i.ClientUnit); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
