package repository

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Seeds holds the immutable datasets every page starts from.
type Seeds struct {
	Examiners []Examiner
	Injuries  []Injury
	Evidence  []Evidence
}

// LoadSeeds reads all seed tables. The loads run concurrently; with a
// single-connection sqlite handle they queue on the pool.
func LoadSeeds(ctx context.Context, db *sql.DB) (Seeds, error) {
	var s Seeds
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := NewExaminerRepo(db).List(gctx)
		if err != nil {
			return fmt.Errorf("load examiners: %w", err)
		}
		s.Examiners = list
		return nil
	})
	g.Go(func() error {
		list, err := NewInjuryRepo(db).List(gctx)
		if err != nil {
			return fmt.Errorf("load injuries: %w", err)
		}
		s.Injuries = list
		return nil
	})
	g.Go(func() error {
		list, err := NewEvidenceRepo(db).List(gctx)
		if err != nil {
			return fmt.Errorf("load evidence: %w", err)
		}
		s.Evidence = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return Seeds{}, err
	}
	return s, nil
}
