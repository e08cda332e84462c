package repository

import (
	"context"
	"database/sql"

	"github.com/gearguard/maintenance-api/internal/lifecycle"
	"github.com/gearguard/maintenance-api/internal/model"
)

// StageRepo is the stage registry: it bootstraps the four required
// lifecycle stages and resolves stored rows to their logical stage.
type StageRepo struct {
	db *sql.DB
}

// NewStageRepo returns a new StageRepo bound to the given database.
func NewStageRepo(db *sql.DB) *StageRepo { return &StageRepo{db: db} }

// EnsureDefaults inserts any of the four required lifecycle stages that
// are missing from the store. Existing rows are never overwritten, only
// gaps filled: a stage counts as present when any stored label
// normalizes to its logical identity, so a pre-seeded "in-progress" row
// satisfies In Progress. The insert uses INSERT IGNORE against the
// unique name key, so two processes bootstrapping concurrently collapse
// to a single row instead of erroring or duplicating. Called once at
// startup.
func (r *StageRepo) EnsureDefaults(ctx context.Context) error {
	rows, err := r.All(ctx)
	if err != nil {
		return err
	}
	const q = `INSERT IGNORE INTO request_stage (name, sequence, is_closed, is_scrap) VALUES (?, ?, ?, ?)`
	for _, seed := range missingStageSeeds(rows) {
		if _, err := r.db.ExecContext(ctx, q, seed.Name, seed.Sequence, seed.IsClosed, seed.IsScrap); err != nil {
			return err
		}
	}
	return nil
}

// missingStageSeeds returns the required seeds that no stored row
// satisfies. A row satisfies a seed when its label normalizes to the
// seed's logical stage, so cosmetic variants like "in-progress" count.
func missingStageSeeds(rows []model.RequestStage) []lifecycle.StageSeed {
	present := make(map[lifecycle.Stage]bool, len(rows))
	for _, row := range rows {
		present[lifecycle.ParseStage(row.Name)] = true
	}
	var missing []lifecycle.StageSeed
	for _, seed := range lifecycle.DefaultStages() {
		if !present[seed.Stage] {
			missing = append(missing, seed)
		}
	}
	return missing
}

// All returns every stage row ordered by sequence.
func (r *StageRepo) All(ctx context.Context) ([]model.RequestStage, error) {
	const q = `SELECT id, name, sequence, is_closed, is_scrap FROM request_stage ORDER BY sequence, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.RequestStage
	for rows.Next() {
		var s model.RequestStage
		if err := rows.Scan(&s.ID, &s.Name, &s.Sequence, &s.IsClosed, &s.IsScrap); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// StageMap resolves between stored stage rows and logical stages. When
// several rows normalize to the same logical stage the one with the
// lowest sequence wins for the logical-to-id direction; every row still
// resolves in the id-to-logical direction.
type StageMap struct {
	byStage map[lifecycle.Stage]model.RequestStage
	byID    map[uint64]lifecycle.Stage
}

// Map loads all stage rows and builds a StageMap. It returns
// ErrStageNotFound if any of the four required logical stages has no
// stored row; callers run EnsureDefaults at startup so this only
// signals a broken store.
func (r *StageRepo) Map(ctx context.Context) (*StageMap, error) {
	rows, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return buildStageMap(rows)
}

// buildStageMap indexes stored rows in both directions. Rows arrive
// ordered by sequence, so when several labels normalize to the same
// logical stage the lowest-sequence row wins the logical-to-id
// direction; every row, unclassifiable labels included, still resolves
// in the id-to-logical direction.
func buildStageMap(rows []model.RequestStage) (*StageMap, error) {
	m := &StageMap{
		byStage: make(map[lifecycle.Stage]model.RequestStage),
		byID:    make(map[uint64]lifecycle.Stage, len(rows)),
	}
	for _, row := range rows {
		logical := lifecycle.ParseStage(row.Name)
		m.byID[row.ID] = logical
		if logical == lifecycle.StageUnknown {
			continue
		}
		if _, ok := m.byStage[logical]; !ok {
			m.byStage[logical] = row
		}
	}
	for _, seed := range lifecycle.DefaultStages() {
		if _, ok := m.byStage[seed.Stage]; !ok {
			return nil, ErrStageNotFound
		}
	}
	return m, nil
}

// ID returns the stored row id for a logical stage.
func (m *StageMap) ID(s lifecycle.Stage) (uint64, bool) {
	row, ok := m.byStage[s]
	if !ok {
		return 0, false
	}
	return row.ID, true
}

// Stage returns the logical stage for a stored row id, or StageUnknown.
func (m *StageMap) Stage(id uint64) lifecycle.Stage { return m.byID[id] }
