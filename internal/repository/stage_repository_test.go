package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gearguard/maintenance-api/internal/lifecycle"
	"github.com/gearguard/maintenance-api/internal/model"
)

func seededRows() []model.RequestStage {
	return []model.RequestStage{
		{ID: 1, Name: "New", Sequence: 10},
		{ID: 2, Name: "In Progress", Sequence: 20},
		{ID: 3, Name: "Repaired", Sequence: 30, IsClosed: true},
		{ID: 4, Name: "Scrap", Sequence: 40, IsClosed: true, IsScrap: true},
	}
}

func TestMissingStageSeedsEmptyStore(t *testing.T) {
	missing := missingStageSeeds(nil)
	require.Len(t, missing, 4)
	assert.Equal(t, lifecycle.DefaultStages(), missing)
}

func TestMissingStageSeedsFullySeeded(t *testing.T) {
	// a second bootstrap over a complete registry issues no inserts
	assert.Empty(t, missingStageSeeds(seededRows()))
}

func TestMissingStageSeedsVariantLabels(t *testing.T) {
	// pre-seeded cosmetic variants satisfy their logical stage; only
	// the genuinely absent stages are filled in
	rows := []model.RequestStage{
		{ID: 1, Name: "NEW", Sequence: 10},
		{ID: 2, Name: "in-progress", Sequence: 20},
		{ID: 3, Name: "Repaired (closed)", Sequence: 30, IsClosed: true},
	}
	missing := missingStageSeeds(rows)
	require.Len(t, missing, 1)
	assert.Equal(t, lifecycle.StageScrap, missing[0].Stage)
}

func TestMissingStageSeedsIgnoresUnknownLabels(t *testing.T) {
	// custom rows the registry cannot classify never mask a required stage
	rows := []model.RequestStage{
		{ID: 1, Name: "Triage", Sequence: 5},
		{ID: 2, Name: "New", Sequence: 10},
	}
	missing := missingStageSeeds(rows)
	require.Len(t, missing, 3)
	for _, seed := range missing {
		assert.NotEqual(t, lifecycle.StageNew, seed.Stage)
	}
}

func TestBuildStageMapResolvesBothDirections(t *testing.T) {
	m, err := buildStageMap(seededRows())
	require.NoError(t, err)

	id, ok := m.ID(lifecycle.StageNew)
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)
	id, ok = m.ID(lifecycle.StageScrap)
	require.True(t, ok)
	assert.Equal(t, uint64(4), id)

	assert.Equal(t, lifecycle.StageInProgress, m.Stage(2))
	assert.Equal(t, lifecycle.StageRepaired, m.Stage(3))
	assert.Equal(t, lifecycle.StageUnknown, m.Stage(99))
}

func TestBuildStageMapDuplicateLabels(t *testing.T) {
	// two rows normalizing to the same logical stage: the lower
	// sequence wins the logical-to-id direction, both ids still resolve
	rows := []model.RequestStage{
		{ID: 1, Name: "New", Sequence: 10},
		{ID: 2, Name: "In Progress", Sequence: 20},
		{ID: 5, Name: "in_progress", Sequence: 25},
		{ID: 3, Name: "Repaired", Sequence: 30, IsClosed: true},
		{ID: 4, Name: "Scrap", Sequence: 40, IsClosed: true, IsScrap: true},
	}

	m, err := buildStageMap(rows)
	require.NoError(t, err)

	id, ok := m.ID(lifecycle.StageInProgress)
	require.True(t, ok)
	assert.Equal(t, uint64(2), id)
	assert.Equal(t, lifecycle.StageInProgress, m.Stage(5))
}

func TestBuildStageMapMissingRequiredStage(t *testing.T) {
	rows := seededRows()[:3] // no scrap row
	_, err := buildStageMap(rows)
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestBuildStageMapUnknownLabelRows(t *testing.T) {
	rows := append(seededRows(),
		model.RequestStage{ID: 9, Name: "Waiting For Parts", Sequence: 15})

	m, err := buildStageMap(rows)
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StageUnknown, m.Stage(9))
}
