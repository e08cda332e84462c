package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStage(t *testing.T) {
	cases := []struct {
		in   string
		want Stage
	}{
		{"new", StageNew},
		{"New", StageNew},
		{"  NEW  ", StageNew},
		{"In Progress", StageInProgress},
		{"in_progress", StageInProgress},
		{"in-progress", StageInProgress},
		{"IN PROGRESS", StageInProgress},
		{"Repaired", StageRepaired},
		{"repaired (closed)", StageRepaired},
		{"Scrap", StageScrap},
		{"scrapped", StageScrap},
		{"", StageUnknown},
		{"done", StageUnknown},
		{"progress", StageUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseStage(tc.in), "input %q", tc.in)
	}
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "new", StageNew.String())
	assert.Equal(t, "in_progress", StageInProgress.String())
	assert.Equal(t, "repaired", StageRepaired.String())
	assert.Equal(t, "scrap", StageScrap.String())
	assert.Equal(t, "unknown", StageUnknown.String())
}

func TestStageFlags(t *testing.T) {
	assert.False(t, StageNew.IsClosed())
	assert.False(t, StageInProgress.IsClosed())
	assert.True(t, StageRepaired.IsClosed())
	assert.True(t, StageScrap.IsClosed())

	assert.True(t, StageScrap.IsScrap())
	assert.False(t, StageRepaired.IsScrap())
}

func TestDefaultStages(t *testing.T) {
	seeds := DefaultStages()
	assert.Len(t, seeds, 4)

	byStage := map[Stage]StageSeed{}
	for _, s := range seeds {
		byStage[s.Stage] = s
	}
	assert.Equal(t, "New", byStage[StageNew].Name)
	assert.Equal(t, 10, byStage[StageNew].Sequence)
	assert.Equal(t, "In Progress", byStage[StageInProgress].Name)
	assert.Equal(t, 20, byStage[StageInProgress].Sequence)
	assert.True(t, byStage[StageRepaired].IsClosed)
	assert.False(t, byStage[StageRepaired].IsScrap)
	assert.True(t, byStage[StageScrap].IsClosed)
	assert.True(t, byStage[StageScrap].IsScrap)

	// every seed round-trips through the parser
	for _, s := range seeds {
		assert.Equal(t, s.Stage, ParseStage(s.Name))
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleManager, ParseRole("manager"))
	assert.Equal(t, RoleTechnician, ParseRole("technician"))
	assert.Equal(t, RoleRequester, ParseRole("user"))
	assert.Equal(t, RoleUnknown, ParseRole("admin"))
	assert.Equal(t, RoleUnknown, ParseRole(""))
}
