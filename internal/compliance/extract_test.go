package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDimensions_StructuralLevels(t *testing.T) {
	text := "SECTION A-A. LINTEL LEVEL 2.1m, WALL PLATE LEVEL 2.4m, MAX ROOF HEIGHT 4.655m."

	dims := ExtractDimensions(text)

	byType := map[DimensionType][]float64{}
	for _, d := range dims {
		byType[d.Type] = append(byType[d.Type], d.Value)
	}

	assert.Contains(t, byType[DimLintelLevel], 2.1)
	assert.Contains(t, byType[DimWallPlateLevel], 2.4)
	assert.Contains(t, byType[DimMaxRoofHeight], 4.655)
}

func TestExtractDimensions_DiscardsImplausibleValues(t *testing.T) {
	// 12m lintel and 0.2m ceiling are outside their plausible bands.
	text := "lintel level 12m and ceiling height of 0.2m"

	for _, d := range ExtractDimensions(text) {
		assert.NotEqual(t, DimLintelLevel, d.Type)
		assert.NotEqual(t, DimCeilingHeight, d.Type)
	}
}

func TestExtractDimensions_MillimetresConverted(t *testing.T) {
	dims := ExtractDimensions("wall 2400 mm height")

	found := false
	for _, d := range dims {
		if d.Type == DimGeneralHeight && d.Value == 2.4 {
			found = true
		}
	}
	assert.True(t, found, "expected 2400mm to be read as 2.4m")
}

func TestExtractAreas(t *testing.T) {
	areas := ExtractAreas("Bedroom 1: 10.5 sq m. Bedroom 2: 7 square meters. Store: 3.2 m2.")
	assert.ElementsMatch(t, []float64{10.5, 7, 3.2}, areas)
}

func TestExtractFloorCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []int
	}{
		{"building with n floors", "a building with 2 floors", []int{2}},
		{"n-storeys", "proposed 3-storeys", []int{3}},
		{"storeys label", "storeys: 4", []int{4}},
		{"no mention", "a single level site plan", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFloorCount(tt.text))
		})
	}
}

func TestExtractStructuralHeights_ImpliedRoomHeight(t *testing.T) {
	sh := ExtractStructuralHeights("WALL PLATE LEVEL 2.5m, LINTEL LEVEL 2.1m")
	assert.True(t, sh.Present)
	assert.Equal(t, 2.5, sh.ImpliedRoomHeight)

	// Without a wall plate level, the lintel plus allowance stands in.
	sh = ExtractStructuralHeights("LINTEL LEVEL 2.1m only")
	assert.True(t, sh.Present)
	assert.InDelta(t, 2.4, sh.ImpliedRoomHeight, 1e-9)
}

func TestExtractScheduleInfo(t *testing.T) {
	text := `WINDOW SCHEDULE
WO1 1.2 x 1.0 aluminium, glazing for natural light
WO2 0.9 x 0.6 openable for ventilation
DOOR SCHEDULE
DO1 0.9 x 2.0 timber`

	info := ExtractScheduleInfo(text)

	assert.True(t, info.HasSchedule)
	assert.Len(t, info.Windows, 2)
	assert.Len(t, info.Doors, 1)
	assert.True(t, info.Ventilation)
	assert.True(t, info.NaturalLight)
}

func TestExtractScheduleInfo_NoSchedule(t *testing.T) {
	info := ExtractScheduleInfo("floor plan with rooms and dimensions")
	assert.False(t, info.HasSchedule)
	assert.Empty(t, info.Windows)
	assert.Empty(t, info.Doors)
}
