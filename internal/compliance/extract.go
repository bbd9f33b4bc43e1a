package compliance

import (
	"regexp"
	"strconv"
	"strings"
)

// DimensionType classifies an extracted measurement.
type DimensionType string

const (
	DimLintelLevel    DimensionType = "lintel_level"
	DimWallPlateLevel DimensionType = "wall_plate_level"
	DimMaxRoofHeight  DimensionType = "max_roof_height"
	DimCeilingHeight  DimensionType = "ceiling_height"
	DimClearHeight    DimensionType = "clear_height"
	DimFloorToCeiling DimensionType = "floor_to_ceiling"
	DimGeneralHeight  DimensionType = "general_height"
	DimGeneric        DimensionType = "dimension"
)

// Dimension is one measurement pulled out of plan text.
type Dimension struct {
	Value float64
	Type  DimensionType
	Text  string
}

// IsRoomHeight reports whether the dimension plausibly describes a room
// height rather than a structural level or a plan-view length.
func (d Dimension) IsRoomHeight() bool {
	switch d.Type {
	case DimCeilingHeight, DimClearHeight, DimFloorToCeiling, DimGeneralHeight:
		return true
	}
	return false
}

type dimensionPattern struct {
	re   *regexp.Regexp
	typ  DimensionType
	inMM bool
}

// Patterns are ordered most-specific first so structural levels are claimed
// before the catch-all metre pattern sees them.
var dimensionPatterns = []dimensionPattern{
	{re: regexp.MustCompile(`(?i)lintel\s*(?:level|height)\s*(?:of|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`), typ: DimLintelLevel},
	{re: regexp.MustCompile(`(?i)(?:LL|L\.L\.|lintel)\s*(?:=|:|-)\s*(\d+(?:\.\d+)?)\s*m\b`), typ: DimLintelLevel},
	{re: regexp.MustCompile(`(?i)\blintel\b[^\d]*(\d+(?:\.\d+)?)`), typ: DimLintelLevel},

	{re: regexp.MustCompile(`(?i)wall\s*plate\s*(?:level|height)\s*(?:of|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`), typ: DimWallPlateLevel},
	{re: regexp.MustCompile(`(?i)(?:WP|W\.P\.|wall\s*plate)\s*(?:=|:|-)\s*(\d+(?:\.\d+)?)\s*m\b`), typ: DimWallPlateLevel},
	{re: regexp.MustCompile(`(?i)\bwall\s*plate\b[^\d]*(\d+(?:\.\d+)?)`), typ: DimWallPlateLevel},

	{re: regexp.MustCompile(`(?i)(?:max(?:imum)?|roof)\s*(?:roof)?\s*height\s*(?:of|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`), typ: DimMaxRoofHeight},
	{re: regexp.MustCompile(`(?i)(?:MRH|M\.R\.H\.)\s*(?:=|:|-)\s*(\d+(?:\.\d+)?)\s*m\b`), typ: DimMaxRoofHeight},
	{re: regexp.MustCompile(`(?i)\b(?:max(?:imum)?\s*(?:roof)?|roof)\s*height\b[^\d]*(\d+(?:\.\d+)?)`), typ: DimMaxRoofHeight},

	{re: regexp.MustCompile(`(?i)ceiling\s*(?:height)?\s*(?:of|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`), typ: DimCeilingHeight},
	{re: regexp.MustCompile(`(?i)clear\s*height\s*(?:of|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`), typ: DimClearHeight},
	{re: regexp.MustCompile(`(?i)floor\s*(?:to|-)\s*ceiling\s*(?:height)?\s*(?:of|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`), typ: DimFloorToCeiling},

	{re: regexp.MustCompile(`(?i)height\s*(?:of|is|:|=)?\s*(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`), typ: DimGeneralHeight},
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\s*(?:height|tall|high)\b`), typ: DimGeneralHeight},
	{re: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:mm|millimeters?|millimetres?)\s*(?:height|tall|high)\b`), typ: DimGeneralHeight, inMM: true},

	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:m|meters?|metres?)\b`), typ: DimGeneric},
	{re: regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:mm|millimeters?|millimetres?)\b`), typ: DimGeneric, inMM: true},
}

func plausible(typ DimensionType, v float64) bool {
	switch typ {
	case DimLintelLevel:
		return v >= lintelMin && v <= lintelMax
	case DimWallPlateLevel:
		return v >= wallPlateMin && v <= wallPlateMax
	case DimMaxRoofHeight:
		return v >= roofMin && v <= roofMax
	case DimCeilingHeight, DimClearHeight, DimFloorToCeiling:
		return v >= ceilingMin && v <= ceilingMax
	case DimGeneralHeight:
		return v >= heightMin && v <= heightMax
	default:
		return v >= dimensionMin && v <= dimensionMax
	}
}

// ExtractDimensions pulls classified measurements from plan text, discarding
// values outside the plausible band for their type.
func ExtractDimensions(text string) []Dimension {
	var dims []Dimension
	for _, p := range dimensionPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			raw := strings.ReplaceAll(m[1], ",", ".")
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if p.inMM {
				v /= 1000
			}
			if plausible(p.typ, v) {
				dims = append(dims, Dimension{Value: v, Type: p.typ, Text: m[0]})
			}
		}
	}
	return dims
}

var areaRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:sq\.?\s+m|square\s+met(?:er|re)s?|m2|m²)`)

// ExtractAreas returns every floor area in square metres mentioned in the
// text.
func ExtractAreas(text string) []float64 {
	var areas []float64
	for _, m := range areaRe.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			areas = append(areas, v)
		}
	}
	return areas
}

var floorCountRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:building|structure) with (\d+) (?:floor|storey|story|level)s?`),
	regexp.MustCompile(`(?i)(\d+)(?:-| )(?:floor|storey|story|level) (?:building|structure)`),
	regexp.MustCompile(`(?i)(\d+)[\s-]store(?:y|ys|ies)`),
	regexp.MustCompile(`(?i)(?:floor|storey|story|level)s?: (\d+)`),
	regexp.MustCompile(`(?i)(?:number of|total) (?:floor|storey|story|level)s?: (\d+)`),
}

// ExtractFloorCount returns every storey count claimed by the text.
func ExtractFloorCount(text string) []int {
	var floors []int
	for _, re := range floorCountRes {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				floors = append(floors, n)
			}
		}
	}
	return floors
}

// StructuralHeights holds the three structural levels a section drawing
// should dimension. Zero value fields mean the level was not found.
type StructuralHeights struct {
	LintelLevel    float64
	WallPlateLevel float64
	MaxRoofHeight  float64
	Present        bool

	// ImpliedRoomHeight is derived from the wall plate level, or from the
	// lintel level plus a conservative allowance when no wall plate level
	// was found.
	ImpliedRoomHeight float64
}

// ExtractStructuralHeights locates lintel level, wall plate level and maximum
// roof height in the text.
func ExtractStructuralHeights(text string) StructuralHeights {
	var sh StructuralHeights
	for _, d := range ExtractDimensions(text) {
		switch d.Type {
		case DimLintelLevel:
			if sh.LintelLevel == 0 {
				sh.LintelLevel = d.Value
				sh.Present = true
			}
		case DimWallPlateLevel:
			if sh.WallPlateLevel == 0 {
				sh.WallPlateLevel = d.Value
				sh.Present = true
			}
		case DimMaxRoofHeight:
			if sh.MaxRoofHeight == 0 {
				sh.MaxRoofHeight = d.Value
				sh.Present = true
			}
		}
	}

	if sh.WallPlateLevel > 0 {
		sh.ImpliedRoomHeight = sh.WallPlateLevel
	} else if sh.LintelLevel > 0 {
		sh.ImpliedRoomHeight = sh.LintelLevel + LintelToCeilingAllowance
	}
	return sh
}

// ScheduleEntry is one window or door row detected in a schedule.
type ScheduleEntry struct {
	ID            string
	HasDimensions bool
}

// ScheduleInfo summarizes the window and door schedules found in plan text.
type ScheduleInfo struct {
	HasSchedule bool
	Windows     []ScheduleEntry
	Doors       []ScheduleEntry
	Ventilation bool
	NaturalLight bool
}

var (
	scheduleRe   = regexp.MustCompile(`(?i)\b(?:window|door|ironmongery)\s*schedule\b`)
	windowIDRe   = regexp.MustCompile(`(?i)\b(?:WO|W|WINDOW)\s?-?(\d+)\b`)
	doorIDRe     = regexp.MustCompile(`(?i)\b(?:DO|D|DOOR)\s?-?(\d+)\b`)
	entryDimRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:x|×|by)\s*(\d+(?:\.\d+)?)`)
	ventRe       = regexp.MustCompile(`(?i)\b(?:ventilation|openable|air\s*flow)\b`)
	natLightRe   = regexp.MustCompile(`(?i)\b(?:glazing|natural\s*light|daylight)\b`)
)

// ExtractScheduleInfo detects window and door schedules and their entries.
// Identifiers are accepted in WO1/W1/WINDOW1 and DO1/D1/DOOR1 formats.
func ExtractScheduleInfo(text string) ScheduleInfo {
	info := ScheduleInfo{
		HasSchedule:  scheduleRe.MatchString(text),
		Ventilation:  ventRe.MatchString(text),
		NaturalLight: natLightRe.MatchString(text),
	}
	hasDims := entryDimRe.MatchString(text)

	seen := map[string]bool{}
	for _, m := range windowIDRe.FindAllStringSubmatch(text, -1) {
		id := "W" + m[1]
		if !seen[id] {
			seen[id] = true
			info.Windows = append(info.Windows, ScheduleEntry{ID: id, HasDimensions: hasDims})
		}
	}
	for _, m := range doorIDRe.FindAllStringSubmatch(text, -1) {
		id := "D" + m[1]
		if !seen[id] {
			seen[id] = true
			info.Doors = append(info.Doors, ScheduleEntry{ID: id, HasDimensions: hasDims})
		}
	}
	return info
}
