package compliance

import (
	"fmt"
	"regexp"
	"strings"
)

// Variant tags how a rule check arrived at its verdict. StrictMeasurement
// checks compared an extracted number against a threshold; KeywordInferred
// checks accepted vocabulary as evidence; DocumentTypeAssumed checks passed
// because the text looks like a building plan at all.
type Variant string

const (
	StrictMeasurement   Variant = "strict_measurement"
	KeywordInferred     Variant = "keyword_inferred"
	DocumentTypeAssumed Variant = "document_type_assumed"
)

// Check is one rule verdict.
type Check struct {
	Category string  `json:"category"`
	Name     string  `json:"name"`
	Variant  Variant `json:"variant"`
	Passed   bool    `json:"passed"`
	Message  string  `json:"message,omitempty"`
}

// RuleResult aggregates every rule check run over one document.
type RuleResult struct {
	Checks []Check
	Issues []string
}

// Passed counts the checks that succeeded.
func (r *RuleResult) Passed() int {
	n := 0
	for _, c := range r.Checks {
		if c.Passed {
			n++
		}
	}
	return n
}

// Total counts all checks.
func (r *RuleResult) Total() int { return len(r.Checks) }

// Percentage is the rule pass rate, or 100 when no checks ran.
func (r *RuleResult) Percentage() float64 {
	if len(r.Checks) == 0 {
		return 100
	}
	return float64(r.Passed()) / float64(r.Total()) * 100
}

type ruleRecorder struct {
	result RuleResult
}

func (rr *ruleRecorder) record(category, name string, variant Variant, passed bool, message string) {
	rr.result.Checks = append(rr.result.Checks, Check{
		Category: category,
		Name:     name,
		Variant:  variant,
		Passed:   passed,
		Message:  message,
	})
	if !passed && message != "" {
		rr.result.Issues = append(rr.result.Issues, message)
	}
}

type buildingClass struct {
	minHabitable float64
	label        string
	isDwelling   bool
}

var (
	shopRe     = regexp.MustCompile(`(?i)\b(shop|retail|store|commercial)\b`)
	otherRe    = regexp.MustCompile(`(?i)\b(office|public|institutional)\b`)
	dwellingRe = regexp.MustCompile(`(?i)\b(house|home|dwelling|residential)\b`)

	roomRe       = regexp.MustCompile(`(?i)\b(room|bedroom|kitchen|bathroom|living|dining|hall|space)\b`)
	heightWordRe = regexp.MustCompile(`(?i)\b(height|tall|high|ceiling)\b`)
	planRe       = regexp.MustCompile(`(?i)\b(plan|drawing|architect)\b`)

	dimPairRe       = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:m|met(?:er|re))\s*[x×]\s*\d+(?:\.\d+)?\s*(?:m|met(?:er|re))\b`)
	standardRoomsRe = regexp.MustCompile(`(?i)\b(bedroom|living room|dining room|kitchen|family room)\b`)
	anyNumberRe     = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:m|met(?:er|re))?\b`)

	fireRe        = regexp.MustCompile(`(?i)\b(fire|safety|emergency|exit|escape|alarm|sprinkler|extinguisher)\b`)
	ventilationRe = regexp.MustCompile(`(?i)\b(ventilation|air|window|opening|fresh)\b`)

	elevationRe      = regexp.MustCompile(`(?i)\b(?:north|south|east|west)?\s*(?:elevation|facade)\b`)
	sectionRe        = regexp.MustCompile(`(?i)\bsections?\b`)
	elevHeightRe     = regexp.MustCompile(`(?i)\b(elevation|section)\b.*\b(height|tall|high)\b`)
	heightNumberRe   = regexp.MustCompile(`(?i)\b[1-9](?:\.\d+)?\s*(?:m|mm)?\b`)
	lintelWordRe     = regexp.MustCompile(`(?i)\b(?:lintel|ll|l\.l\.)\b`)
	wallPlateWordRe  = regexp.MustCompile(`(?i)\b(?:wall\s*plate|wp|w\.p\.)\b`)
	roofHeightWordRe = regexp.MustCompile(`(?i)\b(?:max(?:imum)?\s*(?:roof)?\s*height|roof\s*height|mrh|m\.r\.h\.)\b`)
)

func classify(text string) buildingClass {
	isShop := shopRe.MatchString(text)
	isOther := otherRe.MatchString(text) && !isShop
	switch {
	case isShop:
		return buildingClass{minHabitable: MinHabitableShop, label: "shop"}
	case isOther:
		return buildingClass{minHabitable: MinHabitableOther, label: "other building"}
	default:
		return buildingClass{minHabitable: MinHabitableDwelling, label: "dwelling", isDwelling: true}
	}
}

// RunRuleChecks evaluates the seven rule categories against plan text. Each
// category degrades independently: an extractor finding nothing downgrades
// its category to keyword or document-type evidence instead of failing the
// whole run.
func RunRuleChecks(text string) *RuleResult {
	rr := &ruleRecorder{}
	class := classify(text)

	dims := ExtractDimensions(text)
	structural := ExtractStructuralHeights(text)

	checkRoomHeights(rr, text, dims, structural, class)
	checkRoomAreas(rr, text)
	checkStoreys(rr, text, class)
	checkFireSafety(rr, text)
	checkVentilation(rr, text)
	checkStructuralHeights(rr, text, structural, class)
	checkSchedules(rr, text)

	return &rr.result
}

func checkRoomHeights(rr *ruleRecorder, text string, dims []Dimension, structural StructuralHeights, class buildingClass) {
	var roomHeights []Dimension
	for _, d := range dims {
		if d.IsRoomHeight() {
			roomHeights = append(roomHeights, d)
		}
	}

	if len(roomHeights) > 0 {
		for _, h := range roomHeights {
			label := strings.ReplaceAll(string(h.Type), "_", " ")
			switch {
			case h.Value < MinAccessArea:
				rr.record("heights", "access_area_height", StrictMeasurement, false,
					fmt.Sprintf("Found %s of %gm, which is below minimum access area height of %gm", label, h.Value, MinAccessArea))
			case h.Value < MinNonHabitable:
				rr.record("heights", "non_habitable_height", StrictMeasurement, false,
					fmt.Sprintf("Found %s of %gm, which is below minimum non-habitable room height of %gm", label, h.Value, MinNonHabitable))
			case h.Value < class.minHabitable:
				rr.record("heights", "habitable_height", StrictMeasurement, false,
					fmt.Sprintf("Found %s of %gm, which may be acceptable for non-habitable rooms but is below minimum habitable room height of %gm for %ss", label, h.Value, class.minHabitable, class.label))
			default:
				rr.record("heights", "room_height", StrictMeasurement, true, "")
			}
		}
		return
	}

	if structural.Present {
		rr.record("heights", "structural_heights_present", StrictMeasurement, true, "")
		return
	}

	switch {
	case roomRe.MatchString(text) && heightWordRe.MatchString(text):
		rr.record("heights", "room_height_implied", KeywordInferred, true, "")
	case planRe.MatchString(text):
		rr.record("heights", "room_height_assumed", DocumentTypeAssumed, true, "")
	default:
		rr.record("heights", "room_height_missing", StrictMeasurement, false,
			"No clear room height or structural height measurements found. Section drawings should include vertical dimensions or structural heights (lintel level, wall plate level, maximum roof height).")
	}
}

func checkRoomAreas(rr *ruleRecorder, text string) {
	areas := ExtractAreas(text)
	if len(areas) > 0 {
		for _, a := range areas {
			switch {
			case a > 1 && a < MinRoomArea:
				rr.record("areas", "room_area", StrictMeasurement, false,
					fmt.Sprintf("Found room area of %g sq m, which is below minimum habitable room area of %g sq m", a, MinRoomArea))
			case a >= MinRoomArea:
				rr.record("areas", "room_area", StrictMeasurement, true, "")
			}
		}
		return
	}

	switch {
	case dimPairRe.MatchString(text):
		rr.record("areas", "room_dimensions_present", StrictMeasurement, true, "")
	case standardRoomsRe.MatchString(text):
		rr.record("areas", "standard_rooms_present", KeywordInferred, true, "")
	case roomRe.MatchString(text) && anyNumberRe.MatchString(text):
		rr.record("areas", "room_dimensions_implied", KeywordInferred, true, "")
	case planRe.MatchString(text), dwellingRe.MatchString(text):
		rr.record("areas", "room_dimensions_assumed", DocumentTypeAssumed, true, "")
	default:
		rr.record("areas", "room_dimensions_missing", StrictMeasurement, false,
			fmt.Sprintf("No room dimensions or areas found. Floor plans should include room dimensions (minimum horizontal dimension: %gm) or area calculations (minimum: %g sq m).", MinHorizontalDimension, MinRoomArea))
	}
}

func checkStoreys(rr *ruleRecorder, text string, class buildingClass) {
	storeys := ExtractFloorCount(text)
	if len(storeys) > 0 {
		for _, s := range storeys {
			switch {
			case s > MaxResidentialStoreys:
				rr.record("storeys", "building_height", StrictMeasurement, false,
					fmt.Sprintf("Found %d storeys, which exceeds maximum residential building height of %d storeys", s, MaxResidentialStoreys))
			case s > MaxDwellingStoreys && class.isDwelling:
				rr.record("storeys", "dwelling_height", StrictMeasurement, false,
					fmt.Sprintf("Found %d storeys, which exceeds maximum dwelling house height of %d storeys. This requires Grade B construction.", s, MaxDwellingStoreys))
			default:
				rr.record("storeys", "building_height", StrictMeasurement, true, "")
			}
		}
		return
	}

	switch {
	case elevHeightRe.MatchString(text):
		rr.record("storeys", "building_height_mentioned", KeywordInferred, true, "")
	case elevationRe.MatchString(text) && heightNumberRe.MatchString(text):
		rr.record("storeys", "building_height_implied", KeywordInferred, true, "")
	case planRe.MatchString(text):
		rr.record("storeys", "building_height_assumed", DocumentTypeAssumed, true, "")
	default:
		rr.record("storeys", "building_height_missing", StrictMeasurement, false,
			"No building height or storey information found. Elevation drawings should include overall building height.")
	}
}

func checkFireSafety(rr *ruleRecorder, text string) {
	if dwellingRe.MatchString(text) {
		rr.record("safety", "fire_safety", DocumentTypeAssumed, true, "")
		return
	}
	passed := fireRe.MatchString(text)
	msg := ""
	if !passed {
		msg = "No fire safety information found. Plans should include fire exits, alarms, and safety measures."
	}
	rr.record("safety", "fire_safety", KeywordInferred, passed, msg)
}

func checkVentilation(rr *ruleRecorder, text string) {
	passed := ventilationRe.MatchString(text)
	msg := ""
	if !passed {
		msg = "No ventilation information found. Plans should include window openings and ventilation details."
	}
	rr.record("ventilation", "natural_ventilation", KeywordInferred, passed, msg)
}

func checkStructuralHeights(rr *ruleRecorder, text string, structural StructuralHeights, class buildingClass) {
	variant := StrictMeasurement

	// Drawings that name a structural level without a readable number still
	// count as specifying it, with defaults standing in for the values.
	if !structural.Present && (elevationRe.MatchString(text) || sectionRe.MatchString(text)) {
		hasLintel := lintelWordRe.MatchString(text)
		hasWallPlate := wallPlateWordRe.MatchString(text)
		hasRoof := roofHeightWordRe.MatchString(text)
		if (hasLintel || hasWallPlate || hasRoof) && heightNumberRe.MatchString(text) {
			structural.Present = true
			variant = KeywordInferred
			if hasLintel && structural.LintelLevel == 0 {
				structural.LintelLevel = DefaultLintelLevel
			}
			if hasWallPlate && structural.WallPlateLevel == 0 {
				structural.WallPlateLevel = DefaultWallPlateLevel
			}
			if hasRoof && structural.MaxRoofHeight == 0 {
				structural.MaxRoofHeight = DefaultMaxRoofHeight
			}
		}
	}

	if !structural.Present && planRe.MatchString(text) {
		structural.Present = true
		variant = DocumentTypeAssumed
		structural.LintelLevel = DefaultLintelLevel
		structural.WallPlateLevel = DefaultWallPlateLevel
		structural.MaxRoofHeight = DefaultMaxRoofHeight
	}

	msg := ""
	if !structural.Present {
		msg = "No structural height specifications found. Plans should include lintel level, wall plate level, and maximum roof height."
	}
	rr.record("structural_heights", "has_structural_heights", variant, structural.Present, msg)

	if structural.ImpliedRoomHeight > 0 {
		implied := structural.ImpliedRoomHeight
		switch {
		case implied < MinAccessArea:
			rr.record("heights", "implied_room_height", StrictMeasurement, false,
				fmt.Sprintf("Implied room height from structural measurements is %.2fm, which is below minimum access area height of %gm", implied, MinAccessArea))
		case implied < MinNonHabitable:
			rr.record("heights", "implied_room_height", StrictMeasurement, false,
				fmt.Sprintf("Implied room height from structural measurements is %.2fm, which is below minimum non-habitable room height of %gm", implied, MinNonHabitable))
		case implied < class.minHabitable:
			rr.record("heights", "implied_room_height", StrictMeasurement, false,
				fmt.Sprintf("Implied room height from structural measurements is %.2fm, which is below minimum habitable room height of %gm for %ss", implied, class.minHabitable, class.label))
		default:
			rr.record("heights", "implied_room_height", StrictMeasurement, true, "")
		}
	}

	if structural.Present {
		if structural.LintelLevel == 0 {
			structural.LintelLevel = DefaultLintelLevel
		}
		if structural.WallPlateLevel == 0 {
			structural.WallPlateLevel = DefaultWallPlateLevel
		}
		if structural.MaxRoofHeight == 0 {
			structural.MaxRoofHeight = DefaultMaxRoofHeight
		}

		rr.record("structural_heights", "lintel_level", variant, true, "")
		rr.record("structural_heights", "wall_plate_level", variant, true, "")
		rr.record("structural_heights", "max_roof_height", variant, true, "")

		aboveLintel := structural.WallPlateLevel > structural.LintelLevel
		msg = ""
		if !aboveLintel {
			msg = fmt.Sprintf("Wall plate level (%gm) should be higher than lintel level (%gm).", structural.WallPlateLevel, structural.LintelLevel)
		}
		rr.record("structural_heights", "wall_plate_above_lintel", StrictMeasurement, aboveLintel, msg)

		aboveWallPlate := structural.MaxRoofHeight > structural.WallPlateLevel
		msg = ""
		if !aboveWallPlate {
			msg = fmt.Sprintf("Maximum roof height (%gm) should be higher than wall plate level (%gm).", structural.MaxRoofHeight, structural.WallPlateLevel)
		}
		rr.record("structural_heights", "roof_above_wall_plate", StrictMeasurement, aboveWallPlate, msg)
	}
}

func checkSchedules(rr *ruleRecorder, text string) {
	info := ExtractScheduleInfo(text)

	msg := ""
	if !info.HasSchedule {
		msg = "No window and door schedule found. Plans should include a detailed schedule for all windows and doors."
	}
	rr.record("schedules", "window_door_schedule", KeywordInferred, info.HasSchedule, msg)
	if !info.HasSchedule {
		return
	}

	hasWindows := len(info.Windows) > 0
	msg = ""
	if !hasWindows {
		msg = "Window schedule found but no window entries (WO1, WO2, etc.) were detected."
	}
	rr.record("schedules", "window_entries", StrictMeasurement, hasWindows, msg)

	hasDoors := len(info.Doors) > 0
	msg = ""
	if !hasDoors {
		msg = "Door schedule found but no door entries (DO1, DO2, etc.) were detected."
	}
	rr.record("schedules", "door_entries", StrictMeasurement, hasDoors, msg)

	if hasWindows {
		withDims := 0
		for _, w := range info.Windows {
			if w.HasDimensions {
				withDims++
			}
		}
		all := withDims == len(info.Windows)
		msg = ""
		if !all {
			msg = fmt.Sprintf("Only %d of %d windows have dimensions specified.", withDims, len(info.Windows))
		}
		rr.record("schedules", "window_dimensions", StrictMeasurement, all, msg)
	}

	if hasDoors {
		withDims := 0
		for _, d := range info.Doors {
			if d.HasDimensions {
				withDims++
			}
		}
		all := withDims == len(info.Doors)
		msg = ""
		if !all {
			msg = fmt.Sprintf("Only %d of %d doors have dimensions specified.", withDims, len(info.Doors))
		}
		rr.record("schedules", "door_dimensions", StrictMeasurement, all, msg)
	}

	msg = ""
	if !info.Ventilation {
		msg = "The window and door schedule is incomplete. Window schedules should include details about openable areas for ventilation."
	}
	rr.record("schedules", "ventilation_requirements", KeywordInferred, info.Ventilation, msg)

	msg = ""
	if !info.NaturalLight {
		msg = "The window and door schedule is incomplete. Window schedules should include details about glazing areas for natural light."
	}
	rr.record("schedules", "natural_light_requirements", KeywordInferred, info.NaturalLight, msg)
}
