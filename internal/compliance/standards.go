package compliance

// Building standard thresholds used by the rule checks. Values are metres
// unless noted otherwise.
const (
	// Minimum clear heights for habitable rooms by building type.
	MinHabitableDwelling = 2.4
	MinHabitableShop     = 2.9
	MinHabitableOther    = 2.6

	// Minimum clear height for non-habitable rooms.
	MinNonHabitable = 2.1

	// Minimum clear height in access areas (near doors and windows, or
	// within 1.5m of walls).
	MinAccessArea = 2.1

	// Minimum habitable room floor area in square metres, and the minimum
	// horizontal dimension of any habitable room.
	MinRoomArea            = 7.0
	MinHorizontalDimension = 2.1

	// Storey limits. Dwelling houses above MaxDwellingStoreys require
	// Grade B construction.
	MaxDwellingStoreys    = 2
	MaxResidentialStoreys = 4

	// Defaults assumed when a plan names a structural level without a
	// readable measurement.
	DefaultLintelLevel    = 2.1
	DefaultWallPlateLevel = 2.4
	DefaultMaxRoofHeight  = 3.5

	// Lintel level alone understates ceiling height; the ceiling sits a
	// few hundred millimetres above it in standard construction.
	LintelToCeilingAllowance = 0.3
)

// Plausible ranges per measurement type. Values outside these bands are
// discarded as extraction noise.
const (
	lintelMin, lintelMax       = 1.5, 3.0
	wallPlateMin, wallPlateMax = 2.0, 4.0
	roofMin, roofMax           = 2.5, 10.0
	ceilingMin, ceilingMax     = 2.0, 5.0
	heightMin, heightMax       = 0.1, 10.0
	dimensionMin, dimensionMax = 0.1, 50.0
)
