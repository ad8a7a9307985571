// Package categories maps generic category labels to native enumerated
// constants. A miss returns ok=false rather than an error; each caller
// decides whether to fall back to the family's Unknown constant or to
// escalate (discriminator categories only).
package categories

// Unknown is the fallback constant every family reserves at zero.
const Unknown int32 = 0

// Family names used on the wire.
const (
	FamilySleepStage               = "sleepStage"
	FamilyMenstrualFlow            = "menstrualFlow"
	FamilyCervicalMucus            = "cervicalMucus"
	FamilyOvulationTest            = "ovulationTest"
	FamilySexualActivityProtection = "sexualActivityProtection"
	FamilyMeasurementLocation      = "measurementLocation"
	FamilySkinTemperatureLocation  = "skinTemperatureLocation"
	FamilyBodyPosition             = "bodyPosition"
	FamilyMealType                 = "mealType"
	FamilySpecimenSource           = "specimenSource"
	FamilyRelationToMeal           = "relationToMeal"
)

// Native constants per family. Tables are process-wide, immutable after
// initialization.
var families = map[string]map[string]int32{
	FamilySleepStage: {
		"unknown": 0, "awake": 1, "sleeping": 2, "outOfBed": 3,
		"light": 4, "deep": 5, "rem": 6, "awakeInBed": 7,
	},
	FamilyMenstrualFlow: {
		"unknown": 0, "light": 1, "medium": 2, "heavy": 3,
	},
	FamilyCervicalMucus: {
		"unknown": 0, "dry": 1, "sticky": 2, "creamy": 3, "watery": 4, "eggWhite": 5,
	},
	FamilyOvulationTest: {
		"inconclusive": 0, "positive": 1, "high": 2, "negative": 3,
	},
	FamilySexualActivityProtection: {
		"unknown": 0, "protected": 1, "unprotected": 2,
	},
	FamilyMeasurementLocation: {
		"unknown": 0, "armpit": 1, "finger": 2, "forehead": 3, "mouth": 4,
		"rectum": 5, "temporalArtery": 6, "toe": 7, "ear": 8, "wrist": 9, "vagina": 10,
	},
	FamilySkinTemperatureLocation: {
		"unknown": 0, "finger": 1, "toe": 2, "wrist": 3,
	},
	FamilyBodyPosition: {
		"unknown": 0, "standingUp": 1, "sittingDown": 2, "lyingDown": 3, "reclining": 4,
	},
	FamilyMealType: {
		"unknown": 0, "breakfast": 1, "lunch": 2, "dinner": 3, "snack": 4,
	},
	FamilySpecimenSource: {
		"unknown": 0, "interstitialFluid": 1, "capillaryBlood": 2, "plasma": 3,
		"serum": 4, "tears": 5, "wholeBlood": 6,
	},
	FamilyRelationToMeal: {
		"unknown": 0, "general": 1, "fasting": 2, "beforeMeal": 3, "afterMeal": 4,
	},
}

// Decode resolves a label within a family. ok is false when either the
// family or the label is unrecognized.
func Decode(family, label string) (int32, bool) {
	table, ok := families[family]
	if !ok {
		return Unknown, false
	}
	c, ok := table[label]
	return c, ok
}

// DecodeOrUnknown resolves a label, falling back to Unknown on a miss. Used
// for auxiliary (non-discriminator) category fields.
func DecodeOrUnknown(family, label string) int32 {
	c, ok := Decode(family, label)
	if !ok {
		return Unknown
	}
	return c
}

// KnownFamily reports whether the family itself exists.
func KnownFamily(family string) bool {
	_, ok := families[family]
	return ok
}
