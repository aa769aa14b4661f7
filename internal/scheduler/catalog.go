package scheduler

// Standard meeting slots of the academic calendar.
var (
	TheoryTimeSlots = []string{
		"08:30 AM - 09:50 AM",
		"09:51 AM - 11:10 AM",
		"11:11 AM - 12:30 PM",
		"12:31 PM - 01:50 PM",
		"01:51 PM - 03:10 PM",
		"03:11 PM - 04:30 PM",
	}

	LabTimeSlots = []string{
		"08:30 AM - 11:10 AM",
		"09:51 AM - 12:30 PM",
		"11:11 AM - 01:50 PM",
		"12:31 PM - 03:10 PM",
		"01:51 PM - 04:30 PM",
	}

	CreditOptions = []float64{1.0, 2.0, 3.0}

	SectionNames = []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"}
)

// Preference thresholds in minutes since midnight.
const (
	EarlyCutoff = 9 * 60
	LateCutoff  = 17 * 60
)
