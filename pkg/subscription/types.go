package subscription

// Cadence is the renewal period of a subscription.
type Cadence string

const (
	CadenceWeekly  Cadence = "Weekly"
	CadenceMonthly Cadence = "Monthly"
	CadenceYearly  Cadence = "Yearly"
	// CadenceCustom means the end date is supplied explicitly by the user.
	CadenceCustom Cadence = "Custom"
)

// Cadences lists every known cadence in display order.
func Cadences() []Cadence {
	return []Cadence{CadenceWeekly, CadenceMonthly, CadenceYearly, CadenceCustom}
}

// Valid reports whether c is one of the known cadences.
func (c Cadence) Valid() bool {
	switch c {
	case CadenceWeekly, CadenceMonthly, CadenceYearly, CadenceCustom:
		return true
	default:
		return false
	}
}

func (c Cadence) String() string {
	return string(c)
}
