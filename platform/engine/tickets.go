package engine

// TicketCount holds the six redeemable ticket counters. All arithmetic is
// clamped: addition per field, subtraction floors at zero and never
// underflows.
type TicketCount struct {
	FreeHospital    uint32 `json:"free_hospital"`
	FreeProperty    uint32 `json:"free_property"`
	DoubleLotto     uint32 `json:"double_lotto"`
	NoTax           uint32 `json:"no_tax"`
	ReleaseFromJail uint32 `json:"release_from_jail"`
	Bonus           uint32 `json:"bonus"`
}

// Ticket kind names accepted by OneTicket and the PromptTicket/GetTicket
// script actions.
const (
	TicketFreeHospital    = "FreeHospital"
	TicketFreeProperty    = "FreeProperty"
	TicketDoubleLotto     = "DoubleLotto"
	TicketNoTax           = "NoTax"
	TicketReleaseFromJail = "ReleaseFromJail"
	TicketBonus           = "Bonus"
)

func subFloor(lhs, rhs uint32) uint32 {
	if lhs < rhs {
		return 0
	}
	return lhs - rhs
}

func (t TicketCount) Add(o TicketCount) TicketCount {
	return TicketCount{
		FreeHospital:    t.FreeHospital + o.FreeHospital,
		FreeProperty:    t.FreeProperty + o.FreeProperty,
		DoubleLotto:     t.DoubleLotto + o.DoubleLotto,
		NoTax:           t.NoTax + o.NoTax,
		ReleaseFromJail: t.ReleaseFromJail + o.ReleaseFromJail,
		Bonus:           t.Bonus + o.Bonus,
	}
}

func (t TicketCount) Sub(o TicketCount) TicketCount {
	return TicketCount{
		FreeHospital:    subFloor(t.FreeHospital, o.FreeHospital),
		FreeProperty:    subFloor(t.FreeProperty, o.FreeProperty),
		DoubleLotto:     subFloor(t.DoubleLotto, o.DoubleLotto),
		NoTax:           subFloor(t.NoTax, o.NoTax),
		ReleaseFromJail: subFloor(t.ReleaseFromJail, o.ReleaseFromJail),
		Bonus:           subFloor(t.Bonus, o.Bonus),
	}
}

func (t TicketCount) IsZero() bool {
	return t == TicketCount{}
}

// OneTicket returns a count holding a single ticket of the given kind, or
// the zero count for an unknown kind.
func OneTicket(kind string) TicketCount {
	switch kind {
	case TicketFreeHospital:
		return TicketCount{FreeHospital: 1}
	case TicketFreeProperty:
		return TicketCount{FreeProperty: 1}
	case TicketDoubleLotto:
		return TicketCount{DoubleLotto: 1}
	case TicketNoTax:
		return TicketCount{NoTax: 1}
	case TicketReleaseFromJail:
		return TicketCount{ReleaseFromJail: 1}
	case TicketBonus:
		return TicketCount{Bonus: 1}
	default:
		return TicketCount{}
	}
}
