package engine

// Tile is one board space. Tiles are immutable once the board is loaded;
// the meaning of Amount depends on Type (rent for properties, fee for tax
// and infrastructure tiles, bail for the jail, admission for the hospital).
type Tile struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Price      int64  `json:"price"`
	Amount     int64  `json:"amount"`
	IsCoastal  bool   `json:"is_coastal"`
	IsMegacity bool   `json:"is_megacity"`
}

// Tile type tags understood by the engine.
const (
	TileProperty          = "Property"
	TileTax               = "Tax"
	TileJail              = "Jail"
	TileHospital          = "Hospital"
	TileUniversity        = "University"
	TileInfrastructure    = "Infrastructure"
	TileLuckTest          = "LuckTest"
	TileIndustrialComplex = "IndustrialComplex"
	TileElectricity       = "Electricity"
)

// ChanceCard is static card content keyed by id in the inventory.
type ChanceCard struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Instruction string `json:"instruction"`
}

// EducationStatus only ever moves forward.
type EducationStatus string

const (
	NotYet         EducationStatus = "NotYet"
	Undergraduated EducationStatus = "Undergraduated"
	Graduated      EducationStatus = "Graduated"
)

func (e EducationStatus) next() EducationStatus {
	switch e {
	case NotYet:
		return Undergraduated
	default:
		return Graduated
	}
}

// Loan is one outstanding loan. Fully repaid loans are purged from the
// player's ledger.
type Loan struct {
	ID        uint32 `json:"id"`
	Remaining int64  `json:"remaining"`
	Term      uint32 `json:"term"`
}

type Player struct {
	ID                 uint32          `json:"id"`
	Position           int             `json:"position"`
	Money              int64           `json:"money"`
	RemainingLoans     []Loan          `json:"remaining_loans"`
	EducationStatus    EducationStatus `json:"education_status"`
	Cycles             int             `json:"cycles"`
	RemainingJailTurns int             `json:"remaining_jail_turns"`
	Tickets            TicketCount     `json:"tickets_count"`
}

// Ownership records who holds a tile and how many buildings stand on it.
// Amount stays within [0, MAX_BUILDINGS]; zero-amount entries are purged
// at end of turn.
type Ownership struct {
	OwnerID uint32 `json:"owner_id"`
	Amount  int64  `json:"amount"`
}

// GameState is the whole mutable world. ExportJSON serializes it
// round-trippable for the host.
type GameState struct {
	Board              []Tile                `json:"board"`
	ChanceCards        map[string]ChanceCard `json:"chance_cards_inventory"`
	Players            []Player              `json:"players"`
	Properties         map[string]Ownership  `json:"properties"`
	Log                []string              `json:"log"`
	CurrentTurnIdx     int                   `json:"current_turn_idx"`
	GovernmentIncome   int64                 `json:"government_income"`
	DiceDouble         bool                  `json:"dice_double"`
	PandemicCounter    int                   `json:"pandemic_counter"`
	CatastropheCounter int                   `json:"catastrophe_counter"`
	Consts             map[string]int64      `json:"consts"`
	PendingTicket      TicketCount           `json:"pending_ticket"`
	// LuckTestCache: -1 no jackpot in progress, 0 just missed,
	// positive = accumulating jackpot.
	LuckTestCache int64 `json:"luck_test_cache"`
}

// Situation tells the host which operation may legally come next. Calling
// an operation in the wrong situation is a silent no-op.
type Situation string

const (
	InAction                           Situation = "InAction"
	PendingBuyResponse                 Situation = "PendingBuyResponse"
	PendingFinancialCrisisResponse     Situation = "PendingFinancialCrisisResponse"
	PendingRollResponse                Situation = "PendingRollResponse"
	PendingLuckTestResponse            Situation = "PendingLuckTestResponse"
	PendingUseTicketResponse           Situation = "PendingUseTicketResponse"
	PendingTryToJailbreakResponse      Situation = "PendingTryToJailbreakResponse"
	PendingGetRandomChanceCardResponse Situation = "PendingGetRandomChanceCardResponse"
	PendingCheckChanceCardResponse     Situation = "PendingCheckChanceCardResponse"
	EndTurn                            Situation = "EndTurn"
	EndGame                            Situation = "EndGame"
)

// DicePair is an ordered roll. (0,0) means a replay of the current tile
// with no physical roll.
type DicePair struct {
	A int `json:"a"`
	B int `json:"b"`
}

func (d DicePair) IsDouble() bool { return d.A == d.B }
func (d DicePair) Sum() int       { return d.A + d.B }
func (d DicePair) IsZero() bool   { return d.A == 0 && d.B == 0 }
