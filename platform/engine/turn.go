package engine

import "sort"

const (
	luckTestBoostedSeed = 1000000
	luckTestPlainSeed   = 500000
)

// RunTurnScript moves the acting player by the dice sum, evaluates the
// landed tile's rule script and applies the resulting action. Valid only
// while a roll is pending; any other situation is a silent no-op.
func (e *Engine) RunTurnScript(actionScript string, dices DicePair, cycleScript string) error {
	if e.now != PendingRollResponse {
		return nil
	}
	return e.runTurnScript(actionScript, &dices, cycleScript, 0)
}

func (e *Engine) runTurnScript(actionScript string, dices *DicePair, cycleScript string, toUseTicket int64) error {
	e.now = InAction
	playerIndex := e.state.CurrentTurnIdx
	player := e.state.Players[playerIndex]

	d := DicePair{}
	if dices != nil {
		d = *dices
	}

	oldPos := player.Position
	newPos := (player.Position + d.Sum()) % len(e.state.Board)
	tile := e.state.Board[newPos]
	own, isOwned := e.state.Properties[tile.Name]

	// (0,0) is a replay, it never touches the double flag
	if !d.IsZero() {
		e.state.DiceDouble = d.IsDouble()
	}

	// board wrap pays out the cycle before the landing resolves
	if oldPos >= newPos && !d.IsZero() {
		if err := e.triggerCycle(cycleScript); err != nil {
			return err
		}
	}

	facts := map[string]interface{}{
		"player_id":     player.ID,
		"tile":          tile,
		"is_owned":      isOwned,
		"owner_id":      nil,
		"owned_amount":  nil,
		"building_cost": e.buildingCost,
		"MAX_BUILDINGS": e.maxBuildings(),
		"to_use_ticket": toUseTicket,
		"tickets":       e.state.Players[playerIndex].Tickets,
	}
	if isOwned {
		facts["owner_id"] = own.OwnerID
		facts["owned_amount"] = own.Amount
	}

	result, err := e.evalScript(actionScript, facts)
	if err != nil {
		return err
	}

	redirected, err := e.applyTileAction(result, playerIndex, isOwned)
	if err != nil {
		return err
	}
	if redirected {
		// the action already placed the player somewhere else
		return nil
	}

	if e.now == InAction {
		e.now = EndTurn
	}
	e.state.Players[playerIndex].Position = newPos
	return nil
}

// Buy completes a pending purchase prompt: pays the building cost and adds
// (or caps-increments) the ownership entry for the tile at pos.
func (e *Engine) Buy(pos int) {
	if e.now != PendingBuyResponse {
		return
	}
	player := e.currentPlayer()
	name := e.state.Board[pos].Name
	player.Money -= e.buildingCost

	e.logf("Player %d bought '%s'!", player.ID, name)
	if own, ok := e.state.Properties[name]; ok {
		if own.Amount < e.maxBuildings() {
			own.Amount++
		}
		e.state.Properties[name] = own
	} else {
		e.state.Properties[name] = Ownership{OwnerID: player.ID, Amount: 1}
	}
	e.now = EndTurn
}

// UseTicket answers a PendingUseTicketResponse. What the ticket does is
// decided by the type of the tile the player stands on; passing a count
// holding the matching kind spends one, anything else declines.
func (e *Engine) UseTicket(toUse TicketCount, actionScript, cycleScript string) error {
	if e.now != PendingUseTicketResponse {
		return nil
	}
	playerIndex := e.state.CurrentTurnIdx
	player := &e.state.Players[playerIndex]
	tile := e.state.Board[player.Position]

	switch tile.Type {
	case TileLuckTest:
		e.now = PendingLuckTestResponse
		if toUse.DoubleLotto > 0 {
			player.Tickets = player.Tickets.Sub(TicketCount{DoubleLotto: 1})
			e.LuckTest(true)
		}
	case TileJail:
		if toUse.ReleaseFromJail > 0 {
			player.Tickets = player.Tickets.Sub(TicketCount{ReleaseFromJail: 1})
			player.RemainingJailTurns = 0
		}
		e.now = EndTurn
	case TileHospital:
		if toUse.FreeHospital > 0 {
			player.Tickets = player.Tickets.Sub(TicketCount{FreeHospital: 1})
		}
		if _, err := e.medicalCare(toUse.FreeHospital > 0); err != nil {
			return err
		}
		e.now = EndTurn
	case TileProperty, TileIndustrialComplex:
		ticket := int64(-1)
		if toUse.FreeProperty > 0 {
			player.Tickets = player.Tickets.Sub(TicketCount{FreeProperty: 1})
			ticket = 1
		}
		return e.runTurnScript(actionScript, nil, cycleScript, ticket)
	case TileTax:
		ticket := int64(-1)
		if toUse.NoTax > 0 {
			player.Tickets = player.Tickets.Sub(TicketCount{NoTax: 1})
			ticket = 1
		}
		return e.runTurnScript(actionScript, nil, cycleScript, ticket)
	}
	return nil
}

// LuckTest plays one round of the jackpot game. A hit seeds or doubles the
// cached jackpot, a miss zeroes it and ends the turn. Repeatable until the
// first miss.
func (e *Engine) LuckTest(initDoubleLotto bool) {
	if e.now == PendingLuckTestResponse && e.state.LuckTestCache != 0 {
		var result int64
		switch {
		case !e.luckRoll():
			result = 0
		case e.state.LuckTestCache < 0:
			if initDoubleLotto {
				result = luckTestBoostedSeed
			} else {
				result = luckTestPlainSeed
			}
		default:
			result = e.state.LuckTestCache * 2
		}
		e.state.LuckTestCache = result
	}
	if e.state.LuckTestCache == 0 {
		e.now = EndTurn
	}
}

// EndTurn finalizes the turn and primes the next player. Zero-building
// ownership entries are purged first, even when the call is otherwise a
// no-op.
func (e *Engine) EndTurn() {
	e.garbageCollect()
	if e.now != EndTurn {
		return
	}
	position := e.state.Players[e.state.CurrentTurnIdx].Position
	isInJail := e.state.Board[position].Type == TileJail
	if !e.state.DiceDouble || isInJail {
		e.state.CurrentTurnIdx = (e.state.CurrentTurnIdx + 1) % len(e.state.Players)
		consumeCounter(&e.state.CatastropheCounter)
		consumeCounter(&e.state.PandemicCounter)
	}
	e.state.DiceDouble = false
	e.logf("--- End of Turn ---")
	e.beforeBeginTurn()
}

func (e *Engine) beforeBeginTurn() {
	done := true
	for _, player := range e.state.Players {
		if player.Cycles < 4 {
			done = false
			break
		}
	}
	player := e.currentPlayer()
	tile := e.state.Board[player.Position]

	switch {
	case done:
		e.logf("The game has ended.")
		e.now = EndGame
	case tile.Type == TileJail && player.RemainingJailTurns > 0:
		e.logf("It is now Player %d's turn.", player.ID)
		e.now = PendingTryToJailbreakResponse
	default:
		e.logf("It is now Player %d's turn.", player.ID)
		e.now = PendingRollResponse
	}
}

// TryToJailbreakByDices frees the player on a double. The turn ends either
// way.
func (e *Engine) TryToJailbreakByDices(dices DicePair) {
	if e.now != PendingTryToJailbreakResponse {
		return
	}
	if dices.IsDouble() {
		e.currentPlayer().RemainingJailTurns = 0
	}
	e.now = EndTurn
}

// GiveUpJailbreak sits the sentence out for one more turn.
func (e *Engine) GiveUpJailbreak() {
	if e.now != PendingTryToJailbreakResponse {
		return
	}
	player := e.currentPlayer()
	if player.RemainingJailTurns > 0 {
		player.RemainingJailTurns--
	}
	e.now = EndTurn
}

// TryToJailbreakByMoney pays the jail tile's bail. Succeeds (and ends the
// turn) only if the player can afford it.
func (e *Engine) TryToJailbreakByMoney() {
	if e.now != PendingTryToJailbreakResponse {
		return
	}
	pos, ok := e.findTileOfType(TileJail)
	if !ok {
		return
	}
	amount := e.state.Board[pos].Amount
	player := e.currentPlayer()
	if player.Money >= amount {
		player.RemainingJailTurns = 0
		player.Money -= amount
		e.now = EndTurn
	}
}

// GetRandomChanceCard draws a uniformly random card id and waits for the
// host to evaluate it.
func (e *Engine) GetRandomChanceCard() {
	if e.now != PendingGetRandomChanceCardResponse {
		return
	}
	if len(e.state.ChanceCards) == 0 {
		return
	}
	ids := make([]string, 0, len(e.state.ChanceCards))
	for id := range e.state.ChanceCards {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	e.pendingChanceCardID = ids[e.pickCard(len(ids))]
	e.now = PendingCheckChanceCardResponse
}

// ResolveFinancialCrisis acknowledges a settled crisis: once the host has
// restored the player to non-negative money (loans, trades), the turn may
// end.
func (e *Engine) ResolveFinancialCrisis() {
	if e.now != PendingFinancialCrisisResponse {
		return
	}
	if e.currentPlayer().Money >= 0 {
		e.logf("Player %d recovered from the financial crisis.", e.currentPlayer().ID)
		e.now = EndTurn
	}
}

func (e *Engine) garbageCollect() {
	for name, own := range e.state.Properties {
		if own.Amount == 0 {
			delete(e.state.Properties, name)
		}
	}
}

func consumeCounter(counter *int) {
	if *counter > 0 {
		*counter--
	}
}
