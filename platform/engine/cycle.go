package engine

import "fmt"

// triggerCycle runs the payday computation after a board wrap (or a
// lap-completing travel). The cycle script decides how the treasury,
// the acting player's salary remainder and the universal basic income
// split up.
func (e *Engine) triggerCycle(cycleScript string) error {
	playerIndex := e.state.CurrentTurnIdx
	player := &e.state.Players[playerIndex]
	player.Cycles++

	var sumOfAllTaxes int64
	for _, tile := range e.state.Board {
		switch tile.Type {
		case TileInfrastructure:
			sumOfAllTaxes += tile.Amount
		case TileHospital:
			sumOfAllTaxes += tile.Amount / 2
		}
	}

	result, err := e.evalScript(cycleScript, map[string]interface{}{
		"salary":            e.salary,
		"government_income": e.state.GovernmentIncome,
		"sum_of_all_taxes":  sumOfAllTaxes,
		"money":             player.Money,
		"is_graduated":      player.EducationStatus == Graduated,
		"has_bonus":         player.Tickets.Bonus > 0,
	})
	if err != nil {
		return err
	}

	newGovernmentIncome, err := resultInt(result, "new_government_income")
	if err != nil {
		return err
	}
	remainingSalary, err := resultInt(result, "remaining_salary")
	if err != nil {
		return err
	}
	basicIncome, err := resultInt(result, "basic_income")
	if err != nil {
		return err
	}

	e.state.GovernmentIncome = newGovernmentIncome
	player.Money += remainingSalary
	for i := range e.state.Players {
		e.state.Players[i].Money += basicIncome
	}
	if player.Tickets.Bonus > 0 {
		e.state.PendingTicket = e.state.PendingTicket.Sub(TicketCount{Bonus: 1})
	}
	return nil
}

// medicalCare admits the acting player to the hospital. The fee is half
// the hospital tile's amount; the treasury absorbs the same cost as a
// subsidy, clamping at zero, and whatever part of the subsidy the
// treasury cannot cover lands on a charged player. Reports whether the
// player stayed out of financial crisis.
func (e *Engine) medicalCare(free bool) (bool, error) {
	pos, ok := e.findTileOfType(TileHospital)
	if !ok {
		return false, fmt.Errorf("no %s tile on board", TileHospital)
	}
	cost := e.state.Board[pos].Amount / 2
	player := e.currentPlayer()

	e.logf("Sent to Hospital!")

	subsidized := e.state.GovernmentIncome - cost
	if !free {
		player.Money -= cost
	}
	if subsidized < 0 {
		e.state.GovernmentIncome = 0
		if !free {
			player.Money += subsidized
		}
	} else {
		e.state.GovernmentIncome = subsidized
	}

	crisis := player.Money < 0
	if crisis {
		e.promptFinancialCrisis()
	}
	return !crisis, nil
}
