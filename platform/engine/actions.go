package engine

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// applyTileAction interprets the tagged result of a tile-landing script
// and mutates state accordingly. It reports whether the action already
// redirected the player, in which case the caller must skip the generic
// position update. An unresolved situation falls back to EndTurn at the
// caller.
func (e *Engine) applyTileAction(result map[string]interface{}, playerIndex int, wasOwned bool) (bool, error) {
	actionType, err := resultString(result, "type")
	if err != nil {
		return false, err
	}
	log.WithField("action", actionType).Debug("tile action")

	switch actionType {
	case "PromptBuy":
		name, err := resultString(result, "tile_name")
		if err != nil {
			return false, err
		}
		price, err := resultInt(result, "price")
		if err != nil {
			return false, err
		}
		prefix := "unowned "
		if wasOwned {
			prefix = ""
		}
		e.logf("Landed on %s'%s'.", prefix, name)

		player := &e.state.Players[playerIndex]
		freeFlag := optionalBool(result, "free_flag")
		ticketFlag := optionalBool(result, "ticket_flag")
		if !freeFlag && !ticketFlag {
			player.Money -= price
		}

		if player.Money >= e.buildingCost {
			article := "a"
			if wasOwned {
				article = "one more"
			}
			e.logf("Buy %s building for $%d?", article, e.buildingCost)
			e.now = PendingBuyResponse
		} else {
			e.logf("Not enough money to buy.")
		}

	case "PayTax":
		amount, err := resultInt(result, "amount")
		if err != nil {
			return false, err
		}
		player := &e.state.Players[playerIndex]
		player.Money -= amount
		e.state.GovernmentIncome += amount
		e.logf("Player %d Paid $%d in taxes.", player.ID, amount)
		if player.Money < 0 {
			e.promptFinancialCrisis()
		}

	case "Imprison":
		e.logf("Imprisoned!")
		e.now = EndTurn
		return true, nil

	case "WarpToPosition":
		dest, err := e.resultPosition(result, "position")
		if err != nil {
			return false, err
		}
		e.state.Players[playerIndex].Position = dest
		e.logf("Warped to %s!", e.state.Board[dest].Name)
		e.now = EndTurn
		return true, nil

	case "PayTo":
		if err := e.applyPayTo(result, playerIndex); err != nil {
			return false, err
		}
		if e.state.Players[playerIndex].Money < 0 {
			e.promptFinancialCrisis()
		}

	case "PayToAll":
		amount, err := resultInt(result, "amount")
		if err != nil {
			return false, err
		}
		payerID := e.state.Players[playerIndex].ID
		playersCount := int64(len(e.state.Players))
		for i := range e.state.Players {
			if e.state.Players[i].ID == payerID {
				e.state.Players[i].Money -= amount * playersCount
			} else {
				e.state.Players[i].Money += amount
			}
		}
		e.state.GovernmentIncome += amount
		e.logf("Paid $%d per each to other players.", amount)
		if e.state.Players[playerIndex].Money < 0 {
			e.promptFinancialCrisis()
		}

	case "AllEarn":
		// no crisis check here, the windfall cannot bankrupt anyone
		amountUnit, err := resultInt(result, "amount_unit")
		if err != nil {
			return false, err
		}
		triggerID := e.state.Players[playerIndex].ID
		for i := range e.state.Players {
			if e.state.Players[i].ID == triggerID {
				e.state.Players[i].Money += amountUnit * 2
			} else {
				e.state.Players[i].Money += amountUnit
			}
		}
		e.state.GovernmentIncome += amountUnit
		e.now = EndTurn

	case "PromptLuckTest":
		e.now = PendingLuckTestResponse

	case "PromptFinancialCrisis":
		cost, err := resultInt(result, "cost")
		if err != nil {
			return false, err
		}
		e.state.Players[playerIndex].Money -= cost
		e.promptFinancialCrisis()

	case "Educate":
		player := &e.state.Players[playerIndex]
		player.EducationStatus = player.EducationStatus.next()
		e.now = EndTurn

	case "MedicalCare":
		free, err := resultBool(result, "free")
		if err != nil {
			return false, err
		}
		if _, err := e.medicalCare(free); err != nil {
			return false, err
		}

	case "Concert":
		price, err := resultInt(result, "price")
		if err != nil {
			return false, err
		}
		player := &e.state.Players[playerIndex]
		player.Money -= price
		e.state.GovernmentIncome += price / 10
		if player.Money < 0 {
			e.promptFinancialCrisis()
		}

	case "GetRandomChanceCard":
		e.now = PendingGetRandomChanceCardResponse

	case "PromptTicket":
		kind, err := resultString(result, "kind")
		if err != nil {
			return false, err
		}
		e.state.PendingTicket = e.state.PendingTicket.Add(OneTicket(kind))
		if !e.state.PendingTicket.IsZero() {
			e.now = PendingUseTicketResponse
		}

	default:
		// plain log action
		message, err := resultString(result, "message")
		if err != nil {
			return false, err
		}
		e.logf("%s", message)
	}
	return false, nil
}

// applyPayTo handles the shared PayTo vocabulary: any subset of a
// government debit, a market debit (pure sink) and a targeted transfer.
// The transfer only applies when the destination player exists.
func (e *Engine) applyPayTo(result map[string]interface{}, playerIndex int) error {
	message, err := resultString(result, "message")
	if err != nil {
		return err
	}
	e.logf("%s", message)

	payerID := e.state.Players[playerIndex].ID
	if amount, ok := optionalInt(result, "gov_amount"); ok {
		e.state.GovernmentIncome += amount
		e.state.Players[playerIndex].Money -= amount
		e.logf("\tPlayer %d Paid $%d to the government.", payerID, amount)
	}
	if amount, ok := optionalInt(result, "market_amount"); ok {
		e.state.Players[playerIndex].Money -= amount
		e.logf("\tPlayer %d Paid $%d to the market.", payerID, amount)
	}
	amount, okAmount := optionalInt(result, "player_amount")
	pid, okPid := optionalInt(result, "to_player_id")
	if okAmount && okPid {
		if to := e.playerByID(uint32(pid)); to != nil {
			to.Money += amount
			e.state.Players[playerIndex].Money -= amount
			e.logf("\tPlayer %d Paid $%d to Player %d.", payerID, amount, pid)
		}
	}
	return nil
}

func (e *Engine) resultPosition(result map[string]interface{}, key string) (int, error) {
	v, err := resultInt(result, key)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= int64(len(e.state.Board)) {
		return 0, fmt.Errorf("script result: position %d outside board of %d tiles", v, len(e.state.Board))
	}
	return int(v), nil
}
