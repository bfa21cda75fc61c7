package engine

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// CheckChanceCard evaluates the drawn card's rule script against the
// acting player's holdings and applies the resulting action. payloadJSON
// optionally carries caller data into the script (empty object when
// absent). Unknown action tags leave the situation untouched.
func (e *Engine) CheckChanceCard(chanceScript, cycleScript, payloadJSON string) error {
	if e.now != PendingCheckChanceCardResponse || e.pendingChanceCardID == "" {
		return nil
	}
	playerIndex := e.state.CurrentTurnIdx
	player := &e.state.Players[playerIndex]

	payload := map[string]interface{}{}
	if payloadJSON != "" {
		if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
			return fmt.Errorf("parse payload: %w", err)
		}
	}

	mine, others := e.partitionProperties(player.ID)
	var myHouses int64
	for name, amount := range mine {
		if tile, ok := e.tileByName(name); ok && tile.Type == TileProperty {
			myHouses += amount
		}
	}

	result, err := e.evalScript(chanceScript, map[string]interface{}{
		"card_id":            e.pendingChanceCardID,
		"payload":            payload,
		"my_properties":      mine,
		"my_houses_countsum": myHouses,
		"others_properties":  others,
		"player_money":       player.Money,
	})
	if err != nil {
		return err
	}

	actionType, err := resultString(result, "type")
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"card": e.pendingChanceCardID, "action": actionType}).Debug("chance card")

	switch actionType {
	case "Earn":
		amount, err := resultInt(result, "amount")
		if err != nil {
			return err
		}
		player.Money += amount
		e.now = EndTurn

	case "Earthquake":
		// one building shaken off each of the acting player's stacked
		// properties; single-building and foreign holdings stand
		for name, own := range e.state.Properties {
			if own.OwnerID == player.ID && own.Amount > 1 {
				own.Amount--
				e.state.Properties[name] = own
			}
		}
		e.now = EndTurn

	case "GoToJail":
		pos, ok := e.findTileOfType(TileJail)
		if !ok {
			return fmt.Errorf("no %s tile on board", TileJail)
		}
		player.Position = pos
		e.logf("Sent to Jail!")
		e.now = EndTurn

	case "GoToHospital":
		pos, ok := e.findTileOfType(TileHospital)
		if !ok {
			return fmt.Errorf("no %s tile on board", TileHospital)
		}
		player.Position = pos
		if player.Tickets.FreeHospital > 0 {
			e.now = PendingUseTicketResponse
		} else {
			ok, err := e.medicalCare(false)
			if err != nil {
				return err
			}
			if !ok {
				e.now = EndGame
			}
		}

	case "GoToUniversity":
		pos, ok := e.findTileOfType(TileUniversity)
		if !ok {
			return fmt.Errorf("no %s tile on board", TileUniversity)
		}
		player.Position = pos
		e.logf("Sent to University!")
		player.EducationStatus = player.EducationStatus.next()
		e.now = EndTurn

	case "GetTicket":
		kind, err := resultString(result, "kind")
		if err != nil {
			return err
		}
		player.Tickets = player.Tickets.Add(OneTicket(kind))
		e.now = EndTurn

	case "TwistOfFate":
		diceA, err := resultInt(result, "dice_a")
		if err != nil {
			return err
		}
		diceB, err := resultInt(result, "dice_b")
		if err != nil {
			return err
		}
		target := (playerIndex + int(diceA) + int(diceB)) % len(e.state.Players)
		if e.swapAllProperties(playerIndex, target) {
			e.now = EndTurn
		}

	case "PayTo":
		if err := e.applyPayTo(result, playerIndex); err != nil {
			return err
		}
		if e.state.Players[playerIndex].Money < 0 {
			e.promptFinancialCrisis()
		} else {
			e.now = EndTurn
		}

	case "WarpToPosition":
		dest, err := e.resultPosition(result, "position")
		if err != nil {
			return err
		}
		player.Position = dest
		e.logf("Warped to %s!", e.state.Board[dest].Name)
		e.now = EndTurn

	case "TravelToPosition":
		dest, err := e.resultPosition(result, "position")
		if err != nil {
			return err
		}
		oldPos := player.Position
		player.Position = dest
		e.logf("Traveled to %s!", e.state.Board[dest].Name)
		if oldPos >= dest {
			if err := e.triggerCycle(cycleScript); err != nil {
				return err
			}
		}
		e.now = EndTurn

	case "DestructOnePerEach":
		targets, err := resultStrings(result, "targets")
		if err != nil {
			return err
		}
		for _, name := range targets {
			if own, ok := e.state.Properties[name]; ok && own.Amount > 0 {
				own.Amount--
				e.state.Properties[name] = own
			}
		}
		e.now = EndTurn

	case "Pandemic":
		e.state.PandemicCounter += len(e.state.Players) + 1
		e.now = EndTurn

	case "Catastrophe":
		e.state.CatastropheCounter += len(e.state.Players) + 1
		e.now = EndTurn

	case "FreeConstruction":
		target, err := resultString(result, "target")
		if err != nil {
			return err
		}
		if own, ok := e.state.Properties[target]; ok && own.OwnerID == player.ID && own.Amount < e.maxBuildings() {
			own.Amount++
			e.state.Properties[target] = own
			e.now = EndTurn
		}

	case "GoToPayElectricityFee":
		usingTicket, err := resultBool(result, "using_ticket")
		if err != nil {
			return err
		}
		pos, ok := e.findTileOfType(TileElectricity)
		if !ok {
			return fmt.Errorf("no %s tile on board", TileElectricity)
		}
		player.Position = pos
		e.logf("Sent to Electricity!")
		if usingTicket && player.Tickets.NoTax > 0 {
			player.Tickets = player.Tickets.Sub(TicketCount{NoTax: 1})
		} else {
			player.Money -= e.state.Board[pos].Amount
		}
		if player.Money < 0 {
			e.promptFinancialCrisis()
		} else {
			e.now = EndTurn
		}

	case "GraduateNow":
		player.EducationStatus = Graduated
		e.now = EndTurn

	case "PropertySwap":
		toGet, err := resultString(result, "to_get")
		if err != nil {
			return err
		}
		toGive, err := resultString(result, "to_give")
		if err != nil {
			return err
		}
		if err := e.propertySwap(toGive, toGet); err != nil {
			return err
		}
		e.now = EndTurn

	case "NOP":
		e.now = EndTurn
	}
	return nil
}

func (e *Engine) tileByName(name string) (Tile, bool) {
	for _, tile := range e.state.Board {
		if tile.Name == name {
			return tile, true
		}
	}
	return Tile{}, false
}

// partitionProperties splits the ownership table into the player's own
// holdings and everyone else's, as name -> building amount.
func (e *Engine) partitionProperties(playerID uint32) (mine, others map[string]int64) {
	mine = map[string]int64{}
	others = map[string]int64{}
	for name, own := range e.state.Properties {
		if own.OwnerID == playerID {
			mine[name] = own.Amount
		} else {
			others[name] = own.Amount
		}
	}
	return mine, others
}

// propertySwap trades the owners of two named properties unconditionally.
func (e *Engine) propertySwap(toGive, toGet string) error {
	give, ok := e.state.Properties[toGive]
	if !ok {
		return fmt.Errorf("property %q is not owned by anyone", toGive)
	}
	get, ok := e.state.Properties[toGet]
	if !ok {
		return fmt.Errorf("property %q is not owned by anyone", toGet)
	}
	give.OwnerID, get.OwnerID = get.OwnerID, give.OwnerID
	e.state.Properties[toGive] = give
	e.state.Properties[toGet] = get
	return nil
}

// swapAllProperties trades every standing property between two seats.
// Same seat is a no-op.
func (e *Engine) swapAllProperties(aTurnIdx, bTurnIdx int) bool {
	if aTurnIdx == bTurnIdx {
		return false
	}
	aID := e.state.Players[aTurnIdx].ID
	bID := e.state.Players[bTurnIdx].ID
	for name, own := range e.state.Properties {
		if own.Amount <= 0 {
			continue
		}
		switch own.OwnerID {
		case aID:
			own.OwnerID = bID
		case bID:
			own.OwnerID = aID
		default:
			continue
		}
		e.state.Properties[name] = own
	}
	return true
}
