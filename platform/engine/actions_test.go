package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayTax(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "PayTax", amount = tile.amount }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 2}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney-100000, e.state.Players[0].Money)
	assert.Equal(t, int64(100000), e.state.GovernmentIncome)
	assert.Equal(t, EndTurn, e.Situation())
}

func TestPayTaxIntoCrisis(t *testing.T) {
	e := newTestEngine(t, 2)
	e.state.Players[0].Money = 50000
	script := `return { type = "PayTax", amount = tile.amount }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 2}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, int64(-50000), e.state.Players[0].Money)
	assert.Equal(t, PendingFinancialCrisisResponse, e.Situation())
}

func TestPayToGovernment(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "PayTo", gov_amount = 150000, message = "Maintenance fee." }`

	err := e.RunTurnScript(script, DicePair{A: 3, B: 4}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney-150000, e.state.Players[0].Money)
	assert.Equal(t, int64(150000), e.state.GovernmentIncome)
	assert.Contains(t, e.state.Log, "Maintenance fee.")
	assert.Equal(t, EndTurn, e.Situation())
}

func TestPayToPlayer(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "PayTo", player_amount = 120000, to_player_id = 2, message = "Rent." }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 0}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney-120000, e.state.Players[0].Money)
	assert.Equal(t, testInitialMoney+120000, e.state.Players[1].Money)
	assert.Equal(t, int64(0), e.state.GovernmentIncome)
}

func TestPayToUnknownPlayerIsSkipped(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "PayTo", player_amount = 120000, to_player_id = 9, message = "Rent." }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 0}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney, e.state.Players[0].Money)
	assert.Equal(t, testInitialMoney, e.state.Players[1].Money)
}

func TestPayToMarketIsAPureSink(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "PayTo", market_amount = 70000, message = "Bills." }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 0}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney-70000, e.state.Players[0].Money)
	assert.Equal(t, int64(0), e.state.GovernmentIncome)
	assert.Equal(t, testInitialMoney, e.state.Players[1].Money)
}

func TestPayToAll(t *testing.T) {
	e := newTestEngine(t, 3)
	script := `return { type = "PayToAll", amount = 50000 }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 0}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney-150000, e.state.Players[0].Money)
	assert.Equal(t, testInitialMoney+50000, e.state.Players[1].Money)
	assert.Equal(t, testInitialMoney+50000, e.state.Players[2].Money)
	assert.Equal(t, int64(50000), e.state.GovernmentIncome)
	assert.Equal(t, EndTurn, e.Situation())
}

func TestAllEarnDoublesForTheTrigger(t *testing.T) {
	e := newTestEngine(t, 3)
	script := `return { type = "AllEarn", amount_unit = 100000 }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 0}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney+200000, e.state.Players[0].Money)
	assert.Equal(t, testInitialMoney+100000, e.state.Players[1].Money)
	assert.Equal(t, testInitialMoney+100000, e.state.Players[2].Money)
	assert.Equal(t, int64(100000), e.state.GovernmentIncome)
	assert.Equal(t, EndTurn, e.Situation())
}

func TestEducateAdvancesOneStep(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "Educate" }`

	err := e.RunTurnScript(script, DicePair{A: 2, B: 4}, idleCycleScript)
	require.NoError(t, err)
	assert.Equal(t, Undergraduated, e.state.Players[0].EducationStatus)

	e.now = PendingRollResponse
	err = e.RunTurnScript(script, DicePair{}, idleCycleScript)
	require.NoError(t, err)
	assert.Equal(t, Graduated, e.state.Players[0].EducationStatus)

	e.now = PendingRollResponse
	err = e.RunTurnScript(script, DicePair{}, idleCycleScript)
	require.NoError(t, err)
	assert.Equal(t, Graduated, e.state.Players[0].EducationStatus)
}

func TestConcertFeedsTheTreasuryATenth(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "Concert", price = 300000 }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 0}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney-300000, e.state.Players[0].Money)
	assert.Equal(t, int64(30000), e.state.GovernmentIncome)
	assert.Equal(t, EndTurn, e.Situation())
}

func TestMedicalCareChargesHalfTheHospitalAmount(t *testing.T) {
	e := newTestEngine(t, 2)
	e.state.GovernmentIncome = 500000
	script := `return { type = "MedicalCare", free = false }`

	err := e.RunTurnScript(script, DicePair{A: 2, B: 3}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney-150000, e.state.Players[0].Money)
	assert.Equal(t, int64(350000), e.state.GovernmentIncome)
	assert.Equal(t, EndTurn, e.Situation())
}

func TestMedicalCareShortfallLandsOnThePlayer(t *testing.T) {
	e := newTestEngine(t, 2)
	e.state.GovernmentIncome = 100000
	script := `return { type = "MedicalCare", free = false }`

	err := e.RunTurnScript(script, DicePair{A: 2, B: 3}, idleCycleScript)
	require.NoError(t, err)

	// fee 150000 plus the 50000 the treasury could not subsidize
	assert.Equal(t, testInitialMoney-200000, e.state.Players[0].Money)
	assert.Equal(t, int64(0), e.state.GovernmentIncome)
}

func TestMedicalCareFreeLeavesAPoorTreasuryAlone(t *testing.T) {
	e := newTestEngine(t, 2)
	e.state.GovernmentIncome = 100000
	script := `return { type = "MedicalCare", free = true }`

	err := e.RunTurnScript(script, DicePair{A: 2, B: 3}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney, e.state.Players[0].Money)
	assert.Equal(t, int64(0), e.state.GovernmentIncome)
}

func TestPromptFinancialCrisisAction(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "PromptFinancialCrisis", cost = 1500000 }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 0}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, testInitialMoney-1500000, e.state.Players[0].Money)
	assert.Equal(t, PendingFinancialCrisisResponse, e.Situation())
}

func TestPromptLuckTestAction(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "PromptLuckTest" }`

	err := e.RunTurnScript(script, DicePair{A: 4, B: 4}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, 8, e.CurrentPosition())
	assert.Equal(t, PendingLuckTestResponse, e.Situation())
}

func TestGetRandomChanceCardAction(t *testing.T) {
	e := newTestEngine(t, 2)
	script := `return { type = "GetRandomChanceCard" }`

	err := e.RunTurnScript(script, DicePair{A: 5, B: 6}, idleCycleScript)
	require.NoError(t, err)

	assert.Equal(t, 11, e.CurrentPosition())
	assert.Equal(t, PendingGetRandomChanceCardResponse, e.Situation())
}

func TestMalformedResultKeepsEarlierMutations(t *testing.T) {
	e := newTestEngine(t, 2)
	e.state.Players[0].Position = 10
	cycle := `return { type = "Cycle", new_government_income = government_income, remaining_salary = salary, basic_income = 0 }`
	script := `return { type = "PayTax" }`

	err := e.RunTurnScript(script, DicePair{A: 1, B: 2}, cycle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"amount"`)

	// the lap payout before the failing action stays applied
	assert.Equal(t, 1, e.state.Players[0].Cycles)
	assert.Equal(t, testInitialMoney+testSalary, e.state.Players[0].Money)
}

func TestScriptNotReturningATableFails(t *testing.T) {
	e := newTestEngine(t, 2)

	err := e.RunTurnScript(`return 42`, DicePair{A: 1, B: 0}, idleCycleScript)
	assert.Error(t, err)
}

func TestUnknownActionRequiresMessage(t *testing.T) {
	e := newTestEngine(t, 2)

	err := e.RunTurnScript(`return { type = "Serenade" }`, DicePair{A: 1, B: 0}, idleCycleScript)
	assert.Error(t, err)
}
