package engine

// Loans run for a fixed term and carry a flat 10% service charge on
// repayment.
const loanTerm = 4

// BorrowMoney opens a loan for a player and credits the principal
// immediately. Non-positive amounts and unknown players are ignored.
// Loan ids count up from the highest outstanding id, so an id is never
// reused while any loan remains open.
func (e *Engine) BorrowMoney(playerID uint32, amount int64) {
	player := e.playerByID(playerID)
	if player == nil || amount <= 0 {
		return
	}
	var nextID uint32
	for _, loan := range player.RemainingLoans {
		if loan.ID >= nextID {
			nextID = loan.ID + 1
		}
	}
	player.RemainingLoans = append(player.RemainingLoans, Loan{
		ID:        nextID,
		Remaining: amount,
		Term:      loanTerm,
	})
	player.Money += amount
}

// RepayLoan pays amount towards a loan plus the 10% service charge.
// Matching no loan is a no-op; a loan repaid to zero or below is purged.
func (e *Engine) RepayLoan(playerID, loanID uint32, amount int64) {
	player := e.playerByID(playerID)
	if player == nil || amount <= 0 {
		return
	}
	for i := range player.RemainingLoans {
		loan := &player.RemainingLoans[i]
		if loan.ID == loanID && loan.Remaining > 0 {
			loan.Remaining -= amount
			player.Money -= amount
			player.Money -= amount / 10
			break
		}
	}
	remaining := player.RemainingLoans[:0]
	for _, loan := range player.RemainingLoans {
		if loan.Remaining > 0 {
			remaining = append(remaining, loan)
		}
	}
	player.RemainingLoans = remaining
}
