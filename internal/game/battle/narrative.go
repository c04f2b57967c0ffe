package battle

import "fmt"

func startLine(a, b *Combatant) string {
	return fmt.Sprintf("Battle between %s (%s) - %d HP and %s (%s) - %d HP begins!",
		a.Name, a.Job, a.CurrentHP, b.Name, b.Job, b.CurrentHP)
}

// roundLine renders the round header. The wording is fixed, so a round whose
// order was settled by a coin flip still reads "faster" while printing two
// equal speeds; Round.CoinFlip records that case.
func roundLine(r Round) string {
	return fmt.Sprintf("%s's speed (%d) was faster than %s's speed (%d) and will begin this round.",
		r.FirstName, r.FirstSpeed, r.SecondName, r.SecondSpeed)
}

func attackLine(t Turn) string {
	return fmt.Sprintf("%s attacks %s for %d damage, %s has %d HP remaining.",
		t.AttackerName, t.DefenderName, t.Damage, t.DefenderName, t.RemainingHP)
}

func winLine(winner *Combatant) string {
	return fmt.Sprintf("%s wins the battle! %s still has %d HP remaining!",
		winner.Name, winner.Name, winner.CurrentHP)
}
