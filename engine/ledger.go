/*
ledger.go - Balance mutations and the history-extras audit trail

PURPOSE:
  The balance is one clamped integer; the extras map is the append-only
  audit trail the day/month reports and the replay engine read back. A
  delta that should appear in reporting is recorded through both.

INVARIANTS:
  - addBalance never produces a negative balance (floor at zero)
  - extras are append-only, keyed by the date they belong to
*/
package engine

// addBalance applies a delta with a zero floor. The delta is applied in
// full; only the resulting balance is clamped.
func (e *Engine) addBalance(delta int) {
	u := &e.state.User
	u.Balance = max(0, u.Balance+delta)
	e.log.Debug("balance adjusted", "delta", delta, "balance", u.Balance)
}

// addExtra appends an audit entry for a date. It does not move the balance.
func (e *Engine) addExtra(d Date, label string, points int) {
	key := d.Key()
	e.state.User.Extras[key] = append(e.state.User.Extras[key], Entry{Label: label, Points: points})
}

// addBalanceWithExtra records a reported balance change: both the clamped
// balance delta and the audit entry.
func (e *Engine) addBalanceWithExtra(d Date, label string, delta int) {
	e.addBalance(delta)
	e.addExtra(d, label, delta)
}

// awardTaskReward pays a task's daily reward, doubling it when today's
// roulette picked this task. The doubling surplus is recorded as an extra
// so replay reproduces it.
func (e *Engine) awardTaskReward(taskID string, base int) {
	if e.rouletteDoublesTask(taskID) {
		e.addBalance(base * 2)
		e.addExtra(e.today(), "Roulette bonus: "+e.state.taskTitle(taskID), base)
		return
	}
	e.addBalance(base)
}
