package models

// BetStake is what every losing participant of a reaction bet pays
const BetStake int64 = 100

// BetOutcome describes how a settled bet moved money
type BetOutcome struct {
	BetID           string
	Name            string
	WinnerIDs       []int64
	LoserIDs        []int64
	RewardPerWinner int64
	TotalLost       int64
}

// BalanceChange records a single balance mutation
type BalanceChange struct {
	UserID     int64
	OldBalance int64
	NewBalance int64
}

// Delta returns the signed amount of the change
func (c BalanceChange) Delta() int64 {
	return c.NewBalance - c.OldBalance
}
