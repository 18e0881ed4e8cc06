package models

// PersonBalance is the net pending position with one counterparty.
type PersonBalance struct {
	PersonName string `json:"person_name"`
	Amount     Money  `json:"amount"` // positive = they owe you, negative = you owe them
	Debts      int    `json:"debts"`
}

// OverallBalanceSummary is returned for GET /api/debts/balances
type OverallBalanceSummary struct {
	TotalOwed  Money           `json:"total_owed"`  // total others owe you
	TotalOwing Money           `json:"total_owing"` // total you owe others
	Persons    []PersonBalance `json:"persons"`
}
