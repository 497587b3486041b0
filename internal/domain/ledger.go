package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type ledgerEvent struct {
	at       time.Time
	id       string
	delta    decimal.Decimal
	isCredit bool
}

// ReplayBalance folds a customer's history in commit order and returns the
// balance it implies: credit sales add, standalone payments subtract with a
// floor of zero, companion payments of cash sales are neutral.
func ReplayBalance(transactions []*Transaction, payments []*Payment) decimal.Decimal {
	events := make([]ledgerEvent, 0, len(transactions)+len(payments))
	for _, t := range transactions {
		if t.IsCredit {
			events = append(events, ledgerEvent{at: t.PurchasedAt, id: t.ID, delta: t.TotalAmount, isCredit: true})
		}
	}
	for _, p := range payments {
		if !p.IsCompanion() {
			events = append(events, ledgerEvent{at: p.PaidAt, id: p.ID, delta: p.AmountPaid})
		}
	}

	// Mutations on one customer serialize on its row lock and take their
	// timestamp after acquiring it, so time order is commit order. ULIDs break ties.
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].at.Equal(events[j].at) {
			return events[i].at.Before(events[j].at)
		}
		return events[i].id < events[j].id
	})

	balance := decimal.Zero
	for _, e := range events {
		if e.isCredit {
			balance = balance.Add(e.delta)
		} else {
			balance = floorZero(balance.Sub(e.delta))
		}
	}
	return balance
}
