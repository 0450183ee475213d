/*
shop.go - Purchases and gifts

PURPOSE:
  Purchases debit the effective cost for today (roulette discounts apply
  before the balance check) and append an immutable snapshot record. Gifts
  are admin-granted credits the user accepts at will.
*/
package engine

import (
	"context"
	"sort"
)

// Buy debits an item's effective cost and records the buy. The returned
// receipt carries the price actually paid after today's roulette modifiers.
func (e *Engine) Buy(ctx context.Context, itemID string) (Purchase, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()

	var opErr error
	var receipt Purchase
	if item, ok := e.state.ShopItemByID(itemID); !ok {
		opErr = ErrNotFound
	} else {
		cost := e.effectiveCost(item.ID, item.Cost)
		u := &e.state.User
		if u.Balance < cost {
			opErr = &InsufficientBalanceError{ItemID: item.ID, Cost: cost, Available: u.Balance}
		} else {
			u.Balance -= cost
			receipt = Purchase{
				ItemID:      item.ID,
				Title:       item.Title,
				Cost:        cost,
				PurchasedAt: e.now(),
			}
			u.Purchases = append(u.Purchases, receipt)
			e.log.Info("purchase", "item", item.ID, "cost", cost, "balance", u.Balance)
		}
	}

	if err := e.commit(ctx, prev); err != nil {
		return Purchase{}, err
	}
	return receipt, opErr
}

// Purchases returns the purchase history, most recent first.
func (e *Engine) Purchases(ctx context.Context) ([]Purchase, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	if err := e.commit(ctx, prev); err != nil {
		return nil, err
	}

	list := append([]Purchase{}, e.state.User.Purchases...)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].PurchasedAt.After(list[j].PurchasedAt)
	})
	return list, nil
}

// AcceptGift credits a pending gift and removes it.
func (e *Engine) AcceptGift(ctx context.Context, giftID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()

	opErr := ErrNotFound
	u := &e.state.User
	for i, g := range u.Gifts {
		if g.ID == giftID {
			e.addBalanceWithExtra(e.today(), "Gift: "+g.Title, g.Amount)
			u.Gifts = append(u.Gifts[:i], u.Gifts[i+1:]...)
			opErr = nil
			break
		}
	}

	if err := e.commit(ctx, prev); err != nil {
		return err
	}
	return opErr
}
