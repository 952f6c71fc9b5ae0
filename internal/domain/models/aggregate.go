package models

import "github.com/shopspring/decimal"

// GroupTotal is the summed amount for one group key.
type GroupTotal struct {
	Key   string
	Total decimal.Decimal
}

// Aggregate is an ordered list of group totals, largest first.
//
// Groups with equal totals keep the order in which they were first seen.
type Aggregate []GroupTotal

// Sum adds every group total.
func (a Aggregate) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, g := range a {
		sum = sum.Add(g.Total)
	}
	return sum
}

// Keys lists the group keys in result order.
func (a Aggregate) Keys() []string {
	keys := make([]string, len(a))
	for i, g := range a {
		keys[i] = g.Key
	}
	return keys
}

// Get returns the total for key.
func (a Aggregate) Get(key string) (decimal.Decimal, bool) {
	for _, g := range a {
		if g.Key == key {
			return g.Total, true
		}
	}
	return decimal.Zero, false
}
