// Package inventory holds counting helpers for block-id keyed inventories.
package inventory

import "sort"

// MaxStack caps how many of one item a pickup may bring an inventory up to.
const MaxStack = 16

func HasItems(inv map[uint16]int, want map[uint16]int) bool {
	_, _, ok := Missing(inv, want)
	return ok
}

// Missing returns the lowest item id the inventory lacks and the required count.
func Missing(inv map[uint16]int, want map[uint16]int) (item uint16, need int, ok bool) {
	ids := make([]uint16, 0, len(want))
	for id := range want {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if inv[id] < want[id] {
			return id, want[id], false
		}
	}
	return 0, 0, true
}

func DeductItems(inv map[uint16]int, cost map[uint16]int) {
	for item, c := range cost {
		if c <= 0 {
			continue
		}
		inv[item] -= c
		if inv[item] <= 0 {
			delete(inv, item)
		}
	}
}

// AddCapped adds up to n of item without exceeding limit and returns how many were taken.
func AddCapped(inv map[uint16]int, item uint16, n, limit int) int {
	if n <= 0 {
		return 0
	}
	room := limit - inv[item]
	if room <= 0 {
		return 0
	}
	if n > room {
		n = room
	}
	inv[item] += n
	return n
}
