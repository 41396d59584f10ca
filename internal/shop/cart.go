// Package shop holds the client-side shopping cart and its cookie encoding.
package shop

import (
	"encoding/base64"
	"encoding/json"
	"slices"

	"github.com/google/uuid"
)

// CookieName is the cookie that carries the cart between requests.
const CookieName = "cart"

// Cart maps consumable ids to desired quantities. Quantities are always positive;
// a line that drops to zero is removed.
type Cart map[uuid.UUID]int

// Add increments the quantity of id by one.
func (c Cart) Add(id uuid.UUID) {
	c[id]++
}

// Remove decrements the quantity of id by one, deleting the line at zero.
func (c Cart) Remove(id uuid.UUID) {
	if c[id] > 1 {
		c[id]--
		return
	}
	delete(c, id)
}

// Set replaces the quantity of id; qty <= 0 deletes the line.
func (c Cart) Set(id uuid.UUID, qty int) {
	if qty <= 0 {
		delete(c, id)
		return
	}
	c[id] = qty
}

// Empty reports whether the cart has no lines.
func (c Cart) Empty() bool {
	return len(c) == 0
}

// IDs returns the consumable ids in a deterministic order.
func (c Cart) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ids
}

// Clone returns an independent copy.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, qty := range c {
		out[id] = qty
	}
	return out
}

// Normalize drops lines with non-positive quantities.
func (c Cart) Normalize() Cart {
	for id, qty := range c {
		if qty <= 0 {
			delete(c, id)
		}
	}
	return c
}

// Encode renders the cart as a cookie-safe value: the JSON object, base64url encoded.
func (c Cart) Encode() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Decode parses a cookie value. Missing or corrupt values yield an empty cart.
func Decode(value string) Cart {
	cart := Cart{}
	if value == "" {
		return cart
	}
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return cart
	}
	if err := json.Unmarshal(raw, &cart); err != nil {
		return Cart{}
	}
	return cart.Normalize()
}
