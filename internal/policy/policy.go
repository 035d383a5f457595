// Package policy holds the authorization rules for every operation.
// Each check returns nil when allowed, or a domain error wrapping
// ErrUnauthenticated (no identity) or ErrForbidden (identity lacks rights).
package policy

import "inventory_sales/internal/domain"

// Authenticated requires an identity.
func Authenticated(u *domain.User) error {
	if u == nil {
		return domain.Unauthenticated("authentication required")
	}
	return nil
}

// Seller requires an identity with the seller capability. Catalog writes,
// payment method writes and identity management all go through it.
func Seller(u *domain.User) error {
	if err := Authenticated(u); err != nil {
		return err
	}
	if !u.IsSeller {
		return domain.Forbidden("seller access required")
	}
	return nil
}

// CreateSale checks who may record a sale between sellerID and buyerID.
// A seller may only record sales attributed to itself; a client that is not
// a seller may only record purchases made by itself.
func CreateSale(u *domain.User, sellerID, buyerID uint) error {
	if err := Authenticated(u); err != nil {
		return err
	}
	switch {
	case u.IsSeller:
		if u.ID != sellerID {
			return domain.Forbidden("cannot act as another seller")
		}
	case u.IsClient:
		if u.ID != buyerID {
			return domain.Forbidden("cannot buy on behalf of another client")
		}
	default:
		return domain.Forbidden("seller or client access required")
	}
	return nil
}

// ViewSale allows the sale's seller or buyer, and nobody else, not even other sellers.
func ViewSale(u *domain.User, s *domain.Sale) error {
	if err := Authenticated(u); err != nil {
		return err
	}
	if !s.HasParticipant(u.ID) {
		return domain.Forbidden("not a participant of this sale")
	}
	return nil
}

// ModifySale additionally requires the seller capability.
func ModifySale(u *domain.User, s *domain.Sale) error {
	if err := ViewSale(u, s); err != nil {
		return err
	}
	if !u.IsSeller {
		return domain.Forbidden("seller access required")
	}
	return nil
}
