package policy

import (
	"testing"

	"inventory_sales/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestCreateSale(t *testing.T) {
	seller := &domain.User{ID: 1, IsSeller: true}
	client := &domain.User{ID: 2, IsClient: true}
	both := &domain.User{ID: 3, IsSeller: true, IsClient: true}
	nobody := &domain.User{ID: 4}

	require.ErrorIs(t, CreateSale(nil, 1, 2), domain.ErrUnauthenticated)

	require.NoError(t, CreateSale(seller, 1, 2))
	require.ErrorIs(t, CreateSale(seller, 9, 2), domain.ErrForbidden)

	require.NoError(t, CreateSale(client, 1, 2))
	require.ErrorIs(t, CreateSale(client, 1, 9), domain.ErrForbidden)

	// The seller rule wins for identities holding both flags
	require.NoError(t, CreateSale(both, 3, 9))
	require.ErrorIs(t, CreateSale(both, 1, 3), domain.ErrForbidden)

	require.ErrorIs(t, CreateSale(nobody, 1, 4), domain.ErrForbidden)
}

func TestSaleAccess(t *testing.T) {
	sale := &domain.Sale{SellerID: 1, BuyerID: 2}
	seller := &domain.User{ID: 1, IsSeller: true}
	buyer := &domain.User{ID: 2, IsClient: true}
	otherSeller := &domain.User{ID: 5, IsSeller: true}

	require.NoError(t, ViewSale(seller, sale))
	require.NoError(t, ViewSale(buyer, sale))
	require.ErrorIs(t, ViewSale(otherSeller, sale), domain.ErrForbidden)
	require.ErrorIs(t, ViewSale(nil, sale), domain.ErrUnauthenticated)

	require.NoError(t, ModifySale(seller, sale))
	require.ErrorIs(t, ModifySale(buyer, sale), domain.ErrForbidden)
	require.ErrorIs(t, ModifySale(otherSeller, sale), domain.ErrForbidden)
}

func TestSeller(t *testing.T) {
	require.ErrorIs(t, Seller(nil), domain.ErrUnauthenticated)
	require.ErrorIs(t, Seller(&domain.User{ID: 1, IsClient: true}), domain.ErrForbidden)
	require.NoError(t, Seller(&domain.User{ID: 1, IsSeller: true}))
}
