// Package deal defines the escrow deal record and the value types it is built
// from: amounts, coins, addresses, status and the engine configuration.
//
// Deals are stored from the creator's perspective. DenomIn/AmountIn is what the
// creator placed in custody; DenomOut/AmountOut is what the creator demands in
// return. A deal never changes after creation except for its Status.
package deal
