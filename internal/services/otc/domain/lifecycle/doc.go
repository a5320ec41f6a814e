// Package lifecycle decides escrow operations against loaded state.
//
// Deciders are pure: they read a deal, the configuration and the attached
// funds, validate in a fixed order where the first failure wins, and return a
// Decision describing the new deal state, the coins entering custody and the
// transfers custody must release. They never touch storage or move funds.
package lifecycle
