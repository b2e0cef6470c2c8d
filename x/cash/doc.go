/*
Package cash defines a simple wallet implementation and the funds movement
primitives used by the rest of the application.

Each wallet is keyed by an address and stores a normalized set of coins.
The Controller interface exposes balance lookups and atomic coin movement
between wallets and is consumed by higher level extensions that need to
settle funds.
*/
package cash
