/*
Package payroll implements a fund custody and payroll distribution engine.

Funds are held in vaults. Each vault belongs to a single owner and keeps a
roster of members, a whitelist of accepted assets, an allocation policy and
an optional payout schedule. Deposits move coins from the depositor's wallet
to the vault account and payouts release them again, splitting off a service
fee that is routed to the treasury configured for this package.

Payouts can be requested directly against a payroll batch, resolved from a
member's allocation on a schedule, or processed in bulk. A batch records one
payout run and rejects any further processing once finalized.
*/
package payroll
