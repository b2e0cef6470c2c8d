package payroll

import (
	"github.com/payermint/payermint/coin"
	"github.com/payermint/payermint/errors"
)

// percentageBps returns the basis point sum of all active members'
// percentage allocations. Every active member without any allocation set
// contributes unsetBps to the total. Fixed allocations never count.
func percentageBps(members []*Member, unsetBps int64) int64 {
	var total int64
	for _, m := range members {
		if !m.Active {
			continue
		}
		switch {
		case m.Allocation.Percentage != nil:
			total += int64(m.Allocation.Percentage.Bps)
		case m.Allocation.IsUnset():
			total += unsetBps
		}
	}
	return total
}

// validateAddMember ensures the vault can accept the candidate member. The
// check is pure, the caller appends the member only after success. Under the
// percentage policy the candidate share must fit under the unit together
// with the existing active shares. Fixed amounts are admitted without a cap
// and are checked against the balance at payout time instead.
func validateAddMember(v *Vault, candidate *Member) error {
	if existing, _ := v.member(candidate.Wallet); existing != nil {
		return errors.Wrapf(ErrMemberExists, "wallet %q", candidate.Wallet)
	}
	if v.Policy != PercentageOfBalance {
		return nil
	}
	total := percentageBps(v.Members, 0)
	if candidate.Active && candidate.Allocation.Percentage != nil {
		total += int64(candidate.Allocation.Percentage.Bps)
	}
	if total > maxTotalBps {
		return errors.Wrapf(ErrAllocationExceeded, "%d basis points", total)
	}
	return nil
}

// validateEditedRoster re-validates the percentage sum over the whole roster
// after an in-place member replacement. Active members with no allocation
// count as one basis point each in this check.
func validateEditedRoster(v *Vault) error {
	if v.Policy != PercentageOfBalance {
		return nil
	}
	if total := percentageBps(v.Members, 1); total > maxTotalBps {
		return errors.Wrapf(ErrAllocationExceeded, "%d basis points", total)
	}
	return nil
}

// validateBulkAdd ensures the whole batch of candidates can be appended to
// the vault roster. The declared percentage shares of the batch alone must
// fit under the unit and so must the merged roster. Wallets must be unique
// within the batch and against the existing roster. Candidates are appended
// by the caller all at once or not at all.
func validateBulkAdd(v *Vault, candidates []*Member) error {
	var batchTotal int64
	seen := make(map[string]struct{}, len(candidates))
	for i, c := range candidates {
		if c == nil {
			return errors.Wrapf(errors.ErrEmpty, "member %d", i)
		}
		if err := c.Validate(); err != nil {
			return errors.Wrapf(err, "member %d", i)
		}
		key := c.Wallet.String()
		if _, ok := seen[key]; ok {
			return errors.Wrapf(ErrMemberExists, "wallet %q", key)
		}
		seen[key] = struct{}{}
		if existing, _ := v.member(c.Wallet); existing != nil {
			return errors.Wrapf(ErrMemberExists, "wallet %q", key)
		}
		if c.Allocation.Percentage != nil {
			batchTotal += int64(c.Allocation.Percentage.Bps)
		}
	}
	if batchTotal > maxTotalBps {
		return errors.Wrapf(ErrTotalAllocationExceeded, "%d basis points", batchTotal)
	}
	if v.Policy != PercentageOfBalance {
		return nil
	}
	merged := percentageBps(v.Members, 0) + percentageBps(candidates, 0)
	if merged > maxTotalBps {
		return errors.Wrapf(ErrAllocationExceeded, "%d basis points", merged)
	}
	return nil
}

// splitFee cuts the service fee out of the amount. The fee is rounded down,
// the remainder goes into the net value so that fee and net always sum up to
// the full amount.
func splitFee(amount coin.Coin, feeBps uint32) (fee coin.Coin, net coin.Coin, err error) {
	fee, err = amount.Fraction(feeBps)
	if err != nil {
		return fee, net, errors.Wrap(err, "fee")
	}
	net, err = amount.Subtract(fee)
	if err != nil {
		return fee, net, errors.Wrap(err, "net")
	}
	return fee, net, nil
}

// payoutAmount resolves the value of one scheduled payout for the given
// member. A percentage allocation is taken from the current vault balance of
// the asset, a fixed allocation must declare an amount for the asset.
func payoutAmount(m *Member, balance coin.Coins, ticker string) (coin.Coin, error) {
	switch {
	case m.Allocation.Percentage != nil:
		amount, err := balance.Amount(ticker).Fraction(m.Allocation.Percentage.Bps)
		if err != nil {
			return amount, errors.Wrap(err, "percentage of balance")
		}
		return amount, nil
	case m.Allocation.Fixed != nil:
		amount := m.Allocation.Fixed.Amounts.Amount(ticker)
		if amount.IsZero() {
			return amount, errors.Wrapf(ErrInvalidAllocation, "no fixed amount for %q", ticker)
		}
		return amount, nil
	default:
		return coin.Coin{}, errors.Wrap(ErrInvalidAllocation, "member allocation not set")
	}
}
