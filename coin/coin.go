package coin

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/payermint/payermint/errors"
)

// IsCC is the RegExp to ensure valid currency codes
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

const (
	// MaxAmount is the largest amount value we accept
	MaxAmount int64 = 1<<62 - 1
	// MinAmount is the lowest amount value we accept
	MinAmount = -MaxAmount

	// FeeDenominator is the divisor used when computing a basis point
	// fraction of an amount. 10000 basis points represent the whole.
	FeeDenominator int64 = 10000
)

// Coin is an amount of a single currency. Amounts are always expressed in
// the smallest indivisible unit of the currency, so there is no fractional
// part and integer arithmetic is exact.
type Coin struct {
	// Ticker is a 3-4 letter currency code.
	Ticker string `json:"ticker"`
	// Amount is the number of base units.
	Amount int64 `json:"amount"`
}

// NewCoin creates a new coin object
func NewCoin(amount int64, ticker string) Coin {
	return Coin{
		Ticker: ticker,
		Amount: amount,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount int64, ticker string) *Coin {
	c := NewCoin(amount, ticker)
	return &c
}

// ID returns a coin ticker name.
func (c Coin) ID() string {
	return c.Ticker
}

// Add combines two coins. Returns error if they are of different currencies,
// or if the combination would cause an overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	// If any of the coins represents no value and does not have a ticker
	// set then it has no influence on the addition result.
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}

	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", c.Ticker, o.Ticker)
	}

	amount, err := add64(c.Amount, o.Amount)
	if err != nil {
		return Coin{}, err
	}
	c.Amount = amount
	return c, nil
}

// Negative returns the opposite coins value
//   c.Add(c.Negative()).IsZero() == true
func (c Coin) Negative() Coin {
	return Coin{
		Ticker: c.Ticker,
		Amount: -c.Amount,
	}
}

// Subtract given amount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Multiply returns the result of a coin value multiplication. This method can
// fail if the result would overflow maximum coin value.
func (c Coin) Multiply(times int64) (Coin, error) {
	amount, err := mul64(c.Amount, times)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: amount}, nil
}

// Fraction returns the given basis point fraction of this coin value,
// rounded down. 10000 basis points represent the full value. Computation
// never overflows for any valid coin value.
func (c Coin) Fraction(bps uint32) (Coin, error) {
	if bps > uint32(FeeDenominator) {
		return Coin{}, errors.Wrapf(errors.ErrInput, "%d basis points exceeds the unit", bps)
	}
	if c.Amount < 0 {
		return Coin{}, errors.Wrap(errors.ErrAmount, "negative value")
	}

	// Split the value to keep the intermediate product within int64
	// bounds. bps is at most 10^4 so both products stay small enough.
	q, r := c.Amount/FeeDenominator, c.Amount%FeeDenominator
	whole, err := mul64(q, int64(bps))
	if err != nil {
		return Coin{}, err
	}
	amount, err := add64(whole, r*int64(bps)/FeeDenominator)
	if err != nil {
		return Coin{}, err
	}
	return Coin{Ticker: c.Ticker, Amount: amount}, nil
}

// Compare will check values of two coins, without inspecting the currency
// code. It is up to the caller to determine if they want to check this.
//
// Returns 1 if c is larger, -1 if o is larger, 0 if equal
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount > o.Amount:
		return 1
	case c.Amount < o.Amount:
		return -1
	default:
		return 0
	}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Ticker == o.Ticker && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true if the amount is 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsNonNegative returns true if the value is 0 or higher
func (c Coin) IsNonNegative() bool {
	return c.Amount >= 0
}

// IsGTE returns true if c is same type and at least as large as o.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Amount >= o.Amount
}

// SameType returns true if they have the same currency
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	return &Coin{
		Ticker: c.Ticker,
		Amount: c.Amount,
	}
}

// Validate ensures that the coin is in the valid range and has a valid
// currency code. It accepts negative values, so you may want to make other
// checks in your business logic.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker))
	}
	if c.Amount < MinAmount || c.Amount > MaxAmount {
		err = errors.Append(err, errors.ErrOverflow)
	}
	return err
}

func (c *Coin) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format that is a string in format
	// "<amount> <ticker>"
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Fallback into the default unmarshaling. Because UnmarshalJSON method
	// is provided, we can no longer use Coin type for this.
	var coin struct {
		Ticker string
		Amount int64
	}
	if err := json.Unmarshal(raw, &coin); err != nil {
		return err
	}
	c.Ticker = coin.Ticker
	c.Amount = coin.Amount
	return nil
}

// String provides a human readable representation of the coin. For a valid
// coin the result can be parsed back using the human readable format parser.
func (c Coin) String() string {
	if c.Ticker == "" {
		return strconv.FormatInt(c.Amount, 10)
	}
	return fmt.Sprintf("%d %s", c.Amount, c.Ticker)
}

// ParseHumanFormat parse a human readable coin representation. Accepted
// format is a string:
//   "<amount> <ticker>"
func ParseHumanFormat(h string) (Coin, error) {
	results := humanCoinFormatRx.FindStringSubmatch(h)
	if results == nil {
		return Coin{}, errors.Wrap(errors.ErrInput, "invalid format")
	}

	amount, err := strconv.ParseInt(results[1]+results[2], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid amount: %s", err)
	}

	return Coin{
		Ticker: results[3],
		Amount: amount,
	}, nil
}

var humanCoinFormatRx = regexp.MustCompile(`^(\-?)\s*(\d+)\s*([A-Z]{3,4})$`)

// Set updates this coin value to what is provided. This method implements
// flag.Value interface.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

// add64 adds two int64 numbers. If the result overflows the int64 range the
// ErrOverflow is returned.
func add64(a, b int64) (int64, error) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, errors.ErrOverflow
	}
	return c, nil
}

// mul64 multiplies two int64 numbers. If the result overflows the int64 size
// the ErrOverflow is returned.
func mul64(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	c := a * b
	if c/a != b {
		return c, errors.ErrOverflow
	}
	return c, nil
}
