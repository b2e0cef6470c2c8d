package cash

import (
	amino "github.com/tendermint/go-amino"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/coin"
)

// cdc serializes all models and messages of this package.
var cdc = amino.NewCodec()

// Set holds a normalized collection of coins that belong to one wallet.
type Set struct {
	Coins coin.Coins
}

func (s *Set) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *Set) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, s)
}

// SendMsg requests a funds transfer between two wallets.
type SendMsg struct {
	Source      payermint.Address
	Destination payermint.Address
	Amount      *coin.Coin
	// Memo is a free form human readable message.
	Memo string
	// Ref is a binary reference to an external document.
	Ref []byte
}

func (m *SendMsg) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	return cdc.UnmarshalBinaryBare(raw, m)
}
