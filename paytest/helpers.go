package paytest

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/payermint/payermint"
)

// NewCondition returns a random condition that can stand in for any signer
// identity in tests.
func NewCondition() payermint.Condition {
	data := make([]byte, 32)
	if _, err := rand.Read(data); err != nil {
		panic(err)
	}
	return payermint.NewCondition("sigs", "ed25519", data)
}

// RandomAddress returns a random address.
func RandomAddress() payermint.Address {
	return NewCondition().Address()
}

// SequenceID returns an ID in the same binary format as the one that a
// sequence counter generates.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
