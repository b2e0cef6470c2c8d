package paytest

import "github.com/payermint/payermint"

// Tx represents a transaction mock.
// Transaction represents a single message that is to be processed within
// this transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg payermint.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ payermint.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (payermint.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Unmarshal([]byte) error {
	panic("not implemented")
}

func (tx *Tx) Marshal() ([]byte, error) {
	panic("not implemented")
}

// Msg represents a message mock.
// Message is a request processed by the engine within a single transaction.
type Msg struct {
	// RoutePath is returned by the Path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ payermint.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
