package payermint

import (
	"encoding/json"
)

// Handler is a core engine that can process a few specific messages. This
// could represent "send coins" or "process a payout".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator.
type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction. It is its own
// interface to allow better type controls in the next arguments in
// Decorator.
type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like
// authentication, or savepointing, to many Handlers.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// Router.
type Registry interface {
	// Handle assigns the given handler to handle processing of every
	// message of the provided type.
	Handle(Msg, Handler)
}

// CheckResult captures any non-error abci result to make sure people
// use error for error cases.
type CheckResult struct {
	// Data is a machine-parseable return value, like id of created entity.
	Data []byte
	// Log is human readable data.
	Log string
	// GasAllocated is how much gas this operation may consume.
	GasAllocated int64
	// GasPayment is how much the operation prepaid.
	GasPayment int64
}

// DeliverResult captures any non-error abci result to make sure people
// use error for error cases.
type DeliverResult struct {
	// Data is a machine-parseable return value, like id of created entity.
	Data []byte
	// Log is human readable data.
	Log string
	// GasUsed is how much gas this operation consumed.
	GasUsed int64
}

// Options are the app options. Each extension can look up its key and parse
// the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key, and parses the
// json into the given obj. Returns an error if it cannot parse. Noop and no
// error if the key is missing.
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize extensions from
// genesis file contents.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
