package payermint

import (
	"reflect"

	"github.com/payermint/payermint/errors"
)

// Msg is a request for the engine to take an action (make a state
// transition). It is just the request, and must be validated by the
// Handlers. All authentication information is in the wrapping Tx.
type Msg interface {
	Persistent

	// Validate returns an error if the message content is not valid on
	// its own. Stateful validation belongs to the handlers.
	Validate() error

	// Path returns the message path. It is used by the Router to locate
	// the proper Handler. Must be in the form "<package>/<message>".
	Path() string
}

// Marshaller is anything that can be represented in binary.
//
// Marshal may validate the data before serializing it and unless you
// previously validated the struct, errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as this almost always requires a
// pointer, and functions that only need to marshal bytes can use the
// Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx represents the data sent from the user to the engine. It includes the
// actual message, along with information needed to authenticate the sender,
// and anything else needed to pass through middleware.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to communicate.
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder can parse bytes into a Tx.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg extracts the message from the transaction, validates it and loads
// it into the destination. The destination must be a non-nil pointer to a
// message of the same type as the one carried by the transaction.
func LoadMsg(tx Tx, destination Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get message")
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	dstVal := reflect.ValueOf(destination)
	if dstVal.Kind() != reflect.Ptr || dstVal.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination must be a non-nil pointer, got %T", destination)
	}
	if !reflect.TypeOf(msg).AssignableTo(dstVal.Type()) {
		return errors.Wrapf(errors.ErrType, "cannot load %T message into %T", msg, destination)
	}
	dstVal.Elem().Set(reflect.ValueOf(msg).Elem())
	return nil
}
