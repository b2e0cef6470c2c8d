package app

import (
	"fmt"
	"regexp"

	"github.com/payermint/payermint"
	"github.com/payermint/payermint/errors"
)

// isPath rejects registration of messages with an unexpected path format.
var isPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different paths and
// then direct each message to the registered handler.
type Router struct {
	routes map[string]payermint.Handler
}

var _ payermint.Registry = (*Router)(nil)
var _ payermint.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]payermint.Handler),
	}
}

// Handle implements the Registry interface. It registers the given handler
// for processing of every message of the given type. Path collision or an
// invalid message path results in a panic as this is a programmer error.
func (r *Router) Handle(m payermint.Msg, h payermint.Handler) {
	path := m.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path %q for %T message", path, m))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route %q for %T message", path, m))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this message path. If no
// handler was registered a noSuchPathHandler is returned that fails every
// request with a not found error.
func (r *Router) handler(path string) payermint.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return noSuchPathHandler{path: path}
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.handler(msg.Path()).Deliver(ctx, db, tx)
}

type noSuchPathHandler struct {
	path string
}

var _ payermint.Handler = noSuchPathHandler{}

func (h noSuchPathHandler) Check(payermint.Context, payermint.KVStore, payermint.Tx) (*payermint.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}

func (h noSuchPathHandler) Deliver(payermint.Context, payermint.KVStore, payermint.Tx) (*payermint.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", h.path)
}
