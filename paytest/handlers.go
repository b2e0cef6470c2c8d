package paytest

import "github.com/payermint/payermint"

// Handler implements payermint.Handler with configurable responses and call
// counting.
type Handler struct {
	checkCall   int
	CheckResult payermint.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult payermint.DeliverResult
	DeliverErr    error
}

var _ payermint.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx) (*payermint.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// Decorator implements payermint.Decorator with call counting. Each call is
// passed through to the next handler.
type Decorator struct {
	checkCall   int
	CheckErr    error
	deliverCall int
	DeliverErr  error
}

var _ payermint.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx, next payermint.Checker) (*payermint.CheckResult, error) {
	d.checkCall++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx payermint.Context, db payermint.KVStore, tx payermint.Tx, next payermint.Deliverer) (*payermint.DeliverResult, error) {
	d.deliverCall++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}
