/*
Package x contains extensions to the payermint engine.

Sub-packages contain the actual extensions, this top level package
contains utility types and interfaces shared between them, most
importantly the Authenticator abstraction used by every handler to
verify who signed the processed transaction.
*/
package x
