/*
Package errors implements custom error interfaces for payermint.

The idea is to reuse as many errors from this package as possible and define
new errors only when necessary. Extensions register their own root errors
with codes above 1000.

All errors are constructed from root errors declared with Register. An error
instance created during runtime should wrap one of the root errors, which
allows kind testing with Is and returning stable numeric codes to clients.
*/
package errors
