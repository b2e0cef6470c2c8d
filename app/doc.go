/*
Package app provides the machinery to assemble an application out of
extensions. A Router dispatches messages to the handlers registered for
them and ChainDecorators wraps the router with a stack of decorators
that implement cross-cutting concerns like logging, panic recovery and
transaction isolation.
*/
package app
