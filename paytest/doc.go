/*
Package paytest provides mocks and helpers for testing the engine and its
extensions. Mocks implement the core interfaces (Tx, Msg, Handler,
Authenticator) with configurable results and call counters.
*/
package paytest
