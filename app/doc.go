/*
Package app glues extensions together into an application.

A Router dispatches every transaction to the handler registered for the path
of its message. ChainDecorators wraps a handler with middlewares. The
Application executes transactions against a store, one at a time: a checked
transaction never changes the state, a delivered one changes it only when the
whole handler stack succeeds.
*/
package app
