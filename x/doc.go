/*
Package x contains the extensions of the safepay application.

Extensions implement common functionality (Handler, Decorator, etc.) and are
combined together into an application. This package holds the pieces shared
by all of them, most importantly the Authenticator abstraction that lets
handlers ask who authorized the current transaction without knowing how the
authorization was obtained.
*/
package x
