/*
Package safepay defines the interfaces used throughout the application, such
as storage, transactions, handlers and authentication conditions, together
with the few simple types (Condition, Address) every extension relies on.

Extensions live under x/. The escrow core is implemented in x/safepay, the
asset ledger it consumes in x/token.
*/
package safepay
