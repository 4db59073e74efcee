/*
Package token implements the asset ledger the escrow is built upon.

A mint describes a fungible asset. Balances of an asset are kept in holdings
(accounts), each controlled by a single owner address. Creating a holding
locks a native storage allowance (reserve), paid from the wallet of the
payer, that is given back when the holding is closed.

Every owner has one associated holding per mint, located at an address
derived from the owner and the mint by the token program.
*/
package token
