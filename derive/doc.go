/*
Package derive computes program derived addresses.

A program derived address is an address that no private key can sign for.
It is computed from a program keyspace, an ordered list of seeds and a single
bump byte. An address is valid only if it does not decode as an ed25519 curve
point, which guarantees that no key pair exists for it. FindAddress searches
the bump values from 255 down and returns the first valid address, the
canonical bump.

The only way to act with the authority of a derived address is to present a
Credential, which is rebuilt from the same seeds and bump each time it is
needed.
*/
package derive
