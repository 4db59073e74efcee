/*
Package sigs provides the authentication middleware that verifies the
signatures on a transaction and maintains a sequence per signer for replay
protection.

A signature covers the transaction sign bytes together with the chain ID and
the signer sequence, hashed with sha512:

	version | len(chainID) | chainID | sequence (int64, big endian) | sign bytes
	4 bytes | uint8        | ascii   | 8 bytes                      | ...

Each signature must carry the current sequence of its signer. The sequence is
incremented by every successful verification.
*/
package sigs
