/*
Package escrow implements a two party escrow of a fungible asset.

The sender opens an escrow by moving tokens into a custody holding. Nobody
holds a key for that holding: it is located at an address derived from the
escrow identity (sender, receiver, asset and instance key) and owned by the
address of the escrow record, derived from the same identity. Only this
extension can rebuild the credentials of both addresses, so the custody is
released exclusively through the escrow state machine:

	Deposited -> Completed  (receiver completes, tokens go to the receiver)
	Deposited -> Refunded   (sender cancels, tokens go back to the sender)
	Refunded  -> Refunded   (cancel can be retried)

Every operation rebuilds both credentials from the identity and the bumps
given in the message and rejects the call if they do not match the stored
record.
*/
package escrow
