package safepaytest

import "github.com/iov-one/safepay"

// Tx represents a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg safepay.Msg
	// Err if set is returned by GetMsg.
	Err error
}

var _ safepay.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (safepay.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg represents a message routed by its path only.
type Msg struct {
	// RoutePath is returned by the Path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by Validate and the codec methods.
	Err error
}

var _ safepay.Msg = (*Msg)(nil)

func (m *Msg) Path() string { return m.RoutePath }

func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
