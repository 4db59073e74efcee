package safepay

import (
	"testing"

	"github.com/iov-one/safepay/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type demoMsg struct {
	Num   int
	Valid bool
}

func (demoMsg) Path() string               { return "demo/msg" }
func (*demoMsg) Marshal() ([]byte, error)  { return []byte("demo"), nil }
func (*demoMsg) Unmarshal(bz []byte) error { return nil }
func (m *demoMsg) Validate() error {
	if !m.Valid {
		return errors.Wrap(errors.ErrMsg, "invalid")
	}
	return nil
}

type otherMsg struct{ demoMsg }

type demoTx struct {
	msg Msg
	err error
}

func (tx demoTx) GetMsg() (Msg, error) { return tx.msg, tx.err }

func TestLoadMsg(t *testing.T) {
	var got demoMsg
	err := LoadMsg(demoTx{msg: &demoMsg{Num: 7, Valid: true}}, &got)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Num)

	err = LoadMsg(demoTx{msg: &demoMsg{Num: 7}}, &got)
	assert.True(t, errors.ErrMsg.Is(err))

	var other otherMsg
	err = LoadMsg(demoTx{msg: &demoMsg{Valid: true}}, &other)
	assert.True(t, errors.ErrType.Is(err))

	err = LoadMsg(demoTx{}, &got)
	assert.True(t, errors.ErrMsg.Is(err))

	err = LoadMsg(demoTx{err: errors.ErrInput}, &got)
	assert.True(t, errors.ErrInput.Is(err))

	err = LoadMsg(demoTx{msg: &demoMsg{Valid: true}}, got)
	assert.True(t, errors.ErrHuman.Is(err))
}

func TestGetPath(t *testing.T) {
	assert.Equal(t, "demo/msg", GetPath(demoTx{msg: &demoMsg{}}))
	assert.Equal(t, "(missing)", GetPath(demoTx{}))
}

func TestReadOptions(t *testing.T) {
	opts := Options{"foo": []byte(`{"a": 3}`), "bad": []byte(`{`)}

	var dst struct{ A int }
	require.NoError(t, opts.ReadOptions("foo", &dst))
	assert.Equal(t, 3, dst.A)
	require.NoError(t, opts.ReadOptions("missing", &dst))
	assert.Equal(t, 3, dst.A)
	assert.True(t, errors.ErrInput.Is(opts.ReadOptions("bad", &dst)))
}
