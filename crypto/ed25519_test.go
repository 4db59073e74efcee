package crypto

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/safepaytest/assert"
)

func TestEd25519Signing(t *testing.T) {
	private := GenPrivKeyEd25519()
	public := private.PublicKey()

	msg := []byte("foobar")
	msg2 := []byte("dingbooms")

	sig, err := private.Sign(msg)
	assert.Nil(t, err)
	sig2, err := private.Sign(msg2)
	assert.Nil(t, err)

	bz, err := sig.Marshal()
	assert.Nil(t, err)
	bz2, err := sig2.Marshal()
	assert.Nil(t, err)

	if bytes.Equal(bz, bz2) {
		t.Fatal("marshaling different signatures produce the same binary representation")
	}

	var read Signature
	assert.Nil(t, read.Unmarshal(bz))
	if !public.Verify(msg, &read) {
		t.Fatal("cannot verify an unmarshaled signature")
	}

	if !public.Verify(msg, sig) {
		t.Fatal("cannot verify a message signed with this public key")
	}
	if !public.Verify(msg2, sig2) {
		t.Fatal("cannot verify a message signed with this public key")
	}

	if public.Verify(msg, sig2) {
		t.Fatal("verified message signature of the wrong message")
	}
	if public.Verify(msg2, sig) {
		t.Fatal("verified message signature of the wrong message")
	}

	if public.Verify(msg, &Signature{}) {
		t.Fatal("verified an empty signature of a message")
	}
	if public.Verify(msg, nil) {
		t.Fatal("verified a nil signature of a message")
	}
}

func TestEd25519Address(t *testing.T) {
	pub := GenPrivKeyEd25519().PublicKey()
	pub2 := GenPrivKeyEd25519().PublicKey()
	empty := PublicKey{}

	assert.Nil(t, pub.Condition().Validate())
	assert.Nil(t, pub2.Condition().Validate())
	if bytes.Equal(pub.Condition(), pub2.Condition()) {
		t.Fatal("different public keys produce the same condition")
	}
	assert.Nil(t, empty.Condition())
	assert.Nil(t, empty.Address())

	bz, err := pub.Marshal()
	assert.Nil(t, err)
	var read PublicKey
	err = read.Unmarshal(bz)
	assert.Nil(t, err)
	assert.Equal(t, read.Condition(), pub.Condition())
	assert.Equal(t, read.Address(), pub.Address())
}

func TestEd25519PrivateKeySign(t *testing.T) {
	pk := &PrivateKey{Ed25519: make([]byte, 64)}
	sig, err := pk.Sign([]byte("foo bar"))
	if err != nil {
		t.Fatalf("cannot sign: %s", err)
	}
	want := []byte("\273\363\352\214\365\004\271\371|}\272G\316\316K\005\337Bm\340\322\007W\224-9\272\371\226\375DB\325\325\373#e\321^\030\367]\370\334\372\017\223`\036\236Ue\211\244\220\002\004\026K\227\306i\002\017")
	if !bytes.Equal(want, sig.Ed25519) {
		t.Logf("want %X", want)
		t.Logf(" got %X", sig.Ed25519)
		t.Fatal("invalid signature")
	}
}

func TestEmptyPrivateKeySign(t *testing.T) {
	emptyKey := &PrivateKey{}
	_, err := emptyKey.Sign([]byte("foo bar"))
	assert.IsErr(t, errors.ErrInput, err)
	if emptyKey.PublicKey() != nil {
		t.Fatal("empty private key must not have a public key")
	}
}

func TestEmptyPublicKeyVerify(t *testing.T) {
	sig := Signature{Ed25519: []byte("sig 5")}
	var empty PublicKey
	if empty.Verify([]byte("foo"), &sig) {
		t.Fatal("empty public key must not pass verification")
	}
}

func TestPrivKeyEd25519FromSeed(t *testing.T) {
	cases := map[string]struct {
		seed    []byte
		wantPub string
	}{
		"zero seed": {
			seed:    make([]byte, 32),
			wantPub: "3b6a27bcceb6a42d62a3a8d02a6f0d73653215771de243a63ac048a18b59da29",
		},
		"seed of 31": {
			seed:    bytes.Repeat([]byte{31}, 32),
			wantPub: "43046bfe4092b3e94994eada15dcc20d8aaa07b658fd3954eb8e0efb8bdca5de",
		},
		"no seed": {
			seed: nil,
		},
		"seed too short": {
			seed: []byte{0},
		},
		"seed too long": {
			seed: make([]byte, 33),
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if tc.wantPub == "" {
				assert.Panics(t, func() { PrivKeyEd25519FromSeed(tc.seed) })
				return
			}
			priv := PrivKeyEd25519FromSeed(tc.seed)
			assert.Equal(t, tc.seed, priv.Ed25519[:32])
			assert.Equal(t, tc.wantPub, hex.EncodeToString(priv.PublicKey().Ed25519))
		})
	}
}
