package escrow

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/safepaytest/assert"
	"github.com/iov-one/safepay/store"
	"github.com/stretchr/testify/require"
)

func TestGenesis(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
	}{
		"configured": {
			genesis: `{"conf": {"escrow": {"program": "escrow"}}}`,
		},
		"other program": {
			genesis: `{"conf": {"escrow": {"program": "pay"}}}`,
			wantErr: errors.ErrInput,
		},
		"empty program": {
			genesis: `{"conf": {"escrow": {}}}`,
			wantErr: errors.ErrEmpty,
		},
		"not configured": {
			genesis: `{}`,
			wantErr: errors.ErrNotFound,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts safepay.Options
			require.NoError(t, json.Unmarshal([]byte(tc.genesis), &opts))
			db := store.MemStore()
			err := (&Initializer{Program: derive.NewKeyspace("escrow")}).FromGenesis(opts, db)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			program, err := Program(db)
			require.NoError(t, err)
			assert.Equal(t, derive.NewKeyspace("escrow"), program)
		})
	}
}
