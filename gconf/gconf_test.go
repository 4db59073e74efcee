package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/safepaytest/assert"
	"github.com/iov-one/safepay/store"
)

type testConf struct {
	Limit int `json:"limit"`
}

func (c *testConf) Marshal() ([]byte, error)   { return json.Marshal(c) }
func (c *testConf) Unmarshal(raw []byte) error { return json.Unmarshal(raw, c) }
func (c *testConf) Validate() error {
	if c.Limit <= 0 {
		return errors.Wrap(errors.ErrInput, "limit must be positive")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	db := store.MemStore()

	var got testConf
	assert.IsErr(t, errors.ErrNotFound, Load(db, "test", &got))

	assert.Nil(t, Save(db, "test", &testConf{Limit: 5}))
	assert.Nil(t, Load(db, "test", &got))
	assert.Equal(t, 5, got.Limit)

	assert.IsErr(t, errors.ErrInput, Save(db, "test", &testConf{}))
	assert.Nil(t, Load(db, "test", &got))
	assert.Equal(t, 5, got.Limit)

	raw, err := db.Get([]byte("_c:test"))
	assert.Nil(t, err)
	if raw == nil {
		t.Fatal("configuration must be stored under the package key")
	}
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		genesis string
		wantErr *errors.Error
		want    int
	}{
		"valid": {
			genesis: `{"conf": {"test": {"limit": 7}}}`,
			want:    7,
		},
		"missing package": {
			genesis: `{"conf": {"other": {"limit": 7}}}`,
			wantErr: errors.ErrNotFound,
		},
		"missing conf section": {
			genesis: `{}`,
			wantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			genesis: `{"conf": {"test": {"limit": 0}}}`,
			wantErr: errors.ErrInput,
		},
		"malformed json": {
			genesis: `{"conf": {"test": {"limit": "many"}}}`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts safepay.Options
			if err := json.Unmarshal([]byte(tc.genesis), &opts); err != nil {
				t.Fatalf("cannot parse genesis: %s", err)
			}
			db := store.MemStore()
			err := InitConfig(db, opts, "test", &testConf{})
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr != nil {
				return
			}
			var got testConf
			assert.Nil(t, Load(db, "test", &got))
			assert.Equal(t, tc.want, got.Limit)
		})
	}
}
