package token

import (
	"math"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
)

// PackageName is the name the configuration is stored under.
const PackageName = "token"

// Configuration of the token extension.
type Configuration struct {
	// ReserveBase is the storage allowance every holding pays regardless of
	// its size.
	ReserveBase uint64 `protobuf:"varint,1,opt,name=reserve_base,json=reserveBase,proto3" json:"reserve_base,omitempty"`
	// ReservePerByte is the storage allowance paid for each byte of a
	// holding.
	ReservePerByte uint64 `protobuf:"varint,2,opt,name=reserve_per_byte,json=reservePerByte,proto3" json:"reserve_per_byte,omitempty"`
	// Program is the name of the keyspace associated holdings are derived
	// in.
	Program string `protobuf:"bytes,3,opt,name=program,proto3" json:"program,omitempty"`
}

type configurationWire Configuration

func (m *configurationWire) Reset()         { *m = configurationWire{} }
func (m *configurationWire) String() string { return proto.CompactTextString(m) }
func (*configurationWire) ProtoMessage()    {}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return proto.Marshal((*configurationWire)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return proto.Unmarshal(raw, (*configurationWire)(c))
}

func (c *Configuration) Validate() error {
	var errs error
	if c.Program == "" {
		errs = errors.AppendField(errs, "Program", errors.ErrEmpty)
	}
	if c.ReservePerByte > (math.MaxUint64-c.ReserveBase)/AccountSize {
		errs = errors.AppendField(errs, "ReservePerByte", errors.ErrOverflow)
	}
	return errs
}

// Reserve returns the storage allowance a new holding must lock.
func (c *Configuration) Reserve() uint64 {
	return c.ReserveBase + c.ReservePerByte*AccountSize
}

// Keyspace returns the program keyspace associated holdings belong to.
func (c *Configuration) Keyspace() derive.Keyspace {
	return derive.NewKeyspace(c.Program)
}

func loadConf(db safepay.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return nil, errors.Wrap(err, "token configuration")
	}
	return &conf, nil
}
