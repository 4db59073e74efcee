package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/safepay"
	"github.com/iov-one/safepay/derive"
	"github.com/iov-one/safepay/errors"
	"github.com/iov-one/safepay/gconf"
)

// PackageName is the name the configuration is stored under.
const PackageName = "escrow"

// Configuration of the escrow extension.
type Configuration struct {
	// Program is the name of the keyspace all escrow addresses are derived
	// in.
	Program string `protobuf:"bytes,1,opt,name=program,proto3" json:"program,omitempty"`
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
	if c.Program == "" {
		return errors.Field("Program", errors.ErrEmpty, "required")
	}
	return nil
}

// Program returns the keyspace configured for the escrow extension.
func Program(db safepay.ReadOnlyKVStore) (derive.Keyspace, error) {
	var conf Configuration
	if err := gconf.Load(db, PackageName, &conf); err != nil {
		return derive.Keyspace{}, err
	}
	return derive.NewKeyspace(conf.Program), nil
}

// Initializer stores the escrow configuration from genesis. The configured
// program must be the keyspace the handlers were registered with.
type Initializer struct {
	Program derive.Keyspace
}

var _ safepay.Initializer = (*Initializer)(nil)

func (i *Initializer) FromGenesis(opts safepay.Options, db safepay.KVStore) error {
	var conf Configuration
	if err := gconf.InitConfig(db, opts, PackageName, &conf); err != nil {
		return errors.Wrap(err, "init config")
	}
	if conf.Program != i.Program.Name() {
		return errors.Wrapf(errors.ErrInput, "configured program %q, handlers use %q", conf.Program, i.Program.Name())
	}
	return nil
}
