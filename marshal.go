package encryptedattr

import (
	"encoding/json"
	"reflect"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Marshaler serializes values before encryption and restores them after
// decryption. It runs only for fields registered with WithMarshal(true);
// other fields use plain string conversion.
//
// Implementations must be safe for concurrent use.
type Marshaler interface {
	// Marshal renders v as bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal parses data into v.
	Unmarshal(data []byte, v any) error

	// Format names the wire format, for diagnostics.
	Format() string
}

// JSONMarshaler serializes with encoding/json. It is the default marshaler.
type JSONMarshaler struct{}

func (JSONMarshaler) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONMarshaler) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (JSONMarshaler) Format() string                     { return "json" }

// CBORMarshaler serializes with CBOR. Maps decode as map[string]any rather
// than map[interface{}]interface{} so decrypted values compare cleanly
// against JSON-shaped fixtures.
type CBORMarshaler struct{}

var (
	cborDecOnce sync.Once
	cborDec     cbor.DecMode
)

func cborDecMode() cbor.DecMode {
	cborDecOnce.Do(func() {
		dm, err := cbor.DecOptions{
			DefaultMapType: reflect.TypeOf(map[string]any(nil)),
		}.DecMode()
		if err != nil {
			panic("encryptedattr: cbor decode mode: " + err.Error())
		}
		cborDec = dm
	})
	return cborDec
}

func (CBORMarshaler) Marshal(v any) ([]byte, error)      { return cbor.Marshal(v) }
func (CBORMarshaler) Unmarshal(data []byte, v any) error { return cborDecMode().Unmarshal(data, v) }
func (CBORMarshaler) Format() string                     { return "cbor" }

// MsgpackMarshaler serializes with MessagePack.
type MsgpackMarshaler struct{}

func (MsgpackMarshaler) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (MsgpackMarshaler) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }
func (MsgpackMarshaler) Format() string                     { return "msgpack" }

// YAMLMarshaler serializes with YAML.
type YAMLMarshaler struct{}

func (YAMLMarshaler) Marshal(v any) ([]byte, error)      { return yaml.Marshal(v) }
func (YAMLMarshaler) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }
func (YAMLMarshaler) Format() string                     { return "yaml" }

// MarshalerFuncs adapts a pair of functions into a Marshaler. Either side
// may be nil; calling it reports ErrNoMarshaler.
type MarshalerFuncs struct {
	MarshalFunc   func(v any) ([]byte, error)
	UnmarshalFunc func(data []byte, v any) error
	FormatName    string
}

func (f MarshalerFuncs) Marshal(v any) ([]byte, error) {
	if f.MarshalFunc == nil {
		return nil, ErrNoMarshaler
	}
	return f.MarshalFunc(v)
}

func (f MarshalerFuncs) Unmarshal(data []byte, v any) error {
	if f.UnmarshalFunc == nil {
		return ErrNoMarshaler
	}
	return f.UnmarshalFunc(data, v)
}

func (f MarshalerFuncs) Format() string { return f.FormatName }
