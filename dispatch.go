package encryptedattr

// Handler executes one routed field operation against a record.
type Handler func(rec Record, value any, opts ...Option) (any, error)

// Handler name prefixes. Registration binds both operations for every
// field; nothing else is ever intercepted.
const (
	encryptHandlerPrefix = "encrypt_"
	decryptHandlerPrefix = "decrypt_"
)

type dispatchOp uint8

const (
	opEncrypt dispatchOp = iota
	opDecrypt
)

// handlerEntry is the stored form of a binding. Entries hold plain data
// rather than closures so cloned schemas dispatch against their own field
// table, not the parent's.
type handlerEntry struct {
	op    dispatchOp
	field string
}

// Handler returns the operation registered under name ("encrypt_<field>"
// or "decrypt_<field>"). Unregistered names return (nil, false); the caller
// falls through to whatever its own handling of the name is.
func (s *Schema) Handler(name string) (Handler, bool) {
	entry, ok := s.handlers[name]
	if !ok {
		return nil, false
	}
	field := entry.field
	switch entry.op {
	case opEncrypt:
		return func(rec Record, value any, opts ...Option) (any, error) {
			return s.EncryptField(rec, field, value, opts...)
		}, true
	case opDecrypt:
		return func(rec Record, value any, opts ...Option) (any, error) {
			return s.DecryptField(rec, field, value, opts...)
		}, true
	}
	return nil, false
}

// Dispatch looks up name and runs it in one step. The bool reports whether
// the name was handled; false means the name is not a routed operation and
// the value is untouched.
func (s *Schema) Dispatch(name string, rec Record, value any, opts ...Option) (any, bool, error) {
	h, ok := s.Handler(name)
	if !ok {
		return nil, false, nil
	}
	out, err := h(rec, value, opts...)
	return out, true, err
}

// Handlers returns all registered handler names, sorted alphabetically.
func (s *Schema) Handlers() []string {
	return sortedMapKeys(s.handlers)
}
