package encryptedattr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModel_Scenario_AccountEmail(t *testing.T) {
	// Account registers "email" with per-field IV/salt and a literal key.
	schema := NewSchema("Account", WithKey(Literal("K")))
	schema.Register([]string{"email"}, WithEncode(true))

	rec := MapRecord{}
	account := schema.Bind(rec)

	require.NoError(t, account.Set("email", "a@b.com"))

	stored, err := rec.Attribute("encrypted_email")
	require.NoError(t, err)
	encoded, ok := stored.(string)
	require.True(t, ok)
	require.NotEmpty(t, encoded)
	require.NotEqual(t, "a@b.com", encoded)

	// Per-field material landed beside the ciphertext.
	require.NotEmpty(t, rec["encrypted_email_iv"])
	require.NotEmpty(t, rec["encrypted_email_salt"])

	plaintext, err := account.Get("email")
	require.NoError(t, err)
	require.Equal(t, "a@b.com", plaintext)
}

func TestModel_Get_CachesPlaintext(t *testing.T) {
	counter := &countingEncryptor{}
	s := newUserSchema(WithEncryptor(counter))
	m := s.Bind(MapRecord{})

	require.NoError(t, m.Set("email", "alice@example.com"))
	require.Equal(t, 1, counter.encrypts)

	// Set cached the plaintext; reads never hit the cipher.
	for i := 0; i < 3; i++ {
		v, err := m.Get("email")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", v)
	}
	require.Zero(t, counter.decrypts)
}

func TestModel_Reload_InvalidatesCache(t *testing.T) {
	counter := &countingEncryptor{}
	s := newUserSchema(WithEncryptor(counter))
	m := s.Bind(MapRecord{})

	require.NoError(t, m.Set("email", "alice@example.com"))
	m.Reload()

	v, err := m.Get("email")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", v)
	require.Equal(t, 1, counter.decrypts)

	// Cached again after the decrypt.
	_, err = m.Get("email")
	require.NoError(t, err)
	require.Equal(t, 1, counter.decrypts)
}

func TestModel_Get_UnsetField(t *testing.T) {
	s := newUserSchema()
	m := s.Bind(MapRecord{})

	// Nothing stored decrypts to nil via pass-through.
	v, err := m.Get("email")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestModel_UnknownField(t *testing.T) {
	s := newUserSchema()
	m := s.Bind(MapRecord{})

	_, err := m.Get("phone")
	require.ErrorIs(t, err, ErrFieldNotFound)
	require.ErrorIs(t, m.Set("phone", "x"), ErrFieldNotFound)
}

func TestModel_Present(t *testing.T) {
	s := newUserSchema()
	m := s.Bind(MapRecord{})

	present, err := m.Present("email")
	require.NoError(t, err)
	require.False(t, present)

	require.NoError(t, m.Set("email", "alice@example.com"))
	present, err = m.Present("email")
	require.NoError(t, err)
	require.True(t, present)

	require.NoError(t, m.Set("email", ""))
	present, err = m.Present("email")
	require.NoError(t, err)
	require.False(t, present)
}

func TestModel_Assign(t *testing.T) {
	s := newUserSchema()
	rec := MapRecord{}
	m := s.Bind(rec)

	err := m.Assign(map[string]any{
		"email": "alice@example.com", // encrypted field, routed through Set
		"name":  "Alice",             // plain attribute, stored raw
	})
	require.NoError(t, err)

	require.Equal(t, "Alice", rec["name"])
	require.NotEqual(t, "alice@example.com", rec["encrypted_email"])
	require.NotEmpty(t, rec["encrypted_email"])

	v, err := m.Get("email")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", v)
}

func TestModel_Set_StoresUnderExplicitAttribute(t *testing.T) {
	s := NewSchema("User", WithKey(Literal(testKey("v1"))))
	s.Register([]string{"email"}, WithAttribute("email_ciphertext"))
	rec := MapRecord{}
	m := s.Bind(rec)

	require.NoError(t, m.Set("email", "alice@example.com"))
	require.NotEmpty(t, rec["email_ciphertext"])
	require.Nil(t, rec["encrypted_email"])
}
