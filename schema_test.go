package encryptedattr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegister_DerivesStorageNames(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"email"})

	spec, ok := s.Lookup("email")
	require.True(t, ok)
	require.Equal(t, "email", spec.Name)
	require.Equal(t, "encrypted_email", spec.Attribute)
	require.Equal(t, "encrypted_email_iv", spec.IVAttribute)
	require.Equal(t, "encrypted_email_salt", spec.SaltAttribute)
	require.Equal(t, ModePerFieldIVAndSalt, spec.Mode)
}

func TestRegister_CustomPrefixSuffix(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"ssn"}, WithPrefix("enc_"), WithSuffix("_sec"))

	spec, ok := s.Lookup("ssn")
	require.True(t, ok)
	require.Equal(t, "enc_ssn_sec", spec.Attribute)
	require.Equal(t, "enc_ssn_sec_iv", spec.IVAttribute)
	require.Equal(t, "enc_ssn_sec_salt", spec.SaltAttribute)
}

func TestRegister_ExplicitAttribute(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"email"}, WithAttribute("email_ciphertext"))

	spec, ok := s.Lookup("email")
	require.True(t, ok)
	require.Equal(t, "email_ciphertext", spec.Attribute)
	require.Equal(t, "email_ciphertext_iv", spec.IVAttribute)
}

func TestRegister_SchemaDefaultPrefix(t *testing.T) {
	s := NewSchema("User", WithPrefix("sealed_"))
	s.Register([]string{"email"})

	spec, _ := s.Lookup("email")
	require.Equal(t, "sealed_email", spec.Attribute)
}

func TestRegister_SingleMode_NoPerFieldAttributes(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"email"}, WithMode(ModeSingleIVAndSalt))

	spec, ok := s.Lookup("email")
	require.True(t, ok)
	require.Equal(t, ModeSingleIVAndSalt, spec.Mode)
	require.Empty(t, spec.IVAttribute)
	require.Empty(t, spec.SaltAttribute)
}

func TestRegister_DynamicMode_DerivesPerFieldAttributes(t *testing.T) {
	// A mode only known at call time still needs somewhere to store IVs.
	s := NewSchema("User")
	s.Register([]string{"email"}, WithOption(optMode, FromRecord(func(Record) (any, error) {
		return ModeSingleIVAndSalt, nil
	})))

	spec, _ := s.Lookup("email")
	require.Equal(t, "encrypted_email_iv", spec.IVAttribute)
	require.Equal(t, "encrypted_email_salt", spec.SaltAttribute)
}

func TestRegister_MultipleNames_ShareScope(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"email", "ssn"}, WithPrefix("x_"))

	for _, name := range []string{"email", "ssn"} {
		spec, ok := s.Lookup(name)
		require.True(t, ok, name)
		require.Equal(t, "x_"+name, spec.Attribute)
	}
}

func TestRegister_NoNames_NoOp(t *testing.T) {
	s := NewSchema("User")
	s.Register(nil, WithKey(Literal([]byte("k"))))
	require.Empty(t, s.Fields())
}

func TestRegister_ReplacesExistingSpec(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"email"})
	s.Register([]string{"email"}, WithAttribute("email_ct"))

	require.Len(t, s.Fields(), 1)
	spec, _ := s.Lookup("email")
	require.Equal(t, "email_ct", spec.Attribute)

	// Handler bindings stay keyed by name, one pair per field.
	require.Len(t, s.Handlers(), 2)
}

func TestSchema_Fields_Sorted(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"ssn"})
	s.Register([]string{"email"})
	s.Register([]string{"phone"})

	require.Equal(t, []string{"email", "phone", "ssn"}, s.Fields())
}

func TestSchema_IsEncrypted(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"email"})

	require.True(t, s.IsEncrypted("email"))
	require.False(t, s.IsEncrypted("name"))
	require.False(t, s.IsEncrypted("encrypted_email"))
}

func TestSchema_Lookup_Miss(t *testing.T) {
	s := NewSchema("User")
	spec, ok := s.Lookup("email")
	require.False(t, ok)
	require.Nil(t, spec)
}

func TestFieldSpec_Options_ReturnsCopy(t *testing.T) {
	s := NewSchema("User")
	s.Register([]string{"email"}, WithPrefix("enc_"))

	spec, _ := s.Lookup("email")
	opts := spec.Options()
	opts[optPrefix] = "mutated_"

	require.Equal(t, "enc_", spec.Options()[optPrefix])
}

func TestSchema_Clone_IndependentFields(t *testing.T) {
	parent := NewSchema("User")
	parent.Register([]string{"email"})

	child := parent.Clone()
	child.Register([]string{"ssn"})

	require.Equal(t, []string{"email", "ssn"}, child.Fields())
	require.Equal(t, []string{"email"}, parent.Fields())
}

func TestSchema_Clone_IndependentDefaults(t *testing.T) {
	parent := NewSchema("User", WithPrefix("p_"))
	child := parent.Clone()
	child.SetDefaults(WithPrefix("c_"))

	parent.Register([]string{"email"})
	child.Register([]string{"email"})

	pspec, _ := parent.Lookup("email")
	cspec, _ := child.Lookup("email")
	require.Equal(t, "p_email", pspec.Attribute)
	require.Equal(t, "c_email", cspec.Attribute)
}

func TestSchema_Clone_IndependentSpecOptions(t *testing.T) {
	parent := NewSchema("User")
	parent.Register([]string{"email"}, WithPrefix("enc_"))

	child := parent.Clone()
	cspec, _ := child.Lookup("email")
	cspec.options[optPrefix] = "mutated_"

	pspec, _ := parent.Lookup("email")
	require.Equal(t, "enc_", pspec.options[optPrefix])
}

func TestSchema_Rename(t *testing.T) {
	parent := NewSchema("User")
	child := parent.Clone().Rename("AdminUser")

	require.Equal(t, "User", parent.Name())
	require.Equal(t, "AdminUser", child.Name())
}

func TestSetDefaults_AffectsRegisteredFields(t *testing.T) {
	s := NewSchema("User", WithKey(Literal(testKey("v1"))))
	s.Register([]string{"email"})

	// Encode off by default: ciphertext is raw bytes.
	rec := MapRecord{}
	out, err := s.EncryptField(rec, "email", "alice@example.com")
	require.NoError(t, err)
	require.IsType(t, []byte(nil), out)

	// Encode on via schema defaults: same field now produces a string.
	s.SetDefaults(WithEncode(true))
	out, err = s.EncryptField(rec, "email", "alice@example.com")
	require.NoError(t, err)
	require.IsType(t, "", out)
}
