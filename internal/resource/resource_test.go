package resource

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBreederSpecValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, BreederSpec{Name: "worker-1"}.Validate())

	err := BreederSpec{}.Validate()
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "name", validationErr.Field)

	for _, name := range []string{"worker 1", "worker\t1", "worker\n1", " worker"} {
		require.Error(t, BreederSpec{Name: name}.Validate())
	}
}

func TestCredentialTypeEnumIsClosed(t *testing.T) {
	t.Parallel()

	valid := []CredentialType{
		CredentialSSHPrivateKey,
		CredentialAPIToken,
		CredentialDatabaseConnection,
		CredentialHTTPBasicAuth,
	}
	for _, ct := range valid {
		require.True(t, ct.Valid(), "expected %q to be valid", ct)
	}
	for _, ct := range []CredentialType{"", "kerberos_ticket", "SSH_PRIVATE_KEY", "oauth"} {
		require.False(t, ct.Valid(), "expected %q to be invalid", ct)
	}
}

func TestCredentialSpecValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, CredentialSpec{Name: "key", CredentialType: CredentialAPIToken}.Validate())

	var validationErr *ValidationError

	err := CredentialSpec{CredentialType: CredentialAPIToken}.Validate()
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "name", validationErr.Field)

	err = CredentialSpec{Name: "key"}.Validate()
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "credentialType", validationErr.Field)

	err = CredentialSpec{Name: "key", CredentialType: "pixie_dust"}.Validate()
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Reason, "pixie_dust")
}
