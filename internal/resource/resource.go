// Package resource defines the managed entity types and their input validation.
// The facade never owns resource state; these structs mirror what the job
// backend reports and what clients are allowed to submit.
package resource

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Kind identifies one of the two managed resource types.
type Kind string

// Managed resource kinds.
const (
	KindBreeder    Kind = "breeder"
	KindCredential Kind = "credential"
)

// Breeder is a long-running worker configuration managed through the backend.
type Breeder struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Status    string         `json:"status,omitempty"`
	CreatedAt *time.Time     `json:"createdAt,omitempty"`
	Config    map[string]any `json:"config,omitempty"`
}

// BreederSpec is the client-supplied input for creating a breeder.
// The identity is never part of the spec; it is assigned at create time.
type BreederSpec struct {
	Name   string         `json:"name"`
	Config map[string]any `json:"config,omitempty"`
}

// Validate checks the spec before any backend call is made.
func (s BreederSpec) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if strings.IndexFunc(s.Name, unicode.IsSpace) >= 0 {
		return &ValidationError{Field: "name", Reason: "must not contain whitespace"}
	}
	return nil
}

// StopReceipt is the backend's acknowledgement of a breeder stop request.
type StopReceipt struct {
	BreederID    string `json:"breeder_id"`
	ShutdownType string `json:"shutdown_type,omitempty"`
}

// CredentialType enumerates the closed set of supported credential types.
type CredentialType string

// Supported credential types. Any other value is rejected at create time.
const (
	CredentialSSHPrivateKey      CredentialType = "ssh_private_key"
	CredentialAPIToken           CredentialType = "api_token"
	CredentialDatabaseConnection CredentialType = "database_connection"
	CredentialHTTPBasicAuth      CredentialType = "http_basic_auth"
)

// Valid reports whether t belongs to the closed enum.
func (t CredentialType) Valid() bool {
	switch t {
	case CredentialSSHPrivateKey, CredentialAPIToken, CredentialDatabaseConnection, CredentialHTTPBasicAuth:
		return true
	}
	return false
}

// Credential references secret material held in the backend's secret store.
// The facade only ever carries the reference, never the material itself.
type Credential struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	CredentialType CredentialType `json:"credentialType"`
	Description    string         `json:"description,omitempty"`
	SecretRef      string         `json:"secretRef,omitempty"`
	CreatedAt      *time.Time     `json:"createdAt,omitempty"`
	LastUsedAt     *time.Time     `json:"lastUsedAt,omitempty"`
}

// CredentialSpec is the client-supplied input for creating a credential.
type CredentialSpec struct {
	Name           string         `json:"name"`
	CredentialType CredentialType `json:"credentialType"`
	Description    string         `json:"description,omitempty"`
	SecretRef      string         `json:"secretRef,omitempty"`
}

// Validate checks the spec before any backend call is made.
func (s CredentialSpec) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if s.CredentialType == "" {
		return &ValidationError{Field: "credentialType", Reason: "required"}
	}
	if !s.CredentialType.Valid() {
		return &ValidationError{
			Field:  "credentialType",
			Reason: fmt.Sprintf("unsupported value %q", string(s.CredentialType)),
		}
	}
	return nil
}

// ValidationError reports client input rejected before reaching the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
