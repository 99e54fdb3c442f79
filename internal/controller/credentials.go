package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/breederops/breeder-control/internal/backend"
	"github.com/breederops/breeder-control/internal/resource"
)

// ListCredentials returns all credential references as the backend reports
// them. Secret material never appears here, only references.
func (c *Controller) ListCredentials(ctx context.Context) ([]resource.Credential, error) {
	job, out, err := c.invoke(ctx, resource.KindCredential, backend.OpList, nil)
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, failureError(job, resource.KindCredential, "", out)
	}
	credentials := []resource.Credential{}
	if len(out.Data) == 0 {
		return credentials, nil
	}
	if err := json.Unmarshal(unwrap(out.Data, "credentials"), &credentials); err != nil {
		return nil, &backend.MalformedResponseError{Job: job, Err: fmt.Errorf("decode credential list: %w", err)}
	}
	return credentials, nil
}

// GetCredential fetches a single credential reference by id.
func (c *Controller) GetCredential(ctx context.Context, id string) (resource.Credential, error) {
	if err := validateID(id); err != nil {
		return resource.Credential{}, err
	}
	job, out, err := c.invoke(ctx, resource.KindCredential, backend.OpGet, map[string]any{"credential_id": id})
	if err != nil {
		return resource.Credential{}, err
	}
	if !out.Success {
		return resource.Credential{}, failureError(job, resource.KindCredential, id, out)
	}
	var cred resource.Credential
	if err := json.Unmarshal(unwrap(out.Data, "credential", "credentials"), &cred); err != nil {
		return resource.Credential{}, &backend.MalformedResponseError{Job: job, Err: fmt.Errorf("decode credential: %w", err)}
	}
	return cred, nil
}

// CreateCredential validates the spec, assigns a fresh identity, and
// registers the credential reference through the backend.
func (c *Controller) CreateCredential(ctx context.Context, spec resource.CredentialSpec) (resource.Credential, error) {
	if err := spec.Validate(); err != nil {
		return resource.Credential{}, err
	}
	id, err := c.ids.NewID()
	if err != nil {
		return resource.Credential{}, fmt.Errorf("generate credential id: %w", err)
	}

	doc := map[string]any{
		"id":             id,
		"name":           spec.Name,
		"credentialType": string(spec.CredentialType),
	}
	if spec.Description != "" {
		doc["description"] = spec.Description
	}
	if spec.SecretRef != "" {
		doc["secretRef"] = spec.SecretRef
	}
	job, out, err := c.invoke(ctx, resource.KindCredential, backend.OpCreate, map[string]any{"credential_data": doc})
	if err != nil {
		c.recordMutation(ctx, backend.OpCreate, resource.KindCredential, id, err)
		return resource.Credential{}, err
	}
	if !out.Success {
		failErr := failureError(job, resource.KindCredential, id, out)
		c.recordMutation(ctx, backend.OpCreate, resource.KindCredential, id, failErr)
		return resource.Credential{}, failErr
	}

	var cred resource.Credential
	if len(out.Data) > 0 {
		if err := json.Unmarshal(unwrap(out.Data, "credential", "credentials"), &cred); err != nil {
			decodeErr := &backend.MalformedResponseError{Job: job, Err: fmt.Errorf("decode created credential: %w", err)}
			c.recordMutation(ctx, backend.OpCreate, resource.KindCredential, id, decodeErr)
			return resource.Credential{}, decodeErr
		}
	}
	cred.ID = id
	if cred.Name == "" {
		cred.Name = spec.Name
	}
	if cred.CredentialType == "" {
		cred.CredentialType = spec.CredentialType
	}
	c.recordMutation(ctx, backend.OpCreate, resource.KindCredential, id, nil)
	return cred, nil
}

// DeleteCredential removes a credential reference. The backend is expected
// to drop the stored secret alongside it.
func (c *Controller) DeleteCredential(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	job, out, err := c.invoke(ctx, resource.KindCredential, backend.OpDelete, map[string]any{"credential_id": id})
	if err != nil {
		c.recordMutation(ctx, backend.OpDelete, resource.KindCredential, id, err)
		return err
	}
	if !out.Success {
		failErr := failureError(job, resource.KindCredential, id, out)
		c.recordMutation(ctx, backend.OpDelete, resource.KindCredential, id, failErr)
		return failErr
	}
	c.recordMutation(ctx, backend.OpDelete, resource.KindCredential, id, nil)
	return nil
}

// UpdateCredential is deliberately unsupported: credentials are rotated by
// delete and re-create, never patched.
func (c *Controller) UpdateCredential(_ context.Context, _ string) error {
	return &NotImplementedError{Kind: resource.KindCredential, Operation: "update"}
}
