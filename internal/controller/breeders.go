package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/breederops/breeder-control/internal/backend"
	"github.com/breederops/breeder-control/internal/resource"
)

// ListBreeders returns all configured breeders as the backend reports them.
// List items are passed through verbatim; the backend is their source of
// truth.
func (c *Controller) ListBreeders(ctx context.Context) ([]resource.Breeder, error) {
	job, out, err := c.invoke(ctx, resource.KindBreeder, backend.OpList, nil)
	if err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, failureError(job, resource.KindBreeder, "", out)
	}
	breeders := []resource.Breeder{}
	if len(out.Data) == 0 {
		return breeders, nil
	}
	if err := json.Unmarshal(unwrap(out.Data, "breeders"), &breeders); err != nil {
		return nil, &backend.MalformedResponseError{Job: job, Err: fmt.Errorf("decode breeder list: %w", err)}
	}
	return breeders, nil
}

// GetBreeder fetches a single breeder by id.
func (c *Controller) GetBreeder(ctx context.Context, id string) (resource.Breeder, error) {
	if err := validateID(id); err != nil {
		return resource.Breeder{}, err
	}
	job, out, err := c.invoke(ctx, resource.KindBreeder, backend.OpGet, map[string]any{"breeder_id": id})
	if err != nil {
		return resource.Breeder{}, err
	}
	if !out.Success {
		return resource.Breeder{}, failureError(job, resource.KindBreeder, id, out)
	}
	var b resource.Breeder
	if err := json.Unmarshal(unwrap(out.Data, "breeder", "breeders"), &b); err != nil {
		return resource.Breeder{}, &backend.MalformedResponseError{Job: job, Err: fmt.Errorf("decode breeder: %w", err)}
	}
	return b, nil
}

// CreateBreeder validates the spec, assigns a fresh identity, and creates
// the breeder through the backend. The client-generated id is
// authoritative; a drifted id echoed by the backend never replaces it.
func (c *Controller) CreateBreeder(ctx context.Context, spec resource.BreederSpec) (resource.Breeder, error) {
	if err := spec.Validate(); err != nil {
		return resource.Breeder{}, err
	}
	id, err := c.ids.NewID()
	if err != nil {
		return resource.Breeder{}, fmt.Errorf("generate breeder id: %w", err)
	}

	doc := map[string]any{
		"id":   id,
		"name": spec.Name,
	}
	if spec.Config != nil {
		doc["config"] = spec.Config
	}
	job, out, err := c.invoke(ctx, resource.KindBreeder, backend.OpCreate, map[string]any{"breeder_config": doc})
	if err != nil {
		c.recordMutation(ctx, backend.OpCreate, resource.KindBreeder, id, err)
		return resource.Breeder{}, err
	}
	if !out.Success {
		failErr := failureError(job, resource.KindBreeder, id, out)
		c.recordMutation(ctx, backend.OpCreate, resource.KindBreeder, id, failErr)
		return resource.Breeder{}, failErr
	}

	var b resource.Breeder
	if len(out.Data) > 0 {
		if err := json.Unmarshal(unwrap(out.Data, "breeder", "breeders"), &b); err != nil {
			decodeErr := &backend.MalformedResponseError{Job: job, Err: fmt.Errorf("decode created breeder: %w", err)}
			c.recordMutation(ctx, backend.OpCreate, resource.KindBreeder, id, decodeErr)
			return resource.Breeder{}, decodeErr
		}
	}
	b.ID = id
	if b.Name == "" {
		b.Name = spec.Name
	}
	c.recordMutation(ctx, backend.OpCreate, resource.KindBreeder, id, nil)
	return b, nil
}

// DeleteBreeder purges a breeder. Deletion is terminal and irreversible;
// when archiving is enabled the last known state is snapshotted first.
func (c *Controller) DeleteBreeder(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	c.snapshot(ctx, resource.KindBreeder, id, func() (any, error) {
		return c.GetBreeder(ctx, id)
	})
	job, out, err := c.invoke(ctx, resource.KindBreeder, backend.OpDelete, map[string]any{"breeder_id": id})
	if err != nil {
		c.recordMutation(ctx, backend.OpDelete, resource.KindBreeder, id, err)
		return err
	}
	if !out.Success {
		failErr := failureError(job, resource.KindBreeder, id, out)
		c.recordMutation(ctx, backend.OpDelete, resource.KindBreeder, id, failErr)
		return failErr
	}
	c.recordMutation(ctx, backend.OpDelete, resource.KindBreeder, id, nil)
	return nil
}

// StopBreeder asks the backend to wind down a breeder's workers without
// purging its configuration.
func (c *Controller) StopBreeder(ctx context.Context, id string) (resource.StopReceipt, error) {
	if err := validateID(id); err != nil {
		return resource.StopReceipt{}, err
	}
	job, out, err := c.invoke(ctx, resource.KindBreeder, backend.OpStop, map[string]any{"breeder_id": id})
	if err != nil {
		c.recordMutation(ctx, backend.OpStop, resource.KindBreeder, id, err)
		return resource.StopReceipt{}, err
	}
	if !out.Success {
		failErr := failureError(job, resource.KindBreeder, id, out)
		c.recordMutation(ctx, backend.OpStop, resource.KindBreeder, id, failErr)
		return resource.StopReceipt{}, failErr
	}
	receipt := resource.StopReceipt{BreederID: id}
	if len(out.Data) > 0 {
		if err := json.Unmarshal(out.Data, &receipt); err != nil {
			decodeErr := &backend.MalformedResponseError{Job: job, Err: fmt.Errorf("decode stop receipt: %w", err)}
			c.recordMutation(ctx, backend.OpStop, resource.KindBreeder, id, decodeErr)
			return resource.StopReceipt{}, decodeErr
		}
	}
	if receipt.BreederID == "" {
		receipt.BreederID = id
	}
	c.recordMutation(ctx, backend.OpStop, resource.KindBreeder, id, nil)
	return receipt, nil
}

// UpdateBreeder is deliberately unsupported: breeders are replaced, never
// patched.
func (c *Controller) UpdateBreeder(_ context.Context, _ string) error {
	return &NotImplementedError{Kind: resource.KindBreeder, Operation: "update"}
}
