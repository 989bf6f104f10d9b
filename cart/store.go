package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/scantagcandles/oremus-1/pricing"
)

// StorageVersion tags every persisted cart so the layout can evolve.
const StorageVersion = 1

const keyPrefix = "oremus_cart"

var (
	ErrNotFound           = errors.New("cart not found")
	ErrUnsupportedVersion = errors.New("unsupported cart storage version")
)

// Store persists one Snapshot per owner.
type Store interface {
	Load(ctx context.Context, owner string) (Snapshot, error)
	Save(ctx context.Context, owner string, snapshot Snapshot) error
	Delete(ctx context.Context, owner string) error
}

// Key is the namespaced storage key for an owner's cart.
func Key(owner string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, owner)
}

type envelope struct {
	Version int `json:"version"`
	Snapshot
}

func encode(s Snapshot) ([]byte, error) {
	if s.Items == nil {
		s.Items = []pricing.LineItem{}
	}
	data, err := json.Marshal(envelope{Version: StorageVersion, Snapshot: s})
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

// decode accepts the current envelope and the untagged legacy layout, a
// bare JSON array of items whose quantity defaulted to 1 when missing.
func decode(data []byte) (Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []pricing.LineItem
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Snapshot{}, fmt.Errorf("unmarshal legacy cart failed: %w", err)
		}
		for i := range items {
			if items[i].Quantity < 1 {
				items[i].Quantity = 1
			}
		}
		return checked(Snapshot{Items: items})
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return Snapshot{}, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	if env.Version != StorageVersion {
		return Snapshot{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return checked(env.Snapshot)
}

func checked(s Snapshot) (Snapshot, error) {
	for _, item := range s.Items {
		if err := item.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("stored cart: %w", err)
		}
	}
	return s, nil
}
