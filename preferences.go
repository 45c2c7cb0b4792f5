package kaoyan

import (
	"context"
	"errors"
)

// Preferences persists the user's provider choice.
type Preferences struct {
	store Store
}

// NewPreferences returns Preferences backed by store.
func NewPreferences(store Store) *Preferences {
	return &Preferences{store: store}
}

// Provider returns the stored provider, or DefaultProvider when the value is
// absent or not a known provider. Store failures other than ErrNotFound are
// returned alongside DefaultProvider.
func (p *Preferences) Provider(ctx context.Context) (ProviderName, error) {
	data, err := p.store.Get(ctx, KeyProvider)
	if errors.Is(err, ErrNotFound) {
		return DefaultProvider, nil
	}
	if err != nil {
		return DefaultProvider, err
	}
	name := ProviderName(data)
	if !name.Valid() {
		return DefaultProvider, nil
	}
	return name, nil
}

// SetProvider stores name. Unknown names fail with ErrValidation.
func (p *Preferences) SetProvider(ctx context.Context, name ProviderName) error {
	if _, err := ParseProviderName(string(name)); err != nil {
		return err
	}
	return p.store.Set(ctx, KeyProvider, []byte(name))
}

// ProviderConfig reads the stored provider once and returns it as a config
// for a single generation.
func (p *Preferences) ProviderConfig(ctx context.Context) (ProviderConfig, error) {
	name, err := p.Provider(ctx)
	return ProviderConfig{Provider: name}, err
}
