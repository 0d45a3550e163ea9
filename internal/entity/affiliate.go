package entity

import (
	"errors"
	"fmt"
)

var ErrAffiliateNotFound = errors.New("affiliate not found")

// AffiliateConfig is static partner configuration, read-only at runtime.
type AffiliateConfig struct {
	ID                string  `json:"id" yaml:"id"`
	Name              string  `json:"name" yaml:"name"`
	NotificationEmail string  `json:"notification_email" yaml:"notification_email"`
	ReferralCode      string  `json:"referral_code" yaml:"referral_code"`
	CommissionRate    float64 `json:"commission_rate" yaml:"commission_rate"`
}

// AffiliateDirectory keeps partners in configuration order.
type AffiliateDirectory struct {
	partners []AffiliateConfig
	byID     map[string]AffiliateConfig
}

func NewAffiliateDirectory(partners []AffiliateConfig) (*AffiliateDirectory, error) {
	if len(partners) == 0 {
		return nil, errors.New("at least one affiliate partner must be configured")
	}

	d := &AffiliateDirectory{
		partners: make([]AffiliateConfig, 0, len(partners)),
		byID:     make(map[string]AffiliateConfig, len(partners)),
	}
	for _, p := range partners {
		if p.ID == "" {
			return nil, errors.New("affiliate id is required")
		}
		if _, dup := d.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate affiliate id %q", p.ID)
		}
		if p.NotificationEmail == "" {
			return nil, fmt.Errorf("affiliate %q has no notification email", p.ID)
		}
		if p.ReferralCode == "" {
			return nil, fmt.Errorf("affiliate %q has no referral code", p.ID)
		}
		d.partners = append(d.partners, p)
		d.byID[p.ID] = p
	}
	return d, nil
}

func (d *AffiliateDirectory) IDs() []string {
	ids := make([]string, len(d.partners))
	for i, p := range d.partners {
		ids[i] = p.ID
	}
	return ids
}

func (d *AffiliateDirectory) Lookup(id string) (AffiliateConfig, error) {
	p, ok := d.byID[id]
	if !ok {
		return AffiliateConfig{}, fmt.Errorf("%w: %s", ErrAffiliateNotFound, id)
	}
	return p, nil
}

func (d *AffiliateDirectory) All() []AffiliateConfig {
	out := make([]AffiliateConfig, len(d.partners))
	copy(out, d.partners)
	return out
}
