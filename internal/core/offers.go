package core

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/guestify/mediakit-ai/internal/content"
)

const (
	TypeOffers                 = "offers"
	TypeConversionOffers       = "conversion-offers"
	defaultOfferVariations     = 3
	defaultConversionOffers    = 3
	maxConversionOffers        = 10
	defaultConversionOfferType = "lead_magnet"
)

// ConversionOfferTypes are the accepted conversion offer kinds.
var ConversionOfferTypes = []string{"lead_magnet", "low_ticket", "webinar", "consultation"}

type OffersRequest struct {
	Services       string
	Audience       string
	PriceRange     string
	VariationCount int
}

// Offers generates entry, signature and premium packages with several variations per tier.
type Offers struct {
	*TypedGenerator[map[content.Tier][]content.Offer]

	mu     sync.RWMutex
	tiers  map[content.Tier][]content.Offer
	active map[content.Tier]int
}

// NewOffers returns a tiered offers generator.
func NewOffers(deps Deps) *Offers {
	deps = deps.withDefaults()
	return &Offers{
		TypedGenerator: NewTypedGenerator[map[content.Tier][]content.Offer](TypeOffers, deps, content.TieredOffers, withSharedContext(deps.Store)),
		tiers:          map[content.Tier][]content.Offer{},
		active:         map[content.Tier]int{},
	}
}

// Generate replaces every tier and points each tier back at its first variation.
func (o *Offers) Generate(ctx context.Context, req OffersRequest, override AuthContext) (map[content.Tier][]content.Offer, error) {
	count := req.VariationCount
	if count <= 0 {
		count = defaultOfferVariations
	}
	p := map[string]any{"variationCount": count}
	setIfPresent(p, "services", strings.TrimSpace(req.Services))
	setIfPresent(p, "audience", strings.TrimSpace(req.Audience))
	setIfPresent(p, "priceRange", strings.TrimSpace(req.PriceRange))

	tiers, err := o.GenerateParsed(ctx, p, override)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.tiers = tiers
	o.active = make(map[content.Tier]int, len(content.Tiers))
	for _, t := range content.Tiers {
		o.active[t] = 0
	}
	return o.tiersLocked(), nil
}

func (o *Offers) tiersLocked() map[content.Tier][]content.Offer {
	out := make(map[content.Tier][]content.Offer, len(o.tiers))
	for t, offers := range o.tiers {
		out[t] = slices.Clone(offers)
	}
	return out
}

// Variations returns the generated variations of one tier.
func (o *Offers) Variations(tier content.Tier) []content.Offer {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.tiers[tier])
}

// SelectVariation makes the variation at index the active one of tier.
func (o *Offers) SelectVariation(tier content.Tier, index int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if index < 0 || index >= len(o.tiers[tier]) {
		return fmt.Errorf("%w: %s %d", ErrNoVariation, tier, index)
	}
	o.active[tier] = index
	return nil
}

// ActiveIndex is the selected variation of tier, 0 after every generation.
func (o *Offers) ActiveIndex(tier content.Tier) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.active[tier]
}

// ActiveOffer returns the selected variation of tier.
func (o *Offers) ActiveOffer(tier content.Tier) (content.Offer, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	offers := o.tiers[tier]
	i := o.active[tier]
	if i < 0 || i >= len(offers) {
		return content.Offer{}, false
	}
	return offers[i], true
}

// ActiveOffers returns the selected variation of every tier that has one.
func (o *Offers) ActiveOffers() map[content.Tier]content.Offer {
	out := make(map[content.Tier]content.Offer, len(content.Tiers))
	for _, t := range content.Tiers {
		if offer, ok := o.ActiveOffer(t); ok {
			out[t] = offer
		}
	}
	return out
}

// Reset drops all tiers and selections.
func (o *Offers) Reset() {
	o.Engine.Reset()
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tiers = map[content.Tier][]content.Offer{}
	o.active = map[content.Tier]int{}
}

type ConversionOffersRequest struct {
	OfferType string
	Services  string
	Count     int
}

// ConversionOffers generates lead magnets and low-ticket offers.
type ConversionOffers struct {
	*TypedGenerator[[]content.Offer]
}

func parseConversionOffers(c content.Content) []content.Offer {
	return content.Offers(c, maxConversionOffers)
}

// NewConversionOffers returns a conversion offers generator.
func NewConversionOffers(deps Deps) *ConversionOffers {
	deps = deps.withDefaults()
	return &ConversionOffers{NewTypedGenerator[[]content.Offer](TypeConversionOffers, deps, parseConversionOffers, withSharedContext(deps.Store))}
}

// Generate validates the offer type and requests req.Count offers, 3 when unset.
func (c *ConversionOffers) Generate(ctx context.Context, req ConversionOffersRequest, override AuthContext) ([]content.Offer, error) {
	offerType := req.OfferType
	if offerType == "" {
		offerType = defaultConversionOfferType
	}
	if !slices.Contains(ConversionOfferTypes, offerType) {
		return nil, c.fail(&ValidationError{Message: fmt.Sprintf("unknown offer type %q", offerType)})
	}
	count := req.Count
	if count <= 0 {
		count = defaultConversionOffers
	}
	p := map[string]any{"offerType": offerType, "count": count}
	setIfPresent(p, "services", strings.TrimSpace(req.Services))
	return c.GenerateParsed(ctx, p, override)
}
