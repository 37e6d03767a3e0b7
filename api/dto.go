/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP surface. These decouple the engine's
  internal model from the API contract: money renders as float64 for
  clients, nullable figures render as JSON null (never 0), and dates
  render as ISO strings.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - quote: the persisted document shape accepted in request bodies
*/
package api

import (
	"github.com/warp/tower-engine/quote"
	"github.com/warp/tower-engine/tower"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// OptionDTO is a stored quote option in list/detail responses.
type OptionDTO struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Position  string               `json:"position"`
	TermStart string               `json:"term_start,omitempty"`
	TermEnd   string               `json:"term_end,omitempty"`
	Tower     *quote.PersistedTower `json:"tower,omitempty"`
	CreatedAt string               `json:"created_at,omitempty"`
	UpdatedAt string               `json:"updated_at,omitempty"`
}

// SaveOptionRequest creates or replaces a quote option.
type SaveOptionRequest struct {
	Name  string               `json:"name"`
	Tower quote.PersistedTower `json:"tower"`
}

// LayerDTO is one computed layer.
type LayerDTO struct {
	Carrier                 string   `json:"carrier"`
	Limit                   float64  `json:"limit"`
	Attachment              float64  `json:"attachment"`
	Retention               *float64 `json:"retention,omitempty"`
	QuotaShareGroupCapacity *float64 `json:"quota_share_group_capacity,omitempty"`
	AnnualPremium           *float64 `json:"annual_premium"`
	ActualPremium           *float64 `json:"actual_premium"`
	ProRataPremium          *float64 `json:"pro_rata_premium"`
	PremiumBasis            string   `json:"premium_basis"`
	TermStart               string   `json:"term_start"`
	TermEnd                 string   `json:"term_end"`
	ShortTerm               bool     `json:"short_term"`
	RatePerMillion          *float64 `json:"rate_per_million"`
	ILF                     *int64   `json:"ilf"`
	Ours                    bool     `json:"ours"`
}

// DateGroupDTO is one date-effective segment.
type DateGroupDTO struct {
	EffectiveStart string `json:"effective_start,omitempty"`
	Undetermined   bool   `json:"undetermined"`
	FromLayer      int    `json:"from_layer"`
	ToLayer        int    `json:"to_layer"`
}

// SummaryDTO aggregates the tower.
type SummaryDTO struct {
	TotalLimit            float64  `json:"total_limit"`
	TotalAnnualPremium    *float64 `json:"total_annual_premium"`
	TotalActualPremium    *float64 `json:"total_actual_premium"`
	UnpricedLayers        int      `json:"unpriced_layers"`
	BlendedRatePerMillion *float64 `json:"blended_rate_per_million"`
}

// ComputedTowerDTO is the full engine output for one tower.
type ComputedTowerDTO struct {
	Position  string         `json:"position"`
	TermStart string         `json:"term_start"`
	TermEnd   string         `json:"term_end"`
	Layers    []LayerDTO     `json:"layers"`
	Groups    []DateGroupDTO `json:"groups"`
	Summary   SummaryDTO     `json:"summary"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func moneyFloat(m *tower.Money) *float64 {
	if m == nil {
		return nil
	}
	f := m.Float64()
	return &f
}

func toLayerDTO(v tower.LayerView) LayerDTO {
	return LayerDTO{
		Carrier:                 v.Carrier,
		Limit:                   v.Limit.Float64(),
		Attachment:              v.Attachment.Float64(),
		Retention:               moneyFloat(v.Retention),
		QuotaShareGroupCapacity: moneyFloat(v.QuotaShareGroupCapacity),
		AnnualPremium:           moneyFloat(v.AnnualPremium),
		ActualPremium:           moneyFloat(v.ActualPremium),
		ProRataPremium:          moneyFloat(v.ProRata),
		PremiumBasis:            string(v.Basis),
		TermStart:               v.Term.Start.String(),
		TermEnd:                 v.Term.End.String(),
		ShortTerm:               v.ShortTerm,
		RatePerMillion:          moneyFloat(v.RatePerMillion),
		ILF:                     v.ILF,
		Ours:                    v.Ours,
	}
}

func toComputedDTO(c tower.ComputedTower) ComputedTowerDTO {
	layers := make([]LayerDTO, len(c.Layers))
	for i, v := range c.Layers {
		layers[i] = toLayerDTO(v)
	}

	groups := make([]DateGroupDTO, len(c.Groups))
	for i, g := range c.Groups {
		groups[i] = DateGroupDTO{
			EffectiveStart: g.EffectiveStart.String(),
			Undetermined:   g.Undetermined,
			FromLayer:      g.From,
			ToLayer:        g.To,
		}
	}

	return ComputedTowerDTO{
		Position:  string(c.Position),
		TermStart: c.StructureTerm.Start.String(),
		TermEnd:   c.StructureTerm.End.String(),
		Layers:    layers,
		Groups:    groups,
		Summary: SummaryDTO{
			TotalLimit:            c.Summary.TotalLimit.Float64(),
			TotalAnnualPremium:    moneyFloat(c.Summary.TotalAnnualPremium),
			TotalActualPremium:    moneyFloat(c.Summary.TotalActualPremium),
			UnpricedLayers:        c.Summary.UnpricedLayers,
			BlendedRatePerMillion: moneyFloat(c.Summary.BlendedRatePerMillion),
		},
	}
}
