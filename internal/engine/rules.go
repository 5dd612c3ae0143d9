package engine

import (
	"inheritance-engine/internal/faraid"
	"inheritance-engine/internal/model"
	"inheritance-engine/internal/perdata"
	"inheritance-engine/internal/share"
)

// Rules defines the contract for a law system's rule engine: it turns the
// living family into exact fractions of the net estate.
type Rules interface {
	Compute(deceased model.DeceasedInfo, heirs []model.Heir) share.Outcome
}

type faraidRules struct {
	opts faraid.Options
}

func (r faraidRules) Compute(deceased model.DeceasedInfo, heirs []model.Heir) share.Outcome {
	return faraid.ComputeShares(deceased, heirs, r.opts)
}

type perdataRules struct {
	opts perdata.Options
}

func (r perdataRules) Compute(deceased model.DeceasedInfo, heirs []model.Heir) share.Outcome {
	return perdata.ComputeShares(deceased, heirs, r.opts)
}

func newRegistry(opts Options) map[model.LawSystem]Rules {
	return map[model.LawSystem]Rules{
		model.LawIslam:   faraidRules{opts: opts.Faraid},
		model.LawPerdata: perdataRules{opts: opts.Perdata},
	}
}
