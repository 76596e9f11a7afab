package service

import "github.com/prepforge/certprep/config"

// TierPolicy answers how many questions a caller may draw for an exam. 0
// means unlimited. Entitlement lookup belongs to the surrounding platform;
// this implementation reads the configured free-tier cap, and the attempt
// engine itself stays limit-agnostic - the controller clamps the requested
// count before selection.
type TierPolicy interface {
	QuestionLimit(userID, examCode string) int
}

type configTierPolicy struct {
	cfg *config.Config
}

func NewTierPolicy(cfg *config.Config) TierPolicy {
	return &configTierPolicy{cfg: cfg}
}

func (p *configTierPolicy) QuestionLimit(userID, examCode string) int {
	return p.cfg.Exam.FreeTierQuestionLimit
}
