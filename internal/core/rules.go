package core

import "degcore/pkg/domain"

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := domain.NewRulesEngine()
	engine.Register(NewContrastCoverageRule())
	engine.Register(NewReplicationRule())
	engine.Register(NewMatrixScaleRule())
	return engine
}
