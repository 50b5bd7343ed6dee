package core

import "degcore/pkg/domain"

type (
	Stratum          = domain.Stratum
	Group            = domain.Group
	SampleDesign     = domain.SampleDesign
	ExpressionMatrix = domain.ExpressionMatrix
	Contrast         = domain.Contrast
	ContrastID       = domain.ContrastID
	GeneAnnotation   = domain.GeneAnnotation
	GenotypePairing  = domain.GenotypePairing
	ResultTable      = domain.ResultTable
	RegulatedGeneSet = domain.RegulatedGeneSet
	Intersection     = domain.Intersection
	StratumResults   = domain.StratumResults
	StratumFailure   = domain.StratumFailure
	StudyReport      = domain.StudyReport
	Severity         = domain.Severity
	Violation        = domain.Violation
	Result           = domain.Result
	Rule             = domain.Rule
	RulesEngine      = domain.RulesEngine
	StudyView        = domain.StudyView
	ResultStore      = domain.ResultStore
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)
