package model

// CooperationLevel buckets an adjuster's tendency to resolve claims without
// escalation.
type CooperationLevel string

const (
	CooperationLow      CooperationLevel = "Low"
	CooperationModerate CooperationLevel = "Moderate"
	CooperationHigh     CooperationLevel = "High"
)

// FrictionLevel buckets a carrier's stalled-claim ratio.
type FrictionLevel string

const (
	FrictionLow    FrictionLevel = "Low"
	FrictionNormal FrictionLevel = "Normal"
	FrictionHigh   FrictionLevel = "High"
)

// ResolutionTendency buckets a carrier's average days to resolution.
type ResolutionTendency string

const (
	ResolutionFast   ResolutionTendency = "Fast"
	ResolutionNormal ResolutionTendency = "Normal"
	ResolutionSlow   ResolutionTendency = "Slow"
)

// Pattern tags attached to adjusters and carriers.
const (
	TagReinspectionHeavy      = "Reinspection-heavy"
	TagEscalationResponsive   = "Escalation-responsive"
	TagSlowResolution         = "Slow resolution"
	TagFastResolution         = "Fast resolution"
	TagHighFriction           = "High friction"
	TagLowFriction            = "Low friction"
	TagDocumentationSensitive = "Documentation-sensitive"
)

// AdjusterIntelligence is the derived behavioral profile of one adjuster.
// Nil pointer fields serialize as null and mean the snapshot did not hold
// enough data to compute them.
type AdjusterIntelligence struct {
	AdjusterID              string            `json:"adjusterId"`
	TotalInteractions       int               `json:"totalInteractions"`
	TotalClaims             int               `json:"totalClaims"`
	EscalationCount         int               `json:"escalationCount"`
	ReinspectionCount       int               `json:"reinspectionCount"`
	AvgDaysToResolution     *int              `json:"avgDaysToResolution"`
	OutcomesResolved        int               `json:"outcomesResolved"`
	OutcomesStalled         int               `json:"outcomesStalled"`
	OutcomesOpen            int               `json:"outcomesOpen"`
	PatternTags             []string          `json:"patternTags"`
	RiskScore               int               `json:"riskScore"`
	ResponsivenessScore     *int              `json:"responsivenessScore"`
	CooperationLevel        *CooperationLevel `json:"cooperationLevel"`
	SupplementApprovalRate  *int              `json:"supplementApprovalRate"`
	AvgInteractionsPerClaim *float64          `json:"avgInteractionsPerClaim"`
}

// CarrierIntelligence is the carrier-level analogue of AdjusterIntelligence.
type CarrierIntelligence struct {
	Carrier                 string              `json:"carrier"`
	TotalAdjusters          int                 `json:"totalAdjusters"`
	TotalInteractions       int                 `json:"totalInteractions"`
	TotalClaims             int                 `json:"totalClaims"`
	EscalationCount         int                 `json:"escalationCount"`
	ReinspectionCount       int                 `json:"reinspectionCount"`
	AvgDaysToResolution     *int                `json:"avgDaysToResolution"`
	OutcomesResolved        int                 `json:"outcomesResolved"`
	OutcomesStalled         int                 `json:"outcomesStalled"`
	OutcomesOpen            int                 `json:"outcomesOpen"`
	PatternTags             []string            `json:"patternTags"`
	RiskScore               *int                `json:"riskScore"`
	EscalationEffectiveness *int                `json:"escalationEffectiveness"`
	FrictionLevel           *FrictionLevel      `json:"frictionLevel"`
	ResolutionTendency      *ResolutionTendency `json:"resolutionTendency"`
	SupplementSuccessRate   *int                `json:"supplementSuccessRate"`
	ReinspectionWinRate     *int                `json:"reinspectionWinRate"`
	AvgInteractionsPerClaim *float64            `json:"avgInteractionsPerClaim"`
}

// PerformanceSummary aggregates outcomes across the whole portfolio.
type PerformanceSummary struct {
	SupplementSuccessRate *int `json:"supplementSuccessRate"`
	ReinspectionWinRate   *int `json:"reinspectionWinRate"`
	EscalationSuccessRate *int `json:"escalationSuccessRate"`
	AvgDaysToApproval     *int `json:"avgDaysToApproval"`
	TotalClaims           int  `json:"totalClaims"`
	TotalInteractions     int  `json:"totalInteractions"`
	TotalSupplements      int  `json:"totalSupplements"`
	TotalEscalations      int  `json:"totalEscalations"`
	TotalReinspections    int  `json:"totalReinspections"`
}
