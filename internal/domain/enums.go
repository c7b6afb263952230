package domain

type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobOnHold     JobStatus = "HOLD"
)

// ValidJobStatuses is the canonical set of accepted job status strings.
var ValidJobStatuses = map[string]bool{
	"PENDING": true, "IN_PROGRESS": true, "COMPLETED": true, "HOLD": true,
}

type ProgressStatus string

const (
	ProgressOnTrack  ProgressStatus = "ON_TRACK"
	ProgressSlipping ProgressStatus = "SLIPPING"
	ProgressStalled  ProgressStatus = "STALLED"
	ProgressAhead    ProgressStatus = "AHEAD"
)

type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskModerate RiskLevel = "moderate"
)

type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyMoveJobs Strategy = "move_jobs"
	StrategyOvertime Strategy = "ot"
	StrategyNoFit    Strategy = "no_fit"
)

type AlertStatus string

const (
	AlertActive   AlertStatus = "ACTIVE"
	AlertResolved AlertStatus = "RESOLVED"
)

type Verdict string

const (
	VerdictAccept          Verdict = "ACCEPT"
	VerdictAcceptWithMoves Verdict = "ACCEPT_WITH_MOVES"
	VerdictAcceptWithOT    Verdict = "ACCEPT_WITH_OT"
	VerdictReject          Verdict = "REJECT"
)

// MoveScope says whether a move option pushes a single work order or every
// job on a shared sales order.
type MoveScope string

const (
	MoveWorkOrder  MoveScope = "work_order"
	MoveSalesOrder MoveScope = "sales_order"
)
