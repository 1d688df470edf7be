package domain

// SearchTier names the query strategy that produced a search outcome.
type SearchTier string

const (
	TierExact    SearchTier = "exact"
	TierFallback SearchTier = "fallback"
	TierBackfill SearchTier = "backfill"
)

type OutcomeKind int

const (
	OutcomeAbsent OutcomeKind = iota
	OutcomeFound
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFound:
		return "found"
	case OutcomeFailed:
		return "error"
	default:
		return "absent"
	}
}

// SearchOutcome is the result of resolving one candidate: a track, nothing, or an error.
type SearchOutcome struct {
	Kind      OutcomeKind
	Tier      SearchTier
	Candidate SongCandidate
	Track     ResolvedTrack
	Err       error
}

func Found(c SongCandidate, tier SearchTier, t ResolvedTrack) SearchOutcome {
	return SearchOutcome{Kind: OutcomeFound, Tier: tier, Candidate: c, Track: t}
}

func Absent(c SongCandidate, tier SearchTier) SearchOutcome {
	return SearchOutcome{Kind: OutcomeAbsent, Tier: tier, Candidate: c}
}

func Failed(c SongCandidate, tier SearchTier, err error) SearchOutcome {
	return SearchOutcome{Kind: OutcomeFailed, Tier: tier, Candidate: c, Err: err}
}

// OutcomeTally counts outcomes by kind.
type OutcomeTally struct {
	Found  int
	Absent int
	Failed int
}
