package governance

import (
	"fmt"
	"sort"

	"github.com/domeprotocol/dome-go/events"
)

// FundTopProject selects and funds exactly one project from the
// caller-supplied candidate list, returning its id.
//
// A candidate is eligible when it is not yet funded and the current time
// lies inside its funding window (votingEnd+MinVotingPeriod,
// votingEnd+MaxFundingWindow]. Among eligible candidates the highest live
// tally wins; ties break toward the earliest position in the caller's
// list. A winner whose requested amount exceeds the buffer reserve is
// skipped and the next-best candidate is tried.
//
// When nothing funds: an unknown id fails ErrInvalidProject; otherwise a
// candidate still before its window fails ErrVotingStillActive; otherwise
// if every candidate's window has passed the call fails ErrVotingEnded;
// otherwise ErrNoEligibleProject.
func (g *Ledger) FundTopProject(candidateIDs []uint64) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(candidateIDs) == 0 {
		return 0, fmt.Errorf("%w: empty candidate list", ErrNoEligibleProject)
	}

	candidates := make([]*Project, len(candidateIDs))
	for i, id := range candidateIDs {
		p, err := g.project(id)
		if err != nil {
			return 0, err
		}
		candidates[i] = p
	}

	now := g.cfg.Clock.Now()
	type ranked struct {
		p     *Project
		tally uint64
	}
	var (
		eligible        []ranked
		beforeWindow    bool
		pastWindowCount int
	)
	for _, p := range candidates {
		if p.Funded {
			continue
		}
		windowOpen := p.VotingEnd.Add(g.cfg.MinVotingPeriod)
		windowClose := p.VotingEnd.Add(g.cfg.MaxFundingWindow)
		if !now.After(windowOpen) {
			beforeWindow = true
			continue
		}
		if now.After(windowClose) {
			pastWindowCount++
			continue
		}
		eligible = append(eligible, ranked{p: p, tally: g.tally(p.ID)})
	}

	// Stable sort keeps caller order for equal tallies.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].tally > eligible[j].tally
	})

	for _, r := range eligible {
		if r.p.AmountRequested > g.treasury.Reserve() {
			continue
		}
		if err := g.treasury.PayOut(r.p.Wallet, r.p.AmountRequested); err != nil {
			return 0, fmt.Errorf("governance: fund project %d: %w", r.p.ID, err)
		}
		r.p.Funded = true
		g.rec.Record(events.ProjectFunded{
			ProjectID: r.p.ID,
			Wallet:    r.p.Wallet,
			Amount:    r.p.AmountRequested,
		})
		return r.p.ID, nil
	}

	switch {
	case beforeWindow:
		return 0, fmt.Errorf("%w: funding window not open", ErrVotingStillActive)
	case pastWindowCount == len(candidateIDs):
		return 0, fmt.Errorf("%w: funding window closed", ErrVotingEnded)
	default:
		return 0, ErrNoEligibleProject
	}
}
