package governance

import (
	"fmt"

	"github.com/domeprotocol/dome-go/ledger"
)

// Vote records that voter supports the project. Only the receipt is
// stored; the weight behind it is always the voter's live share balance,
// so transferring shares away after voting removes that weight from the
// tally and no snapshot can be gamed.
func (g *Ledger) Vote(projectID uint64, voter ledger.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.project(projectID)
	if err != nil {
		return err
	}
	now := g.cfg.Clock.Now()
	if now.Before(p.VotingStart) {
		return fmt.Errorf("%w: project %d opens at %s", ErrVotingNotStarted, projectID, p.VotingStart.UTC())
	}
	if !now.Before(p.VotingEnd) {
		return fmt.Errorf("%w: project %d closed at %s", ErrVotingEnded, projectID, p.VotingEnd.UTC())
	}
	if g.voters[projectID][voter] {
		return fmt.Errorf("%w: project %d", ErrAlreadyVoted, projectID)
	}
	if g.power.VotingPower(voter) == 0 {
		return ErrNoVotingPower
	}

	g.voters[projectID][voter] = true
	return nil
}

// RemoveVote withdraws a standing vote receipt.
func (g *Ledger) RemoveVote(projectID uint64, voter ledger.Address) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.project(projectID); err != nil {
		return err
	}
	if !g.voters[projectID][voter] {
		return fmt.Errorf("%w: project %d", ErrNotVoted, projectID)
	}
	delete(g.voters[projectID], voter)
	return nil
}

// HasVoted reports whether voter has a standing vote on the project.
func (g *Ledger) HasVoted(projectID uint64, voter ledger.Address) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.voters[projectID][voter]
}

// ProjectVotes returns the project's tally, computed on demand from the
// current balances of everyone with a standing vote.
func (g *Ledger) ProjectVotes(projectID uint64) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.project(projectID); err != nil {
		return 0, err
	}
	return g.tally(projectID), nil
}

// tally sums live voting power under the ledger lock.
func (g *Ledger) tally(projectID uint64) uint64 {
	var total uint64
	for voter := range g.voters[projectID] {
		total += g.power.VotingPower(voter)
	}
	return total
}
