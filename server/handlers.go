package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/domeprotocol/dome-go/dome"
	"github.com/domeprotocol/dome-go/events"
	"github.com/domeprotocol/dome-go/governance"
	"github.com/domeprotocol/dome-go/ledger"
)

type domeSummary struct {
	Address     string `json:"address"`
	CID         string `json:"cid"`
	Owner       string `json:"owner"`
	TotalAssets uint64 `json:"totalAssets"`
	TotalSupply uint64 `json:"totalSupply"`
	DonationBps uint32 `json:"donationBps"`
	Buffer      uint64 `json:"buffer"`
	QueueDepth  int    `json:"queueDepth"`
}

func summarize(d *dome.Dome) domeSummary {
	return domeSummary{
		Address:     d.Address().String(),
		CID:         d.CID(),
		Owner:       d.Owner().String(),
		TotalAssets: d.TotalAssets(),
		TotalSupply: d.TotalSupply(),
		DonationBps: d.DonationBps(),
		Buffer:      d.Reserve(),
		QueueDepth:  len(d.QueuedUsers()),
	}
}

// resolveDome parses the {dome} URL parameter and looks the dome up in
// the registry, writing the error response itself on failure.
func (s *Server) resolveDome(w http.ResponseWriter, r *http.Request) (*dome.Dome, bool) {
	addr, err := ledger.ParseAddress(chi.URLParam(r, "dome"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	d, err := s.cfg.Registry.Dome(addr)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return d, true
}

func (s *Server) handleListDomes(w http.ResponseWriter, _ *http.Request) {
	domes := s.cfg.Registry.Domes()
	out := make([]domeSummary, 0, len(domes))
	for _, d := range domes {
		out = append(out, summarize(d))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDome(w http.ResponseWriter, r *http.Request) {
	d, ok := s.resolveDome(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, summarize(d))
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	d, ok := s.resolveDome(w, r)
	if !ok {
		return
	}
	addr, err := ledger.ParseAddress(chi.URLParam(r, "addr"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	acc := d.Accounting(addr)
	s.writeJSON(w, http.StatusOK, map[string]uint64{
		"deposited": acc.Deposited,
		"withdrawn": acc.Withdrawn,
		"donated":   acc.Donated,
	})
}

type withdrawalStatus struct {
	Queued      bool       `json:"queued"`
	Shares      uint64     `json:"shares,omitempty"`
	NetAssets   uint64     `json:"netAssets,omitempty"`
	Donation    uint64     `json:"donation,omitempty"`
	Receiver    string     `json:"receiver,omitempty"`
	QueuedAt    *time.Time `json:"queuedAt,omitempty"`
	UnlockTime  *time.Time `json:"unlockTime,omitempty"`
	Processable bool       `json:"processable"`
}

func (s *Server) handleWithdrawal(w http.ResponseWriter, r *http.Request) {
	d, ok := s.resolveDome(w, r)
	if !ok {
		return
	}
	addr, err := ledger.ParseAddress(chi.URLParam(r, "addr"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	q, queued := d.QueuedWithdrawalFor(addr)
	if !queued {
		s.writeJSON(w, http.StatusOK, withdrawalStatus{})
		return
	}
	unlock := d.WithdrawalUnlockTime(addr)
	s.writeJSON(w, http.StatusOK, withdrawalStatus{
		Queued:      true,
		Shares:      q.Shares,
		NetAssets:   q.NetAssets,
		Donation:    q.DonationAssets,
		Receiver:    q.Receiver.String(),
		QueuedAt:    &q.QueuedAt,
		UnlockTime:  &unlock,
		Processable: d.CanProcessWithdrawal(addr),
	})
}

type projectView struct {
	ID              uint64    `json:"id"`
	Wallet          string    `json:"wallet"`
	AmountRequested uint64    `json:"amountRequested"`
	Description     string    `json:"description"`
	VotingStart     time.Time `json:"votingStart"`
	VotingEnd       time.Time `json:"votingEnd"`
	Funded          bool      `json:"funded"`
}

func viewProject(p governance.Project) projectView {
	return projectView{
		ID:              p.ID,
		Wallet:          p.Wallet.String(),
		AmountRequested: p.AmountRequested,
		Description:     p.Description,
		VotingStart:     p.VotingStart,
		VotingEnd:       p.VotingEnd,
		Funded:          p.Funded,
	}
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	d, ok := s.resolveDome(w, r)
	if !ok {
		return
	}
	projects := d.Projects()
	out := make([]projectView, 0, len(projects))
	for _, p := range projects {
		out = append(out, viewProject(p))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleProjectVotes(w http.ResponseWriter, r *http.Request) {
	d, ok := s.resolveDome(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	votes, err := d.ProjectVotes(id)
	if err != nil {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]uint64{"projectId": id, "votes": votes})
}

type eventView struct {
	Seq  uint64       `json:"seq"`
	Time time.Time    `json:"time"`
	Type events.Type  `json:"type"`
	Data events.Event `json:"data"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	d, ok := s.resolveDome(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, strconv.ErrSyntax)
			return
		}
		limit = n
	}
	filterType := events.Type(r.URL.Query().Get("type"))

	addr := d.Address()
	entries, err := s.cfg.Journal.Entries(&addr, filterType, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	out := make([]eventView, 0, len(entries))
	for _, e := range entries {
		out = append(out, eventView{
			Seq:  e.Seq,
			Time: e.Time,
			Type: e.Event.EventType(),
			Data: e.Event,
		})
	}
	s.writeJSON(w, http.StatusOK, out)
}
