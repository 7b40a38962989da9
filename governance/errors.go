package governance

import "errors"

var (
	// ErrInvalidProject indicates an unknown project id.
	ErrInvalidProject = errors.New("governance: invalid project")

	// ErrInvalidWallet indicates a null project wallet.
	ErrInvalidWallet = errors.New("governance: invalid project wallet")

	// ErrZeroAmount indicates a zero funding request.
	ErrZeroAmount = errors.New("governance: zero amount requested")

	// ErrVotingNotStarted indicates a vote before the project's voting
	// window opens.
	ErrVotingNotStarted = errors.New("governance: voting not started")

	// ErrVotingEnded indicates a vote after the voting window, or a funding
	// attempt after the maximum funding window.
	ErrVotingEnded = errors.New("governance: voting ended")

	// ErrVotingStillActive indicates a funding attempt before the funding
	// window opens.
	ErrVotingStillActive = errors.New("governance: voting still active")

	// ErrAlreadyVoted indicates a duplicate vote.
	ErrAlreadyVoted = errors.New("governance: already voted")

	// ErrNotVoted indicates a vote removal without a standing vote.
	ErrNotVoted = errors.New("governance: not voted")

	// ErrNoVotingPower indicates a voter with a zero live share balance.
	ErrNoVotingPower = errors.New("governance: no voting power")

	// ErrNoEligibleProject indicates a funding call with no candidate that
	// can be funded.
	ErrNoEligibleProject = errors.New("governance: no eligible project")
)
