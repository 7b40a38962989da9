// Package events defines the typed protocol events emitted by committed
// core operations. Events are the core's only observability surface;
// indexers and dashboards consume them, the core never logs.
package events

import "github.com/domeprotocol/dome-go/ledger"

// Type names an event kind. The names match the on-chain event signatures
// so external indexers can be pointed at either source.
type Type string

const (
	TypeDeposit                 Type = "Deposit"
	TypeWithdraw                Type = "Withdraw"
	TypeWithdrawalQueued        Type = "WithdrawalQueued"
	TypeWithdrawalProcessed     Type = "WithdrawalProcessed"
	TypeDonate                  Type = "Donate"
	TypeProjectFunded           Type = "ProjectFunded"
	TypeDonationBpsUpdated      Type = "DonationBpsUpdated"
	TypeGovernanceUpdated       Type = "GovernanceUpdated"
	TypeYieldProviderConfigured Type = "YieldProviderConfigured"
	TypeDomeCreated             Type = "DomeCreated"
)

// Event is implemented by every protocol event.
type Event interface {
	EventType() Type
}

// Deposit is emitted when assets are exchanged for newly minted shares.
type Deposit struct {
	Sender   ledger.Address
	Receiver ledger.Address
	Assets   uint64
	Shares   uint64
}

func (Deposit) EventType() Type { return TypeDeposit }

// Withdraw is emitted when shares are redeemed and paid out immediately.
type Withdraw struct {
	Sender   ledger.Address
	Receiver ledger.Address
	Owner    ledger.Address
	Assets   uint64
	Shares   uint64
}

func (Withdraw) EventType() Type { return TypeWithdraw }

// WithdrawalQueued is emitted when a redemption cannot be paid out
// immediately and enters the delayed-withdrawal queue.
type WithdrawalQueued struct {
	User   ledger.Address
	Shares uint64
	Assets uint64
}

func (WithdrawalQueued) EventType() Type { return TypeWithdrawalQueued }

// WithdrawalProcessed is emitted when a queued withdrawal is paid out.
type WithdrawalProcessed struct {
	User     ledger.Address
	Receiver ledger.Address
	Net      uint64
	Donation uint64
}

func (WithdrawalProcessed) EventType() Type { return TypeWithdrawalProcessed }

// Donate is emitted when a donation is distributed among beneficiaries.
// Token is the symbol of the donated asset.
type Donate struct {
	Donor  ledger.Address
	Token  string
	Amount uint64
}

func (Donate) EventType() Type { return TypeDonate }

// ProjectFunded is emitted when governance pays a project from the buffer.
type ProjectFunded struct {
	ProjectID uint64
	Wallet    ledger.Address
	Amount    uint64
}

func (ProjectFunded) EventType() Type { return TypeProjectFunded }

// DonationBpsUpdated is emitted when the owner changes the donation rate.
type DonationBpsUpdated struct {
	NewBps uint32
}

func (DonationBpsUpdated) EventType() Type { return TypeDonationBpsUpdated }

// GovernanceUpdated is emitted when the governance address changes.
type GovernanceUpdated struct {
	NewAddress ledger.Address
}

func (GovernanceUpdated) EventType() Type { return TypeGovernanceUpdated }

// YieldProviderConfigured is emitted when the system owner registers or
// toggles a yield provider.
type YieldProviderConfigured struct {
	Provider     string
	ProviderType string
	Enabled      bool
}

func (YieldProviderConfigured) EventType() Type { return TypeYieldProviderConfigured }

// DomeCreated is emitted when the registry instantiates a new dome.
type DomeCreated struct {
	Creator       ledger.Address
	DomeAddress   ledger.Address
	YieldProtocol string
	ProviderType  string
	CID           string
}

func (DomeCreated) EventType() Type { return TypeDomeCreated }
