package treasury

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domeprotocol/dome-go/ledger"
)

func makeAddr(seed byte) ledger.Address {
	var addr ledger.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

func TestBuffer_CreditDebit(t *testing.T) {
	b := NewBuffer()
	assert.Equal(t, uint64(0), b.Reserve())

	b.Credit(100)
	b.Credit(50)
	assert.Equal(t, uint64(150), b.Reserve())

	require.NoError(t, b.Debit(150))
	assert.Equal(t, uint64(0), b.Reserve())
}

func TestBuffer_DebitExceedsReserve(t *testing.T) {
	b := NewBuffer()
	b.Credit(99)

	// Skipped, not partially filled.
	err := b.Debit(100)
	require.ErrorIs(t, err, ErrInsufficientReserve)
	assert.Equal(t, uint64(99), b.Reserve())
}

func TestValidateBeneficiaries(t *testing.T) {
	buffer := makeAddr(0x01)
	tests := []struct {
		name    string
		list    []Beneficiary
		wantErr error
	}{
		{"valid pair", []Beneficiary{
			{CID: "cid-a", Wallet: makeAddr(0x0A), Percent: 6000},
			{CID: "cid-buffer", Wallet: buffer, Percent: 4000},
		}, nil},
		{"single full", []Beneficiary{
			{Wallet: makeAddr(0x0A), Percent: 10000},
		}, nil},
		{"empty", nil, ErrNoBeneficiaries},
		{"sum too low", []Beneficiary{
			{Wallet: makeAddr(0x0A), Percent: 9999},
		}, ErrInvalidSplit},
		{"sum too high", []Beneficiary{
			{Wallet: makeAddr(0x0A), Percent: 6000},
			{Wallet: makeAddr(0x0B), Percent: 5000},
		}, ErrInvalidSplit},
		{"null wallet", []Beneficiary{
			{Wallet: ledger.ZeroAddress, Percent: 10000},
		}, ErrInvalidSplit},
		{"duplicate wallet", []Beneficiary{
			{Wallet: makeAddr(0x0A), Percent: 5000},
			{Wallet: makeAddr(0x0A), Percent: 5000},
		}, ErrInvalidSplit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBeneficiaries(tt.list)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSplitUnderlying_ExactSum(t *testing.T) {
	buffer := makeAddr(0x01)
	list := []Beneficiary{
		{Wallet: makeAddr(0x0A), Percent: 3333},
		{Wallet: makeAddr(0x0B), Percent: 3333},
		{Wallet: buffer, Percent: 3334},
	}
	require.NoError(t, ValidateBeneficiaries(list))

	for _, amount := range []uint64{1, 3, 100, 999, 1_000_000, 7_777_777} {
		payouts, err := SplitUnderlying(amount, list, buffer)
		require.NoError(t, err)
		require.Len(t, payouts, 3)

		var sum uint64
		for _, p := range payouts {
			sum += p.Amount
		}
		assert.Equal(t, amount, sum, "amount %d", amount)

		// Only the buffer wallet's payout is flagged.
		assert.False(t, payouts[0].ToBuffer)
		assert.False(t, payouts[1].ToBuffer)
		assert.True(t, payouts[2].ToBuffer)
	}
}

func TestSplitUnderlying_Proportions(t *testing.T) {
	buffer := makeAddr(0x01)
	list := []Beneficiary{
		{Wallet: makeAddr(0x0A), Percent: 2500},
		{Wallet: buffer, Percent: 2500},
		{Wallet: makeAddr(0x0B), Percent: 5000},
	}
	payouts, err := SplitUnderlying(1000, list, buffer)
	require.NoError(t, err)
	assert.Equal(t, uint64(250), payouts[0].Amount)
	assert.Equal(t, uint64(250), payouts[1].Amount)
	assert.Equal(t, uint64(500), payouts[2].Amount)
	assert.True(t, payouts[1].ToBuffer)
}

func TestSplitUnderlying_ZeroAmount(t *testing.T) {
	_, err := SplitUnderlying(0, []Beneficiary{{Wallet: makeAddr(0x0A), Percent: 10000}}, ledger.ZeroAddress)
	require.ErrorIs(t, err, ErrZeroAmount)
}

// A non-underlying donation must not touch the buffer: the buffer wallet's
// percentage is redistributed evenly among the remaining beneficiaries.
func TestSplitForeign_BufferShareRedistributed(t *testing.T) {
	buffer := makeAddr(0x01)
	list := []Beneficiary{
		{Wallet: makeAddr(0x0A), Percent: 3000},
		{Wallet: makeAddr(0x0B), Percent: 3000},
		{Wallet: buffer, Percent: 4000},
	}
	payouts, err := SplitForeign(1000, list, buffer)
	require.NoError(t, err)
	require.Len(t, payouts, 2)

	// additionalPercent = 4000 / 2 = 2000 bps each; 3000+2000 = 5000 bps.
	assert.Equal(t, uint64(500), payouts[0].Amount)
	assert.Equal(t, uint64(500), payouts[1].Amount)
	for _, p := range payouts {
		assert.NotEqual(t, buffer, p.Wallet)
		assert.False(t, p.ToBuffer)
	}
}

func TestSplitForeign_ExactSum(t *testing.T) {
	buffer := makeAddr(0x01)
	list := []Beneficiary{
		{Wallet: makeAddr(0x0A), Percent: 1500},
		{Wallet: makeAddr(0x0B), Percent: 2500},
		{Wallet: makeAddr(0x0C), Percent: 2500},
		{Wallet: buffer, Percent: 3500},
	}
	for _, amount := range []uint64{1, 17, 1001, 123_456_789} {
		payouts, err := SplitForeign(amount, list, buffer)
		require.NoError(t, err)
		require.Len(t, payouts, 3)
		var sum uint64
		for _, p := range payouts {
			sum += p.Amount
		}
		assert.Equal(t, amount, sum, "amount %d", amount)
	}
}

func TestSplitForeign_NoBufferBeneficiary(t *testing.T) {
	list := []Beneficiary{
		{Wallet: makeAddr(0x0A), Percent: 7000},
		{Wallet: makeAddr(0x0B), Percent: 3000},
	}
	payouts, err := SplitForeign(1000, list, makeAddr(0x01))
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	assert.Equal(t, uint64(700), payouts[0].Amount)
	assert.Equal(t, uint64(300), payouts[1].Amount)
}

func TestSplitForeign_OnlyBufferBeneficiary(t *testing.T) {
	buffer := makeAddr(0x01)
	list := []Beneficiary{{Wallet: buffer, Percent: 10000}}
	_, err := SplitForeign(1000, list, buffer)
	require.ErrorIs(t, err, ErrInvalidSplit)
}
