package collateral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruelbox/simex/logging"
	"github.com/gruelbox/simex/types"
	"github.com/gruelbox/simex/types/num"
)

func getTestEngine(t *testing.T) *Engine {
	t.Helper()
	return New(logging.NewTestLogger(), NewDefaultConfig())
}

func dec(s string) num.Decimal {
	return num.MustDecimalFromString(s)
}

func assertBalance(t *testing.T, e *Engine, party, currency, total, frozen string) {
	t.Helper()
	b := e.Balance(party, currency)
	assert.True(t, b.Total.Equal(dec(total)), "total %s, want %s", b.Total, total)
	assert.True(t, b.Frozen.Equal(dec(frozen)), "frozen %s, want %s", b.Frozen, frozen)
	assert.True(t, b.Available().Equal(b.Total.Sub(b.Frozen)))
}

func TestEngine_DepositReturnsUpdatedSnapshot(t *testing.T) {
	e := getTestEngine(t)

	b, err := e.Deposit("party-a", "USD", dec("1000"))
	require.NoError(t, err)
	assert.Equal(t, "USD", b.Currency)
	assert.True(t, b.Total.Equal(dec("1000")))
	assert.True(t, b.Frozen.IsZero())

	// deposits accumulate
	b, err = e.Deposit("party-a", "USD", dec("250.5"))
	require.NoError(t, err)
	assert.True(t, b.Total.Equal(dec("1250.5")))
}

func TestEngine_DepositValidation(t *testing.T) {
	e := getTestEngine(t)

	_, err := e.Deposit("", "USD", dec("1"))
	assert.ErrorIs(t, err, types.ErrInvalidParty)
	_, err = e.Deposit("party-a", "", dec("1"))
	assert.ErrorIs(t, err, types.ErrInvalidInstrument)
	_, err = e.Deposit("party-a", "USD", dec("0"))
	assert.ErrorIs(t, err, types.ErrInvalidAmount)
	_, err = e.Deposit("party-a", "USD", dec("-5"))
	assert.ErrorIs(t, err, types.ErrInvalidAmount)
}

func TestEngine_UnknownBalanceIsZero(t *testing.T) {
	e := getTestEngine(t)

	b := e.Balance("nobody", "USD")
	assert.True(t, b.Total.IsZero())
	assert.True(t, b.Frozen.IsZero())
	assert.True(t, b.Available().IsZero())
	assert.Empty(t, e.Balances("nobody"))
}

func TestEngine_ReserveAndRelease(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.Deposit("party-a", "USD", dec("100"))
	require.NoError(t, err)

	require.NoError(t, e.Reserve("party-a", "USD", dec("60")))
	assertBalance(t, e, "party-a", "USD", "100", "60")

	// the remaining available balance caps further reservations
	err = e.Reserve("party-a", "USD", dec("40.01"))
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)
	assertBalance(t, e, "party-a", "USD", "100", "60")

	require.NoError(t, e.Release("party-a", "USD", dec("60")))
	assertBalance(t, e, "party-a", "USD", "100", "0")
}

func TestEngine_ReleaseMoreThanFrozen(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.Deposit("party-a", "USD", dec("100"))
	require.NoError(t, err)
	require.NoError(t, e.Reserve("party-a", "USD", dec("10")))

	err = e.Release("party-a", "USD", dec("10.01"))
	assert.ErrorIs(t, err, types.ErrInvariantViolation)
	assertBalance(t, e, "party-a", "USD", "100", "10")
}

func TestEngine_TransferFromAvailable(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.Deposit("party-a", "USD", dec("100"))
	require.NoError(t, err)

	require.NoError(t, e.Transfer("party-a", "party-b", "USD", dec("30"), false))
	assertBalance(t, e, "party-a", "USD", "70", "0")
	assertBalance(t, e, "party-b", "USD", "30", "0")

	err = e.Transfer("party-a", "party-b", "USD", dec("70.01"), false)
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)
	assertBalance(t, e, "party-a", "USD", "70", "0")
	assertBalance(t, e, "party-b", "USD", "30", "0")
}

func TestEngine_TransferFromReserved(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.Deposit("party-a", "USD", dec("100"))
	require.NoError(t, err)
	require.NoError(t, e.Reserve("party-a", "USD", dec("40")))

	// a reserved transfer settles out of the frozen balance
	require.NoError(t, e.Transfer("party-a", "party-b", "USD", dec("25"), true))
	assertBalance(t, e, "party-a", "USD", "75", "15")
	assertBalance(t, e, "party-b", "USD", "25", "0")

	// more than is frozen cannot settle as reserved
	err = e.Transfer("party-a", "party-b", "USD", dec("15.01"), true)
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)
	assertBalance(t, e, "party-a", "USD", "75", "15")
}

func TestEngine_TransferDoesNotTouchFrozenFunds(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.Deposit("party-a", "USD", dec("100"))
	require.NoError(t, err)
	require.NoError(t, e.Reserve("party-a", "USD", dec("80")))

	// only 20 is available for an unreserved transfer
	err = e.Transfer("party-a", "party-b", "USD", dec("21"), false)
	assert.ErrorIs(t, err, types.ErrInsufficientFunds)

	require.NoError(t, e.Transfer("party-a", "party-b", "USD", dec("20"), false))
	assertBalance(t, e, "party-a", "USD", "80", "80")
}

func TestEngine_TransferConservesTotals(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.Deposit("party-a", "USD", dec("100"))
	require.NoError(t, err)
	_, err = e.Deposit("party-b", "USD", dec("50"))
	require.NoError(t, err)

	require.NoError(t, e.Reserve("party-a", "USD", dec("60")))
	require.NoError(t, e.Transfer("party-a", "party-b", "USD", dec("60"), true))
	require.NoError(t, e.Transfer("party-b", "party-a", "USD", dec("110"), false))

	sum := e.Balance("party-a", "USD").Total.Add(e.Balance("party-b", "USD").Total)
	assert.True(t, sum.Equal(dec("150")), "totals no longer sum to the deposits: %s", sum)
}

func TestEngine_BalancesPerCurrency(t *testing.T) {
	e := getTestEngine(t)
	_, err := e.Deposit("party-a", "USD", dec("100"))
	require.NoError(t, err)
	_, err = e.Deposit("party-a", "BTC", dec("2"))
	require.NoError(t, err)

	balances := e.Balances("party-a")
	require.Len(t, balances, 2)
	byCurrency := map[string]types.Balance{}
	for _, b := range balances {
		byCurrency[b.Currency] = b
	}
	assert.True(t, byCurrency["USD"].Total.Equal(dec("100")))
	assert.True(t, byCurrency["BTC"].Total.Equal(dec("2")))
}
