package coinselect

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func utxo(value int64, confirmed bool) UTXO {
	return UTXO{Value: value, Confirmed: confirmed, ScriptType: P2WPKH}
}

func TestSelectLargestFirstMeetsTarget(t *testing.T) {
	utxos := []UTXO{utxo(1000, true), utxo(50000, true), utxo(20000, true)}
	res, err := Select(utxos, Params{Strategy: LargestFirst, Target: 30000, FeeRate: 1, ChangeScriptType: P2WPKH})
	require.NoError(t, err)
	require.GreaterOrEqual(t, res.Total, res.Fee+30000)
	require.Equal(t, res.Total, 30000+res.Change+res.Fee)
}

func TestSelectFiltersUnconfirmedByDefault(t *testing.T) {
	utxos := []UTXO{utxo(100000, false)}
	_, err := Select(utxos, Params{Strategy: LargestFirst, Target: 1000, FeeRate: 1})
	require.Error(t, err)
}

func TestSelectFiltersDust(t *testing.T) {
	utxos := []UTXO{utxo(100, true)}
	_, err := Select(utxos, Params{Strategy: LargestFirst, Target: 50, FeeRate: 1})
	require.Error(t, err)
}

func TestSelectInsufficientFunds(t *testing.T) {
	utxos := []UTXO{utxo(1000, true)}
	_, err := Select(utxos, Params{Strategy: LargestFirst, Target: 1000000, FeeRate: 1})
	require.Error(t, err)
}

func TestBranchAndBoundFindsExactMatchWithoutChange(t *testing.T) {
	utxos := []UTXO{utxo(10000, true), utxo(5000, true), utxo(3000, true)}
	res, err := Select(utxos, Params{
		Strategy:     BranchAndBound,
		Target:       8000,
		FeeRate:      0,
		CostOfChange: 50,
	})
	require.NoError(t, err)
	require.Zero(t, res.Change)
	require.GreaterOrEqual(t, res.Total, res.Fee+8000)
}

func TestVSizeMatchesSpecFormula(t *testing.T) {
	size := VSize([]ScriptType{P2WPKH}, []ScriptType{P2WPKH, P2WPKH})
	require.Equal(t, 10+68+31+31, size)
}

func TestIsFeeSufficientForReplacement(t *testing.T) {
	require.True(t, IsFeeSufficientForReplacement(2000, 1000, 200, 5))
	require.False(t, IsFeeSufficientForReplacement(1500, 1000, 200, 5))
}

func TestCPFPChildFee(t *testing.T) {
	childFee := CPFPChildFee(500, 200, 150, 10)
	require.Equal(t, int64(10*(200+150)-500), childFee)
}

func TestSelectAutoPrefersExactMatchOverChange(t *testing.T) {
	utxos := []UTXO{utxo(10000, true), utxo(2000, true)}
	res, err := SelectAuto(utxos, Params{Target: 10000, FeeRate: 0, CostOfChange: 0})
	require.NoError(t, err)
	require.Zero(t, res.Change)
}
