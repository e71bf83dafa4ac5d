// Copyright (c) 2025 walletcore developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package coinselect implements UTXO coin selection and fee estimation,
// per spec.md §4.8: a set of named strategies over a filtered UTXO
// list, a greedy single-pass selector, a branch-and-bound exact-match
// searcher, and the BIP-125/CPFP fee-bump formulas. There is no
// upstream coin-selection library in the example pack, so this is
// grounded directly on spec.md's formulas; it is organized the way the
// teacher organizes its own small, pure value-object packages (plain
// structs and functions, no hidden state).
package coinselect

import (
	"sort"

	"github.com/coreledger/walletcore/errs"
)

// DustThreshold is the default minimum UTXO value worth spending,
// per spec.md §3's UTXO data model.
const DustThreshold = 546

// ScriptType names the address/script kinds whose input and output
// sizes feed vsize estimation.
type ScriptType int

const (
	P2PKH ScriptType = iota
	P2SH
	P2WPKH
	P2WSH
	P2TR
)

var inputVSize = map[ScriptType]int{
	P2PKH:  148,
	P2SH:   91,
	P2WPKH: 68,
	P2WSH:  104,
	P2TR:   57,
}

var outputVSize = map[ScriptType]int{
	P2PKH:  34,
	P2SH:   32,
	P2WPKH: 31,
	P2WSH:  43,
	P2TR:   43,
}

// UTXO is a candidate spendable output, per spec.md §3.
type UTXO struct {
	Txid       [32]byte
	Vout       uint32
	Value      int64
	Confirmed  bool
	ScriptType ScriptType
	RBF        bool
}

// Strategy names a coin-selection ordering, per spec.md §4.8.
type Strategy int

const (
	LargestFirst Strategy = iota
	SmallestFirst
	FIFO
	Random
	BranchAndBound
	Optimal
)

// Params configures a selection run.
type Params struct {
	Strategy           Strategy
	Target             int64
	FeeRate            int64 // satoshis per vbyte
	ChangeScriptType   ScriptType
	MaxInputs          int
	DustThreshold      int64
	IncludeUnconfirmed bool
	CostOfChange       int64 // branch-and-bound tolerance above target+fee
	MaxTries           int
}

// Result is a completed selection.
type Result struct {
	Inputs   []UTXO
	Fee      int64
	Change   int64
	Total    int64
	Strategy Strategy
}

func (p Params) dust() int64 {
	if p.DustThreshold > 0 {
		return p.DustThreshold
	}
	return DustThreshold
}

// filter applies spec.md §4.8's pre-selection filters: confirmed
// (unless configured otherwise), value >= dust threshold.
func filter(utxos []UTXO, p Params) []UTXO {
	out := make([]UTXO, 0, len(utxos))
	for _, u := range utxos {
		if !u.Confirmed && !p.IncludeUnconfirmed {
			continue
		}
		if u.Value < p.dust() {
			continue
		}
		out = append(out, u)
	}
	return out
}

// VSize estimates a transaction's virtual size: 10 bytes overhead plus
// the sum of each input's and output's per-type size, per spec.md
// §4.8.
func VSize(inputs []ScriptType, outputs []ScriptType) int {
	size := 10
	for _, t := range inputs {
		size += inputVSize[t]
	}
	for _, t := range outputs {
		size += outputVSize[t]
	}
	return size
}

func inputTypes(utxos []UTXO) []ScriptType {
	out := make([]ScriptType, len(utxos))
	for i, u := range utxos {
		out[i] = u.ScriptType
	}
	return out
}

// Select dispatches to the chosen strategy (or an automatic pick when
// strategy is Optimal) and returns a satisfying selection.
func Select(utxos []UTXO, p Params) (Result, error) {
	candidates := filter(utxos, p)
	if len(candidates) == 0 {
		return Result{}, errs.New(errs.InsufficientFunds, "no spendable UTXOs after filtering")
	}

	switch p.Strategy {
	case LargestFirst:
		ordered := append([]UTXO(nil), candidates...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Value > ordered[j].Value })
		return greedy(ordered, p, LargestFirst)

	case SmallestFirst:
		ordered := append([]UTXO(nil), candidates...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Value < ordered[j].Value })
		return greedy(ordered, p, SmallestFirst)

	case FIFO:
		// candidates are assumed caller-ordered oldest-first already.
		return greedy(candidates, p, FIFO)

	case Random:
		// deterministic interleave standing in for caller-supplied
		// randomness; coinselect exposes no entropy source of its own.
		ordered := interleave(candidates)
		return greedy(ordered, p, Random)

	case BranchAndBound:
		res, ok := branchAndBound(candidates, p)
		if ok {
			return res, nil
		}
		ordered := append([]UTXO(nil), candidates...)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Value > ordered[j].Value })
		return greedy(ordered, p, LargestFirst)

	case Optimal:
		return SelectAuto(candidates, p)

	default:
		return Result{}, errs.New(errs.InsufficientFunds, "unknown coin selection strategy")
	}
}

// SelectAuto implements the Optimal strategy: branch-and-bound when
// there are at most 20 candidates (the search still stops after
// MaxTries), largest-first otherwise or when branch-and-bound finds no
// match.
func SelectAuto(utxos []UTXO, p Params) (Result, error) {
	candidates := filter(utxos, p)
	if len(candidates) == 0 {
		return Result{}, errs.New(errs.InsufficientFunds, "no spendable UTXOs after filtering")
	}
	if len(candidates) <= 20 {
		if res, ok := branchAndBound(candidates, p); ok {
			res.Strategy = Optimal
			return res, nil
		}
	}
	ordered := append([]UTXO(nil), candidates...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Value > ordered[j].Value })
	res, err := greedy(ordered, p, Optimal)
	return res, err
}

func interleave(utxos []UTXO) []UTXO {
	out := make([]UTXO, len(utxos))
	n := len(utxos)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			out[i] = utxos[i/2]
		} else {
			out[i] = utxos[n-1-i/2]
		}
	}
	return out
}

// greedy implements spec.md §4.8's greedy loop: iterate candidates in
// the strategy's order, accumulate, recompute fee against a 2-output
// transaction (recipient + change) on each step, stop once
// total >= target + fee. Change below the dust threshold is absorbed
// into the fee instead of creating a change output.
func greedy(ordered []UTXO, p Params, strategy Strategy) (Result, error) {
	var chosen []UTXO
	var total int64
	maxInputs := p.MaxInputs
	if maxInputs <= 0 {
		maxInputs = len(ordered)
	}

	for _, u := range ordered {
		if len(chosen) >= maxInputs {
			break
		}
		chosen = append(chosen, u)
		total += u.Value

		fee := int64(VSize(inputTypes(chosen), []ScriptType{P2WPKH, p.ChangeScriptType})) * p.FeeRate
		if total >= p.Target+fee {
			change := total - p.Target - fee
			if change < p.dust() {
				fee += change
				change = 0
			}
			return Result{Inputs: chosen, Fee: fee, Change: change, Total: total, Strategy: strategy}, nil
		}
	}
	return Result{}, errs.New(errs.InsufficientFunds, "coin selection could not reach target plus fee")
}

// branchAndBound performs spec.md §4.8's exact-match DFS: over a
// value-descending list, at each candidate either include or exclude
// it; success when target+fee <= total <= target+fee+costOfChange
// (eliminating the need for a change output entirely); tracks the
// minimum-waste solution found within maxTries.
func branchAndBound(candidates []UTXO, p Params) (Result, bool) {
	ordered := append([]UTXO(nil), candidates...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Value > ordered[j].Value })

	maxTries := p.MaxTries
	if maxTries <= 0 {
		maxTries = 100000
	}
	costOfChange := p.CostOfChange

	var best []UTXO
	bestWaste := int64(-1)
	tries := 0

	var remaining int64
	for _, u := range ordered {
		remaining += u.Value
	}

	var rec func(idx int, selected []UTXO, total int64, remain int64) bool
	rec = func(idx int, selected []UTXO, total int64, remain int64) bool {
		tries++
		if tries > maxTries {
			return true // stop: budget exhausted
		}
		fee := int64(VSize(inputTypes(selected), []ScriptType{P2WPKH})) * p.FeeRate
		if total >= p.Target+fee && total <= p.Target+fee+costOfChange {
			waste := total - (p.Target + fee)
			if bestWaste < 0 || waste < bestWaste {
				bestWaste = waste
				best = append([]UTXO(nil), selected...)
			}
		}
		if total > p.Target+fee+costOfChange {
			return false
		}
		if idx >= len(ordered) {
			return false
		}
		if total+remain < p.Target {
			return false
		}

		u := ordered[idx]
		// include: copy before appending so this branch's slice never
		// aliases the backing array the sibling exclude-branch reuses.
		included := make([]UTXO, len(selected), len(selected)+1)
		copy(included, selected)
		included = append(included, u)
		if stop := rec(idx+1, included, total+u.Value, remain-u.Value); stop {
			return true
		}
		// exclude
		if stop := rec(idx+1, selected, total, remain-u.Value); stop {
			return true
		}
		return false
	}
	rec(0, nil, 0, remaining)

	if best == nil {
		return Result{}, false
	}
	var total int64
	for _, u := range best {
		total += u.Value
	}
	fee := int64(VSize(inputTypes(best), []ScriptType{P2WPKH})) * p.FeeRate
	return Result{Inputs: best, Fee: fee, Change: 0, Total: total, Strategy: BranchAndBound}, true
}

// IsFeeSufficientForReplacement implements spec.md §8's RBF check
// (BIP-125): a replacement's fee must cover the original fee plus the
// new transaction's size charged at the minimum relay fee rate.
func IsFeeSufficientForReplacement(newFee, originalFee int64, newSizeVBytes int, minRelayRate int64) bool {
	return newFee >= originalFee+int64(newSizeVBytes)*minRelayRate
}

// CPFPChildFee solves spec.md §4.8's child-pays-for-parent formula
// for the child fee needed to bring the combined package up to
// targetFeeRate: (parentFee + childFee) / (parentSize + childSize) == targetFeeRate.
func CPFPChildFee(parentFee int64, parentSizeVBytes int, childSizeVBytes int, targetFeeRate int64) int64 {
	packageSize := int64(parentSizeVBytes + childSizeVBytes)
	required := targetFeeRate * packageSize
	childFee := required - parentFee
	if childFee < 0 {
		return 0
	}
	return childFee
}
