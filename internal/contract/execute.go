package contract

import (
	"bytes"
	"context"
	"math"

	"github.com/chainkit/sendplugin/internal/ptypes"
	"github.com/chainkit/sendplugin/internal/statekeys"
)

const (
	queryIDPool = 1
	queryIDFrom = 2
	queryIDTo   = 3
)

// executeSend is the balance/fee accounting core: read the sender,
// recipient and fee pool in one batch, compute the new balances with
// unsigned 64-bit arithmetic, and write the result in one batch.
func (c *SendContract) executeSend(ctx context.Context, msg *ptypes.MessageSend, fee uint64) *ptypes.ProtoError {
	kFrom := statekeys.KeyForAccount(msg.FromAddress)
	kTo := statekeys.KeyForAccount(msg.ToAddress)
	kPool := statekeys.KeyForFeePool(c.ChainID)
	selfTransfer := bytes.Equal(kFrom, kTo)

	results, protoErr := c.State.ReadState(ctx, []ptypes.StateReadKey{
		{QueryID: queryIDPool, Key: kPool},
		{QueryID: queryIDFrom, Key: kFrom},
		{QueryID: queryIDTo, Key: kTo},
	})
	if protoErr != nil {
		return protoErr
	}

	pool, protoErr := decodePool(results, c.ChainID)
	if protoErr != nil {
		return protoErr
	}
	fromAccount, protoErr := decodeAccount(results, queryIDFrom, msg.FromAddress)
	if protoErr != nil {
		return protoErr
	}
	toAccount, protoErr := decodeAccount(results, queryIDTo, msg.ToAddress)
	if protoErr != nil {
		return protoErr
	}

	deduction, ok := addUint64(msg.Amount, fee)
	if !ok {
		return ptypes.NewMarshalError(errOverflow)
	}
	if fromAccount.Amount < deduction {
		return ptypes.NewInsufficientFundsError()
	}
	newFrom := fromAccount.Amount - deduction

	poolAmount, ok := addUint64(pool.Amount, fee)
	if !ok {
		return ptypes.NewMarshalError(errOverflow)
	}
	updatedPool := &ptypes.Pool{ID: c.ChainID, Amount: poolAmount}

	var sets []ptypes.StateWriteSet
	var deletes [][]byte
	sets = append(sets, ptypes.StateWriteSet{Key: kPool, Value: ptypes.MarshalPool(updatedPool)})

	if selfTransfer {
		// The principal leg nets to zero on a self-transfer; only the fee
		// actually leaves the account.
		updatedSelf := &ptypes.Account{Address: msg.ToAddress, Amount: fromAccount.Amount - fee}
		sets = append(sets, ptypes.StateWriteSet{Key: kFrom, Value: ptypes.MarshalAccount(updatedSelf)})
	} else {
		if newFrom == 0 {
			deletes = append(deletes, kFrom)
		} else {
			updatedFrom := &ptypes.Account{Address: msg.FromAddress, Amount: newFrom}
			sets = append(sets, ptypes.StateWriteSet{Key: kFrom, Value: ptypes.MarshalAccount(updatedFrom)})
		}
		newTo, ok := addUint64(toAccount.Amount, msg.Amount)
		if !ok {
			return ptypes.NewMarshalError(errOverflow)
		}
		updatedTo := &ptypes.Account{Address: msg.ToAddress, Amount: newTo}
		sets = append(sets, ptypes.StateWriteSet{Key: kTo, Value: ptypes.MarshalAccount(updatedTo)})
	}

	return c.State.WriteState(ctx, sets, deletes)
}

func decodePool(results []ptypes.StateReadResult, chainID uint64) (*ptypes.Pool, *ptypes.ProtoError) {
	entry, ok := firstEntry(results, queryIDPool)
	if !ok || len(entry.Value) == 0 {
		return &ptypes.Pool{ID: chainID, Amount: 0}, nil
	}
	p, err := ptypes.UnmarshalPool(entry.Value)
	if err != nil {
		return nil, ptypes.NewUnmarshalError(err)
	}
	return p, nil
}

func decodeAccount(results []ptypes.StateReadResult, queryID uint64, addr []byte) (*ptypes.Account, *ptypes.ProtoError) {
	entry, ok := firstEntry(results, queryID)
	if !ok || len(entry.Value) == 0 {
		return &ptypes.Account{Address: addr, Amount: 0}, nil
	}
	a, err := ptypes.UnmarshalAccount(entry.Value)
	if err != nil {
		return nil, ptypes.NewUnmarshalError(err)
	}
	return a, nil
}

// addUint64 adds a and b, reporting false if the sum would overflow a
// uint64 rather than silently wrapping.
func addUint64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

type sendErr string

func (e sendErr) Error() string { return string(e) }

const errOverflow = sendErr("contract: balance arithmetic overflow")
