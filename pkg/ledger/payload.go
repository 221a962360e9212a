package ledger

import (
	"math/big"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// AmountSize is the minimum width of an encoded amount. Larger amounts keep
// every significant byte.
const AmountSize = 16

// Field numbers of ledger_swap.NewTransactionResponse.
const (
	fieldPayinAddress        protowire.Number = 1
	fieldPayinExtraID        protowire.Number = 2
	fieldRefundAddress       protowire.Number = 3
	fieldRefundExtraID       protowire.Number = 4
	fieldPayoutAddress       protowire.Number = 5
	fieldPayoutExtraID       protowire.Number = 6
	fieldCurrencyFrom        protowire.Number = 7
	fieldCurrencyTo          protowire.Number = 8
	fieldAmountToProvider    protowire.Number = 9
	fieldAmountToWallet      protowire.Number = 10
	fieldDeviceTransactionID protowire.Number = 11
)

// Input describes one swap. Amounts are decimal strings in the currency's
// smallest unit.
type Input struct {
	DepositAddress      string
	DepositMemo         string
	RefundAddress       string
	RefundMemo          string
	SettleAddress       string
	SettleMemo          string
	DepositMethodID     string
	SettleMethodID      string
	DepositAmount       string
	SettleAmount        string
	DeviceTransactionID string
}

var (
	ErrRequired         = errors.New("field is required")
	ErrAmountNotInteger = errors.New("amount is not a decimal integer")
	ErrAmountNegative   = errors.New("amount is negative")
)

// InputError names the input field a swap could not be built from.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return "input." + e.Field + ": " + e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Validate reports the first required field that is empty.
func (in Input) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"depositAddress", in.DepositAddress},
		{"settleAddress", in.SettleAddress},
		{"depositMethodId", in.DepositMethodID},
		{"settleMethodId", in.SettleMethodID},
		{"depositAmount", in.DepositAmount},
		{"settleAmount", in.SettleAmount},
		{"deviceTransactionId", in.DeviceTransactionID},
	}
	for _, f := range required {
		if f.value == "" {
			return &InputError{Field: f.name, Err: ErrRequired}
		}
	}
	return nil
}

// AmountBytes encodes a non-negative decimal amount as big-endian bytes,
// left-padded to AmountSize.
func AmountBytes(amount string) ([]byte, error) {
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, ErrAmountNotInteger
	}
	if v.Sign() < 0 {
		return nil, ErrAmountNegative
	}

	size := AmountSize
	if n := len(v.Bytes()); n > size {
		size = n
	}
	return v.FillBytes(make([]byte, size)), nil
}

// Payload serializes in as a ledger_swap.NewTransactionResponse message.
// Fields are written in field-number order and empty strings are omitted, as
// proto3 does for default values.
func Payload(in Input) ([]byte, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	toProvider, err := AmountBytes(in.DepositAmount)
	if err != nil {
		return nil, &InputError{Field: "depositAmount", Err: err}
	}
	toWallet, err := AmountBytes(in.SettleAmount)
	if err != nil {
		return nil, &InputError{Field: "settleAmount", Err: err}
	}

	var b []byte
	b = appendString(b, fieldPayinAddress, in.DepositAddress)
	b = appendString(b, fieldPayinExtraID, in.DepositMemo)
	b = appendString(b, fieldRefundAddress, in.RefundAddress)
	b = appendString(b, fieldRefundExtraID, in.RefundMemo)
	b = appendString(b, fieldPayoutAddress, in.SettleAddress)
	b = appendString(b, fieldPayoutExtraID, in.SettleMemo)
	b = appendString(b, fieldCurrencyFrom, in.DepositMethodID)
	b = appendString(b, fieldCurrencyTo, in.SettleMethodID)
	b = appendBytes(b, fieldAmountToProvider, toProvider)
	b = appendBytes(b, fieldAmountToWallet, toWallet)
	b = appendString(b, fieldDeviceTransactionID, in.DeviceTransactionID)
	return b, nil
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}
