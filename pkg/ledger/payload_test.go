package ledger

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func sampleInput() Input {
	return Input{
		DepositAddress:      "bc1qdeposit",
		RefundAddress:       "bc1qrefund",
		SettleAddress:       "0xsettle",
		SettleMemo:          "memo-42",
		DepositMethodID:     "btc",
		SettleMethodID:      "eth",
		DepositAmount:       "100000",
		SettleAmount:        "2500000000000000000",
		DeviceTransactionID: "nonce-abc",
	}
}

// decodeFields reads a message whose fields are all length-delimited.
func decodeFields(t *testing.T, b []byte) ([]protowire.Number, map[protowire.Number][]byte) {
	var order []protowire.Number
	fields := map[protowire.Number][]byte{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		require.True(t, n > 0, "tag should parse")
		require.Equal(t, protowire.BytesType, typ, "every field is length-delimited")
		b = b[n:]

		v, n := protowire.ConsumeBytes(b)
		require.True(t, n > 0, "value should parse")
		b = b[n:]

		order = append(order, num)
		fields[num] = v
	}
	return order, fields
}

func TestPayload(t *testing.T) {
	payload, err := Payload(sampleInput())
	require.NoError(t, err)

	order, fields := decodeFields(t, payload)
	assert.Equal(t, []protowire.Number{1, 3, 5, 6, 7, 8, 9, 10, 11}, order, "empty memos should be omitted and fields ordered")
	assert.Equal(t, "bc1qdeposit", string(fields[fieldPayinAddress]))
	assert.Equal(t, "bc1qrefund", string(fields[fieldRefundAddress]))
	assert.Equal(t, "0xsettle", string(fields[fieldPayoutAddress]))
	assert.Equal(t, "memo-42", string(fields[fieldPayoutExtraID]))
	assert.Equal(t, "btc", string(fields[fieldCurrencyFrom]))
	assert.Equal(t, "eth", string(fields[fieldCurrencyTo]))
	assert.Equal(t, "nonce-abc", string(fields[fieldDeviceTransactionID]))

	provider, _ := AmountBytes("100000")
	assert.Equal(t, provider, fields[fieldAmountToProvider])
	wallet, _ := AmountBytes("2500000000000000000")
	assert.Equal(t, wallet, fields[fieldAmountToWallet])
}

func TestPayloadIsStable(t *testing.T) {
	first, err := Payload(sampleInput())
	require.NoError(t, err)
	second, err := Payload(sampleInput())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "the same input should serialize to the same bytes")
}

func TestPayloadMissingField(t *testing.T) {
	in := sampleInput()
	in.DeviceTransactionID = ""

	_, err := Payload(in)
	var inputErr *InputError
	require.True(t, errors.As(err, &inputErr), "should be an InputError")
	assert.Equal(t, "deviceTransactionId", inputErr.Field)
	assert.True(t, errors.Is(err, ErrRequired))
	assert.Equal(t, "input.deviceTransactionId: field is required", err.Error())
}

func TestPayloadBadAmount(t *testing.T) {
	in := sampleInput()
	in.SettleAmount = "1.5"

	_, err := Payload(in)
	assert.EqualError(t, err, "input.settleAmount: amount is not a decimal integer")
	assert.True(t, errors.Is(err, ErrAmountNotInteger))
}

func TestAmountBytes(t *testing.T) {
	b, err := AmountBytes("0")
	require.NoError(t, err)
	assert.Equal(t, make([]byte, AmountSize), b, "zero should be all zero bytes")

	b, err = AmountBytes("258")
	require.NoError(t, err)
	expected := make([]byte, AmountSize)
	expected[14], expected[15] = 0x01, 0x02
	assert.Equal(t, expected, b, "should be big-endian and left-padded")

	// 2^136 needs 18 bytes
	b, err = AmountBytes("87112285931760246646623899502532662132736")
	require.NoError(t, err)
	assert.Len(t, b, 18, "wide amounts keep every byte")
	assert.Equal(t, byte(0x01), b[0])

	_, err = AmountBytes("-1")
	assert.Equal(t, ErrAmountNegative, err)

	_, err = AmountBytes("")
	assert.Equal(t, ErrAmountNotInteger, err)
}
