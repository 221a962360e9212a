package server

import (
	"encoding/json"
	"io/ioutil"
	"net/http"

	"github.com/Shopify/goose/srvutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/cds-snc/payload-signer/pkg/config"
	"github.com/cds-snc/payload-signer/pkg/ledger"
	"github.com/cds-snc/payload-signer/pkg/signing"
)

const msgInputMissing = "input field missing"

func NewLedgerServlet(signer signing.Signer) srvutil.Servlet {
	s := &ledgerServlet{signer: signer, maxBodyBytes: config.AppConstants.MaxRequestBytes}
	return srvutil.PrefixServlet(s, "/api")
}

type ledgerServlet struct {
	signer       signing.Signer
	maxBodyBytes int64
}

// POST /api/sign-ledger-tx

func (s *ledgerServlet) RegisterRouting(r *mux.Router) {
	r.HandleFunc("/sign-ledger-tx", s.signWrapper)
}

func (s *ledgerServlet) signWrapper(w http.ResponseWriter, r *http.Request) {
	_ = s.sign(w, r)
}

func (s *ledgerServlet) sign(w http.ResponseWriter, r *http.Request) result {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		return requestError(ctx, w, nil, msgMethodNotAllowed, http.StatusMethodNotAllowed, "")
	}

	body, err := ioutil.ReadAll(limitBody(w, r, s.maxBodyBytes))
	if err != nil {
		return readError(ctx, w, err)
	}

	fields, err := decodeObject(body)
	if err != nil {
		return requestError(ctx, w, err, msgInvalidJSON, http.StatusBadRequest, "")
	}
	rawInput, ok := fields["input"]
	if !ok || string(rawInput) == "null" {
		return requestError(ctx, w, nil, msgInputMissing, http.StatusBadRequest, "")
	}
	in, err := decodeLedgerInput(rawInput)
	if err != nil {
		return requestError(ctx, w, err, msgInvalidJSON, http.StatusBadRequest, "")
	}
	opts, err := decodeLedgerOptions(fields["options"])
	if err != nil {
		return requestError(ctx, w, err, msgInvalidJSON, http.StatusBadRequest, "")
	}

	res, err := ledger.Sign(s.signer, in, opts)
	if err != nil {
		var inputErr *ledger.InputError
		if errors.As(err, &inputErr) {
			return requestError(ctx, w, err, "invalid ledger input", http.StatusBadRequest, err.Error())
		}
		return requestError(ctx, w, err, "error signing ledger transaction", http.StatusInternalServerError, err.Error())
	}

	log(ctx, nil).WithField("device-transaction-id", in.DeviceTransactionID).Info("signed ledger transaction")
	return writeJSON(ctx, w, http.StatusOK, res)
}

func decodeLedgerInput(raw json.RawMessage) (ledger.Input, error) {
	fields, err := decodeObject(raw)
	if err != nil {
		return ledger.Input{}, err
	}

	var in ledger.Input
	targets := []struct {
		key string
		dst *string
	}{
		{"depositAddress", &in.DepositAddress},
		{"depositMemo", &in.DepositMemo},
		{"refundAddress", &in.RefundAddress},
		{"refundMemo", &in.RefundMemo},
		{"settleAddress", &in.SettleAddress},
		{"settleMemo", &in.SettleMemo},
		{"depositMethodId", &in.DepositMethodID},
		{"settleMethodId", &in.SettleMethodID},
		{"depositAmount", &in.DepositAmount},
		{"settleAmount", &in.SettleAmount},
		{"deviceTransactionId", &in.DeviceTransactionID},
	}
	for _, target := range targets {
		v, err := stringField(fields, target.key)
		if err != nil {
			return ledger.Input{}, errors.Wrap(err, target.key)
		}
		if v != nil {
			*target.dst = *v
		}
	}
	return in, nil
}

func decodeLedgerOptions(raw json.RawMessage) (ledger.Options, error) {
	if raw == nil {
		return ledger.Options{}, nil
	}
	fields, err := decodeObject(raw)
	if err != nil {
		return ledger.Options{}, err
	}

	var opts ledger.Options
	if v, ok := fields["rawMessage"]; ok {
		var rawMessage *bool
		if err := json.Unmarshal(v, &rawMessage); err != nil {
			return ledger.Options{}, errors.Wrap(err, "rawMessage")
		}
		opts.RawMessage = rawMessage != nil && *rawMessage
	}
	return opts, nil
}
