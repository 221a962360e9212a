package server

import (
	"io/ioutil"
	"net/http"

	"github.com/Shopify/goose/srvutil"
	"github.com/gorilla/mux"

	"github.com/cds-snc/payload-signer/pkg/config"
	"github.com/cds-snc/payload-signer/pkg/signing"
)

const (
	msgDataMissing      = "data field missing"
	msgInvalidJSON      = "invalid JSON body"
	msgBodyTooLarge     = "request body too large"
	msgMethodNotAllowed = "method not allowed"
)

func NewSignServlet(signer signing.Signer) srvutil.Servlet {
	s := &signServlet{signer: signer, maxBodyBytes: config.AppConstants.MaxRequestBytes}
	return srvutil.PrefixServlet(s, "/api")
}

type signServlet struct {
	signer       signing.Signer
	maxBodyBytes int64
}

type signResponse struct {
	Signature string `json:"signature"`
}

// POST /api/sign

func (s *signServlet) RegisterRouting(r *mux.Router) {
	r.HandleFunc("/sign", s.signWrapper)
}

func (s *signServlet) signWrapper(w http.ResponseWriter, r *http.Request) {
	_ = s.sign(w, r)
}

func (s *signServlet) sign(w http.ResponseWriter, r *http.Request) result {
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
	data, err := stringField(fields, "data")
	if err != nil {
		return requestError(ctx, w, err, msgInvalidJSON, http.StatusBadRequest, "")
	}
	if data == nil {
		return requestError(ctx, w, nil, msgDataMissing, http.StatusBadRequest, "")
	}

	signature, err := s.signer.Sign([]byte(*data))
	if err != nil {
		return requestError(ctx, w, err, "error signing payload", http.StatusInternalServerError, err.Error())
	}

	log(ctx, nil).WithField("payload-bytes", len(*data)).Info("signed payload")
	return writeJSON(ctx, w, http.StatusOK, signResponse{Signature: signature})
}
