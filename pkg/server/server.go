package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/Shopify/goose/genmain"
	"github.com/Shopify/goose/logger"
	"github.com/Shopify/goose/safely"
	"github.com/Shopify/goose/srvutil"
	"gopkg.in/tomb.v2"

	"github.com/cds-snc/payload-signer/pkg/telemetry"
)

var log = logger.New("server")

type Server interface {
	genmain.Component
	Addr() *net.TCPAddr
}

func New(bind string, servlets []srvutil.Servlet) Server {
	sl := srvutil.CombineServlets(servlets...)

	sl = srvutil.UseServlet(sl,
		srvutil.RequestContextMiddleware,
		srvutil.RequestMetricsMiddleware,
		safely.Middleware,
		telemetry.OpenTelemetryMiddleware,
	)

	return srvutil.NewServer(&tomb.Tomb{}, bind, sl)
}

type errorResponse struct {
	Error string `json:"error"`
}

func requestError(
	ctx context.Context, w http.ResponseWriter, err error,
	logMessage string, code int, responseMessage string,
) result {
	if code >= http.StatusInternalServerError {
		log(ctx, err).Error(logMessage)
	} else {
		log(ctx, err).Warn(logMessage)
	}

	if responseMessage == "" {
		responseMessage = logMessage
	}
	return writeJSON(ctx, w, code, errorResponse{Error: responseMessage})
}

func writeJSON(ctx context.Context, w http.ResponseWriter, code int, resp interface{}) result {
	data, err := json.Marshal(resp)
	if err != nil {
		log(ctx, err).Error("error marshalling response")
		http.Error(w, "server error", http.StatusInternalServerError)
		return result{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		log(ctx, err).Warn("error writing response")
	}
	return result{}
}

// returning this from requestError and the handlers makes it harder to report a failure but forget to return.
type result struct{}
