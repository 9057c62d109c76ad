package metricsfx

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/yurykabanov/eslimiter/pkg/http/handler"
)

func RunsHandler(
	logger *logrus.Logger,
	repository handler.RunRepository,
) *handler.RunsHandler {
	return handler.NewRunsHandler(logger, repository)
}

func RegisterRunsHandler(router *mux.Router, h *handler.RunsHandler) {
	router.Handle("/metrics/runs", h).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
}
