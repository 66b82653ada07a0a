package server

import (
	"errors"
	"net/http"

	"github.com/mikhailv/reactive-sandbox/internal/sandbox"
)

type runAllResponse struct {
	Passed  bool             `json:"passed"`
	Reports []sandbox.Report `json:"reports"`
}

func (s *HTTPServer) handleScenarios(w http.ResponseWriter, _ *http.Request) (int, error) {
	writeJSON(w, s.runner.Scenarios())
	return http.StatusOK, nil
}

func (s *HTTPServer) handleRunScenario(w http.ResponseWriter, req *http.Request) (int, error) {
	report, err := s.runner.Run(req.Context(), req.PathValue("name"))
	switch {
	case errors.Is(err, sandbox.ErrUnknownScenario):
		return http.StatusNotFound, err
	case err != nil:
		return http.StatusServiceUnavailable, err
	}
	writeJSON(w, report)
	return http.StatusOK, nil
}

func (s *HTTPServer) handleRunAll(w http.ResponseWriter, req *http.Request) (int, error) {
	reports, err := s.runner.RunAll(req.Context())
	if err != nil {
		return http.StatusServiceUnavailable, err
	}
	res := runAllResponse{Passed: true, Reports: reports}
	for _, r := range reports {
		res.Passed = res.Passed && r.Passed
	}
	writeJSON(w, res)
	return http.StatusOK, nil
}
