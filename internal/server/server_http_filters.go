package server

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/mikhailv/reactive-sandbox/internal/log"
	"github.com/mikhailv/reactive-sandbox/internal/reactive"
	"github.com/mikhailv/reactive-sandbox/internal/sandbox"
	"github.com/mikhailv/reactive-sandbox/internal/util"
)

func (s *HTTPServer) filterLogs(_ *http.Request, query url.Values) FilterFunc[log.Entry] {
	levels := queryParamList(query, "level")
	if len(levels) == 0 {
		return nil
	}
	levelSet := util.SetOf(levels...)
	return func(val log.Entry) bool {
		return levelSet.Has(val.Level)
	}
}

func (s *HTTPServer) filterSignals(_ *http.Request, query url.Values) FilterFunc[sandbox.SignalEntry] {
	scenarios := util.SetOf(queryParamList(query, "scenario")...)
	runID := query.Get("run")

	var kinds util.Set[reactive.Kind]
	for _, name := range queryParamList(query, "kind") {
		if kind, err := reactive.ParseKind(name); err == nil {
			kinds.Add(kind)
		}
	}

	if scenarios.Size() == 0 && kinds.Size() == 0 && runID == "" {
		return nil
	}
	return func(val sandbox.SignalEntry) bool {
		return (scenarios.Size() == 0 || scenarios.Has(val.Scenario)) &&
			(kinds.Size() == 0 || kinds.Has(val.Kind)) &&
			(runID == "" || runID == val.RunID)
	}
}

func queryParamList(query url.Values, name string) []string {
	return slices.DeleteFunc(strings.Split(query.Get(name), ","), func(s string) bool { return s == "" })
}
