package server

import (
	"github.com/matryer/way"
)

const URI_WS = "/controller"

func (s *BotServer) Routes() *way.Router {
	router := way.NewRouter()
	router.HandleFunc("GET", "/grid", s.HandleGrid())
	router.HandleFunc("POST", "/path/:row/:col", s.HandleSelect())
	router.HandleFunc("POST", "/clear", s.HandleClear())
	router.HandleFunc("POST", "/run", s.HandleRun())
	router.HandleFunc("POST", "/stop", s.HandleStop())
	router.HandleFunc("POST", "/dismiss", s.HandleDismiss())
	router.HandleFunc("POST", "/settings/:option/:delta", s.HandleSettings())
	router.HandleFunc("GET", "/route", s.HandleRouteGet())
	router.HandleFunc("PUT", "/route", s.HandleRoutePut())
	router.HandleFunc("GET", URI_WS, s.HandleController())
	return router
}
