package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/gridbot/control"
	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/settings"
)

const requestTimeout = 200 * time.Millisecond

const maxRouteSize = 16 << 10

// call hands action to Loop and waits for its response, or TIMEOUT.
func (s *BotServer) call(ctx context.Context, action func(s *BotServer) Response) (Response, bool) {
	awaiting := make(chan Response, 1)
	select {
	case s.Requests <- Request{Action: action, Awaiting: awaiting}:
	case <-time.After(requestTimeout):
		log.Warn("BotServer.Requests TIMEOUTED")
		return Response{}, false
	case <-ctx.Done():
		return Response{}, false
	}
	select {
	case resp := <-awaiting:
		return resp, true
	case <-time.After(requestTimeout):
		log.Warn("BotServer response TIMEOUTED")
		return Response{}, false
	}
}

func (s *BotServer) handle(action func(r *http.Request) func(s *BotServer) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a := action(r)
		if a == nil {
			writeResponse(w, Response{Code: BAD_REQUEST, Error: "bad request"})
			return
		}
		resp, ok := s.call(r.Context(), a)
		if !ok {
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		log.Debugf("%s %s -> %s", r.Method, r.URL.Path, resp.Code.Name())
		writeResponse(w, resp)
	}
}

func writeResponse(w http.ResponseWriter, resp Response) {
	body := resp.Body
	if resp.Error != "" {
		body = map[string]string{"error": resp.Error}
	}
	if s, ok := body.(string); ok {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(resp.Code.ToHttp())
		io.WriteString(w, s)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code.ToHttp())
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Errorf("writeResponse: %v", err)
		}
	}
}

// fromError maps controller and grid errors to response codes.
func (s *BotServer) fromError(err error) Response {
	switch {
	case err == nil:
		return Response{Code: OK, Body: s.snapshot()}
	case errors.Is(err, control.ErrBusy):
		return Response{Code: BUSY, Error: err.Error()}
	case errors.Is(err, model.ErrNotSelectable), errors.Is(err, model.ErrBadRoute):
		return Response{Code: REJECTED, Error: err.Error()}
	default:
		log.Errorf("BotServer unexpected error %v", err)
		return Response{Code: FAILED, Error: err.Error()}
	}
}

func (s *BotServer) HandleGrid() http.HandlerFunc {
	return s.handle(func(r *http.Request) func(s *BotServer) Response {
		return func(s *BotServer) Response {
			return Response{Code: OK, Body: s.snapshot()}
		}
	})
}

func (s *BotServer) HandleSelect() http.HandlerFunc {
	return s.handle(func(r *http.Request) func(s *BotServer) Response {
		row, err := strconv.Atoi(way.Param(r.Context(), "row"))
		if err != nil {
			return nil
		}
		col, err := strconv.Atoi(way.Param(r.Context(), "col"))
		if err != nil {
			return nil
		}
		return func(s *BotServer) Response {
			return s.fromError(s.Controller.Select(row, col))
		}
	})
}

func (s *BotServer) HandleClear() http.HandlerFunc {
	return s.handle(func(r *http.Request) func(s *BotServer) Response {
		return func(s *BotServer) Response {
			s.Controller.Clear()
			return s.fromError(nil)
		}
	})
}

// HandleRun needs a connected controller: nothing else would report progress.
func (s *BotServer) HandleRun() http.HandlerFunc {
	return s.handle(func(r *http.Request) func(s *BotServer) Response {
		return func(s *BotServer) Response {
			if s.session == nil {
				return Response{Code: NO_CONTROLLER, Error: "no controller connected"}
			}
			return s.fromError(s.Controller.Run())
		}
	})
}

func (s *BotServer) HandleStop() http.HandlerFunc {
	return s.handle(func(r *http.Request) func(s *BotServer) Response {
		return func(s *BotServer) Response {
			return s.fromError(s.Controller.Stop())
		}
	})
}

func (s *BotServer) HandleDismiss() http.HandlerFunc {
	return s.handle(func(r *http.Request) func(s *BotServer) Response {
		return func(s *BotServer) Response {
			return s.fromError(s.Controller.Dismiss())
		}
	})
}

// HandleSettings adjusts one option. From IDLE the settings menu is opened and
// closed around the change; the result is persisted when a file is configured.
func (s *BotServer) HandleSettings() http.HandlerFunc {
	return s.handle(func(r *http.Request) func(s *BotServer) Response {
		option, err := settings.ParseOption(way.Param(r.Context(), "option"))
		if err != nil {
			return nil
		}
		delta, err := strconv.Atoi(way.Param(r.Context(), "delta"))
		if err != nil {
			return nil
		}
		return func(s *BotServer) Response {
			c := s.Controller
			switch c.State() {
			case control.IDLE:
				c.OpenSettings()
				c.AdjustSetting(option, delta)
				c.CloseSettings()
			case control.SETTINGS:
				c.AdjustSetting(option, delta)
			default:
				return s.fromError(control.ErrBusy)
			}
			if s.SettingsFile != "" {
				if err := settings.Save(s.SettingsFile, c.Settings()); err != nil {
					log.Warnf("BotServer settings not saved: %v", err)
				}
			}
			return s.fromError(nil)
		}
	})
}

func (s *BotServer) HandleRouteGet() http.HandlerFunc {
	return s.handle(func(r *http.Request) func(s *BotServer) Response {
		return func(s *BotServer) Response {
			return Response{Code: OK, Body: model.FormatRoute(s.Controller.Grid()) + "\n"}
		}
	})
}

// HandleRoutePut replaces the path with a route posted as text.
func (s *BotServer) HandleRoutePut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dirs, err := model.ParseRoute(io.LimitReader(r.Body, maxRouteSize))
		if err != nil {
			writeResponse(w, Response{Code: BAD_REQUEST, Error: err.Error()})
			return
		}
		s.handle(func(r *http.Request) func(s *BotServer) Response {
			return func(s *BotServer) Response {
				if s.Controller.State() != control.IDLE {
					return s.fromError(control.ErrBusy)
				}
				return s.fromError(model.ApplyRoute(s.Controller.Grid(), dirs))
			}
		})(w, r)
	}
}

// HandleController accepts the websocket of the motion controller. The slot
// is reserved with Loop before upgrading so a second controller gets 409.
func (s *BotServer) HandleController() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("HandleController connection received")
		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		cs := newControllerSession(cancel)

		accepted := make(chan bool, 1)
		select {
		case s.Connects <- ConnectRequest{Session: cs, Accepted: accepted}:
		case <-time.After(requestTimeout):
			log.Warn("HandleController Connects TIMEOUTED")
			w.WriteHeader(HTTP_TIMEOUT)
			return
		}
		if !<-accepted {
			w.WriteHeader(NO_CONTROLLER.ToHttp())
			return
		}
		defer s.disconnect(cs.Id)

		conn, err := s.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("HandleController websocket upgrade err %v", err)
			return
		}
		cs.Conn = conn
		if err = cs.Run(ctx, s.Events); err != nil {
			log.Warnf("HandleController session %s: %v", cs.Id, err)
		}
	}
}

func (s *BotServer) disconnect(id string) {
	select {
	case s.Disconnects <- id:
	case <-time.After(requestTimeout):
		log.Warnf("BotServer.Disconnects TIMEOUTED for %s", id)
	}
}
