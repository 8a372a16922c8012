package server

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zucenko/gridbot/control"
	"github.com/zucenko/gridbot/model"
	"github.com/zucenko/gridbot/motion"
	"github.com/zucenko/gridbot/settings"
)

const (
	tickResolution = 50 * time.Millisecond
	writeWait      = time.Second
	pingResolution = 500 * time.Millisecond
	pongWait       = pingResolution * 4
	maxMessageSize = 4096
)

// ErrSessionClosed ends the session pumps when the controller hangs up.
var ErrSessionClosed = errors.New("controller session closed")

func NewBotServer(grid *model.Grid, s settings.Settings, countdown float32, settingsFile string) *BotServer {
	bs := &BotServer{
		Requests:     make(chan Request),
		Events:       make(chan SessionEvent),
		Connects:     make(chan ConnectRequest),
		Disconnects:  make(chan string),
		Upgrader:     &websocket.Upgrader{},
		SettingsFile: settingsFile,
		heading:      model.UP,
	}
	bs.Controller = control.New(grid, s, &remoteMover{server: bs}, countdown)
	return bs
}

// Loop serializes every grid and controller change until ctx is done.
func (s *BotServer) Loop(ctx context.Context) error {
	log.Info("BotServer.Loop starting")
	ticks := channerics.NewTicker(ctx.Done(), tickResolution)
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Info("BotServer.Loop ending")
			if s.session != nil {
				s.session.cancel()
				s.session = nil
			}
			return nil
		case <-ticks:
			now := time.Now()
			s.Controller.Update(float32(now.Sub(last).Seconds()))
			last = now
		case req := <-s.Requests:
			req.Awaiting <- req.Action(s)
		case cr := <-s.Connects:
			if s.session != nil {
				log.Warnf("BotServer.Loop refusing controller %s, %s connected", cr.Session.Id, s.session.Id)
				cr.Accepted <- false
				continue
			}
			log.Infof("BotServer.Loop controller %s connected", cr.Session.Id)
			s.session = cr.Session
			s.session.State = SS_READY
			cr.Accepted <- true
			s.send(s.setupMessage())
		case id := <-s.Disconnects:
			if s.session == nil || s.session.Id != id {
				continue
			}
			log.Infof("BotServer.Loop controller %s gone", id)
			s.session = nil
			if err := s.Controller.Stop(); err == nil {
				log.Warn("BotServer.Loop run aborted, controller gone")
			}
		case ev := <-s.Events:
			s.handleEvent(ev)
		}
	}
}

func (s *BotServer) handleEvent(ev SessionEvent) {
	if s.session == nil || s.session.Id != ev.SessionId {
		log.Warnf("BotServer event from unknown session %s", ev.SessionId)
		return
	}
	if ev.Message.Fault != "" {
		log.Warnf("BotServer controller fault: %s", ev.Message.Fault)
		s.session.State = SS_ERR
		s.Controller.Stop()
		return
	}
	grid := s.Controller.Grid()
	if s.Controller.State() != control.RUNNING || ev.Message.Done != grid.CursorIndex() {
		log.Warnf("BotServer stale done:%d cursor:%d state:%s",
			ev.Message.Done, grid.CursorIndex(), s.Controller.State().Name())
		return
	}
	s.session.State = SS_READY
	s.Controller.StepDone()
}

// send queues a message for the connected controller, if any. It never blocks Loop.
func (s *BotServer) send(m model.ServerMessage) {
	if s.session == nil {
		return
	}
	select {
	case s.session.MessagesToSend <- m:
	default:
		log.Warnf("BotServer dropping message, session %s queue FULL", s.session.Id)
	}
}

func (s *BotServer) setupMessage() model.ServerMessage {
	grid := s.Controller.Grid()
	return model.ServerMessage{
		Setup: []model.Setup{{
			Rows:      grid.Rows(),
			Cols:      grid.Cols(),
			SessionId: s.session.Id,
			Path:      grid.Path(),
		}},
	}
}

func (s *BotServer) snapshot() Snapshot {
	v := s.Controller.View()
	snap := Snapshot{
		State:      v.State.Name(),
		Rows:       v.Rows,
		Cols:       v.Cols,
		Path:       v.Path,
		Selectable: v.Selectable,
		Cursor:     v.Cursor,
		Direction:  v.Direction.Name(),
		Complete:   v.Complete,
		Remaining:  v.Remaining,
		Settings: SettingsView{
			Brightness: v.Settings.Brightness,
			Speed:      v.Settings.Speed.Name(),
			Distance:   v.Settings.Distance.Name(),
		},
	}
	if s.session != nil {
		snap.Controller = s.session.Id
	}
	return snap
}

// remoteMover forwards steps to the websocket controller. It runs inside Loop.
type remoteMover struct {
	server *BotServer
}

func (m *remoteMover) Begin(step model.Step, st settings.Settings) {
	s := m.server
	if step.Index == 0 {
		s.heading = model.UP
	}
	cmd := model.StepCommand{Step: step}
	for _, a := range motion.Plan(s.heading, step.Direction, motion.TimingFor(st)) {
		switch a.Kind {
		case motion.TURN:
			cmd.QuarterTurns = a.QuarterTurns
			cmd.TurnMillis = int(a.Duration.Milliseconds())
		case motion.DRIVE:
			cmd.DriveMillis = int(a.Duration.Milliseconds())
		}
	}
	s.heading = step.Direction
	if s.session != nil {
		s.session.State = SS_MOVING
	}
	log.Debugf("remoteMover.Begin index:%d %s turns:%d", step.Index, step.Direction.Name(), cmd.QuarterTurns)
	s.send(model.ServerMessage{Steps: []model.StepCommand{cmd}})
}

func (m *remoteMover) Stop() {
	m.server.send(model.ServerMessage{Stop: true})
}

func newControllerSession(cancel context.CancelFunc) *ControllerSession {
	return &ControllerSession{
		State:          SS_NEW,
		Id:             uuid.New().String(),
		MessagesToSend: make(chan model.ServerMessage, 10),
		cancel:         cancel,
	}
}

// Run pumps messages between the websocket and events until either side
// gives up. A normal close by the controller returns nil.
func (cs *ControllerSession) Run(ctx context.Context, events chan<- SessionEvent) error {
	cs.DebugConnected = time.Now()
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-groupCtx.Done()
		cs.Conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		return cs.Conn.Close()
	})
	group.Go(func() error {
		return cs.loopRead(groupCtx, events)
	})
	group.Go(func() error {
		return cs.loopWrite(groupCtx)
	})
	group.Go(func() error {
		return cs.loopPing(groupCtx)
	})
	err := group.Wait()
	log.Infof("ControllerSession %s ended in:%d out:%d after %s",
		cs.Id, cs.DebugInMessages, cs.DebugOutMessages, time.Since(cs.DebugConnected).Round(time.Millisecond))
	if errors.Is(err, ErrSessionClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (cs *ControllerSession) loopRead(ctx context.Context, events chan<- SessionEvent) error {
	cs.Conn.SetReadLimit(maxMessageSize)
	cs.Conn.SetReadDeadline(time.Now().Add(pongWait))
	cs.Conn.SetPongHandler(func(string) error {
		return cs.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, r, err := cs.Conn.NextReader()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return ErrSessionClosed
			}
			return fmt.Errorf("controller read: %w", err)
		}
		cm := model.ClientMessage{}
		if err = gob.NewDecoder(r).Decode(&cm); err != nil {
			return fmt.Errorf("controller decode: %w", err)
		}
		cs.DebugLastMessage = time.Now()
		cs.DebugInMessages++
		select {
		case events <- SessionEvent{SessionId: cs.Id, Message: cm}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// loopWrite is the only writer of data frames.
func (cs *ControllerSession) loopWrite(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case mes := <-cs.MessagesToSend:
			cs.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := cs.Conn.NextWriter(websocket.BinaryMessage)
			if err != nil {
				return fmt.Errorf("controller writer: %w", err)
			}
			if err = gob.NewEncoder(w).Encode(mes); err != nil {
				return fmt.Errorf("controller encode: %w", err)
			}
			if err = w.Close(); err != nil {
				return fmt.Errorf("controller flush: %w", err)
			}
			cs.DebugOutMessages++
		}
	}
}

func (cs *ControllerSession) loopPing(ctx context.Context) error {
	for range channerics.NewTicker(ctx.Done(), pingResolution) {
		if err := cs.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			return fmt.Errorf("controller ping: %w", err)
		}
	}
	return ctx.Err()
}
