package server

import (
	"context"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zucenko/gridbot/control"
	"github.com/zucenko/gridbot/model"
)

// BotServer owns one grid and its controller. Everything that touches them
// runs in Loop; handlers and controller sessions talk to it over channels.
type BotServer struct {
	Controller   *control.Controller
	Requests     chan Request
	Events       chan SessionEvent
	Connects     chan ConnectRequest
	Disconnects  chan string
	Upgrader     *websocket.Upgrader
	SettingsFile string

	// owned by Loop
	session *ControllerSession
	heading model.Direction
}

type SessionState int

const (
	SS_NEW SessionState = iota + 1
	SS_READY
	SS_MOVING
	SS_ERR
)

// ControllerSession is the websocket link to one motion controller.
type ControllerSession struct {
	State          SessionState
	Id             string
	Conn           *websocket.Conn
	MessagesToSend chan model.ServerMessage
	cancel         context.CancelFunc

	DebugInMessages  int
	DebugOutMessages int
	DebugLastMessage time.Time
	DebugConnected   time.Time
}
