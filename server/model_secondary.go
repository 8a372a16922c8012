package server

import (
	"fmt"

	"github.com/zucenko/gridbot/model"
)

const HTTP_SUCCESS = 200
const HTTP_BAD_REQUEST = 400
const HTTP_NOT_FOUND = 404
const HTTP_TIMEOUT = 408
const HTTP_CONFLICT = 409
const HTTP_UNPROCESSABLE = 422
const HTTP_SERVER_ERR = 503

type ResponseCode int

const (
	OK ResponseCode = iota
	REJECTED
	BUSY
	NO_CONTROLLER
	BAD_REQUEST
	FAILED
)

func (h ResponseCode) ToHttp() int {
	switch h {
	case OK:
		return HTTP_SUCCESS
	case REJECTED:
		return HTTP_UNPROCESSABLE
	case BUSY, NO_CONTROLLER:
		return HTTP_CONFLICT
	case BAD_REQUEST:
		return HTTP_BAD_REQUEST
	case FAILED:
		return HTTP_SERVER_ERR
	default:
		panic(h)
	}
}

func (h ResponseCode) Name() string {
	switch h {
	case OK:
		return "OK"
	case REJECTED:
		return "REJECTED"
	case BUSY:
		return "BUSY"
	case NO_CONTROLLER:
		return "NO_CONTROLLER"
	case BAD_REQUEST:
		return "BAD_REQUEST"
	case FAILED:
		return "FAILED"
	default:
		return fmt.Sprintf("n/a:%d", h)
	}
}

func (ss SessionState) Name() string {
	switch ss {
	case SS_NEW:
		return "NEW"
	case SS_READY:
		return "READY"
	case SS_MOVING:
		return "MOVING"
	case SS_ERR:
		return "ERR"
	default:
		return "N/A"
	}
}

// Request runs Action inside Loop and sends its result to Awaiting.
type Request struct {
	Action   func(s *BotServer) Response
	Awaiting chan Response
}

type Response struct {
	Code  ResponseCode
	Body  interface{}
	Error string
}

// ConnectRequest asks Loop to accept a controller session.
type ConnectRequest struct {
	Session  *ControllerSession
	Accepted chan bool
}

type SessionEvent struct {
	SessionId string
	Message   model.ClientMessage
}

// Snapshot is the JSON form of the grid and controller state.
type Snapshot struct {
	State      string       `json:"state"`
	Rows       int          `json:"rows"`
	Cols       int          `json:"cols"`
	Path       []model.Cell `json:"path"`
	Selectable []model.Cell `json:"selectable"`
	Cursor     int          `json:"cursor"`
	Direction  string       `json:"direction"`
	Complete   bool         `json:"complete"`
	Remaining  float32      `json:"remaining"`
	Settings   SettingsView `json:"settings"`
	Controller string       `json:"controller,omitempty"`
}

type SettingsView struct {
	Brightness int    `json:"brightness"`
	Speed      string `json:"speed"`
	Distance   string `json:"distance"`
}
