package model

// ServerMessage is sent by the host to a motion controller, gob encoded.
type ServerMessage struct {
	Setup []Setup
	Steps []StepCommand
	Stop  bool
}

type Setup struct {
	Rows, Cols int
	SessionId  string
	Path       []Cell
}

// StepCommand asks the controller to move from Cell to Next. QuarterTurns
// is relative to the controller's heading after the previous command.
type StepCommand struct {
	Step
	QuarterTurns int
	TurnMillis   int
	DriveMillis  int
}

// ClientMessage is the controller's reply. Done carries the index of the
// step that finished; Fault is set when the device gave up.
type ClientMessage struct {
	Done  int
	Fault string
}
