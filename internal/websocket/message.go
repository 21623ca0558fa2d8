package websocket

type OutgoingMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// IncomingMessage events:
//
//	"command"    data: command text, e.g. "!next"
//	"subscribe"  data: game name to receive status pushes for
type IncomingMessage struct {
	From  string      `json:"from"`
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

const (
	EventCommand   = "command"
	EventSubscribe = "subscribe"
	EventReply     = "reply"
	EventStatus    = "status"
	EventError     = "error"
)
