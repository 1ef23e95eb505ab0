package apdu

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ruteri/xpub-export-device/metrics"
)

// ResponseWriter sends the single reply of a command.
type ResponseWriter interface {
	// SendResponse sends data followed by sw.
	SendResponse(data []byte, sw StatusWord)
	// SendStatus sends sw with no data.
	SendStatus(sw StatusWord)
}

// HandlerFunc processes one command and replies through w exactly once.
type HandlerFunc func(ctx context.Context, w ResponseWriter, cmd *Command)

// Recorder is a ResponseWriter keeping the first reply sent to it.
type Recorder struct {
	Response Response
	Sent     bool
}

// SendResponse records data and sw unless a reply was already recorded.
func (r *Recorder) SendResponse(data []byte, sw StatusWord) {
	if r.Sent {
		return
	}
	r.Sent = true
	r.Response = Response{Data: append([]byte(nil), data...), Status: sw}
}

// SendStatus records sw with no data.
func (r *Recorder) SendStatus(sw StatusWord) {
	r.SendResponse(nil, sw)
}

// Mux routes commands of one class to handlers by instruction.
// Commands are processed one at a time.
type Mux struct {
	mu       sync.Mutex
	cla      byte
	handlers map[byte]HandlerFunc
	log      *slog.Logger
}

// NewMux creates a dispatcher for commands with class byte cla.
func NewMux(cla byte, log *slog.Logger) *Mux {
	return &Mux{
		cla:      cla,
		handlers: make(map[byte]HandlerFunc),
		log:      log,
	}
}

// Handle registers h for instruction ins, replacing any previous handler.
func (m *Mux) Handle(ins byte, h HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[ins] = h
}

// Serve dispatches cmd and returns the reply.
func (m *Mux) Serve(ctx context.Context, cmd *Command) Response {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp := m.dispatch(ctx, cmd)
	metrics.RecordAPDU(cmd.INS, resp.Status)
	return resp
}

func (m *Mux) dispatch(ctx context.Context, cmd *Command) Response {
	if cmd.CLA != m.cla {
		return Response{Status: SwClaNotSupported}
	}

	h, ok := m.handlers[cmd.INS]
	if !ok {
		return Response{Status: SwInsNotSupported}
	}

	if cmd.P1 != 0 || cmd.P2 > ProtocolVersion {
		return Response{Status: SwWrongP1P2}
	}

	rec := &Recorder{}
	h(ctx, rec, cmd)
	if !rec.Sent {
		m.log.Error("Handler returned without a reply", "ins", cmd.INS)
		return Response{Status: SwBadState}
	}

	m.log.Debug("APDU processed", "ins", cmd.INS, "status", rec.Response.Status.String())
	return rec.Response
}

// Exchange parses a raw command, serves it and returns the encoded response frame.
// Malformed framing is answered with SwWrongDataLength.
func (m *Mux) Exchange(ctx context.Context, raw []byte) []byte {
	cmd, err := ParseCommand(raw)
	if err != nil {
		m.log.Debug("Malformed APDU", "err", err)
		return Response{Status: SwWrongDataLength}.Bytes()
	}
	return m.Serve(ctx, cmd).Bytes()
}
