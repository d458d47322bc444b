package web

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/flapper/internal/core"
	"github.com/vovakirdan/flapper/internal/games/flappy"
	"github.com/vovakirdan/flapper/internal/replay"
	"github.com/vovakirdan/flapper/internal/storage"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 512
)

// clientMessage is what the page sends: {"type":"start"|"restart"|"jump"}.
type clientMessage struct {
	Type string `json:"type"`
}

// serverMessage is what the page receives.
type serverMessage struct {
	Type     string           `json:"type"` // snapshot, started, score, ended, error
	Snapshot *flappy.Snapshot `json:"snapshot,omitempty"`
	Score    *int             `json:"score,omitempty"`
	Cause    string           `json:"cause,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// conn plays one session over one websocket.
type conn struct {
	ws       *websocket.Conn
	writeMu  sync.Mutex // gorilla allows one concurrent writer
	recorder *replay.Recorder
	journal  *storage.Store
	tickRate int
	logger   *log.Logger

	// run is the frame loop of the current run; done is closed when it returns.
	runCancel context.CancelFunc
	done      chan struct{}
}

func newConn(ws *websocket.Conn, seeds func() int64, cfg Config, journal *storage.Store, logger *log.Logger) *conn {
	c := &conn{
		ws:       ws,
		journal:  journal,
		tickRate: cfg.TickRate,
		logger:   logger,
	}
	c.recorder = replay.NewRecorder(cfg.Game, seeds,
		flappy.WithLogger(logger),
		flappy.WithListener(flappy.ListenerFuncs{
			OnStarted: func() { c.send(serverMessage{Type: "started"}) },
			OnScoreChanged: func(score int) {
				c.send(serverMessage{Type: "score", Score: &score})
			},
			OnEnded: func(score int, cause flappy.EndCause) {
				c.send(serverMessage{Type: "ended", Score: &score, Cause: cause.String()})
			},
		}),
	)
	return c
}

// serve runs the read loop until the socket closes or ctx is cancelled.
func (c *conn) serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Unblock ReadMessage on shutdown
	go func() {
		<-ctx.Done()
		c.ws.Close()
	}()
	defer c.stopRun()

	c.ws.SetReadLimit(maxMessageSize)
	c.sendSnapshot()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				ctx.Err() == nil {
				c.logger.Debug("read failed", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send(serverMessage{Type: "error", Error: "malformed message"})
			continue
		}
		c.handle(ctx, core.ParseAction(msg.Type), msg.Type)
	}
}

func (c *conn) handle(ctx context.Context, action core.Action, raw string) {
	switch action {
	case core.ActionJump:
		c.recorder.Jump()

	case core.ActionStart, core.ActionRestart:
		if c.recorder.Lifecycle() == flappy.Running {
			return
		}
		c.startRun(ctx)

	default:
		c.send(serverMessage{Type: "error", Error: "unknown message type " + raw})
	}
}

// startRun starts the session and its frame loop. The previous loop has
// already returned or is about to, since the session is not running.
func (c *conn) startRun(ctx context.Context) {
	c.stopRun()

	// Frame timestamps count from the first frame request, so the run starts at 0
	if err := c.recorder.Start(0); err != nil {
		c.logger.Warn("could not start run", "error", err)
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.runCancel = cancel
	c.done = done

	go func() {
		defer close(done)
		err := flappy.Drive(runCtx, broadcaster{c}, flappy.TickerSource{Rate: c.tickRate})
		if err == nil && c.recorder.Lifecycle() == flappy.Ended {
			c.saveRun()
		}
	}()
}

// stopRun cancels the current frame loop and waits for it.
func (c *conn) stopRun() {
	if c.runCancel == nil {
		return
	}
	c.runCancel()
	<-c.done
	c.runCancel = nil
	c.done = nil
}

func (c *conn) saveRun() {
	if c.journal == nil {
		return
	}
	snap := c.recorder.Session().Snapshot()
	id, err := c.journal.SaveRun(c.recorder.Recording(), snap.Cause)
	if err != nil {
		c.logger.Error("could not save run", "error", err)
		return
	}
	c.logger.Info("run saved", "id", id, "score", snap.Score, "cause", snap.Cause)
}

func (c *conn) sendSnapshot() {
	snap := c.recorder.Session().Snapshot()
	c.send(serverMessage{Type: "snapshot", Snapshot: &snap})
}

// send writes one JSON message. Errors end the connection through the read loop.
func (c *conn) send(msg serverMessage) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.ws.WriteJSON(msg); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		c.logger.Debug("write failed", "error", err)
	}
}

// broadcaster ticks the recorder and pushes a snapshot after every step.
type broadcaster struct {
	c *conn
}

func (b broadcaster) Lifecycle() flappy.Lifecycle {
	return b.c.recorder.Lifecycle()
}

func (b broadcaster) Tick(now float64) flappy.TickResult {
	res := b.c.recorder.Tick(now)
	b.c.sendSnapshot()
	return res
}
