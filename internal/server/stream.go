package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
	"classdumper/internal/live"
)

// Frame types.
const (
	frameValue  = "value"
	frameReload = "reload"
	frameError  = "error"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// liveMessage is one frame sent on a live view stream.
type liveMessage struct {
	Type  string `json:"type"`
	Seq   uint64 `json:"seq"`
	Epoch uint64 `json:"epoch"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type presenceJSON struct {
	State string    `json:"state"`
	File  *fileJSON `json:"file,omitempty"`
}

// stream upgrades the request and forwards every value of the view opened
// by open, as frames of type frame, until the client disconnects.
func stream[T any](s *Server, w http.ResponseWriter, r *http.Request, view, frame string, open func(ctx context.Context) <-chan live.Result[T], encode func(T) any) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "view", view, "error", err)
		return
	}
	defer conn.Close()

	liveConnections.Inc()
	defer liveConnections.Dec()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The read loop only handles control frames; it ends when the client goes away.
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	s.logger.Debug("live view opened", "view", view)
	defer s.logger.Debug("live view closed", "view", view)

	values := open(ctx)
	for {
		var msg liveMessage
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		case res, ok := <-values:
			if !ok {
				return
			}
			msg = liveMessage{Type: frame, Seq: res.Change.Seq, Epoch: res.Change.Epoch}
			if res.Err != nil {
				msg.Type = frameError
				msg.Error = res.Err.Error()
			} else {
				msg.Data = encode(res.Value)
			}
		}

		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

func (s *Server) streamFolders(w http.ResponseWriter, r *http.Request) {
	stream(s, w, r, "folder_counts", frameValue,
		func(ctx context.Context) <-chan live.Result[[]dumper.FolderCount] {
			return live.FolderCounts(ctx, s.reader)
		},
		func(v []dumper.FolderCount) any { return toFolders(v) },
	)
}

func (s *Server) streamFiles(w http.ResponseWriter, r *http.Request) {
	search, err := s.searchFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	stream(s, w, r, "search", frameValue,
		func(ctx context.Context) <-chan live.Result[[]*sqlc.File] {
			return live.SearchResults(ctx, s.reader, search)
		},
		func(v []*sqlc.File) any { return toSummaries(v) },
	)
}

func (s *Server) streamFile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	stream(s, w, r, "file_exists", frameValue,
		func(ctx context.Context) <-chan live.Result[live.Presence] {
			return live.FileExists(ctx, s.reader, id)
		},
		func(p live.Presence) any {
			out := presenceJSON{State: p.State.String()}
			if p.File != nil {
				f := toFileJSON(p.File)
				out.File = &f
			}
			return out
		},
	)
}

// streamReloads sends a "reload" frame each time the database is replaced.
func (s *Server) streamReloads(w http.ResponseWriter, r *http.Request) {
	stream(s, w, r, "reloads", frameReload,
		func(ctx context.Context) <-chan live.Result[struct{}] {
			out := make(chan live.Result[struct{}])
			go func() {
				defer close(out)
				for change := range live.Reloads(ctx, s.reader) {
					select {
					case out <- live.Result[struct{}]{Change: change}:
					case <-ctx.Done():
						return
					}
				}
			}()
			return out
		},
		func(struct{}) any { return nil },
	)
}
