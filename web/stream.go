package web

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/figure"
	"github.com/mogaika/figure_anim/host"
	"github.com/mogaika/figure_anim/webutils"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// HandlerFigureStream plays an animation on a server side figure and pushes
// one frame of world matrices per tick until the client goes away
func (s *Server) HandlerFigureStream(w http.ResponseWriter, r *http.Request) {
	pr, err := s.parsePoseRequest(r)
	if err != nil {
		writeRequestError(w, err)
		return
	}
	// unknown animations are refused before the upgrade
	err = s.Pool.Do(r.Context(), func(h *host.Host) error {
		md, err := h.Metadata()
		if err != nil {
			return err
		}
		if _, ok := md.Lookup(pr.kind, pr.anim); !ok {
			return errors.Wrapf(host.ErrUnknownAnimation, "%v %q", pr.kind, pr.anim)
		}
		return nil
	})
	if err != nil {
		writeRequestError(w, err)
		return
	}

	state, err := figure.NewState(pr.kind, pr.anim, pr.attr)
	if err != nil {
		webutils.WriteError(w, err)
		return
	}
	state.Rate = pr.rate
	state.AnimTime = pr.animTime

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	defer conn.Close()

	// reader only watches for close, clients send nothing
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	frameTicker := time.NewTicker(time.Second / time.Duration(s.Config.StreamFPS))
	defer frameTicker.Stop()
	pingTicker := time.NewTicker(streamPingPeriod)
	defer pingTicker.Stop()

	start := time.Now()
	last := start
	for {
		select {
		case <-closed:
			return
		case now := <-frameTicker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			err := s.Pool.Do(r.Context(), func(h *host.Host) error {
				return state.Update(h, now.Sub(start).Seconds(), dt)
			})
			if err != nil {
				log.Printf("[web] figure stream update error: %v", err)
				conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(state.Frame()); err != nil {
				log.Printf("[web] ws write frame error: %v", err)
				return
			}
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[web] ws write ping error: %v", err)
				return
			}
		}
	}
}
