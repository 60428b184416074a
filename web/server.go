package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/mogaika/figure_anim/config"
	"github.com/mogaika/figure_anim/host"
	"github.com/mogaika/figure_anim/skeleton"
)

type Server struct {
	Config *config.Config
	Pool   *host.Pool
}

func NewServer(cfg *config.Config, pool *host.Pool) *Server {
	return &Server{Config: cfg, Pool: pool}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/json/metadata", s.HandlerMetadata).Methods("GET")
	r.HandleFunc("/json/presets", s.HandlerPresets).Methods("GET")
	r.HandleFunc("/json/pose/{kind}/{anim}", s.HandlerPose).Methods("GET")
	r.HandleFunc("/gltf/pose/{kind}/{anim}", s.HandlerPoseGLTF).Methods("GET")
	r.HandleFunc("/ws/figure/{kind}/{anim}", s.HandlerFigureStream)
	return r
}

func (s *Server) Handler() http.Handler {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(s.Router())
	return handlers.LoggingHandler(os.Stdout, h)
}

func (s *Server) Start(addr string) error {
	log.Printf("[web] Starting server %v", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// attrs resolves a preset name into attributes of kind
func (s *Server) attrs(kind skeleton.Kind, preset string) (skeleton.Attr, error) {
	switch kind {
	case skeleton.KIND_CHARACTER:
		attr, err := s.Config.Preset(preset)
		if err != nil {
			return nil, err
		}
		return attr, nil
	default:
		return nil, errors.Wrapf(skeleton.ErrUnknownKind, "no presets for %v", kind)
	}
}
