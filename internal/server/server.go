package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mugiliam/common/hatchservicemiddleware"
	"github.com/mugiliam/common/httpx"
	"github.com/mugiliam/common/logtrace"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/zkmarket/mintworkersrv/internal/apis"
	"github.com/zkmarket/mintworkersrv/internal/config"
	"github.com/zkmarket/mintworkersrv/internal/server/middleware"
	"github.com/zkmarket/mintworkersrv/pkg/api"
)

type MintWorkerServer struct {
	Router *chi.Mux
}

func CreateNewServer() (*MintWorkerServer, error) {
	s := &MintWorkerServer{}
	s.Router = chi.NewRouter()
	return s, nil
}

func (s *MintWorkerServer) MountHandlers() {
	s.Router.Use(hatchservicemiddleware.RequestLogger)
	if config.Config().Server.HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.Router.Handle("/metrics", promhttp.Handler())
	s.Router.Get("/health", s.getHealth)
	s.Router.Route("/market", s.mountJobHandlers)
	if logtrace.IsTraceEnabled() {
		//print all the routes in the router by transversing the tree and printing the patterns
		fmt.Println("Routes in market router")
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			fmt.Printf("%s %s\n", method, route)
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			fmt.Printf("Logging err: %s\n", err.Error())
		}
	}
}

func (s *MintWorkerServer) mountJobHandlers(r chi.Router) {
	r.Use(middleware.LoadScopedDB)
	r.Get("/version", s.getVersion)
	apis.Router(r)
}

func (s *MintWorkerServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &api.GetVersionRsp{
		ServerVersion: "MintWorkerSrv: 1.0.0", //TODO - Implement server versioning
		ApiVersion:    api.ApiVersion_1_0,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

// getHealth is the readiness probe. It turns unavailable when the verification
// keys do not match this build, so the orchestrator restarts the worker rather
// than leaving it to fail every submission.
func (s *MintWorkerServer) getHealth(w http.ResponseWriter, r *http.Request) {
	if !apis.Ready() {
		log.Ctx(r.Context()).Error().Msg("verification keys inconsistent, reporting unavailable for restart")
		httpx.SendJsonRsp(r.Context(), w, http.StatusServiceUnavailable, map[string]string{"status": "restart required"})
		return
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *MintWorkerServer) HandleCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "http://localhost:8190")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")                                                                    // Allowed methods
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization, X-Hatch-IDToken, X-Job-Id") // Allowed headers

		// Check if the request method is OPTIONS
		if r.Method == "OPTIONS" {
			log.Ctx(r.Context()).Debug().Msg("OPTIONS request")
			// Respond with appropriate headers and no body
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
