package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	applogger "github.com/tss-calculator/go-lib/pkg/application/logger"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/application/service"
	"github.com/hemalytics/labd/pkg/lab/infrastructure/auth"
)

const SessionCookie = "labd_session"

type Server struct {
	logger   applogger.Logger
	analyses service.Analyses
	sessions *auth.Manager
}

func NewServer(
	logger applogger.Logger,
	analyses service.Analyses,
	sessions *auth.Manager,
) *Server {
	return &Server{
		logger:   logger,
		analyses: analyses,
		sessions: sessions,
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	// Match on the escaped path so patient ids may carry any character.
	router.UseEncodedPath()
	router.HandleFunc("/ping", s.handle(s.handlePing)).Methods(http.MethodGet)
	router.HandleFunc("/api/login", s.handle(s.handleLogin)).Methods(http.MethodPost)
	router.HandleFunc("/api/logout", s.handle(s.handleLogout)).Methods(http.MethodPost)
	router.HandleFunc("/api/analyses", s.requireRole(model.RoleLab, s.handleSubmit)).Methods(http.MethodPost)
	router.HandleFunc("/api/analyses/{id}/report", s.requireRole(model.RoleDoctor, s.handleReport)).Methods(http.MethodGet)
	router.HandleFunc("/api/patients/{id}/analyses", s.requireRole(model.RoleDoctor, s.handlePatientAnalyses)).Methods(http.MethodGet)
	router.HandleFunc("/api/queue", s.requireRole(model.RoleDoctor, s.handleQueue)).Methods(http.MethodGet)
	router.HandleFunc("/api/analytics", s.requireRole(model.RoleDoctor, s.handleAnalytics)).Methods(http.MethodGet)
	router.HandleFunc("/analyzer/feed", s.requireRole(model.RoleLab, s.handleFeed)).Methods(http.MethodGet)
	router.NotFoundHandler = http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeError(rw, http.StatusNotFound, "not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		writeError(rw, http.StatusMethodNotAllowed, "method not allowed")
	})
	return router
}

// pathVar returns the named route variable. With UseEncodedPath the router
// hands back the escaped segment, so unescape before use.
func pathVar(req *http.Request, name string) string {
	raw := mux.Vars(req)[name]
	value, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return value
}

type handlerFunc func(rw http.ResponseWriter, req *http.Request) error

func (s *Server) handle(f handlerFunc) http.HandlerFunc {
	return func(rw http.ResponseWriter, req *http.Request) {
		err := f(rw, req)
		if err != nil {
			s.logger.Error(err, "request failed: "+req.Method+" "+req.URL.Path)
			writeError(rw, http.StatusInternalServerError, err.Error())
		}
	}
}

func (s *Server) requireRole(role model.Role, f handlerFunc) http.HandlerFunc {
	return s.handle(func(rw http.ResponseWriter, req *http.Request) error {
		session, ok := s.sessionFrom(req)
		if !ok {
			writeError(rw, http.StatusUnauthorized, "authentication required")
			return nil
		}
		if session.Role != role {
			writeError(rw, http.StatusForbidden, "insufficient role")
			return nil
		}
		return f(rw, req)
	})
}

func (s *Server) sessionFrom(req *http.Request) (auth.Session, bool) {
	cookie, err := req.Cookie(SessionCookie)
	if err != nil {
		return auth.Session{}, false
	}
	return s.sessions.Session(cookie.Value)
}

func writeJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(body)
}

func writeError(rw http.ResponseWriter, status int, message string) {
	writeJSON(rw, status, map[string]string{"error": message})
}
