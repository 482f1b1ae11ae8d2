package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/application/service"
)

func (s *Server) handlePing(rw http.ResponseWriter, _ *http.Request) error {
	_, err := rw.Write([]byte("pong"))
	return err
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User      string    `json:"user"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) handleLogin(rw http.ResponseWriter, req *http.Request) error {
	var body loginRequest
	err := json.NewDecoder(req.Body).Decode(&body)
	if err != nil {
		writeError(rw, http.StatusBadRequest, "invalid request body")
		return nil
	}
	token, session, err := s.sessions.Login(body.Username, body.Password)
	if err != nil {
		writeError(rw, http.StatusUnauthorized, err.Error())
		return nil
	}
	http.SetCookie(rw, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
	})
	writeJSON(rw, http.StatusOK, loginResponse{
		User:      session.User,
		Role:      string(session.Role),
		ExpiresAt: session.ExpiresAt,
	})
	return nil
}

func (s *Server) handleLogout(rw http.ResponseWriter, req *http.Request) error {
	cookie, err := req.Cookie(SessionCookie)
	if err == nil {
		s.sessions.Logout(cookie.Value)
	}
	http.SetCookie(rw, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(rw, http.StatusOK, map[string]bool{"loggedOut": true})
	return nil
}

type submitRequest struct {
	PatientID   string             `json:"patientId"`
	PatientName string             `json:"patientName,omitempty"`
	Gender      string             `json:"gender,omitempty"`
	Age         int                `json:"age,omitempty"`
	Stat        bool               `json:"stat,omitempty"`
	Requested   []string           `json:"requested,omitempty"`
	Results     map[string]float64 `json:"results"`
}

type submitResponse struct {
	Analysis analysisPayload `json:"analysis"`
	Warnings []string        `json:"warnings,omitempty"`
}

func (s *Server) handleSubmit(rw http.ResponseWriter, req *http.Request) error {
	var body submitRequest
	err := json.NewDecoder(req.Body).Decode(&body)
	if err != nil {
		writeError(rw, http.StatusBadRequest, "invalid request body")
		return nil
	}
	analysis, warnings, err := s.analyses.Submit(req.Context(), service.SubmitRequest{
		PatientID:   body.PatientID,
		PatientName: body.PatientName,
		Gender:      model.Gender(body.Gender),
		Age:         body.Age,
		Stat:        body.Stat,
		Requested:   body.Requested,
		Results:     body.Results,
	})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(rw, http.StatusBadRequest, map[string]interface{}{
				"error":    "validation failed",
				"problems": validationErr.Problems,
				"warnings": warnings,
			})
			return nil
		}
		return err
	}
	writeJSON(rw, http.StatusCreated, submitResponse{
		Analysis: mapAnalysis(analysis),
		Warnings: warnings,
	})
	return nil
}

func (s *Server) handleQueue(rw http.ResponseWriter, req *http.Request) error {
	limit := 0
	if raw := req.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(rw, http.StatusBadRequest, "invalid limit")
			return nil
		}
		limit = parsed
	}
	entries, err := s.analyses.Queue(req.Context(), limit)
	if err != nil {
		return err
	}
	writeJSON(rw, http.StatusOK, map[string]interface{}{"queue": mapQueue(entries)})
	return nil
}

// handleReport serves GET /api/analyses/{id}/report.
func (s *Server) handleReport(rw http.ResponseWriter, req *http.Request) error {
	report, err := s.analyses.Report(req.Context(), pathVar(req, "id"))
	if err != nil {
		if errors.Is(err, service.ErrAnalysisNotFound) {
			writeError(rw, http.StatusNotFound, err.Error())
			return nil
		}
		return err
	}
	writeJSON(rw, http.StatusOK, mapReport(report))
	return nil
}

// handlePatientAnalyses serves GET /api/patients/{id}/analyses.
func (s *Server) handlePatientAnalyses(rw http.ResponseWriter, req *http.Request) error {
	history, err := s.analyses.History(req.Context(), pathVar(req, "id"))
	if err != nil {
		return err
	}
	payload := make([]analysisPayload, 0, len(history))
	for _, analysis := range history {
		payload = append(payload, mapAnalysis(analysis))
	}
	writeJSON(rw, http.StatusOK, map[string]interface{}{"analyses": payload})
	return nil
}

func (s *Server) handleAnalytics(rw http.ResponseWriter, req *http.Request) error {
	analytics, err := s.analyses.Analytics(req.Context())
	if err != nil {
		return err
	}
	writeJSON(rw, http.StatusOK, mapAnalytics(analytics))
	return nil
}
