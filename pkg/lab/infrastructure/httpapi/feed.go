package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hemalytics/labd/pkg/lab/application/model"
	"github.com/hemalytics/labd/pkg/lab/application/service"
)

var upgrader = &websocket.Upgrader{CheckOrigin: func(req *http.Request) bool {
	return true
}, HandshakeTimeout: 15 * time.Second}

// FeedBatch is one analyzer result set pushed over the feed connection.
type FeedBatch struct {
	PatientID   string             `json:"patientId"`
	PatientName string             `json:"patientName,omitempty"`
	Gender      string             `json:"gender,omitempty"`
	Age         int                `json:"age,omitempty"`
	Stat        bool               `json:"stat,omitempty"`
	Results     map[string]float64 `json:"results"`
}

// FeedAck is the per-batch reply.
type FeedAck struct {
	Accepted   bool     `json:"accepted"`
	AnalysisID string   `json:"analysisId,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Error      string   `json:"error,omitempty"`
}

func (s *Server) handleFeed(rw http.ResponseWriter, req *http.Request) error {
	conn, err := upgrader.Upgrade(rw, req, nil)
	if err != nil {
		// Upgrade already replied to the client.
		return nil
	}
	defer conn.Close()

	s.logger.Info("analyzer connected: " + req.RemoteAddr)
	defer s.logger.Info("analyzer disconnected: " + req.RemoteAddr)

	for {
		var batch FeedBatch
		err := conn.ReadJSON(&batch)
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		ack := s.ingest(req, batch)
		err = conn.WriteJSON(ack)
		if err != nil {
			return err
		}
	}
}

func (s *Server) ingest(req *http.Request, batch FeedBatch) FeedAck {
	analysis, warnings, err := s.analyses.Submit(req.Context(), service.SubmitRequest{
		PatientID:   batch.PatientID,
		PatientName: batch.PatientName,
		Gender:      model.Gender(batch.Gender),
		Age:         batch.Age,
		Stat:        batch.Stat,
		Results:     batch.Results,
	})
	if err != nil {
		s.logger.Error(err, fmt.Sprintf("rejected analyzer batch for patient %v", batch.PatientID))
		return FeedAck{Accepted: false, Warnings: warnings, Error: err.Error()}
	}
	return FeedAck{Accepted: true, AnalysisID: analysis.ID, Warnings: warnings}
}
