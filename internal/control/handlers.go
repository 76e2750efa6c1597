package control

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
)

// GetState returns the scheduler snapshot.
func (server *Server) GetState(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, server.scheduler.Snapshot())
}

// GetContent returns the latest content state.
func (server *Server) GetContent(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, server.content.State())
}

// RefreshContent reloads content for the open break.
func (server *Server) RefreshContent(w http.ResponseWriter, r *http.Request) {
	if !server.scheduler.RefreshContent() {
		Error(w, http.StatusConflict, "no_break_in_progress")
		return
	}
	JSON(w, http.StatusAccepted, server.content.State())
}

// TakeBreak starts a break immediately.
func (server *Server) TakeBreak(w http.ResponseWriter, r *http.Request) {
	server.transition(w, server.scheduler.TakeBreakNow, scheduler.StateOnBreak)
}

// AcceptBreak answers a pending prompt with yes.
func (server *Server) AcceptBreak(w http.ResponseWriter, r *http.Request) {
	server.transition(w, server.scheduler.Accept, scheduler.StateOnBreak)
}

// DeclineBreak answers a pending prompt with no.
func (server *Server) DeclineBreak(w http.ResponseWriter, r *http.Request) {
	server.transition(w, server.scheduler.Decline, scheduler.StateWorking)
}

// EndBreak closes the open break.
func (server *Server) EndBreak(w http.ResponseWriter, r *http.Request) {
	server.transition(w, server.scheduler.EndBreak, scheduler.StateWorking)
}

// transition runs a scheduler operation and reports 409 when the scheduler
// did not end up in the expected state.
func (server *Server) transition(w http.ResponseWriter, operation func(), want scheduler.StateKind) {
	before := server.scheduler.Snapshot().State
	operation()
	snapshot := server.scheduler.Snapshot()
	if snapshot.State != want || before == want {
		server.logger.WithFields(logrus.Fields{
			"from": before,
			"want": want,
		}).Debug("transition ignored")
		JSON(w, http.StatusConflict, snapshot)
		return
	}
	JSON(w, http.StatusOK, snapshot)
}

type preferenceBody struct {
	Preference string `json:"preference"`
	Label      string `json:"label,omitempty"`
}

// GetPreference returns the stored content preference.
func (server *Server) GetPreference(w http.ResponseWriter, r *http.Request) {
	preference := server.preferences.Preference()
	JSON(w, http.StatusOK, preferenceBody{Preference: string(preference), Label: preference.Label()})
}

// SetPreference stores a new content preference.
func (server *Server) SetPreference(w http.ResponseWriter, r *http.Request) {
	var body preferenceBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&body); err != nil {
		Error(w, http.StatusBadRequest, "invalid_body")
		return
	}
	preference, err := model.ParsePreference(body.Preference)
	if err != nil {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := server.preferences.SetPreference(preference); err != nil {
		server.logger.WithError(err).Warn("failed to save preference")
		Error(w, http.StatusInternalServerError, "save_failed")
		return
	}
	JSON(w, http.StatusOK, preferenceBody{Preference: string(preference), Label: preference.Label()})
}
