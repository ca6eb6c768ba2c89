package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/internal/store"
	"github.com/kalviumcommunity/kalviumcommunity-Shashank-Venkatesh-s74-FocusTroop/pkg/auth"
)

// TimerAPI serves per-user saved timer durations. These seed the solo timer
// UI; they have nothing to do with a live room's shared timer.
type TimerAPI struct {
	DB *store.Postgres
}

type prefsReq struct {
	Focus      int `json:"focus" validate:"required,min=1,max=600"`
	ShortBreak int `json:"shortbreak" validate:"required,min=1,max=600"`
	LongBreak  int `json:"longbreak" validate:"required,min=1,max=600"`
}

type prefsResp struct {
	UserID     string    `json:"user"`
	Focus      int       `json:"focus"`
	ShortBreak int       `json:"shortbreak"`
	LongBreak  int       `json:"longbreak"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toPrefsResp(t store.TimerPrefs) prefsResp {
	return prefsResp{
		UserID:     t.UserID,
		Focus:      t.Focus,
		ShortBreak: t.ShortBreak,
		LongBreak:  t.LongBreak,
		UpdatedAt:  t.UpdatedAt,
	}
}

// Create stores the caller's timer durations (minutes).
func (a *TimerAPI) Create(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decode(w, r)
	if !ok {
		return
	}

	t, err := a.DB.CreatePrefs(r.Context(), auth.UserID(r.Context()), req.Focus, req.ShortBreak, req.LongBreak)
	if err != nil {
		http.Error(w, "timer already exists for this user", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toPrefsResp(t))
}

// Get returns the caller's stored durations, 404 when none exist yet.
func (a *TimerAPI) Get(w http.ResponseWriter, r *http.Request) {
	t, err := a.DB.GetPrefs(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "no timer data found for this user", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toPrefsResp(t))
}

// Update overwrites the caller's stored durations.
func (a *TimerAPI) Update(w http.ResponseWriter, r *http.Request) {
	req, ok := a.decode(w, r)
	if !ok {
		return
	}

	t, err := a.DB.UpdatePrefs(r.Context(), auth.UserID(r.Context()), req.Focus, req.ShortBreak, req.LongBreak)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "no timer found for this user", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, toPrefsResp(t))
}

func (a *TimerAPI) decode(w http.ResponseWriter, r *http.Request) (prefsReq, bool) {
	var req prefsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return req, false
	}
	if err := validate.Struct(req); err != nil {
		http.Error(w, "durations must be 1-600 minutes", http.StatusBadRequest)
		return req, false
	}
	return req, true
}
