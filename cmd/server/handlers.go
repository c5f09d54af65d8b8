package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/xtding233/idle-forge/internal/combine"
	"github.com/xtding233/idle-forge/internal/engine"
	"github.com/xtding233/idle-forge/internal/events"
	"github.com/xtding233/idle-forge/internal/save"
	"github.com/xtding233/idle-forge/internal/save/sqlite"
	"github.com/xtding233/idle-forge/internal/upgrade"
)

const (
	defaultTrials = 1000
	maxTrials     = 100000
)

type errResp struct {
	Err string `json:"err"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type sellResp struct {
	Worth int `json:"worth"`
}

type progressResp struct {
	Combines int `json:"combines"`
	Upgrades int `json:"upgrades"`
}

type oddsResp struct {
	Level int `json:"level"`
	upgrade.Distribution
}

func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, "missing param " + key
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps engine errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidSlot), errors.Is(err, engine.ErrInvalidTier),
		errors.Is(err, engine.ErrSameSlot), errors.Is(err, engine.ErrEmptySlot),
		errors.Is(err, upgrade.ErrSimParams):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrGridFull), errors.Is(err, combine.ErrIneligible),
		errors.Is(err, engine.ErrMaxTier), errors.Is(err, engine.ErrMaxLevel),
		errors.Is(err, engine.ErrCurrencyOverflow), errors.Is(err, engine.ErrNoHistory),
		errors.Is(err, save.ErrNotFound):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// historyLister is satisfied by stores that retain past snapshots.
type historyLister interface {
	History(ctx context.Context, limit int) ([]sqlite.HistoryEntry, error)
}

type handler struct {
	eng      *engine.Engine
	progress *events.Counter
	history  historyLister // nil when the store keeps none
	logger   *slog.Logger
}

func newHandler(eng *engine.Engine, progress *events.Counter, history historyLister, logger *slog.Logger) http.Handler {
	h := &handler{eng: eng, progress: progress, history: history, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /state", h.state)
	mux.HandleFunc("GET /progress", h.progressTotals)
	mux.HandleFunc("GET /odds", h.odds)
	mux.HandleFunc("GET /simulate", h.simulate)
	mux.HandleFunc("GET /history", h.listHistory)
	mux.HandleFunc("POST /acquire", h.acquire)
	mux.HandleFunc("POST /combine", h.combine)
	mux.HandleFunc("POST /upgrade", h.upgrade)
	mux.HandleFunc("POST /sell", h.sell)
	mux.HandleFunc("POST /move", h.move)
	mux.HandleFunc("POST /swap", h.swap)
	mux.HandleFunc("POST /sort", h.sort)
	mux.HandleFunc("POST /reset", h.reset)
	mux.HandleFunc("POST /rollback", h.rollback)
	return mux
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errResp{Err: err.Error()})
}

func (h *handler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.eng.View())
}

func (h *handler) odds(w http.ResponseWriter, r *http.Request) {
	level, ok, msg := parseInt(r, "level")
	if !ok || level < 0 {
		if msg == "" {
			msg = "level must be >= 0"
		}
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	d := upgrade.OutcomeDistribution(level)
	if err := d.Validate(); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, oddsResp{Level: level, Distribution: d})
}

func (h *handler) progressTotals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, progressResp{
		Combines: h.progress.Total(events.KindCombine),
		Upgrades: h.progress.Total(events.KindUpgrade),
	})
}

// simulate estimates attempts and risk for taking an item from start to target.
func (h *handler) simulate(w http.ResponseWriter, r *http.Request) {
	start, ok, msg := parseInt(r, "start")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	target, ok, msg := parseInt(r, "target")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	trials := defaultTrials
	if r.URL.Query().Has("trials") {
		v, ok, msg := parseInt(r, "trials")
		if !ok || v < 1 || v > maxTrials {
			if msg == "" {
				msg = "trials must be in [1, 100000]"
			}
			writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
			return
		}
		trials = v
	}
	st, err := upgrade.RunMonteCarlo(upgrade.SimParams{StartLevel: start, TargetLevel: target}, trials, nil)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *handler) acquire(w http.ResponseWriter, r *http.Request) {
	tier := 1
	if r.URL.Query().Has("tier") {
		v, ok, msg := parseInt(r, "tier")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
			return
		}
		tier = v
	}
	res, err := h.eng.Acquire(r.Context(), tier)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) combine(w http.ResponseWriter, r *http.Request) {
	a, okA, msg := parseInt(r, "a")
	if !okA {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	b, okB, msg := parseInt(r, "b")
	if !okB {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	res, err := h.eng.Combine(r.Context(), a, b)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) upgrade(w http.ResponseWriter, r *http.Request) {
	slot, ok, msg := parseInt(r, "slot")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	res, err := h.eng.Upgrade(r.Context(), slot)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *handler) sell(w http.ResponseWriter, r *http.Request) {
	slot, ok, msg := parseInt(r, "slot")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	worth, err := h.eng.Sell(r.Context(), slot)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sellResp{Worth: worth})
}

func (h *handler) move(w http.ResponseWriter, r *http.Request) {
	from, okF, msg := parseInt(r, "from")
	if !okF {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	to, okT, msg := parseInt(r, "to")
	if !okT {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	if !h.eng.Move(r.Context(), from, to) {
		writeJSON(w, http.StatusConflict, okResp{OK: false})
		return
	}
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

func (h *handler) swap(w http.ResponseWriter, r *http.Request) {
	a, okA, msg := parseInt(r, "a")
	if !okA {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	b, okB, msg := parseInt(r, "b")
	if !okB {
		writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
		return
	}
	if !h.eng.Swap(r.Context(), a, b) {
		writeJSON(w, http.StatusConflict, okResp{OK: false})
		return
	}
	writeJSON(w, http.StatusOK, okResp{OK: true})
}

func (h *handler) sort(w http.ResponseWriter, r *http.Request) {
	h.eng.Sort(r.Context())
	writeJSON(w, http.StatusOK, h.eng.View())
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	h.eng.Reset(r.Context())
	writeJSON(w, http.StatusOK, h.eng.View())
}

func (h *handler) rollback(w http.ResponseWriter, r *http.Request) {
	if err := h.eng.Rollback(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.eng.View())
}

func (h *handler) listHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.fail(w, r, engine.ErrNoHistory)
		return
	}
	limit := 0
	if r.URL.Query().Has("limit") {
		v, ok, msg := parseInt(r, "limit")
		if !ok {
			writeJSON(w, http.StatusBadRequest, errResp{Err: msg})
			return
		}
		limit = v
	}
	entries, err := h.history.History(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
