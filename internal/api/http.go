package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"devtrack/internal/discovery"
	"devtrack/internal/models"
	"devtrack/internal/search"
)

// Store: то, что нужно API от хранилища.
type Store interface {
	List(ctx context.Context) ([]models.Device, error)
	FindByIP(ctx context.Context, ip string) ([]models.Device, error)
	FindByType(ctx context.Context, deviceType string) ([]models.Device, error)
	FindByHostname(ctx context.Context, hostname string) ([]models.Device, error)
}

type HTTP struct {
	store Store
	log   *logrus.Entry
}

func NewHTTP(s Store, log *logrus.Entry) *HTTP { return &HTTP{store: s, log: log} }

// RegisterRoutes вешает ручки в корень и под /api (UI ходит в /api/...).
func (h *HTTP) RegisterRoutes(r *mux.Router) {
	h.register(r)
	h.register(r.PathPrefix("/api").Subrouter())
}

func (h *HTTP) register(r *mux.Router) {
	// GET /devices
	r.HandleFunc("/devices", h.listDevices).Methods(http.MethodGet)
	// GET /devices/{identifier}   ip | Ethernet | Wi-Fi | hostname
	r.HandleFunc("/devices/{identifier}", h.getDevices).Methods(http.MethodGet)
	// GET /search?q=...
	r.HandleFunc("/search", h.search).Methods(http.MethodGet)
}

func (h *HTTP) listDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeDevices(w, devices)
}

func (h *HTTP) getDevices(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["identifier"]

	var (
		devices []models.Device
		err     error
	)
	switch {
	case discovery.IsIPv4Literal(id):
		devices, err = h.store.FindByIP(r.Context(), id)
	case id == discovery.TypeEthernet || id == discovery.TypeWiFi:
		devices, err = h.store.FindByType(r.Context(), id)
	default:
		devices, err = h.store.FindByHostname(r.Context(), id)
	}
	if err != nil {
		h.fail(w, err)
		return
	}
	writeDevices(w, devices)
}

func (h *HTTP) search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	devices, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	mode, _ := search.Classify(q)
	out := search.Search(q, devices)
	h.log.WithFields(logrus.Fields{"q": q, "mode": mode.String(), "matches": len(out)}).Debug("search")
	writeDevices(w, out)
}

func (h *HTTP) fail(w http.ResponseWriter, err error) {
	h.log.WithError(err).Error("device store")
	models.WriteProblem(w, http.StatusInternalServerError, "Storage error", err.Error(), nil)
}

func writeDevices(w http.ResponseWriter, devices []models.Device) {
	if devices == nil {
		devices = []models.Device{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(devices)
}
