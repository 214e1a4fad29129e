package repo

import (
	"context"
	"sync"
	"time"

	"devtrack/internal/discovery"
	"devtrack/internal/models"
)

type deviceKey struct{ hostname, ip string }

// MemStore: хранилище в памяти для режима без БД (database.driver = "none").
// Семантика Reconcile та же, что у DeviceStore.
type MemStore struct {
	mu     sync.RWMutex
	rows   []models.Device
	byKey  map[deviceKey]int
	nextID uint
}

func NewMemStore() *MemStore {
	return &MemStore{byKey: map[deviceKey]int{}, nextID: 1}
}

func (m *MemStore) Reconcile(_ context.Context, records []discovery.DeviceRecord, now time.Time) (ReconcileStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var st ReconcileStats
	for _, rec := range records {
		hostname, ip := rec.Key()
		k := deviceKey{hostname, ip}
		if i, ok := m.byKey[k]; ok {
			d := &m.rows[i]
			d.LastSeen = now
			d.DeviceType = rec.DeviceType
			if rec.MACAddress != nil {
				mac := *rec.MACAddress
				d.MACAddress = &mac
			}
			st.Updated++
			continue
		}
		var mac *string
		if rec.MACAddress != nil {
			v := *rec.MACAddress
			mac = &v
		}
		m.rows = append(m.rows, models.Device{
			ID:         m.nextID,
			Hostname:   hostname,
			IPAddress:  ip,
			MACAddress: mac,
			DeviceType: rec.DeviceType,
			FirstSeen:  now,
			LastSeen:   now,
		})
		m.byKey[k] = len(m.rows) - 1
		m.nextID++
		st.Inserted++
	}
	return st, nil
}

func (m *MemStore) List(_ context.Context) ([]models.Device, error) {
	return m.filter(func(models.Device) bool { return true }), nil
}

func (m *MemStore) FindByIP(_ context.Context, ip string) ([]models.Device, error) {
	return m.filter(func(d models.Device) bool { return d.IPAddress == ip }), nil
}

func (m *MemStore) FindByType(_ context.Context, deviceType string) ([]models.Device, error) {
	return m.filter(func(d models.Device) bool { return d.DeviceType == deviceType }), nil
}

func (m *MemStore) FindByHostname(_ context.Context, hostname string) ([]models.Device, error) {
	return m.filter(func(d models.Device) bool { return d.Hostname == hostname }), nil
}

// filter возвращает копии строк, чтобы вызывающий не мог менять состояние.
func (m *MemStore) filter(keep func(models.Device) bool) []models.Device {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Device, 0, len(m.rows))
	for _, d := range m.rows {
		if !keep(d) {
			continue
		}
		if d.MACAddress != nil {
			mac := *d.MACAddress
			d.MACAddress = &mac
		}
		out = append(out, d)
	}
	return out
}
