package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"devtrack/internal/discovery"
	"devtrack/internal/models"
)

// ReconcileStats: итог одного прохода сверки.
type ReconcileStats struct {
	Inserted int
	Updated  int
}

type DeviceStore struct {
	db *gorm.DB
}

func NewDeviceStore(db *gorm.DB) *DeviceStore {
	return &DeviceStore{db: db}
}

// Reconcile: upsert по ключу (hostname, ip_address) с подстановкой "Unknown".
// Найдено: обновляем last_seen, device_type и mac (только если новый mac известен).
// Не найдено: создаём строку с first_seen = last_seen = now.
func (s *DeviceStore) Reconcile(ctx context.Context, records []discovery.DeviceRecord, now time.Time) (ReconcileStats, error) {
	var st ReconcileStats
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			hostname, ip := rec.Key()

			var m models.Device
			err := tx.Where("hostname = ? AND ip_address = ?", hostname, ip).First(&m).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				m = models.Device{
					Hostname:   hostname,
					IPAddress:  ip,
					MACAddress: rec.MACAddress,
					DeviceType: rec.DeviceType,
					FirstSeen:  now,
					LastSeen:   now,
				}
				if err := tx.Create(&m).Error; err != nil {
					return fmt.Errorf("insert %s/%s: %w", hostname, ip, err)
				}
				st.Inserted++
			case err != nil:
				return fmt.Errorf("lookup %s/%s: %w", hostname, ip, err)
			default:
				upd := map[string]any{
					"last_seen":   now,
					"device_type": rec.DeviceType,
				}
				if rec.MACAddress != nil {
					upd["mac_address"] = *rec.MACAddress
				}
				if err := tx.Model(&models.Device{}).Where("id = ?", m.ID).Updates(upd).Error; err != nil {
					return fmt.Errorf("update device %d: %w", m.ID, err)
				}
				st.Updated++
			}
		}
		return nil
	})
	if err != nil {
		return ReconcileStats{}, err
	}
	return st, nil
}

func (s *DeviceStore) List(ctx context.Context) ([]models.Device, error) {
	var out []models.Device
	err := s.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (s *DeviceStore) FindByIP(ctx context.Context, ip string) ([]models.Device, error) {
	return s.findBy(ctx, "ip_address", ip)
}

func (s *DeviceStore) FindByType(ctx context.Context, deviceType string) ([]models.Device, error) {
	return s.findBy(ctx, "device_type", deviceType)
}

func (s *DeviceStore) FindByHostname(ctx context.Context, hostname string) ([]models.Device, error) {
	return s.findBy(ctx, "hostname", hostname)
}

// column: только из констант выше, не из запроса.
func (s *DeviceStore) findBy(ctx context.Context, column, value string) ([]models.Device, error) {
	var out []models.Device
	err := s.db.WithContext(ctx).Where(column+" = ?", value).Order("id").Find(&out).Error
	return out, err
}
