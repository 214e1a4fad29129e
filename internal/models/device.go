package models

import "time"

// Device: строка таблицы devices: устройство, замеченное роутером.
// Уникальность по паре (hostname, ip_address); отсутствующий IP хранится как "Unknown".
type Device struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Hostname   string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_devices_host_ip,priority:1" json:"hostname"`
	IPAddress  string    `gorm:"column:ip_address;type:varchar(64);not null;uniqueIndex:ux_devices_host_ip,priority:2" json:"ip_address"`
	MACAddress *string   `gorm:"column:mac_address;type:varchar(17)" json:"mac_address"`
	DeviceType string    `gorm:"type:varchar(64)" json:"device_type"`
	FirstSeen  time.Time `gorm:"not null" json:"first_seen"`
	LastSeen   time.Time `gorm:"not null;index" json:"last_seen"`
}

func (Device) TableName() string { return "devices" }

// MAC returns the MAC address or "" when the router did not reveal one.
func (d Device) MAC() string {
	if d.MACAddress == nil {
		return ""
	}
	return *d.MACAddress
}
