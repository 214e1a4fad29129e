// Package discovery turns the router's LAN host discovery output into
// normalized device records.
package discovery

import (
	"regexp"
	"strings"
)

// UnknownValue заменяет отсутствующие hostname/IP (и в ключе хранилища тоже).
const UnknownValue = "Unknown"

const (
	TypeWiFi     = "Wi-Fi"
	TypeEthernet = "Ethernet"
)

const addressSeparator = " / "

var (
	ipv4LiteralRe   = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)
	macInHostnameRe = regexp.MustCompile(`unknown([0-9a-fA-F]{12})`)
)

// DeviceRecord is one device as seen in a single scrape.
type DeviceRecord struct {
	MACAddress *string `json:"mac_address"`
	Hostname   string  `json:"hostname"`
	IPAddress  *string `json:"ip_address"`
	DeviceType string  `json:"device_type"`
}

// Key returns the storage identity of the record.
// Two records that both lack an IP (or both fall back to the Unknown
// hostname) with the same other half collapse into one key.
func (r DeviceRecord) Key() (hostname, ip string) {
	hostname, ip = r.Hostname, UnknownValue
	if hostname == "" {
		hostname = UnknownValue
	}
	if r.IPAddress != nil && *r.IPAddress != "" {
		ip = *r.IPAddress
	}
	return hostname, ip
}

// Normalize builds a DeviceRecord from the three text cells of one
// discovery row. It never fails: malformed input yields a partial record.
// status is accepted for row symmetry and currently dropped.
func Normalize(combined, status, connType string) DeviceRecord {
	ip, hostname := ResolveAddressField(combined)
	rec := DeviceRecord{
		Hostname:   hostname,
		DeviceType: NormalizeType(connType),
	}
	if ip != "" {
		rec.IPAddress = &ip
	}
	if mac, ok := MACFromHostname(hostname); ok {
		rec.MACAddress = &mac
	}
	return rec
}

// ResolveAddressField splits the combined "ip / hostname" cell.
// Without a separator a bare dotted quad becomes the IP (hostname Unknown),
// anything else becomes the hostname. Empty ip means absent.
func ResolveAddressField(raw string) (ip, hostname string) {
	raw = strings.TrimSpace(raw)
	if left, right, ok := SplitAddressField(raw); ok {
		ip, hostname = left, right
	} else if IsIPv4Literal(raw) {
		ip, hostname = raw, UnknownValue
	} else {
		hostname = raw
	}
	if hostname == "" {
		hostname = UnknownValue
	}
	return ip, hostname
}

// SplitAddressField splits on the first " / " and trims both halves.
func SplitAddressField(raw string) (ip, hostname string, ok bool) {
	left, right, found := strings.Cut(raw, addressSeparator)
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(left), strings.TrimSpace(right), true
}

// IsIPv4Literal reports whether s looks like a dotted quad.
// Octets are not range checked.
func IsIPv4Literal(s string) bool {
	return ipv4LiteralRe.MatchString(s)
}

// MACFromHostname extracts a MAC from router-synthesized hostnames such as
// "unknown00037f12a6a6" and formats it as XX:XX:XX:XX:XX:XX, keeping the case
// of the source.
func MACFromHostname(hostname string) (string, bool) {
	m := macInHostnameRe.FindStringSubmatch(hostname)
	if m == nil {
		return "", false
	}
	hex := m[1]
	pairs := make([]string, 0, 6)
	for i := 0; i < len(hex); i += 2 {
		pairs = append(pairs, hex[i:i+2])
	}
	return strings.Join(pairs, ":"), true
}

// NormalizeType maps free text onto Wi-Fi or Ethernet; Wi-Fi is checked
// first. Unrecognized text passes through unchanged.
func NormalizeType(raw string) string {
	switch {
	case strings.Contains(raw, TypeWiFi):
		return TypeWiFi
	case strings.Contains(raw, TypeEthernet):
		return TypeEthernet
	default:
		return raw
	}
}
