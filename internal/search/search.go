// Package search matches free-text queries against stored devices.
//
// A query is classified once per call:
//
//   - blank: every device matches
//   - contains "/" and parses as an IPv4/IPv6 prefix: subnet membership of
//     the device IP, nothing else is looked at
//   - contains "*" or "?": case-insensitive glob, full-string match per field;
//     only "*" (any run, "/" included) and "?" (one character) are special
//   - anything else: case-insensitive substring per field
//
// Fields are tried in the order of the fields table and the first hit wins.
package search

import (
	"net/netip"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"devtrack/internal/models"
)

// TimeLayout is how first/last seen timestamps are rendered for matching.
const TimeLayout = "2006-01-02 15:04:05"

// Mode is the classification of a query.
type Mode int

const (
	ModeAll Mode = iota
	ModeCIDR
	ModeGlob
	ModeSubstring
)

func (m Mode) String() string {
	switch m {
	case ModeAll:
		return "all"
	case ModeCIDR:
		return "cidr"
	case ModeGlob:
		return "glob"
	case ModeSubstring:
		return "substring"
	default:
		return "unknown"
	}
}

type field struct {
	name  string
	value func(models.Device) string
	// mac fields are also compared with ':' and '-' stripped
	mac bool
}

var fields = []field{
	{name: "hostname", value: func(d models.Device) string { return d.Hostname }},
	{name: "ip_address", value: func(d models.Device) string { return d.IPAddress }},
	{name: "mac_address", value: models.Device.MAC, mac: true},
	{name: "last_seen", value: func(d models.Device) string { return formatTime(d.LastSeen) }},
	{name: "first_seen", value: func(d models.Device) string { return formatTime(d.FirstSeen) }},
	{name: "device_type", value: func(d models.Device) string { return d.DeviceType }},
}

// Fields lists the matched fields in evaluation order.
func Fields() []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

// Classify reports how query will be evaluated. The prefix is valid only
// for ModeCIDR.
func Classify(query string) (Mode, netip.Prefix) {
	q := strings.TrimSpace(query)
	if q == "" {
		return ModeAll, netip.Prefix{}
	}
	if strings.Contains(q, "/") {
		if p, err := netip.ParsePrefix(q); err == nil {
			return ModeCIDR, p
		}
	}
	if strings.ContainsAny(q, "*?") {
		return ModeGlob, netip.Prefix{}
	}
	return ModeSubstring, netip.Prefix{}
}

// Search returns the devices matching query in their original order.
// The result never aliases the input slice.
func Search(query string, devices []models.Device) []models.Device {
	mode, prefix := Classify(query)
	q := strings.ToLower(strings.TrimSpace(query))
	var g glob.Glob
	if mode == ModeGlob {
		g, _ = compileGlob(q)
	}

	out := make([]models.Device, 0, len(devices))
	for _, d := range devices {
		var ok bool
		switch mode {
		case ModeAll:
			ok = true
		case ModeCIDR:
			ok = InPrefix(prefix, d.IPAddress)
		case ModeGlob:
			ok = g != nil && matchFields(d, func(f field, v string) bool { return globMatch(g, v) })
		case ModeSubstring:
			ok = matchFields(d, func(f field, v string) bool { return substringMatch(q, v, f.mac) })
		}
		if ok {
			out = append(out, d)
		}
	}
	return out
}

func matchFields(d models.Device, match func(f field, v string) bool) bool {
	for _, f := range fields {
		if match(f, f.value(d)) {
			return true
		}
	}
	return false
}

// InPrefix reports whether ip parses and belongs to p. Address families
// must agree; IPv6 zones are ignored.
func InPrefix(p netip.Prefix, ip string) bool {
	if ip == "" {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	return p.Contains(addr.WithZone(""))
}

// compileGlob builds a matcher from a lowercased query. Everything except
// '*' and '?' is quoted, and no separators are set, so '/' is an ordinary
// character.
func compileGlob(query string) (glob.Glob, error) {
	var b strings.Builder
	lit := 0
	for i := 0; i < len(query); i++ {
		if c := query[i]; c == '*' || c == '?' {
			b.WriteString(glob.QuoteMeta(query[lit:i]))
			b.WriteByte(c)
			lit = i + 1
		}
	}
	b.WriteString(glob.QuoteMeta(query[lit:]))
	return glob.Compile(b.String())
}

func globMatch(g glob.Glob, value string) bool {
	return value != "" && g.Match(strings.ToLower(value))
}

// substringMatch expects a lowercased query.
func substringMatch(query, value string, mac bool) bool {
	if value == "" {
		return false
	}
	v := strings.ToLower(value)
	if strings.Contains(v, query) {
		return true
	}
	if !mac {
		return false
	}
	sq := stripMACPunct(query)
	return sq != "" && strings.Contains(stripMACPunct(v), sq)
}

var macPunct = strings.NewReplacer(":", "", "-", "")

func stripMACPunct(s string) string { return macPunct.Replace(s) }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}
