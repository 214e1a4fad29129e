package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devtrack/internal/models"
)

func mac(s string) *string { return &s }

var (
	firstSeen = time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	lastSeen  = time.Date(2024, 3, 9, 21, 5, 45, 0, time.UTC)
)

func fixture() []models.Device {
	return []models.Device{
		{ID: 1, Hostname: "Pixel-Phone", IPAddress: "192.168.1.23", DeviceType: "Wi-Fi", FirstSeen: firstSeen, LastSeen: lastSeen},
		{ID: 2, Hostname: "printer", IPAddress: "192.168.1.10", DeviceType: "Ethernet", FirstSeen: firstSeen, LastSeen: lastSeen},
		{ID: 3, Hostname: "unknownaabbccddeeff", IPAddress: "Unknown", MACAddress: mac("aa:bb:cc:dd:ee:ff"), DeviceType: "Wi-Fi", FirstSeen: firstSeen, LastSeen: firstSeen},
		{ID: 4, Hostname: "nas", IPAddress: "10.0.0.5", DeviceType: "Ethernet", FirstSeen: lastSeen, LastSeen: lastSeen},
		{ID: 5, Hostname: "tv", IPAddress: "fe80::1c2d:3e4f:5a6b:7c8d", DeviceType: "Powerline", FirstSeen: firstSeen, LastSeen: lastSeen},
		{ID: 6, Hostname: "Unknown", IPAddress: "192.168.2.200", DeviceType: "Wi-Fi", FirstSeen: firstSeen, LastSeen: lastSeen},
	}
}

func ids(devices []models.Device) []uint {
	out := make([]uint, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.ID)
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  Mode
	}{
		{"", ModeAll},
		{"   \t", ModeAll},
		{"192.168.1.0/24", ModeCIDR},
		{" fe80::/10 ", ModeCIDR},
		{"192.168.1.300/24", ModeSubstring},
		{"192.168.1.0/33", ModeSubstring},
		{"192.168.1.5", ModeSubstring},
		{"*phone*", ModeGlob},
		{"printe?", ModeGlob},
		{"*/24", ModeGlob},
		{"AA:BB", ModeSubstring},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, _ := Classify(tt.query)
			assert.Equal(t, tt.want, got, "mode %s", got)
		})
	}
}

func TestSearchEmptyReturnsEverything(t *testing.T) {
	all := fixture()
	got := Search("", all)
	assert.Equal(t, all, got)

	got[0].Hostname = "changed"
	assert.Equal(t, "Pixel-Phone", all[0].Hostname, "result must not alias the input")

	assert.Equal(t, ids(all), ids(Search("  ", all)))
}

func TestSearchCIDR(t *testing.T) {
	all := fixture()

	assert.Equal(t, []uint{1, 2}, ids(Search("192.168.1.0/24", all)))
	assert.Equal(t, []uint{1, 2, 6}, ids(Search("192.168.0.0/16", all)))
	assert.Equal(t, []uint{5}, ids(Search("fe80::/10", all)))
	assert.Equal(t, []uint{1, 2}, ids(Search("192.168.1.99/24", all)), "host bits are ignored")
}

func TestSearchCIDRDoesNotFallThrough(t *testing.T) {
	all := fixture()
	all = append(all, models.Device{ID: 7, Hostname: "172.16.0.0/12-lab", IPAddress: "Unknown"})

	assert.Empty(t, Search("172.16.0.0/12", all))
}

func TestSearchCIDRSkipsAbsentIP(t *testing.T) {
	all := []models.Device{
		{ID: 1, Hostname: "a", IPAddress: "Unknown"},
		{ID: 2, Hostname: "b", IPAddress: ""},
		{ID: 3, Hostname: "c", IPAddress: "0.0.0.1"},
	}
	assert.Equal(t, []uint{3}, ids(Search("0.0.0.0/0", all)))
}

func TestSearchGlob(t *testing.T) {
	all := fixture()

	assert.Equal(t, []uint{1}, ids(Search("*phone*", all)))
	assert.Equal(t, []uint{1}, ids(Search("*PHONE*", all)))
	assert.Equal(t, []uint{2}, ids(Search("printe?", all)))
	assert.Empty(t, Search("print?", all), "glob is a full-string match")
	assert.Equal(t, []uint{1, 2}, ids(Search("192.168.1.*", all)))
	assert.Equal(t, []uint{3}, ids(Search("aa:bb:*", all)))
	assert.Equal(t, []uint{2, 4}, ids(Search("ether*", all)))
	assert.Equal(t, []uint{1, 2, 3, 5, 6}, ids(Search("* 08:30:??", all)), "matches the timestamp text")
	assert.Equal(t, []uint{1, 2, 4, 5, 6}, ids(Search("2024-03-09*", all)))
}

func TestSearchGlobOnlyStarAndQuestionAreSpecial(t *testing.T) {
	all := []models.Device{
		{ID: 1, Hostname: "lab/pi", DeviceType: "Ethernet"},
		{ID: 2, Hostname: "tv[den]", DeviceType: "Ethernet"},
		{ID: 3, Hostname: "a{b}", DeviceType: "Ethernet"},
		{ID: 4, Hostname: `c\d`, DeviceType: "Ethernet"},
		{ID: 5, Hostname: "x,y", DeviceType: "802.11ac/n"},
	}

	tests := []struct {
		query string
		want  []uint
	}{
		{"lab*", []uint{1}},
		{"*pi", []uint{1}},
		{"lab?pi", []uint{1}},
		{"tv[den]*", []uint{2}},
		{"tv[*", []uint{2}},
		{"tv[d?n]", []uint{2}},
		{"a{b}*", []uint{3}},
		{"A{*", []uint{3}},
		{`c\d*`, []uint{4}},
		{`c\?`, []uint{4}},
		{"x,y*", []uint{5}},
		{"*ac/n", []uint{5}},
		{"802.11*", []uint{5}},
		{"802?11*", []uint{5}},
		{"tv[de]*", nil},
		{"[abc*", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			mode, _ := Classify(tt.query)
			require.Equal(t, ModeGlob, mode)
			got := ids(Search(tt.query, all))
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchSubstring(t *testing.T) {
	all := fixture()

	assert.Equal(t, []uint{1}, ids(Search("phone", all)))
	assert.Equal(t, []uint{1}, ids(Search("  PIXEL ", all)))
	assert.Equal(t, []uint{1, 2, 6}, ids(Search("192.168", all)))
	assert.Equal(t, []uint{5}, ids(Search("powerline", all)))
	assert.Equal(t, []uint{1, 3, 6}, ids(Search("wi-fi", all)))
	assert.Equal(t, []uint{4}, ids(Search("2024-03-09 21:05:45", all[2:4])))
	assert.Empty(t, Search("no-such-device", all))
}

func TestSearchMAC(t *testing.T) {
	all := fixture()

	assert.Equal(t, []uint{3}, ids(Search("AA:BB", all)))
	assert.Equal(t, []uint{3}, ids(Search("aa-bb-cc", all)))
	assert.Equal(t, []uint{3}, ids(Search("ccddee", all)))
	assert.Equal(t, []uint{3}, ids(Search("CC:DD:EE:FF", all)))
}

func TestSearchMACPunctuationOnly(t *testing.T) {
	all := []models.Device{
		{ID: 1, Hostname: "a", IPAddress: "10.0.0.1"},
		{ID: 2, Hostname: "b", IPAddress: "10.0.0.2", MACAddress: mac("00:11:22:33:44:55")},
	}
	assert.Empty(t, Search("--", all), "punctuation alone never matches a stripped MAC")
	assert.Equal(t, []uint{2}, ids(Search(":", all)))
}

func TestSearchPreservesOrder(t *testing.T) {
	all := fixture()
	reversed := make([]models.Device, len(all))
	for i := range all {
		reversed[len(all)-1-i] = all[i]
	}
	assert.Equal(t, []uint{6, 2, 1}, ids(Search("192.168", reversed)))
}

func TestFieldsOrder(t *testing.T) {
	require.Equal(t,
		[]string{"hostname", "ip_address", "mac_address", "last_seen", "first_seen", "device_type"},
		Fields())
}

func TestInPrefix(t *testing.T) {
	_, p := Classify("192.168.1.0/24")
	assert.True(t, InPrefix(p, "192.168.1.1"))
	assert.False(t, InPrefix(p, "192.168.2.1"))
	assert.False(t, InPrefix(p, "::ffff:192.168.1.1"))
	assert.False(t, InPrefix(p, "Unknown"))
	assert.False(t, InPrefix(p, ""))

	_, p6 := Classify("fe80::/10")
	assert.True(t, InPrefix(p6, "fe80::1%eth0"))
	assert.False(t, InPrefix(p6, "192.168.1.1"))
}
