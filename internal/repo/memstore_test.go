package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devtrack/internal/discovery"
)

func TestMemStoreReconcile(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(100 * time.Second)

	st, err := s.Reconcile(ctx, []discovery.DeviceRecord{
		{Hostname: "printer", IPAddress: strPtr("192.168.1.10"), DeviceType: "Ethernet"},
		{Hostname: "unknown00112233aabb", MACAddress: strPtr("00:11:22:33:aa:bb"), DeviceType: "Wi-Fi"},
	}, t0)
	require.NoError(t, err)
	assert.Equal(t, ReconcileStats{Inserted: 2}, st)

	// second sighting: type changes, mac is not reported again
	st, err = s.Reconcile(ctx, []discovery.DeviceRecord{
		{Hostname: "unknown00112233aabb", DeviceType: "Ethernet"},
		{Hostname: "laptop", IPAddress: strPtr("192.168.1.11"), DeviceType: "Wi-Fi"},
	}, t1)
	require.NoError(t, err)
	assert.Equal(t, ReconcileStats{Inserted: 1, Updated: 1}, st)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	assert.Equal(t, uint(1), all[0].ID)
	assert.Equal(t, t0, all[0].LastSeen)

	assert.Equal(t, "Unknown", all[1].IPAddress)
	assert.Equal(t, "00:11:22:33:aa:bb", all[1].MAC(), "mac survives a sighting without one")
	assert.Equal(t, "Ethernet", all[1].DeviceType)
	assert.Equal(t, t0, all[1].FirstSeen)
	assert.Equal(t, t1, all[1].LastSeen)

	assert.Equal(t, uint(3), all[2].ID)
}

func TestMemStoreCollapsesSameKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()

	st, err := s.Reconcile(ctx, []discovery.DeviceRecord{
		{Hostname: "Unknown", IPAddress: strPtr("10.0.0.9"), DeviceType: "Ethernet"},
		{Hostname: "Unknown", IPAddress: strPtr("10.0.0.9"), DeviceType: "Wi-Fi"},
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, ReconcileStats{Inserted: 1, Updated: 1}, st)

	all, _ := s.List(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "Wi-Fi", all[0].DeviceType)
}

func TestMemStoreFinders(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	_, err := s.Reconcile(ctx, []discovery.DeviceRecord{
		{Hostname: "printer", IPAddress: strPtr("192.168.1.10"), DeviceType: "Ethernet"},
		{Hostname: "phone", IPAddress: strPtr("192.168.1.20"), DeviceType: "Wi-Fi"},
		{Hostname: "phone", IPAddress: strPtr("192.168.1.21"), DeviceType: "Wi-Fi"},
	}, time.Now())
	require.NoError(t, err)

	byIP, _ := s.FindByIP(ctx, "192.168.1.10")
	require.Len(t, byIP, 1)
	assert.Equal(t, "printer", byIP[0].Hostname)

	byType, _ := s.FindByType(ctx, "Wi-Fi")
	assert.Len(t, byType, 2)

	byHost, _ := s.FindByHostname(ctx, "phone")
	assert.Len(t, byHost, 2)

	none, _ := s.FindByHostname(ctx, "absent")
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore()
	_, _ = s.Reconcile(ctx, []discovery.DeviceRecord{
		{Hostname: "unknown00112233aabb", MACAddress: strPtr("00:11:22:33:aa:bb"), DeviceType: "Wi-Fi"},
	}, time.Now())

	first, _ := s.List(ctx)
	*first[0].MACAddress = "tampered"
	first[0].Hostname = "tampered"

	second, _ := s.List(ctx)
	assert.Equal(t, "00:11:22:33:aa:bb", second[0].MAC())
	assert.Equal(t, "unknown00112233aabb", second[0].Hostname)
}
