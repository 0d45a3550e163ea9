package usecase

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/jetleads/internal/entity"
)

func TestRoundRobinSelectorCyclesInOrder(t *testing.T) {
	s, err := NewRoundRobinSelector([]string{"a", "b", "c"})
	require.NoError(t, err)

	var got []string
	for i := 0; i < 7; i++ {
		got = append(got, s.SelectAffiliate(LeadContext{}))
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, got)
}

func TestRoundRobinSelectorIsContentBlind(t *testing.T) {
	s, err := NewRoundRobinSelector([]string{"a", "b", "c"})
	require.NoError(t, err)

	assert.Equal(t, "a", s.SelectAffiliate(LeadContext{Score: 10, Quality: entity.QualityHot}))
	assert.Equal(t, "b", s.SelectAffiliate(LeadContext{Score: 1, Quality: entity.QualityCold}))
}

func TestRoundRobinSelectorBalancesAcrossPartners(t *testing.T) {
	for _, n := range []int{1, 2, 3, 10, 100, 301} {
		s, err := NewRoundRobinSelector([]string{"a", "b", "c"})
		require.NoError(t, err)

		counts := map[string]int{}
		for i := 0; i < n; i++ {
			counts[s.SelectAffiliate(LeadContext{})]++
		}
		for _, id := range []string{"a", "b", "c"} {
			assert.GreaterOrEqual(t, counts[id], n/3)
			assert.LessOrEqual(t, counts[id], (n+2)/3)
		}
	}
}

func TestRoundRobinSelectorConcurrentCallsLoseNoUpdates(t *testing.T) {
	s, err := NewRoundRobinSelector([]string{"a", "b", "c"})
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		counts = map[string]int{}
	)
	for i := 0; i < 300; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.SelectAffiliate(LeadContext{})
			mu.Lock()
			counts[id]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]int{"a": 100, "b": 100, "c": 100}, counts)
}

func TestNewRoundRobinSelectorRejectsEmptySet(t *testing.T) {
	_, err := NewRoundRobinSelector(nil)
	assert.Error(t, err)
}

func TestDeviceTypeFromUserAgent(t *testing.T) {
	tests := map[string]string{
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148":       entity.DeviceMobile,
		"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36":              entity.DeviceMobile,
		"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)":                               entity.DeviceTablet,
		"Mozilla/5.0 (Linux; Android 13; SM-X710) AppleWebKit/537.36 Safari/537.36":  entity.DeviceTablet,
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/129.0": entity.DeviceDesktop,
		"": entity.DeviceDesktop,
	}
	for ua, want := range tests {
		assert.Equal(t, want, DeviceTypeFromUserAgent(ua), ua)
	}
}
