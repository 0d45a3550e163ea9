package usecase

import (
	"strings"

	"github.com/xavierca1/jetleads/internal/entity"
)

func DeviceTypeFromUserAgent(ua string) string {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"),
		strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		return entity.DeviceTablet
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "iphone"),
		strings.Contains(ua, "ipod"), strings.Contains(ua, "android"):
		return entity.DeviceMobile
	default:
		return entity.DeviceDesktop
	}
}
