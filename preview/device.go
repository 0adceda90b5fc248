package preview

import "docsite/config"

// Device is a simulated viewport
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceTablet  Device = "tablet"
	DeviceMobile  Device = "mobile"
)

// Width returns the fixed pixel width for a device. Simulation is purely a
// CSS transform on the host page; content is never re-flowed server-side.
func (d Device) Width() int {
	switch d {
	case DeviceTablet:
		return config.TabletWidth
	case DeviceMobile:
		return config.MobileWidth
	default:
		return config.DesktopWidth
	}
}

// ParseDevice normalizes a query value, defaulting to desktop
func ParseDevice(s string) Device {
	switch s {
	case string(DeviceTablet):
		return DeviceTablet
	case string(DeviceMobile):
		return DeviceMobile
	default:
		return DeviceDesktop
	}
}

// ClampZoom keeps the zoom percentage in a usable range
func ClampZoom(zoom int) int {
	if zoom < 25 {
		return 25
	}
	if zoom > 200 {
		return 200
	}
	return zoom
}
