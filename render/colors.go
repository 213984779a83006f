package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB color definitions
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38)    // Tokyo Night background
	RgbWall       = tcell.NewRGBColor(120, 120, 130) // Mid gray
	RgbFloor      = tcell.NewRGBColor(50, 52, 66)    // Dim dot
	RgbTower      = tcell.NewRGBColor(255, 80, 80)   // Normal red
	RgbZone       = tcell.NewRGBColor(60, 20, 24)    // Very dark red, background only
	RgbArrived    = tcell.NewRGBColor(50, 255, 50)   // Bright green

	RgbStatusBar  = tcell.NewRGBColor(255, 255, 255) // White
	RgbStatusText = tcell.NewRGBColor(0, 0, 0)       // Dark text for status

	// Status bar backgrounds
	RgbRunningBg = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbPausedBg  = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbDoneBg    = tcell.NewRGBColor(135, 206, 250) // Light sky blue
)

// Agent colors cycle by agent index
var agentColors = []tcell.Color{
	tcell.NewRGBColor(100, 150, 255), // Normal blue
	tcell.NewRGBColor(255, 255, 0),   // Bright yellow
	tcell.NewRGBColor(0, 200, 200),   // Vibrant cyan
	tcell.NewRGBColor(255, 192, 203), // Pink
	tcell.NewRGBColor(255, 165, 0),   // Orange
	tcell.NewRGBColor(200, 120, 255), // Lilac
}

// AgentColor returns the display color of the i-th agent
func AgentColor(i int) tcell.Color {
	return agentColors[i%len(agentColors)]
}
