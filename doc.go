// Package sortbot drives a small two-wheeled rover across a board of
// colored zones and stops it on the zone selected by an external command.
//
// The rover reads a downward color sensor, smooths the raw reflectance,
// classifies the zone under the sensor, and confirms arrival after a run
// of consecutive matches. A forward distance sensor aborts into a
// turn-around when an obstacle gets too close, and an overshoot past the
// target triggers the same recovery. Progress is reported as STATUS:
// lines on stdout for an upstream bridge to scrape.
//
// # Installation
//
//	go install github.com/brickbot/sortbot/cmd/sortbot@latest
//
// # Usage
//
// Point the rover at the board and start a run:
//
//	sortbot run --command ROUTE_TO_LANDFILL
//
// Watch a run with a live dashboard (add --backend mock for a dry run):
//
//	sortbot monitor --command URGENT_INSPECTION --backend mock
//
// Read raw sensor values while tuning the reflectance table:
//
//	sortbot calibrate
//
// # Packages
//
// The module is organized into the following packages:
//
//   - cmd/sortbot: CLI entrypoint
//   - pkg/cmd: command wiring (run, monitor, calibrate)
//   - pkg/nav: zone boards, classification, and the navigation state machine
//   - pkg/robot: hardware interfaces and the serial/servo drivers
//   - pkg/rig: backend assembly (brick, feetech, mock)
//   - pkg/config: file/env/flag configuration
package sortbot
