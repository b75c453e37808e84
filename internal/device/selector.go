// Package device parses the tabular output of `qai-hub list-devices` and
// picks a default export target.
package device

import (
	"errors"
	"regexp"
	"strings"
)

// Device is one parsed row of the listing. Line keeps the raw text because
// selection matches against the whole row, not just the name.
type Device struct {
	Name string
	Line string
}

// ErrNoDevices is returned when the listing parses to zero devices.
var ErrNoDevices = errors.New("No devices found")

// brandPattern extracts a fuller device name when the row mentions a known
// marketing brand; the provisional first-token name is often truncated.
var brandPattern = regexp.MustCompile(`(Snapdragon[^|]+|Samsung[^|]+|Google[^|]+)`)

// Parse extracts devices from the raw listing text, skipping blank lines,
// table separators, and header rows.
func Parse(output string) []Device {
	var devices []Device
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "+") ||
			strings.HasPrefix(line, "=") || strings.HasPrefix(line, "Device") {
			continue
		}

		fields := strings.Fields(strings.Trim(line, "|"))
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		if name == "Device" {
			continue
		}

		if strings.Contains(line, "Snapdragon") || strings.Contains(line, "Galaxy") ||
			strings.Contains(line, "Pixel") {
			if m := brandPattern.FindString(line); m != "" {
				name = strings.TrimSpace(m)
			}
		}
		devices = append(devices, Device{Name: name, Line: line})
	}
	return devices
}

// Select picks one device using a fixed priority chain and returns the
// device name with the reason it won:
//  1. Snapdragon X Elite on Windows
//  2. any Snapdragon X Elite
//  3. any Windows device with a Snapdragon chipset
//  4. the first device in the list
func Select(devices []Device) (string, string, error) {
	if len(devices) == 0 {
		return "", "", ErrNoDevices
	}

	for _, d := range devices {
		if strings.Contains(d.Line, "Snapdragon X Elite") && containsWindows(d.Line) {
			return d.Name, "Snapdragon X Elite + Windows (preferred)", nil
		}
	}
	for _, d := range devices {
		if strings.Contains(d.Line, "Snapdragon X Elite") {
			return d.Name, "Snapdragon X Elite", nil
		}
	}
	for _, d := range devices {
		if strings.Contains(d.Line, "Snapdragon") && containsWindows(d.Line) {
			return d.Name, "Windows Snapdragon device", nil
		}
	}

	return devices[0].Name, "First available device (no Snapdragon X Elite found)", nil
}

// AutoSelect parses a raw listing and selects a device in one step.
func AutoSelect(output string) (string, string, error) {
	return Select(Parse(output))
}

func containsWindows(line string) bool {
	return strings.Contains(strings.ToLower(line), "windows")
}
