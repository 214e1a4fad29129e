package discovery

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseRows normalizes tab-separated device list lines
// ("<ip / host>\t<status>\t<type>"), the form produced by copying the
// discovery table out of a browser. Blank lines and lines with fewer than
// three fields are skipped.
func ParseRows(lines []string) []DeviceRecord {
	devices := make([]DeviceRecord, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 3 {
			continue
		}
		devices = append(devices, Normalize(
			strings.TrimSpace(parts[0]),
			strings.TrimSpace(parts[1]),
			strings.TrimSpace(parts[2]),
		))
	}
	return devices
}

// ReadRows is ParseRows over a reader.
func ReadRows(r io.Reader) ([]DeviceRecord, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read device list: %w", err)
	}
	return ParseRows(lines), nil
}
