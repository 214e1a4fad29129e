// Package report renders device lists as markdown.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"devtrack/internal/discovery"
)

const header = "| Hostname | IP Address | Type |\n|---|---|---|\n"

// cellEscaper keeps a stray pipe from breaking the row.
var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

// Markdown writes one table row per device.
func Markdown(w io.Writer, devices []discovery.DeviceRecord) error {
	var b strings.Builder
	b.WriteString(header)
	for _, d := range devices {
		hostname, ip := d.Key()
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			cellEscaper.Replace(hostname),
			cellEscaper.Replace(ip),
			cellEscaper.Replace(d.DeviceType))
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// GenerateFile reads a tab-separated device list and writes the markdown
// table to outPath, creating its directory when missing.
func GenerateFile(inPath, outPath string) (int, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, fmt.Errorf("open device list: %w", err)
	}
	defer in.Close()

	devices, err := discovery.ReadRows(in)
	if err != nil {
		return 0, fmt.Errorf("read device list: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}
	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create report: %w", err)
	}
	if err := Markdown(out, devices); err != nil {
		_ = out.Close()
		return 0, err
	}
	return len(devices), out.Close()
}
