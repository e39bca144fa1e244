package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

// Exporter writes summaries and charts under one output directory.
type Exporter struct {
	dir string
	log zerolog.Logger
}

// NewExporter creates an exporter rooted at dir.
func NewExporter(dir string, log zerolog.Logger) *Exporter {
	return &Exporter{
		dir: dir,
		log: log.With().Str("component", "report_exporter").Logger(),
	}
}

// Export writes <base>.json, <base>.msgpack and <base>.txt, plus the
// allocation pie of the first optimization and the stress bars of the
// current portfolio when there is data for them. It returns the written paths.
func (e *Exporter) Export(s *Summary) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	base := filepath.Join(e.dir, BaseName(s))
	var written []string

	write := func(path string, fn func(f *os.File) error) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := fn(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", path, err)
		}
		written = append(written, path)
		return nil
	}

	if err := write(base+".json", func(f *os.File) error { return s.WriteJSON(f) }); err != nil {
		return written, err
	}
	if err := write(base+".msgpack", func(f *os.File) error { return s.WriteMsgpack(f) }); err != nil {
		return written, err
	}
	if err := write(base+".txt", func(f *os.File) error {
		_, err := f.WriteString(s.Text())
		return err
	}); err != nil {
		return written, err
	}

	if len(s.Optimizations) > 0 && len(s.Optimizations[0].Allocations) > 0 {
		png, err := RenderAllocationChart(s.Optimizations[0])
		if err != nil {
			return written, err
		}
		if err := e.writeFile(base+"_allocation.png", png); err != nil {
			return written, err
		}
		written = append(written, base+"_allocation.png")
	}

	if len(s.Risk.StressTests) > 0 {
		png, err := RenderStressChart(s.Risk.StressTests)
		if err != nil {
			return written, err
		}
		if err := e.writeFile(base+"_stress.png", png); err != nil {
			return written, err
		}
		written = append(written, base+"_stress.png")
	}

	e.log.Info().Strs("files", written).Str("run_id", s.RunID).Msg("Report exported")
	return written, nil
}

func (e *Exporter) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// BaseName is <Client>_Report_<YYYYMM>, keeping only letters and digits of the client name.
func BaseName(s *Summary) string {
	client := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s.ClientName)
	if client == "" {
		client = "Portfolio"
	}
	return fmt.Sprintf("%s_Report_%s", client, strings.ReplaceAll(s.ReportMonth, "-", ""))
}
