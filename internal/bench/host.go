package bench

import (
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// Host describes the machine a report was produced on.
type Host struct {
	GOOS       string
	GOARCH     string
	NumCPU     int
	GOMAXPROCS int
	// Features lists the vector extensions reported by the CPU.
	Features []string
}

func DetectHost() Host {
	return Host{
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Features:   cpuFeatures(),
	}
}

func (h Host) String() string {
	var b strings.Builder
	b.WriteString(h.GOOS)
	b.WriteByte('/')
	b.WriteString(h.GOARCH)
	if len(h.Features) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(h.Features, ","))
		b.WriteByte(')')
	}
	return b.String()
}

func cpuFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE42, "sse4.2")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasAVX512F, "avx512f")
		add(cpu.X86.HasBMI2, "bmi2")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasSVE, "sve")
		add(cpu.ARM64.HasCRC32, "crc32")
	}
	return features
}
