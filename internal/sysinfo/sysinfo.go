// Package sysinfo describes the host a run was produced on.
package sysinfo

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type Host struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	GoVersion string `json:"go_version"`
	CPUModel  string `json:"cpu_model,omitempty"`
	Cores     int    `json:"cores"`
	MemoryMB  uint64 `json:"memory_mb,omitempty"`
}

// Collect gathers host details. Fields gopsutil cannot read on this
// platform are left empty rather than failing the run.
func Collect() Host {
	h := Host{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
		Cores:     runtime.NumCPU(),
	}
	if info, err := cpu.Info(); err == nil && len(info) > 0 {
		h.CPUModel = info[0].ModelName
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		h.Cores = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		h.MemoryMB = vm.Total / 1024 / 1024
	}
	return h
}

func (h Host) String() string {
	cpuName := h.CPUModel
	if cpuName == "" {
		cpuName = "unknown cpu"
	}
	s := fmt.Sprintf("%s/%s %s, %d cores", h.OS, h.Arch, cpuName, h.Cores)
	if h.MemoryMB > 0 {
		s += fmt.Sprintf(", %d MB", h.MemoryMB)
	}
	return s
}
