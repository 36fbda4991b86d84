// Package sysmon samples host and process resource usage for the dashboard.
package sysmon

import (
	"os"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Stats holds a single snapshot of resource usage.
type Stats struct {
	CPUPercent float64 // host-wide, 0.0 .. 100.0
	MemPercent float64 // host-wide, 0.0 .. 100.0
	// ProcCPUPercent is this process's CPU usage. It exceeds 100 when more
	// than one core is busy.
	ProcCPUPercent float64
	ProcRSS        uint64 // resident set size in bytes
}

// Sampler reads Stats. CPU percentages are deltas since the previous call,
// so the first sample reports zero CPU.
type Sampler struct {
	proc *process.Process
}

// NewSampler creates a sampler for the current process. Process figures are
// left at zero if the process cannot be inspected.
func NewSampler() *Sampler {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		p = nil
	}
	s := &Sampler{proc: p}
	s.Sample()
	return s
}

// Sample collects one snapshot. Fields that cannot be read stay zero.
func (s *Sampler) Sample() Stats {
	var st Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		st.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		st.MemPercent = vm.UsedPercent
	}
	if s.proc != nil {
		if pct, err := s.proc.Percent(0); err == nil {
			st.ProcCPUPercent = pct
		}
		if mi, err := s.proc.MemoryInfo(); err == nil && mi != nil {
			st.ProcRSS = mi.RSS
		}
	}
	return st
}

// LogicalCores returns the number of logical CPUs, falling back to 1.
func LogicalCores() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
