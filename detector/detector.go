package detector

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/openfluke/computeguide/gpu"
	"github.com/openfluke/webgpu/wgpu"
)

// BudgetEnv caps, in MiB, how much buffer memory a single program may use.
const BudgetEnv = "COMPUTEGUIDE_BUDGET_MB"

const defaultBudget = uint64(128 * 1024 * 1024)

/* ---------- public API ---------- */

// Report is a portable summary of the selected adapter's compute caps.
type Report struct {
	WhenISO     string            `json:"when_iso"`
	Runtime     string            `json:"runtime"` // "native" or "wasm" (best-effort)
	Backend     string            `json:"backend"`
	AdapterType string            `json:"adapter_type"`
	VendorID    string            `json:"vendor_id_hex"`
	DeviceID    string            `json:"device_id_hex"`
	Name        string            `json:"name"`
	Driver      string            `json:"driver"`
	Recommended Recommendations   `json:"recommended"`
	Limits      Limits            `json:"limits"`
	Features    []string          `json:"features"`
	Env         map[string]string `json:"env,omitempty"`
}

type Limits struct {
	MaxComputeInvocationsPerWorkgroup uint32 `json:"max_compute_invocations_per_workgroup"`
	MaxComputeWorkgroupSizeX          uint32 `json:"max_compute_workgroup_size_x"`
	MaxComputeWorkgroupsPerDimension  uint32 `json:"max_compute_workgroups_per_dimension"`
	MaxStorageBufferBindingSize       uint64 `json:"max_storage_buffer_binding_size"`
	MaxBufferSize                     uint64 `json:"max_buffer_size"`
}

type Recommendations struct {
	// Largest power-of-two 1D workgroup the adapter accepts.
	WorkgroupX uint32 `json:"workgroup_x"`

	// Soft budget in bytes for one program's buffers.
	BudgetBytes uint64 `json:"budget_bytes"`
}

// DetectJSON probes c's adapter and returns the report as JSON.
func DetectJSON(c *gpu.Context) (string, error) {
	rep, err := Detect(c)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Detect summarizes the adapter c was opened on.
func Detect(c *gpu.Context) (*Report, error) {
	if c == nil || c.Adapter == nil {
		return nil, fmt.Errorf("detector: no adapter")
	}

	desc := c.Describe()
	limits := c.Adapter.GetLimits()

	var feats []string
	for _, f := range c.Adapter.EnumerateFeatures() {
		feats = append(feats, featureName(f))
	}

	rep := &Report{
		WhenISO:     time.Now().UTC().Format(time.RFC3339),
		Runtime:     detectRuntime(),
		Backend:     desc.Backend,
		AdapterType: desc.Type,
		VendorID:    fmt.Sprintf("0x%04x", desc.VendorID),
		DeviceID:    fmt.Sprintf("0x%04x", desc.DeviceID),
		Name:        strings.TrimSpace(desc.Name),
		Driver:      strings.TrimSpace(desc.Driver),
		Limits:      limitsFrom(limits),
		Features:    feats,
		Env:         pickEnv([]string{BudgetEnv}),
	}
	rep.Recommended = Recommendations{
		WorkgroupX:  chooseWorkgroup(rep.Limits),
		BudgetBytes: budgetFromEnv(),
	}
	return rep, nil
}

// Check fails if a one-invocation-per-element kernel of the given workgroup
// width over elements values (bufferBytes in total) cannot run on this adapter.
func (r *Report) Check(workgroupX uint32, elements int, bufferBytes uint64) error {
	l := r.Limits
	if workgroupX > l.MaxComputeWorkgroupSizeX || workgroupX > l.MaxComputeInvocationsPerWorkgroup {
		return fmt.Errorf("workgroup size %d exceeds adapter limit %d", workgroupX, min(l.MaxComputeWorkgroupSizeX, l.MaxComputeInvocationsPerWorkgroup))
	}
	if bufferBytes > l.MaxStorageBufferBindingSize {
		return fmt.Errorf("buffer of %d bytes exceeds storage binding limit %d", bufferBytes, l.MaxStorageBufferBindingSize)
	}
	if l.MaxBufferSize > 0 && bufferBytes > l.MaxBufferSize {
		return fmt.Errorf("buffer of %d bytes exceeds buffer size limit %d", bufferBytes, l.MaxBufferSize)
	}
	if b := r.Recommended.BudgetBytes; b > 0 && bufferBytes > b {
		return fmt.Errorf("buffer of %d bytes exceeds budget %d (%s)", bufferBytes, b, BudgetEnv)
	}
	if groups := gpu.Workgroups(elements, workgroupX); groups > l.MaxComputeWorkgroupsPerDimension {
		return fmt.Errorf("dispatch of %d workgroups exceeds adapter limit %d", groups, l.MaxComputeWorkgroupsPerDimension)
	}
	return nil
}

/* ---------- helpers ---------- */

func limitsFrom(l wgpu.SupportedLimits) Limits {
	return Limits{
		MaxComputeInvocationsPerWorkgroup: l.Limits.MaxComputeInvocationsPerWorkgroup,
		MaxComputeWorkgroupSizeX:          l.Limits.MaxComputeWorkgroupSizeX,
		MaxComputeWorkgroupsPerDimension:  l.Limits.MaxComputeWorkgroupsPerDimension,
		MaxStorageBufferBindingSize:       l.Limits.MaxStorageBufferBindingSize,
		MaxBufferSize:                     l.Limits.MaxBufferSize,
	}
}

func chooseWorkgroup(l Limits) uint32 {
	candidates := []uint32{256, 128, 64, 32, 16, 8, 4, 1}
	for _, c := range candidates {
		if c <= l.MaxComputeWorkgroupSizeX && c <= l.MaxComputeInvocationsPerWorkgroup {
			return c
		}
	}
	return 1
}

func budgetFromEnv() uint64 {
	if mbStr := os.Getenv(BudgetEnv); mbStr != "" {
		if mb, err := strconv.Atoi(mbStr); err == nil && mb > 0 {
			return uint64(mb) * 1024 * 1024
		}
	}
	return defaultBudget
}

func featureName(f wgpu.FeatureName) string { return f.String() }

func detectRuntime() string {
	if runtime.GOOS == "js" {
		return "wasm"
	}
	return "native"
}

func pickEnv(keys []string) map[string]string {
	out := map[string]string{}
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
