package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testReport() *Report {
	return &Report{
		Limits: Limits{
			MaxComputeInvocationsPerWorkgroup: 256,
			MaxComputeWorkgroupSizeX:          256,
			MaxComputeWorkgroupsPerDimension:  65535,
			MaxStorageBufferBindingSize:       128 << 20,
			MaxBufferSize:                     256 << 20,
		},
		Recommended: Recommendations{WorkgroupX: 256, BudgetBytes: defaultBudget},
	}
}

func TestCheck(t *testing.T) {
	r := testReport()
	assert.NoError(t, r.Check(64, 1024, 4096))
	assert.NoError(t, r.Check(64, 1024, 16384))

	assert.ErrorContains(t, r.Check(512, 1024, 4096), "workgroup size 512")
	assert.ErrorContains(t, r.Check(64, 1024, 200<<20), "storage binding limit")
	assert.ErrorContains(t, r.Check(1, 65536, 65536*4), "65536 workgroups")

	r.Recommended.BudgetBytes = 1024
	assert.ErrorContains(t, r.Check(64, 1024, 4096), "exceeds budget")
}

func TestChooseWorkgroup(t *testing.T) {
	assert.Equal(t, uint32(256), chooseWorkgroup(Limits{MaxComputeWorkgroupSizeX: 1024, MaxComputeInvocationsPerWorkgroup: 1024}))
	assert.Equal(t, uint32(128), chooseWorkgroup(Limits{MaxComputeWorkgroupSizeX: 200, MaxComputeInvocationsPerWorkgroup: 256}))
	assert.Equal(t, uint32(64), chooseWorkgroup(Limits{MaxComputeWorkgroupSizeX: 256, MaxComputeInvocationsPerWorkgroup: 64}))
	assert.Equal(t, uint32(1), chooseWorkgroup(Limits{}))
}

func TestBudgetFromEnv(t *testing.T) {
	t.Setenv(BudgetEnv, "")
	assert.Equal(t, defaultBudget, budgetFromEnv())

	t.Setenv(BudgetEnv, "16")
	assert.Equal(t, uint64(16<<20), budgetFromEnv())

	t.Setenv(BudgetEnv, "-3")
	assert.Equal(t, defaultBudget, budgetFromEnv())

	t.Setenv(BudgetEnv, "lots")
	assert.Equal(t, defaultBudget, budgetFromEnv())
}

func TestPickEnv(t *testing.T) {
	t.Setenv(BudgetEnv, "")
	assert.Nil(t, pickEnv([]string{BudgetEnv}))

	t.Setenv(BudgetEnv, "8")
	assert.Equal(t, map[string]string{BudgetEnv: "8"}, pickEnv([]string{BudgetEnv}))
}

func TestDetectNeedsAdapter(t *testing.T) {
	_, err := Detect(nil)
	assert.Error(t, err)
}
