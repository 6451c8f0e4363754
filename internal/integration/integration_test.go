// internal/integration/integration_test.go
package integration

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tkfalign/internal/alignapp"
	"tkfalign/internal/appshell"
	"tkfalign/internal/batchapp"
	"tkfalign/internal/benchapp"
	"tkfalign/internal/checkapp"
	"tkfalign/internal/config"
	"tkfalign/pkg/api"
)

const (
	seqA = "ACGACTAGTCAGCTACGATCGACTCATTCAACTGACTGACATCGACTTA"
	seqB = "AGAGAGTAATGCATACGCATGCATCTGCTATTCTGCTGCAGTGGTA"
)

func params(pa int) string {
	return fmt.Sprintf(`{"pa":{"num":%d,"denom":100},"pc":{"num":25,"denom":100},
		"pg":{"num":25,"denom":100},"pt":{"num":25,"denom":100},
		"lambda":{"num":1,"denom":1},"mu":{"num":2,"denom":1},"tau":{"num":1,"denom":10}}`, pa)
}

func alignReq(a, b, prec string) string {
	return fmt.Sprintf(`{"parameters":%s,"sequence_a":%q,"sequence_b":%q,"precision":%q}`, params(25), a, b, prec)
}

func checkReq(rowA, rowB string) string {
	return fmt.Sprintf(`{"parameters":%s,"sequence_a":%q,"sequence_b":%q}`, params(25), rowA, rowB)
}

type result struct {
	code           int
	stdout, stderr string
}

func run(t *testing.T, fn appshell.RunFunc, stdin string, argv ...string) result {
	t.Helper()
	t.Setenv(config.EnvPath, "")
	var out, errBuf bytes.Buffer
	code := fn(context.Background(), argv, strings.NewReader(stdin), &out, &errBuf)
	return result{code: code, stdout: out.String(), stderr: errBuf.String()}
}

func TestAlignThenCheck(t *testing.T) {
	for _, prec := range []string{"arb256", "high", "mag", "double", "float"} {
		t.Run(prec, func(t *testing.T) {
			r := run(t, alignapp.RunContext, alignReq(seqA, seqB, prec))
			require.Equal(t, 0, r.code, r.stderr)

			var resp api.AlignResponseV1
			require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
			assert.Equal(t, seqA, strings.ReplaceAll(resp.SequenceA, "-", ""))
			assert.Equal(t, seqB, strings.ReplaceAll(resp.SequenceB, "-", ""))
			assert.Less(t, resp.LogProbability, 0.0)

			c := run(t, checkapp.RunContext, checkReq(resp.SequenceA, resp.SequenceB))
			require.Equal(t, 0, c.code, c.stderr)
			var chk api.CheckResponseV1
			require.NoError(t, json.Unmarshal([]byte(c.stdout), &chk))
			if resp.Verified {
				assert.True(t, chk.AlignmentIsOptimal)
				assert.InDelta(t, chk.OptimalLogProbability, resp.LogProbability, 1e-3)
			}
			if prec == "arb256" || prec == "high" {
				assert.True(t, resp.Verified)
				assert.True(t, chk.AlignmentIsOptimal)
				assert.True(t, chk.AlignmentIsCanonical)
				require.NotNil(t, resp.Bounds)
				assert.LessOrEqual(t, resp.Bounds[0], resp.Bounds[1])
				assert.NotEmpty(t, resp.Expression)
			}
		})
	}
}

func TestAlign_FrequencySumRejected(t *testing.T) {
	req := fmt.Sprintf(`{"parameters":%s,"sequence_a":"A","sequence_b":"A","precision":"high"}`, params(24))
	r := run(t, alignapp.RunContext, req)
	assert.Equal(t, 1, r.code)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "sum to exactly 1")
}

func TestAlign_RTol(t *testing.T) {
	req := fmt.Sprintf(`{"parameters":%s,"sequence_a":%q,"sequence_b":%q,"precision":"float","rtol":1e-15}`, params(25), seqA, seqB)
	r := run(t, alignapp.RunContext, req)
	assert.Equal(t, 1, r.code)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "precision failure")

	req = fmt.Sprintf(`{"parameters":%s,"sequence_a":%q,"sequence_b":%q,"precision":"double","rtol":1e-9}`, params(25), seqA, seqB)
	r = run(t, alignapp.RunContext, req)
	require.Equal(t, 0, r.code, r.stderr)
	var resp api.AlignResponseV1
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
	assert.True(t, resp.Verified)
}

func TestCheck_Scenarios(t *testing.T) {
	cases := []struct {
		rowA, rowB         string
		optimal, canonical bool
	}{
		{"AAA", "A--", true, true},
		{"AAA", "-A-", true, false},
		{"AAA", "--A", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.rowB, func(t *testing.T) {
			r := run(t, checkapp.RunContext, checkReq(tc.rowA, tc.rowB))
			require.Equal(t, 0, r.code, r.stderr)
			var chk api.CheckResponseV1
			require.NoError(t, json.Unmarshal([]byte(r.stdout), &chk))
			assert.Equal(t, tc.optimal, chk.AlignmentIsOptimal)
			assert.Equal(t, tc.canonical, chk.AlignmentIsCanonical)
			assert.Equal(t, "2", chk.OptimalCount)
			require.NotNil(t, chk.LogProbability)
		})
	}
}

func TestCheck_IllegalPathHasNullScore(t *testing.T) {
	r := run(t, checkapp.RunContext, checkReq("A-", "-A"))
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"log_probability":null`)
	assert.Contains(t, r.stdout, `"alignment_is_optimal":false`)
}

func TestCheck_Malformed(t *testing.T) {
	// Trailing deletions keep the rows the same length and are valid.
	r := run(t, checkapp.RunContext, checkReq(seqA, seqB+"---"))
	require.Equal(t, 0, r.code, r.stderr)

	r = run(t, checkapp.RunContext, checkReq(seqA, seqB+"------"))
	assert.Equal(t, 1, r.code)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "malformed")
}

func TestBench(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "bench.prom")
	req := fmt.Sprintf(`{"parameters":%s,"sequence_a":"ACGTACGT","sequence_b":"ACGACGT","samples":3}`, params(25))
	r := run(t, benchapp.RunContext, req, "--metrics-textfile", textfile)
	require.Equal(t, 0, r.code, r.stderr)

	var resp api.BenchResponseV1
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &resp))
	assert.Len(t, resp.ElapsedTicks, 3)
	assert.Equal(t, int64(1_000_000_000), resp.TicksPerSecond)
	assert.Equal(t, "arb256", resp.Precision)

	data, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `tkfalign_bench_samples_total{outcome="ok",precision="arb256"} 3`)
}

func TestBench_InvalidSamples(t *testing.T) {
	req := fmt.Sprintf(`{"parameters":%s,"sequence_a":"A","sequence_b":"A","precision":"double","samples":0}`, params(25))
	r := run(t, benchapp.RunContext, req)
	assert.Equal(t, 1, r.code)
	assert.Empty(t, r.stdout)
}

func TestBatch_OrderedResults(t *testing.T) {
	lines := []string{
		`{"op":"align",` + alignReq("ACGT", "AGT", "double")[1:],
		`{"op":"check",` + checkReq("AAA", "-A-")[1:],
		`{"op":"align","sequence_a":"A"}`,
		``,
		`{"op":"translate"}`,
		`{"op":"check",` + checkReq("AAA", "A")[1:],
	}
	r := run(t, batchapp.RunContext, strings.Join(lines, "\n"), "--workers", "3")
	require.Equal(t, 0, r.code, r.stderr)

	var got []api.BatchResultV1
	sc := bufio.NewScanner(strings.NewReader(r.stdout))
	for sc.Scan() {
		var v api.BatchResultV1
		require.NoError(t, json.Unmarshal(sc.Bytes(), &v))
		got = append(got, v)
	}
	require.Len(t, got, 5)
	assert.Equal(t, []int{1, 2, 3, 5, 6}, []int{got[0].Line, got[1].Line, got[2].Line, got[3].Line, got[4].Line})

	require.NotNil(t, got[0].Align)
	assert.Equal(t, "AGT", strings.ReplaceAll(got[0].Align.SequenceB, "-", ""))
	require.NotNil(t, got[1].Check)
	assert.True(t, got[1].Check.AlignmentIsOptimal)
	assert.False(t, got[1].Check.AlignmentIsCanonical)
	assert.Contains(t, got[2].Error, "missing field")
	assert.Contains(t, got[3].Error, "op")
	assert.Contains(t, got[4].Error, "malformed")
}

func TestUsageErrors(t *testing.T) {
	r := run(t, alignapp.RunContext, "", "--no-such-flag")
	assert.Equal(t, 2, r.code)
	r = run(t, alignapp.RunContext, "", "extra-arg")
	assert.Equal(t, 2, r.code)
	r = run(t, alignapp.RunContext, "", "--input", filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, 2, r.code)
}

func TestVersionAndHelp(t *testing.T) {
	r := run(t, checkapp.RunContext, "", "--version")
	assert.Equal(t, 0, r.code)
	assert.Equal(t, "tkf-check version dev\n", r.stdout)

	r = run(t, checkapp.RunContext, "", "--help")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.stdout, "--timeout")
}

func TestInputFileAndPretty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(path, []byte(checkReq("AAA", "A--")), 0o644))

	r := run(t, checkapp.RunContext, "", "--input", path, "--pretty")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "\n  \"alignment_is_optimal\": true")
}

func TestConfigDefaultPrecision(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "tkf.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("default_precision: double\nlog:\n  format: json\n"), 0o644))

	req := fmt.Sprintf(`{"parameters":%s,"sequence_a":"AC","sequence_b":"A","samples":1}`, params(25))
	r := run(t, benchapp.RunContext, req, "--config", cfg)
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, `"precision":"double"`)
	assert.Contains(t, r.stderr, `"tool":"tkf-bench"`)
}
