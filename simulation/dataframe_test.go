package simulation

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResultsDataFrame(t *testing.T) {
	df, err := fixedResults().DataFrame()
	if err != nil {
		t.Fatalf("DataFrame() error = %v", err)
	}
	if df.Nrow() != 5 {
		t.Errorf("Nrow() = %d, want 5", df.Nrow())
	}
	want := []string{"iter", "ols", "iv", "first_stage_f", "weak_instrument"}
	if diff := cmp.Diff(want, df.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	iv := df.Col("iv")
	if !iv.Elem(1).IsNA() {
		t.Errorf("iv[1] = %v, want NA", iv.Elem(1))
	}
	if got := df.Col("iter").Elem(4).Float(); got != 5 {
		t.Errorf("iter[4] = %v, want 5", got)
	}
}

func TestResultsDataFrameEmpty(t *testing.T) {
	res := &Results{Config: DefaultConfig()}
	if _, err := res.DataFrame(); err == nil {
		t.Error("DataFrame() of empty results succeeded")
	}
}

func TestResultsDescribe(t *testing.T) {
	desc := fixedResults().Describe()
	if desc.Err != nil {
		t.Fatalf("Describe() error = %v", desc.Err)
	}
	if diff := cmp.Diff([]string{"statistic", "iter", "ols", "iv"}, desc.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if desc.Nrow() != len(describeRows) {
		t.Fatalf("Nrow() = %d, want %d", desc.Nrow(), len(describeRows))
	}

	iv := desc.Col("iv").Float()
	if iv[0] != 4 {
		t.Errorf("iv count = %v, want 4", iv[0])
	}
	if math.Abs(iv[1]-1.025) > 1e-12 {
		t.Errorf("iv mean = %v, want 1.025", iv[1])
	}
	if got := desc.Col("iter").Float()[7]; got != 5 {
		t.Errorf("iter max = %v, want 5", got)
	}
}

func TestResultsWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := fixedResults().WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want header plus 5 rows", len(lines))
	}
	if lines[0] != "iter,ols,iv,first_stage_f,weak_instrument" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "2,") || !strings.Contains(lines[2], ",NaN,") {
		t.Errorf("row 2 = %q, want NaN IV", lines[2])
	}
}
