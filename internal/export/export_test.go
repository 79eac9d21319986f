package export

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MBP16/SIR-Modeling/internal/sim"
)

func sample(t *testing.T) *sim.Table {
	t.Helper()
	tab, err := sim.NewTable([]sim.Row{
		{Time: "0", S: "299", I: "1", R: "0"},
		{Time: "0.1", S: "298.103", I: "1.847", R: "0.05", DS: "-8.97", DI: "8.47", DR: "0.5", HasDerivative: true},
	})
	require.NoError(t, err)
	return tab
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Time,S,I,R,dSdt,dIdt,dRdt", lines[0])
	assert.Equal(t, "0,299,1,0,None,None,None", lines[1])
	assert.Equal(t, "0.1,298.103,1.847,0.05,-8.97,8.47,0.5", lines[2])
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, SaveCSV(path, sample(t)))

	tab, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, 2, tab.Len())
	assert.False(t, tab.Row(0).HasDerivative)
	assert.Equal(t, sample(t).Row(1), tab.Row(1))
	assert.True(t, math.IsNaN(tab.Series().DS[0]))
}

func TestReadCSVRejectsForeignHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("time,x0,x1\n0,1,2\n"))
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadCSVMissing(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteJSON(t *testing.T) {
	doc := NewDocument(sample(t))
	doc.Runner = "euler"
	doc.Reason = "horizon"
	doc.Params = NewParamsData(sim.DefaultParams())

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, doc))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "euler", decoded["runner"])
	assert.Equal(t, float64(1), decoded["steps"])
	ds := decoded["dSdt"].([]any)
	assert.Nil(t, ds[0])
	assert.Equal(t, -8.97, ds[1])

	params := decoded["params"].(map[string]any)
	assert.Equal(t, "float", params["precision"])
	_, hasDigits := params["decimal_digits"]
	assert.False(t, hasDigits)
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, SaveJSON(path, NewDocument(sample(t))))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"times": [`)
}
