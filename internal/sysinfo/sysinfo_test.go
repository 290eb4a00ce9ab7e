package sysinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/sstat/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var batteryText = BatteryText{
	Charging:    "+",
	Discharging: "-",
	Full:        "=",
	Unknown:     "?",
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// override points a filesystem location at a temporary value for one test.
func override(t *testing.T, target *string, value string) {
	t.Helper()
	old := *target
	*target = value
	t.Cleanup(func() { *target = old })
}

func TestBattery(t *testing.T) {
	dir := t.TempDir()
	override(t, &powerSupplyDir, dir)
	writeFile(t, filepath.Join(dir, "BAT0", "capacity"), "87\n")
	writeFile(t, filepath.Join(dir, "BAT0", "status"), "Discharging\n")
	writeFile(t, filepath.Join(dir, "BAT1", "status"), "Not charging\n")

	got, err := BatteryPerc("BAT0")
	require.NoError(t, err)
	assert.Equal(t, "87%", got)

	got, err = BatteryState("BAT0", batteryText)
	require.NoError(t, err)
	assert.Equal(t, "-", got)

	got, err = BatteryState("BAT1", batteryText)
	require.NoError(t, err)
	assert.Equal(t, "?", got)

	_, err = BatteryPerc("BAT9")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrReadFailed))
}

func TestBatterySMAPI(t *testing.T) {
	dir := t.TempDir()
	override(t, &smapiDir, dir)
	writeFile(t, filepath.Join(dir, "BAT0", "remaining_percent"), "42\n")
	writeFile(t, filepath.Join(dir, "BAT0", "state"), "idle\n")
	writeFile(t, filepath.Join(dir, "BAT0", "remaining_running_time_now"), "not_discharging\n")
	writeFile(t, filepath.Join(dir, "BAT0", "remaining_charging_time"), "135\n")

	got, err := BatteryPercSMAPI("BAT0")
	require.NoError(t, err)
	assert.Equal(t, "42%", got)

	got, err = BatteryStateSMAPI("BAT0", batteryText)
	require.NoError(t, err)
	assert.Equal(t, "=", got)

	got, err = BatteryTimeSMAPI("BAT0")
	require.NoError(t, err)
	assert.Equal(t, "02:15", got)

	writeFile(t, filepath.Join(dir, "BAT0", "remaining_running_time_now"), "61\n")
	got, err = BatteryTimeSMAPI("BAT0")
	require.NoError(t, err)
	assert.Equal(t, "01:01", got)
}

func TestProcfsReaders(t *testing.T) {
	dir := t.TempDir()
	override(t, &cpuFreqFile, filepath.Join(dir, "scaling_cur_freq"))
	override(t, &entropyFile, filepath.Join(dir, "entropy_avail"))
	override(t, &ibmFanFile, filepath.Join(dir, "fan"))
	writeFile(t, cpuFreqFile, "800000\n")
	writeFile(t, entropyFile, "256\n")
	writeFile(t, ibmFanFile, "status:\t\tenabled\nspeed:\t\t2650\nlevel:\t\tauto\n")

	got, err := CPUFreq()
	require.NoError(t, err)
	assert.Equal(t, " 800MHz", got)

	got, err = Entropy()
	require.NoError(t, err)
	assert.Equal(t, "256", got)

	got, err = FanIBM()
	require.NoError(t, err)
	assert.Equal(t, "2650", got)
}

func TestTemp(t *testing.T) {
	file := filepath.Join(t.TempDir(), "temp1_input")
	writeFile(t, file, "47500\n")

	got, err := Temp(file)
	require.NoError(t, err)
	assert.Equal(t, "47°C", got)

	writeFile(t, file, "hot\n")
	_, err = Temp(file)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrParseFailed))

	_, err = Temp(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestParseWireless(t *testing.T) {
	content := "Inter-| sta-|   Quality        |   Discarded packets               | Missed | WE\n" +
		" face | tus | link level noise |  nwid  crypt   frag  retry   misc | beacon | 22\n" +
		"wlp3s0: 0000   58.  -52.  -256        0      0      0      0     42        0\n"

	got, err := parseWireless(content)
	require.NoError(t, err)
	assert.Equal(t, "58%", got)

	_, err = parseWireless(content[:120])
	require.Error(t, err)
}

func TestDatetimeAt(t *testing.T) {
	at := time.Date(2024, 3, 9, 7, 5, 3, 0, time.UTC)

	got, err := DatetimeAt("%F %T", at)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09 07:05:03", got)

	_, err = DatetimeAt("", at)
	require.Error(t, err)
}

func TestRunCommand(t *testing.T) {
	got, err := RunCommand("printf 'first\\nsecond\\n'")
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	_, err = RunCommand("exit 3")
	require.Error(t, err)
}

func TestIDs(t *testing.T) {
	uid, err := Uid()
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	gid, err := Gid()
	require.NoError(t, err)
	assert.NotEmpty(t, gid)
}

func TestSwapUsedNeverUnderflows(t *testing.T) {
	s := swapStat{total: 100, free: 90, cached: 20}
	assert.Equal(t, uint64(0), s.used())

	s = swapStat{total: 100, free: 50, cached: 10}
	assert.Equal(t, uint64(40), s.used())
}

func TestPercentOfZeroTotal(t *testing.T) {
	_, err := percent(1, 0)
	require.Error(t, err)

	got, err := percent(25, 100)
	require.NoError(t, err)
	assert.Equal(t, "25%", got)
}
