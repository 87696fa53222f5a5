package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/labops/internal/cache"
	"evalgo.org/labops/internal/render"
	"evalgo.org/labops/internal/version"
	"evalgo.org/labops/models"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var (
	hostA = models.Host{AssetID: "1001", HardwareID: "SVR.AAA1", Platform: "MONZA91", Status: "Available",
		ConsoleIP: "10.0.0.1", Location: "SEA85.159.R6-L01.20"}
	hostB = models.Host{AssetID: "1002", HardwareID: "SVR.BBB2", Platform: "MONZA92", Status: "Reserved",
		Location: "SEA85.159.R6-L01.10"}
	hostC = models.Host{AssetID: "1003", Platform: "ATLAS", Status: "Available",
		ConsoleIP: "10.0.0.3", Location: "SEA85.6920.R1-L01.10"}
)

func inventoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	hosts := []models.Host{hostA, hostB, hostC}
	two := 2
	racks := []models.Rack{
		{Position: "SEA85.6920.R1-L01", Lab: "SEALAB85"},
		{Position: "SEA85.159.R6-L01", Lab: "SEALAB85", HostCount: &two, Hosts: []models.Host{hostA, hostB}},
	}
	switches := []models.Switch{
		{Name: "sw-r6", Status: "up", Rack: "SEA85.159.R6-L01", Model: "N9K"},
		{Name: "sw-r1", Status: "down", Rack: "SEA85.6920.R1-L01"},
	}

	write := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"response": v})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/hosts", func(w http.ResponseWriter, r *http.Request) { write(w, hosts) })
	mux.HandleFunc("/racks", func(w http.ResponseWriter, r *http.Request) { write(w, racks) })
	mux.HandleFunc("/switches", func(w http.ResponseWriter, r *http.Request) { write(w, switches) })
	mux.HandleFunc("/hosts/find", func(w http.ResponseWriter, r *http.Request) {
		for _, h := range hosts {
			if h.AssetID == r.URL.Query().Get("assetid") {
				write(w, h)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "Host not found"}`))
	})
	mux.HandleFunc("/hosts/hoststatus", func(w http.ResponseWriter, r *http.Request) {
		found := []models.Host{}
		for _, h := range hosts {
			if strings.EqualFold(h.HardwareID, r.URL.Query().Get("hardwareid")) {
				found = append(found, models.Host{AssetID: h.AssetID, HardwareID: h.HardwareID})
			}
		}
		write(w, found)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI against the fake service with the cache disabled.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	srv := inventoryServer(t)
	t.Setenv("LABOPS_API_BASE_URL", srv.URL)
	t.Setenv("LABOPS_API_RATE_LIMIT", "0")

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--no-cache"}, args...))

	err := rootCmd.Execute()
	return ansi.ReplaceAllString(out.String(), ""), err
}

func TestLookup_AssetID(t *testing.T) {
	out, err := execute(t, "", "1001")
	require.NoError(t, err)

	assert.Contains(t, out, "Asset ID: 1001")
	assert.Contains(t, out, "Platform: MONZA91")
	assert.Contains(t, out, "Console IP: 10.0.0.1")
}

func TestLookup_HardwareIDFetchesFullRecord(t *testing.T) {
	out, err := execute(t, "", "svr.aaa1")
	require.NoError(t, err)

	assert.Contains(t, out, "Asset ID: 1001")
	assert.Contains(t, out, "Status: Available", "status comes from the full record")
}

func TestLookup_NotFound(t *testing.T) {
	out, err := execute(t, "", "9999")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"error": "Asset ID 9999 not found: `), out)

	out, err = execute(t, "", "SVR.NOPE")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, `{"error": "Hardware ID SVR.NOPE not found: `), out)
}

func TestHosts_FilterJSON(t *testing.T) {
	out, err := execute(t, "", "hosts", "--status", "AVAILABLE", "--format", "json")
	require.NoError(t, err)

	var hosts []models.Host
	require.NoError(t, json.Unmarshal([]byte(out), &hosts))
	require.Len(t, hosts, 2)
	assert.Equal(t, "1001", hosts[0].AssetID)
	assert.Equal(t, "1003", hosts[1].AssetID)
}

func TestHosts_BMCTable(t *testing.T) {
	out, err := execute(t, "", "hosts", "--no-bmc", "--format", "table")
	require.NoError(t, err)

	assert.Contains(t, out, "1002")
	assert.NotContains(t, out, "1001")
	assert.Contains(t, out, "Showing: 1 of 3 total hosts")
}

func TestHosts_PlatformDisambiguation(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		wantAsset string
		footer    string
	}{
		{"pick second", "2\n", "1002", "Showing: 1 of 3 total hosts"},
		{"retry after junk", "abc\n1\n", "1001", "Showing: 1 of 3 total hosts"},
		{"enter cancels", "\n", "", "Showing: 0 of 3 total hosts"},
		{"eof cancels", "", "", "Showing: 0 of 3 total hosts"},
		{"out of range", "7\n", "", "Showing: 0 of 3 total hosts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.stdin, "hosts", "--platform", "monza")
			require.NoError(t, err)

			assert.Contains(t, out, "No hosts found with platform 'monza'.")
			assert.Contains(t, out, "  1. MONZA91 (1 hosts)\n  2. MONZA92 (1 hosts)")
			assert.Contains(t, out, "Total: 2 hosts across all MONZA* platforms")
			assert.Contains(t, out, "Enter number to select, or press Enter to cancel")
			assert.Contains(t, out, tt.footer)
			if tt.wantAsset != "" {
				assert.Contains(t, out, "Asset ID: "+tt.wantAsset)
			} else {
				assert.NotContains(t, out, "Asset ID:")
			}
		})
	}
}

func TestHosts_PlatformRetryMessage(t *testing.T) {
	out, err := execute(t, "abc\n1\n", "hosts", "--platform", "monza")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: 'abc' is not a valid integer.")
	assert.Contains(t, out, "Showing hosts with platform 'MONZA91'...")
}

func TestHosts_PlatformNoSimilar(t *testing.T) {
	out, err := execute(t, "", "hosts", "--platform", "zzzz")
	require.NoError(t, err)

	assert.Contains(t, out, "No hosts found with platform 'zzzz' and no similar matches.")
	assert.NotContains(t, out, "Did you mean")
}

func TestHosts_ExactPlatformNoPrompt(t *testing.T) {
	out, err := execute(t, "", "hosts", "--platform", "atlas", "--format", "yaml")
	require.NoError(t, err)

	assert.NotContains(t, out, "Did you mean")
	assert.Contains(t, out, `assetid: "1003"`)
}

func TestHosts_LimitAndSearch(t *testing.T) {
	out, err := execute(t, "", "hosts", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Showing: 1 of 3 total hosts")

	out, err = execute(t, "", "hosts", "--all", "sea85.6920")
	require.NoError(t, err)
	assert.Contains(t, out, "Asset ID: 1003")
	assert.Contains(t, out, "Showing: 1 of 3 total hosts")
}

func TestHosts_BadFormat(t *testing.T) {
	_, err := execute(t, "", "hosts", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestHosts_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "database unavailable"}`))
	}))
	defer srv.Close()

	resetFlags(rootCmd)
	t.Setenv("LABOPS_API_BASE_URL", srv.URL)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--no-cache", "hosts"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch hosts")
	assert.NotContains(t, out.String(), "Total Hosts")
}

func TestRequestsCarryUserAgent(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	resetFlags(rootCmd)
	t.Setenv("LABOPS_API_BASE_URL", srv.URL)
	t.Setenv("LABOPS_API_RATE_LIMIT", "0")
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--no-cache", "switches"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, version.Get().UserAgent(), agent)
	assert.True(t, strings.HasPrefix(agent, "labops/"+version.Version+" ("))
}

func TestRacks(t *testing.T) {
	out, err := execute(t, "", "racks", "--format", "table")
	require.NoError(t, err)

	first := strings.Index(out, "SEA85.159.R6-L01")
	second := strings.Index(out, "SEA85.6920.R1-L01")
	require.True(t, first > 0 && second > 0)
	assert.Less(t, first, second, "sorted by position")
	assert.Contains(t, out, "Total: 2 racks")

	out, err = execute(t, "", "racks", "--position", "6920")
	require.NoError(t, err)
	assert.NotContains(t, out, "SEA85.159.R6-L01")
	assert.Contains(t, out, "Total Racks: 1")
}

func TestRack_Detail(t *testing.T) {
	out, err := execute(t, "", "rack", "sea85.159.r6-l01")
	require.NoError(t, err)

	assert.Contains(t, out, "Rack Position: SEA85.159.R6-L01")
	assert.Contains(t, out, "Hosts in Rack:\n"+
		"  SEA85.159.R6-L01.10: 1002 (MONZA92) - Reserved\n"+
		"  SEA85.159.R6-L01.20: 1001 (MONZA91) - Available")
}

func TestRack_NotFound(t *testing.T) {
	out, err := execute(t, "", "rack", "NOPE")
	require.NoError(t, err)
	assert.Equal(t, `{"error": "Rack position NOPE not found"}`+"\n", out)
}

func TestRackContents(t *testing.T) {
	out, err := execute(t, "", "rack-contents", "--rack-id", "SEA85.159.R6-L01")
	require.NoError(t, err)
	assert.Contains(t, out, "1001")
	assert.Contains(t, out, "Switches in Rack:\n  sw-r6 (N9K) - up")
	assert.NotContains(t, out, "sw-r1")

	// Hosts are not embedded for this rack; they are matched by location.
	out, err = execute(t, "", "rack-contents", "--rack-id", "SEA85.6920.R1-L01", "--format", "json")
	require.NoError(t, err)
	var contents rackContents
	require.NoError(t, json.Unmarshal([]byte(out), &contents))
	require.Len(t, contents.Hosts, 1)
	assert.Equal(t, "1003", contents.Hosts[0].AssetID)
	require.Len(t, contents.Switches, 1)
	assert.Equal(t, "sw-r1", contents.Switches[0].Name)
}

func TestRackContents_RequiresRackID(t *testing.T) {
	_, err := execute(t, "", "rack-contents")
	assert.ErrorContains(t, err, "rack-id")
}

func TestSwitches(t *testing.T) {
	out, err := execute(t, "", "switches", "--status", "DOWN")
	require.NoError(t, err)

	assert.Contains(t, out, "Switch: sw-r1")
	assert.NotContains(t, out, "sw-r6")
	assert.Contains(t, out, "Total Switches: 1")
}

func TestSummary(t *testing.T) {
	out, err := execute(t, "", "summary", "--format", "json")
	require.NoError(t, err)

	var s render.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 3, s.Hosts)
	assert.Equal(t, 2, s.WithBMC)
	assert.Equal(t, 2, s.Racks)
	assert.Equal(t, 1, s.EmptyRacks)
	assert.Equal(t, 2, s.Rooms)
	assert.Equal(t, 2, s.Switches)

	out, err = execute(t, "", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Inventory Statistics")
	assert.Contains(t, out, "Total Hosts: 3")
}

func TestConfigShow_RedactsKey(t *testing.T) {
	t.Setenv("LABOPS_API_KEY", "super-secret")
	out, err := execute(t, "", "config", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "base_url: http://127.0.0.1")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "super-secret")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "", "config", "init", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "base_url: http://127.0.0.1:8000")

	_, err = execute(t, "", "config", "init", "--output", path)
	assert.ErrorContains(t, err, "already exists")

	_, err = execute(t, "", "config", "init", "--output", path, "--force")
	assert.NoError(t, err)

	// The written file loads cleanly.
	out, err = execute(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "ttl: 5m0s")
}

func TestCacheInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labops.db")
	t.Setenv("LABOPS_CACHE_PATH", path)
	t.Setenv("LABOPS_CACHE_TTL", "2m")

	out, err := execute(t, "", "cache", "info")
	require.NoError(t, err)

	assert.Equal(t, "Enabled: true\nPath:    "+path+"\nTTL:     2m0s\n", out)
}

func TestCacheClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labops.db")
	t.Setenv("LABOPS_CACHE_PATH", path)
	ctx := context.Background()

	store, err := cache.Open(path, cache.DefaultTTL)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "hosts", []byte(`[]`)))
	require.NoError(t, store.Close())

	out, err := execute(t, "", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared "+path)

	store, err = cache.Open(path, cache.DefaultTTL)
	require.NoError(t, err)
	defer store.Close()
	payload, fresh, err := store.Get(ctx, "hosts")
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Nil(t, payload)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "labops "))
}
