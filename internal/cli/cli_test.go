package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartPage = `<html><body><div class="aside">
<h2>一周口碑榜<span>11月28日 更新</span></h2>
<ul class="content">
<li><div class="no">1</div><div class="name"><a href="/subject/1/">第一部</a></div></li>
<li><div class="no">2</div><div class="name"><a href="/subject/2/">第二部</a></div></li>
</ul></div></body></html>`

// run executes the root command with fresh flag values and returns the exit
// code with captured stdout and stderr
func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	code := execute(context.Background(), rootCmd, &stderr)
	return code, stdout.String(), stderr.String()
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	cmd.SetContext(context.Background())
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func chartServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(chartPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCircle(t *testing.T) {
	code, out, _ := run(t, "circle", "2")
	assert.Equal(t, 0, code)
	assert.Equal(t, "12.566370614359172\n", out)

	code, out, _ = run(t, "circle", "0")
	assert.Equal(t, 0, code)
	assert.Equal(t, "0.0\n", out)
}

func TestCircle_PrecisionJSON(t *testing.T) {
	code, out, _ := run(t, "circle", "2", "--precision", "2", "--json")
	require.Equal(t, 0, code)
	assert.JSONEq(t, `{"radius":2,"area":12.57}`, out)
}

func TestCircle_NegativeRadius(t *testing.T) {
	code, out, errOut := run(t, "circle", "--", "-1")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Equal(t, "Error: radius must be non-negative.\n", errOut)
}

func TestCircle_NotANumber(t *testing.T) {
	code, _, errOut := run(t, "circle", "abc")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid radius")
}

func TestWeekly_JSON(t *testing.T) {
	srv := chartServer(t)
	t.Setenv("WOM_TARGET_URL", srv.URL+"/chart")

	code, out, _ := run(t, "weekly", "--limit", "1")
	require.Equal(t, 0, code)

	var rep struct {
		RunID   string `json:"run_id"`
		Current struct {
			Source    string `json:"source"`
			WeekLabel string `json:"week_label"`
			Entries   []struct {
				Rank  int    `json:"rank"`
				Title string `json:"title"`
				URL   string `json:"url"`
			} `json:"entries"`
		} `json:"current"`
		RecentArchives []json.RawMessage `json:"recent_archives"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, srv.URL+"/chart", rep.Current.Source)
	assert.Equal(t, "11月28日 更新", rep.Current.WeekLabel)
	require.Len(t, rep.Current.Entries, 1)
	assert.Equal(t, "第一部", rep.Current.Entries[0].Title)
	assert.Empty(t, rep.RecentArchives)
}

func TestWeekly_FailedFetchStillExitsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	t.Setenv("WOM_TARGET_URL", srv.URL)
	t.Setenv("WOM_MAX_RETRIES", "0")

	code, out, _ := run(t, "weekly", "--pretty")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, `"error": "failed_current: `)
}

func TestWeekly_Markdown(t *testing.T) {
	srv := chartServer(t)
	t.Setenv("WOM_TARGET_URL", srv.URL)

	code, out, _ := run(t, "weekly", "--format", "markdown")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "# Weekly Word-of-Mouth Chart")
	assert.Contains(t, out, "第二部")
}

func TestWeekly_Misuse(t *testing.T) {
	code, _, errOut := run(t, "weekly", "--format", "xml")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid format")

	code, _, errOut = run(t, "weekly", "--recent", "-2")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "--recent")

	code, _, errOut = run(t, "weekly", "--max-retries", "99")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid config")
}

func TestWeekly_OutputFile(t *testing.T) {
	srv := chartServer(t)
	t.Setenv("WOM_TARGET_URL", srv.URL)

	dir := t.TempDir()
	code, out, _ := run(t, "weekly", "-o", filepath.Join(dir, "report.json"))
	assert.Equal(t, 0, code)
	assert.Empty(t, out)

	code, _, errOut := run(t, "weekly", "-o", filepath.Join(dir, "missing", "report.json"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "failed to write file")
}

func TestLocate_File(t *testing.T) {
	code, out, _ := run(t, "locate", filepath.Join("..", "chart", "testdata", "current_like.html"))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Strategy: parent")
	assert.Contains(t, out, "Week:     11月28日 更新")
	assert.Contains(t, out, "Entries:  5")
	assert.Contains(t, out, "[第一部](https://movie.douban.com/subject/1/)")
}

func TestLocate_URL(t *testing.T) {
	srv := chartServer(t)

	code, out, _ := run(t, "locate", srv.URL+"/chart")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Entries:  2")
	assert.Contains(t, out, "("+srv.URL+"/subject/2/)")
}

func TestLocate_MissingFile(t *testing.T) {
	code, _, errOut := run(t, "locate", filepath.Join(t.TempDir(), "nope.html"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "failed to read file")
}

func TestHelp(t *testing.T) {
	code, out, _ := run(t, "--help")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "WOM")
	assert.Contains(t, out, "weekly")
	assert.Contains(t, out, "circle")
	assert.Contains(t, out, "locate")
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three\n- bullet\n\nsecond para", 9)
	assert.Equal(t, "one two\nthree\n- bullet\n\nsecond\npara", got)
}
