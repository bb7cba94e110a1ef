package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/vidlib/internal/model"
)

// execute runs the CLI against dataDir and returns its stdout.
func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--data-dir", dataDir}, args...))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// mustExecute runs the CLI and fails the test on error.
func mustExecute(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := execute(t, dataDir, args...)
	assert.NilError(t, err, "vidlib %s", strings.Join(args, " "))
	return out
}

func seededDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustExecute(t, dir, "seed")
	return dir
}

func TestSeedAndList(t *testing.T) {
	dir := t.TempDir()

	out := mustExecute(t, dir, "seed")
	assert.Check(t, is.Equal(out, "Seeded 3 videos, 3 events\n"))

	out = mustExecute(t, dir, "seed")
	assert.Check(t, is.Equal(out, "Seeded 0 videos, 0 events\n"), "seeding twice must not duplicate")

	out = mustExecute(t, dir, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Assert(t, is.Len(lines, 3))
	assert.Check(t, is.Contains(lines[0], "* Understanding Anxiety"))
	assert.Check(t, is.Contains(lines[0], "$19.99"))
	assert.Check(t, is.Contains(lines[1], "Coping with Depression"))
}

func TestList_SearchAndSort(t *testing.T) {
	dir := seededDir(t)

	out := mustExecute(t, dir, "list", "--search", "ANXIETY")
	assert.Check(t, is.Len(strings.Split(strings.TrimSpace(out), "\n"), 1))
	assert.Check(t, is.Contains(out, "Understanding Anxiety"))

	out = mustExecute(t, dir, "list", "--sort", "length")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Assert(t, is.Len(lines, 3))
	assert.Check(t, is.Contains(lines[0], "30:00"))
	assert.Check(t, is.Contains(lines[2], "50:00"))

	_, err := execute(t, dir, "list", "--sort", "popularity")
	assert.Check(t, is.ErrorContains(err, "unknown sort key"))
}

func TestList_EmptyCategory(t *testing.T) {
	out := mustExecute(t, seededDir(t), "list", "-c", "other")
	assert.Check(t, is.Equal(out, "No videos\n"))
}

func TestAdd(t *testing.T) {
	dir := seededDir(t)

	out := mustExecute(t, dir, "add", "-t", "Sleep Hygiene", "-l", "20:00", "-p", "9.99", "--hidden")
	assert.Check(t, is.Contains(out, "Added "))
	assert.Check(t, is.Contains(out, ": Sleep Hygiene"))

	out = mustExecute(t, dir, "list")
	assert.Check(t, is.Contains(out, "Sleep Hygiene"))
	assert.Check(t, is.Contains(out, "(hidden)"))
}

func TestAdd_RequiresTitle(t *testing.T) {
	_, err := execute(t, t.TempDir(), "add", "-p", "5")
	assert.Check(t, errors.Is(err, model.ErrValidation), "got %v", err)
}

func TestAdd_RejectsInvalidPrice(t *testing.T) {
	for _, price := range []string{"-1", "NaN", "+Inf"} {
		dir := t.TempDir()
		_, err := execute(t, dir, "add", "-t", "Refund", "-p", price)
		assert.Check(t, errors.Is(err, model.ErrValidation), "price %s: got %v", price, err)
		assert.Check(t, !errors.Is(err, model.ErrDataSource), "price %s: got %v", price, err)

		out := mustExecute(t, dir, "list")
		assert.Check(t, is.Equal(out, "No videos\n"))
	}
}

func TestAdd_ThumbnailFile(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(t.TempDir(), "sleep.jpg")
	assert.NilError(t, os.WriteFile(image, []byte("jpeg"), 0644))

	mustExecute(t, dir, "add", "-t", "Sleep Basics", "--thumbnail-file", image)

	out := mustExecute(t, dir, "find", "Sleep Basics")
	assert.Check(t, is.Contains(out, "thumbnail: file://"))
	assert.Check(t, is.Contains(out, "-sleep.jpg"))

	entries, err := os.ReadDir(assetsDir(dir))
	assert.NilError(t, err)
	assert.Check(t, is.Len(entries, 1))
}

func TestEdit(t *testing.T) {
	dir := seededDir(t)

	out := mustExecute(t, dir, "edit", "2", "--price", "29.99")
	assert.Check(t, is.Equal(out, "Saved 2: Coping with Depression\n"))

	out = mustExecute(t, dir, "list")
	assert.Check(t, is.Contains(out, "$29.99"))
	assert.Check(t, is.Contains(out, "50:00"), "untouched fields are kept")

	_, err := execute(t, dir, "edit", "2")
	assert.Check(t, is.ErrorContains(err, "nothing to change"))

	_, err = execute(t, dir, "edit", "2", "--title", "  ")
	assert.Check(t, errors.Is(err, model.ErrValidation), "got %v", err)

	_, err = execute(t, dir, "edit", "missing", "--price", "1")
	assert.Check(t, errors.Is(err, model.ErrNotFound), "got %v", err)
}

func TestFeatureAndHide(t *testing.T) {
	dir := seededDir(t)

	assert.Check(t, is.Equal(mustExecute(t, dir, "feature", "2"), "Featured 2: Coping with Depression\n"))
	assert.Check(t, is.Equal(mustExecute(t, dir, "feature", "2"), "Unfeatured 2: Coping with Depression\n"))

	assert.Check(t, is.Equal(mustExecute(t, dir, "hide", "1"), "Hidden 1: Understanding Anxiety\n"))
	out := mustExecute(t, dir, "list")
	assert.Check(t, is.Contains(out, "(hidden)"))

	assert.Check(t, is.Equal(mustExecute(t, dir, "edit", "1", "--visible"), "Saved 1: Understanding Anxiety\n"))
	out = mustExecute(t, dir, "list")
	assert.Check(t, !strings.Contains(out, "(hidden)"))
}

func TestRemove(t *testing.T) {
	dir := seededDir(t)

	assert.Check(t, is.Equal(mustExecute(t, dir, "rm", "3"), "Deleted 3: Stress Management Techniques\n"))

	_, err := execute(t, dir, "rm", "3")
	assert.Check(t, errors.Is(err, model.ErrNotFound), "got %v", err)

	out := mustExecute(t, dir, "list")
	assert.Check(t, !strings.Contains(out, "Stress"))
}

func TestFind(t *testing.T) {
	dir := seededDir(t)

	out := mustExecute(t, dir, "find", "depress")
	assert.Check(t, is.Contains(out, "Coping with Depression"))
	assert.Check(t, is.Contains(out, "price:     $24.99"))

	out = mustExecute(t, dir, "find", "zzzz")
	assert.Check(t, is.Equal(out, "No videos found for 'zzzz'\n"))
}

func TestExportImport(t *testing.T) {
	dir := seededDir(t)
	page := filepath.Join(t.TempDir(), "out", "storefront.html")

	out := mustExecute(t, dir, "export", page)
	assert.Check(t, is.Equal(out, "Exported 3 videos in 1 categories to "+page+"\n"))

	data, err := os.ReadFile(page)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), `data-category="mental-health"`))
	assert.Check(t, is.Contains(string(data), "<button>Buy</button>"))

	fresh := t.TempDir()
	assert.Check(t, is.Equal(mustExecute(t, fresh, "import", page), "Imported 3 videos\n"))
	assert.Check(t, is.Equal(mustExecute(t, fresh, "import", page), "Imported 0 videos (3 duplicates skipped)\n"))

	out = mustExecute(t, fresh, "list")
	assert.Check(t, is.Contains(out, "* Understanding Anxiety"))
}

func TestExport_SignedInLabel(t *testing.T) {
	dir := seededDir(t)
	mustExecute(t, dir, "signup", "sam")

	page := filepath.Join(t.TempDir(), "storefront.html")
	mustExecute(t, dir, "export", page)

	data, err := os.ReadFile(page)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(string(data), "<button>Watch Now</button>"))
}

func TestSessionCommands(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "login", "sam")
	assert.Check(t, errors.Is(err, model.ErrNotFound), "got %v", err)

	assert.Check(t, is.Equal(mustExecute(t, dir, "signup", "sam"), "Signed up as sam\n"))

	_, err = execute(t, dir, "signup", "SAM")
	assert.Check(t, errors.Is(err, model.ErrValidation), "got %v", err)

	assert.Check(t, is.Equal(mustExecute(t, dir, "logout"), "Logged out\n"))
	assert.Check(t, is.Equal(mustExecute(t, dir, "logout"), "Logged out\n"))
	assert.Check(t, is.Equal(mustExecute(t, dir, "login", "Sam"), "Logged in as sam\n"))
}

func TestEvents(t *testing.T) {
	dir := seededDir(t)

	out := mustExecute(t, dir, "events", "list")
	assert.Check(t, is.Contains(out, "2024-04-15  Mental Health Awareness Workshop  1"))
	assert.Check(t, strings.Index(out, "2024-04-15") < strings.Index(out, "2024-05-01"))

	_, err := execute(t, dir, "events", "add", "--title", "Yoga", "--date", "next week")
	assert.Check(t, errors.Is(err, model.ErrValidation), "got %v", err)

	out = mustExecute(t, dir, "events", "add", "--title", "Early Bird", "--date", "2024-01-02")
	assert.Check(t, is.Contains(out, "Added event "))

	out = mustExecute(t, dir, "events", "list")
	assert.Check(t, strings.Index(out, "Early Bird") < strings.Index(out, "Mental Health Awareness Workshop"),
		"events are listed by date")

	assert.Check(t, is.Equal(mustExecute(t, dir, "events", "rm", "2"), "Removed event 2\n"))
	_, err = execute(t, dir, "events", "rm", "2")
	assert.Check(t, errors.Is(err, model.ErrNotFound), "got %v", err)
}

func TestCheckThumbs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.jpg", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/gone.jpg", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	mustExecute(t, dir, "add", "-t", "Alive", "--thumbnail", srv.URL+"/ok.jpg")
	mustExecute(t, dir, "add", "-t", "Gone", "--thumbnail", srv.URL+"/gone.jpg")
	mustExecute(t, dir, "add", "-t", "Blank")

	out := mustExecute(t, dir, "check-thumbs")
	assert.Check(t, is.Contains(out, "1 healthy, 1 dead, 0 unreachable, 1 placeholder"))
	assert.Check(t, is.Contains(out, "Gone"))

	out = mustExecute(t, dir, "check-thumbs", "--remove-dead")
	assert.Check(t, is.Contains(out, "Removed 1 videos with dead thumbnails"))

	out = mustExecute(t, dir, "list")
	assert.Check(t, !strings.Contains(out, "Gone"))
	assert.Check(t, is.Contains(out, "Alive"))
}

func TestJSONBackend(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"backend":"json"}`), 0644))

	mustExecute(t, dir, "seed")
	mustExecute(t, dir, "feature", "3")

	_, err := os.Stat(filepath.Join(dir, "library.json"))
	assert.NilError(t, err)

	out := mustExecute(t, dir, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Assert(t, is.Len(lines, 3))
	assert.Check(t, is.Contains(lines[1], "* Stress Management Techniques"))
}

func TestUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"backend":"mongo"}`), 0644))

	_, err := execute(t, dir, "list")
	assert.Check(t, is.ErrorContains(err, "open storage"))
}
