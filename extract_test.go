package djazzy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, src string) []string {
	t.Helper()
	names, err := ExtractRoutes(context.Background(), []byte(src))
	require.NoError(t, err)
	return names
}

func TestExtractRoutes_BasicPaths(t *testing.T) {
	names := extract(t, `
from django.urls import path
urlpatterns = [
    path("", views.home, name="home"),
    path("profile/", views.profile, name="user-profile"),
]
`)
	assert.Equal(t, []string{"home", "user-profile"}, names)
}

func TestExtractRoutes_RePath(t *testing.T) {
	names := extract(t, `
from django.urls import re_path
urlpatterns = [
    re_path(r"^dashboard/$", views.dashboard, name="dashboard"),
]
`)
	assert.Equal(t, []string{"dashboard"}, names)
}

func TestExtractRoutes_IgnoresInclude(t *testing.T) {
	names := extract(t, `
from django.urls import path, include
urlpatterns = [
    path("", views.home, name="home"),
    path("blog/", include("blog.urls")),
]
`)
	assert.Equal(t, []string{"home"}, names)
}

func TestExtractRoutes_NoCalls(t *testing.T) {
	names := extract(t, `
# This is an empty urls.py file
urlpatterns = []
`)
	assert.Empty(t, names)
	assert.NotNil(t, names, "empty result must serialize as [], not null")
}

func TestExtractRoutes_UnrecognizedCallees(t *testing.T) {
	names := extract(t, `
route("a/", views.a, name="a")
url(r"^b/$", views.b, name="b")
mypath("c/", views.c, name="c")
`)
	assert.Empty(t, names)
}

func TestExtractRoutes_MissingNameKeyword(t *testing.T) {
	names := extract(t, `
urlpatterns = [
    path("a/", views.a),
    re_path(r"^b/$", views.b),
]
`)
	assert.Empty(t, names)
}

func TestExtractRoutes_SingleQuotes(t *testing.T) {
	names := extract(t, `path('about/', views.about, name='about')`)
	assert.Equal(t, []string{"about"}, names)
}

func TestExtractRoutes_InnerBytesVerbatim(t *testing.T) {
	// One quote layer is stripped; everything inside survives untouched,
	// including escapes and non-ASCII bytes.
	names := extract(t, `
urlpatterns = [
    path("a/", views.a, name="weird\npath"),
    path("b/", views.b, name="ünïcode-route"),
]
`)
	assert.Equal(t, []string{`weird\npath`, "ünïcode-route"}, names)
}

func TestExtractRoutes_DuplicatesPreservedInOrder(t *testing.T) {
	names := extract(t, `
urlpatterns = [
    path("a/", views.a, name="dup"),
    path("b/", views.b, name="other"),
    path("c/", views.c, name="dup"),
]
`)
	assert.Equal(t, []string{"dup", "other", "dup"}, names)
}

func TestExtractRoutes_LastNameKeywordWins(t *testing.T) {
	names := extract(t, `path("a/", views.a, name="first", name="second")`)
	assert.Equal(t, []string{"second"}, names)
}

func TestExtractRoutes_NestedCalls(t *testing.T) {
	// Calls inside other expressions are still visited; the walk covers the
	// whole tree, not just urlpatterns.
	names := extract(t, `
def build():
    return [path("x/", views.x, name="nested")]
extra = wrap(path("y/", views.y, name="wrapped"))
`)
	assert.Equal(t, []string{"nested", "wrapped"}, names)
}

func TestExtractRoutes_SyntaxErrorsStillYield(t *testing.T) {
	// tree-sitter produces a tree with error nodes; intact calls around the
	// damage are still recovered.
	names := extract(t, `
urlpatterns = [
    path("a/", views.a, name="ok"),
    def def def
]
`)
	assert.Contains(t, names, "ok")
}

func TestExtractRoutes_DeterministicAcrossRuns(t *testing.T) {
	src := `
urlpatterns = [
    path("a/", views.a, name="a"),
    re_path(r"^b/$", views.b, name="b"),
    path("c/", include("c.urls")),
    path("d/", views.d, name="d"),
]
`
	first := extract(t, src)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, extract(t, src))
	}
}

func TestExtractFile_ReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.py")
	require.NoError(t, os.WriteFile(path, []byte(`path("", views.home, name="home")`), 0o644))

	names, err := ExtractFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, names)
}

func TestExtractFile_MissingFile(t *testing.T) {
	_, err := ExtractFile(context.Background(), filepath.Join(t.TempDir(), "urls.py"))
	require.Error(t, err)
}

func TestExtractFile_InvalidUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.py")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 'p', 'a', 't', 'h'}, 0o644))

	_, err := ExtractFile(context.Background(), path)
	require.Error(t, err)
}

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"home"`, "home"},
		{`'home'`, "home"},
		{`""`, ""},
		{`"'quoted'"`, "'quoted'"}, // exactly one layer
		{`'"quoted"'`, `"quoted"`},
		{`bare`, "bare"},
		{`"mismatched'`, `"mismatched'`},
		{`"`, `"`},
		{``, ``},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, trimQuotes(tt.in), "input %q", tt.in)
	}
}
