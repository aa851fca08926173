package properties

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existing = `#Minecraft server properties
#Thu Jan 04 10:00:00 UTC 2024
motd=Old MOTD

  max-players = 10
no separator here
difficulty=easy
pvp=true
`

func mustOverrides(t *testing.T, pairs ...string) Overrides {
	t.Helper()
	o, err := ParseOverrides(pairs)
	require.NoError(t, err)
	return o
}

func TestParseOverrides(t *testing.T) {
	o, err := ParseOverrides([]string{"motd=Hello = World", " pvp =false", "motd=Second", "level-seed="})
	require.NoError(t, err)
	assert.Equal(t, Overrides{
		{Key: "motd", Value: "Second"},
		{Key: "pvp", Value: "false"},
		{Key: "level-seed", Value: ""},
	}, o)

	for _, bad := range []string{"no-separator", "=value", "  =x", "#motd=x", " # motd=x", "a\nb=c", "motd=line1\nline2", "motd=line1\r\nline2", "motd=a\r"} {
		_, err := ParseOverrides([]string{bad})
		assert.True(t, errors.Is(err, ErrInvalidOverride), "input %q", bad)
	}
}

func TestMerge(t *testing.T) {
	got := Merge(existing, mustOverrides(t, "max-players=50", "motd=Welcome", "white-list=true"))

	assert.Equal(t, `#Minecraft server properties
#Thu Jan 04 10:00:00 UTC 2024
motd=Welcome

max-players=50
no separator here
difficulty=easy
pvp=true
white-list=true
`, got)
}

func TestMergeIsIdempotent(t *testing.T) {
	overrides := mustOverrides(t, "max-players=50", "motd=Welcome", "white-list=true", "difficulty=hard")

	inputs := []string{existing, "", "\n", Seed(), "a=1\r\nb=2\r\n", "motd=x\nmotd=y\n", "# only a comment"}
	for _, in := range inputs {
		once := Merge(in, overrides)
		assert.Equal(t, once, Merge(once, overrides), "input %q", in)
	}

	unusual := mustOverrides(t, "motd=a # not a comment", "level-name= spaced ", "generator-settings={\"a\":1}", "resource-pack=https://example.com/p.zip?a=b")
	for _, in := range inputs {
		once := Merge(in, unusual)
		assert.Equal(t, once, Merge(once, unusual), "input %q", in)
	}
}

func TestParseOverridesRejectsMultiLineAndComments(t *testing.T) {
	for _, bad := range [][]string{
		{"motd=line1\nline2"},
		{"#motd=x"},
		{"a\nb=c"},
	} {
		o, err := ParseOverrides(bad)
		require.Error(t, err, "input %q", bad)
		assert.True(t, errors.Is(err, ErrInvalidOverride))
		assert.Nil(t, o)
	}
}

func TestMergeKeysAppearOnce(t *testing.T) {
	text := "motd=first\ngamemode=creative\nmotd=second\n"
	got := Merge(text, mustOverrides(t, "motd=final"))
	assert.Equal(t, "motd=final\ngamemode=creative\n", got)
	assert.Equal(t, 1, strings.Count(got, "motd="))
}

func TestMergePreservesUnrelatedLines(t *testing.T) {
	assert.Equal(t, existing, Merge(existing, nil))
}

func TestSeed(t *testing.T) {
	seed := Seed()
	lines := strings.Split(strings.TrimSuffix(seed, "\n"), "\n")
	require.Len(t, lines, len(Header)+len(Defaults))
	assert.Equal(t, Header, lines[:2])
	assert.Equal(t, "gamemode=survival", lines[2])
	assert.True(t, strings.HasSuffix(seed, "query.port=25565\n"))
	assert.GreaterOrEqual(t, len(Defaults), 45)

	p, err := Load(seed)
	require.NoError(t, err)
	v, ok := p.Get("level-type")
	require.True(t, ok)
	assert.Equal(t, "minecraft:normal", v)
}

func TestMergeFileSeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")

	changed, err := MergeFile(path, nil)
	require.NoError(t, err)
	assert.False(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Seed(), string(data))
}

func TestMergeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")
	require.NoError(t, os.WriteFile(path, []byte(existing), 0644))
	overrides := mustOverrides(t, "motd=Welcome", "server-port=25570", "max-playres=30")

	changed, err := MergeFile(path, overrides)
	require.NoError(t, err)
	assert.True(t, changed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	p, err := Load(string(data))
	require.NoError(t, err)
	for _, o := range overrides {
		v, ok := p.Get(o.Key)
		assert.True(t, ok, o.Key)
		assert.Equal(t, o.Value, v)
	}
	v, _ := p.Get("difficulty")
	assert.Equal(t, "easy", v)

	changed, err = MergeFile(path, overrides)
	require.NoError(t, err)
	assert.False(t, changed, "second merge is a no-op")
}

func TestMergeFileOnSeededDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.properties")

	_, err := MergeFile(path, mustOverrides(t, "difficulty=hard", "custom-key=1"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "\ndifficulty=hard\n")
	assert.NotContains(t, text, "difficulty=easy")
	assert.True(t, strings.HasSuffix(text, "query.port=25565\ncustom-key=1\n"))
}
