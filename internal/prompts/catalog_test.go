package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chris/journal/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog(t *testing.T, sa, conn []string) *Catalog {
	t.Helper()
	c, err := New(sa, conn)
	require.NoError(t, err)
	return c
}

func TestNextAlternatesAndCycles(t *testing.T) {
	sa := []string{"s0", "s1", "s2"}
	conn := []string{"c0", "c1", "c2"}
	c := testCatalog(t, sa, conn)

	n := len(sa)
	// two full periods of each category
	for count := 0; count < 4*n; count++ {
		p := c.Next(count)
		if count%2 == 0 {
			assert.Equal(t, journal.SelfAwareness, p.Category, "count %d", count)
			assert.Equal(t, sa[(count/2)%n], p.Text, "count %d", count)
		} else {
			assert.Equal(t, journal.Connection, p.Category, "count %d", count)
			assert.Equal(t, conn[(count/2)%n], p.Text, "count %d", count)
		}
	}
}

func TestNextUnevenLists(t *testing.T) {
	c := testCatalog(t, []string{"s0", "s1"}, []string{"c0", "c1", "c2"})

	var got []string
	for count := 0; count < 10; count++ {
		got = append(got, c.Next(count).Text)
	}
	want := []string{"s0", "c0", "s1", "c1", "s0", "c2", "s1", "c0", "s0", "c1"}
	assert.Equal(t, want, got)
}

func TestNextIsDeterministic(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	for count := 0; count < 50; count++ {
		assert.Equal(t, c.Next(count), c.Next(count))
	}
	assert.Equal(t, c.Next(0), c.Next(-3))
}

func TestNewRejectsEmptyCategory(t *testing.T) {
	_, err := New(nil, []string{"c"})
	require.ErrorIs(t, err, ErrEmptyCategory)

	_, err = New([]string{"s"}, []string{})
	require.ErrorIs(t, err, ErrEmptyCategory)

	_, err = New([]string{"s", "  "}, []string{"c"})
	require.Error(t, err)
}

func TestNewCopiesInput(t *testing.T) {
	sa := []string{"s0"}
	c := testCatalog(t, sa, []string{"c0"})
	sa[0] = "mutated"
	assert.Equal(t, "s0", c.Next(0).Text)

	list, err := c.Prompts(journal.SelfAwareness)
	require.NoError(t, err)
	list[0] = "mutated"
	assert.Equal(t, "s0", c.Next(0).Text)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		anyErr  bool
	}{
		{"ok", "self_awareness: [a, b]\nconnection: [c]\n", nil, false},
		{"missing connection", "self_awareness: [a]\n", ErrEmptyCategory, false},
		{"unknown key", "self_awareness: [a]\nconnection: [c]\ngrowth: [g]\n", nil, true},
		{"empty", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Parse([]byte(tt.yaml))
			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 2, c.Len(journal.SelfAwareness))
				assert.Equal(t, 1, c.Len(journal.Connection))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("self_awareness: [x]\nconnection: [y, z]\n"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Prompt{Text: "y", Category: journal.Connection}, c.Next(1))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	def, err := Load("")
	require.NoError(t, err)
	assert.Positive(t, def.Len(journal.SelfAwareness))
	assert.Positive(t, def.Len(journal.Connection))
}

func TestPromptsUnknownCategory(t *testing.T) {
	c := testCatalog(t, []string{"s"}, []string{"c"})
	_, err := c.Prompts("growth")
	require.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, 0, c.Len("growth"))
}
