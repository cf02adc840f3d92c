package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grekz/tally/pkg/sheet"
)

func seedRedisSheet(t *testing.T, mr *miniredis.Miniredis, rows ...sheet.Row) {
	t.Helper()
	client, err := sheet.NewClient(&redis.Options{Addr: mr.Addr()}, "cli-test")
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.SetHeaders(ctx, "Sheet1", []string{"First", "Last", "Email"}))
	for _, row := range rows {
		_, err := client.AppendRow(ctx, "Sheet1", row)
		require.NoError(t, err)
	}
}

func TestRowsCommand(t *testing.T) {
	t.Run("table output", func(t *testing.T) {
		cfg, mr := redisConfig(t)
		seedRedisSheet(t, mr, sheet.Row{"Ada", "Lovelace", " "})

		stdout, _, err := runCLI(t, "rows", "--config", cfg)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Rows in sheet 'Sheet1'")
		assert.Contains(t, stdout, "1  Ada    Lovelace  -")
		assert.Contains(t, stdout, "1 row found")
	})

	t.Run("json output matches GET /exec", func(t *testing.T) {
		cfg, mr := redisConfig(t)
		seedRedisSheet(t, mr, sheet.Row{"Ada", "Lovelace", " "}, sheet.Row{"Grace", "Hopper", "g@navy.mil"})

		stdout, _, err := runCLI(t, "rows", "--config", cfg, "--output", "json")
		require.NoError(t, err)
		assert.JSONEq(t, `[["Ada","Lovelace"," "],["Grace","Hopper","g@navy.mil"]]`, stdout)
	})

	t.Run("where filter", func(t *testing.T) {
		cfg, mr := redisConfig(t)
		seedRedisSheet(t, mr,
			sheet.Row{"Ada", "Lovelace", " "},
			sheet.Row{"Alan", "Turing", "alan@bletchley.uk"},
			sheet.Row{"Grace", "Hopper", "g@navy.mil"})

		stdout, _, err := runCLI(t, "rows", "--config", cfg, "--output", "jsonl", "--where", "First=A*", "--where", "Email=")
		require.NoError(t, err)
		assert.Equal(t, "[\"Ada\",\"Lovelace\",\" \"]\n", stdout)

		_, stderr, err := runCLI(t, "rows", "--config", cfg, "--where", "Phone=1")
		require.Error(t, err)
		assert.Contains(t, stderr, "unknown column")
	})

	t.Run("missing sheet", func(t *testing.T) {
		cfg, _ := redisConfig(t)

		_, stderr, err := runCLI(t, "rows", "--config", cfg, "--sheet", "Nope")
		require.Error(t, err)
		assert.Contains(t, stderr, "sheet 'Nope' not found")
	})

	t.Run("invalid format", func(t *testing.T) {
		_, stderr, err := runCLI(t, "rows", "--output", "xml")
		require.Error(t, err)
		assert.Contains(t, stderr, "Unknown format: xml")
	})

	t.Run("redis unavailable", func(t *testing.T) {
		t.Setenv("TALLY_REDIS_URL", "")
		cfg := writeConfig(t, "version: \"1.0\"\nstore:\n  redis_url: redis://127.0.0.1:1/0\n")

		_, stderr, err := runCLI(t, "rows", "--config", cfg)
		require.Error(t, err)
		assert.Contains(t, stderr, "Redis connection failed")
	})
}

func TestAppendCommand(t *testing.T) {
	t.Run("redis backend", func(t *testing.T) {
		cfg, mr := redisConfig(t)
		seedRedisSheet(t, mr)

		stdout, _, err := runCLI(t, "append", "--config", cfg,
			"--field", "First=Ada", "--field", "Email=ada@example.com", "--field", "Extra=x")
		require.NoError(t, err)

		var result sheet.AppendResult
		require.NoError(t, json.Unmarshal([]byte(stdout), &result))
		assert.Equal(t, map[string]string{"First": "Ada", "Email": "ada@example.com", "Extra": "x"}, result.Data)
		assert.Equal(t, sheet.Row{"Ada", " ", "ada@example.com"}, result.Holder)

		stored, err := mr.List(sheet.RowsKey("cli-test", "Sheet1"))
		require.NoError(t, err)
		assert.Equal(t, []string{`["Ada"," ","ada@example.com"]`}, stored)
	})

	t.Run("sqlite backend", func(t *testing.T) {
		cfg := sqliteConfig(t)

		// The sheet does not exist until the server has created it.
		_, stderr, err := runCLI(t, "append", "--config", cfg, "--field", "First=Ada")
		require.Error(t, err)
		assert.Contains(t, stderr, "sheet 'Sheet1' not found")
	})

	t.Run("malformed field", func(t *testing.T) {
		_, stderr, err := runCLI(t, "append", "--field", "nope")
		require.Error(t, err)
		assert.Contains(t, stderr, "not in Name=value form")
	})
}

func TestParseFields(t *testing.T) {
	params, err := parseFields([]string{"A=1", "B=", "A=2", "C=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"A": {"1", "2"}, "B": {""}, "C": {"x=y"}}, params)

	_, err = parseFields([]string{"=v"})
	assert.Error(t, err)
}

func TestWatchCommand_StopsOnCancel(t *testing.T) {
	cfg, mr := redisConfig(t)
	seedRedisSheet(t, mr)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	stdout, _, err := runCLIContext(t, ctx, "watch", "--config", cfg, "--where", "First=A*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Watching sheet 'Sheet1' on instance 'cli-test' where First=A*")
}

func TestSheetsCommand(t *testing.T) {
	t.Run("redis backend", func(t *testing.T) {
		cfg, mr := redisConfig(t)

		stdout, _, err := runCLI(t, "sheets", "--config", cfg)
		require.NoError(t, err)
		assert.Contains(t, stdout, "No sheets found for instance 'cli-test'")

		seedRedisSheet(t, mr)
		client, err := sheet.NewClient(&redis.Options{Addr: mr.Addr()}, "cli-test")
		require.NoError(t, err)
		defer client.Close()
		require.NoError(t, client.SetHeaders(context.Background(), "Archive", []string{"A"}))

		stdout, _, err = runCLI(t, "sheets", "--config", cfg)
		require.NoError(t, err)
		assert.Equal(t, "  Archive\n* Sheet1\n", stdout)

		stdout, _, err = runCLI(t, "sheets", "--config", cfg, "--output", "json")
		require.NoError(t, err)
		assert.JSONEq(t, `["Archive","Sheet1"]`, stdout)
	})

	t.Run("sqlite backend", func(t *testing.T) {
		cfg := sqliteConfig(t)

		stdout, _, err := runCLI(t, "sheets", "--config", cfg, "--output", "json")
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, stdout)
	})
}

func TestWatchCommand_RequiresRedis(t *testing.T) {
	cfg := sqliteConfig(t)

	_, stderr, err := runCLI(t, "watch", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, stderr, "watch requires the Redis backend")
}

func TestPrefixCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"evens", []string{"prefix", "2", "4", "6", "8", "10", "12", "14"}, "[2, 6, 12, 20, 30, 42, 56]"},
		{"negatives", []string{"prefix", "--", "-3", "3", "-3", "3"}, "[-3, 0, -3, 0]"},
		{"single", []string{"prefix", "5"}, "[5]"},
		{"empty", []string{"prefix"}, "[]"},
		{"fold", []string{"prefix", "--strategy", "fold", "1", "1", "1"}, "[1, 2, 3]"},
		{"float", []string{"prefix", "--float", "0.5", "0.25"}, "[0.5, 0.75]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(stdout))
		})
	}

	t.Run("check", func(t *testing.T) {
		stdout, _, err := runCLI(t, "prefix", "--check", "1", "2", "3")
		require.NoError(t, err)
		assert.Contains(t, stdout, "[1, 3, 6]")
		assert.Contains(t, stdout, "iterative and fold agree on 3 values")
	})

	t.Run("invalid number", func(t *testing.T) {
		_, stderr, err := runCLI(t, "prefix", "1", "2.5")
		require.Error(t, err)
		assert.Contains(t, stderr, "'2.5' is not an integer")
	})

	t.Run("invalid strategy", func(t *testing.T) {
		_, stderr, err := runCLI(t, "prefix", "--strategy", "magic", "1")
		require.Error(t, err)
		assert.Contains(t, stderr, "invalid strategy")
	})
}

func TestMenuCommand(t *testing.T) {
	t.Run("cheaper", func(t *testing.T) {
		stdout, _, err := runCLI(t, "menu", "--cheaper", "6")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Cheese")
		assert.Contains(t, stdout, "Pastor")
		assert.NotContains(t, stdout, "Beef")
		assert.Contains(t, stdout, "Total: 9")
	})

	t.Run("full menu total", func(t *testing.T) {
		stdout, _, err := runCLI(t, "menu")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Total: 25")
	})

	t.Run("spicy spanisho inflate", func(t *testing.T) {
		stdout, _, err := runCLI(t, "menu", "--spicy", "--spanisho", "--inflate", "1")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Cheeseo")
		assert.Contains(t, stdout, "Pastoro")
		assert.Contains(t, stdout, "Total: 11")
	})

	t.Run("no match", func(t *testing.T) {
		stdout, _, err := runCLI(t, "menu", "--cheaper", "1")
		require.NoError(t, err)
		assert.Contains(t, stdout, "No items match")
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "menu.yml")
		require.NoError(t, os.WriteFile(path, []byte("items:\n  - name: Elote\n    price: 3\n"), 0644))

		stdout, _, err := runCLI(t, "menu", "--file", path)
		require.NoError(t, err)
		assert.Contains(t, stdout, "Elote")
		assert.Contains(t, stdout, "Total: 3")
	})

	t.Run("bad file", func(t *testing.T) {
		_, stderr, err := runCLI(t, "menu", "--file", filepath.Join(t.TempDir(), "missing.yml"))
		require.Error(t, err)
		assert.Contains(t, stderr, "invalid menu file")
	})
}

func TestBooksCommand(t *testing.T) {
	stdout, _, err := runCLI(t, "books")
	require.NoError(t, err)
	assert.Equal(t, "1  name1\n2  name2\n", stdout)

	stdout, _, err = runCLI(t, "books", "--output", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1","name":"name1"},{"id":"2","name":"name2"}]`, stdout)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCLI(t, "init", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Successfully initialized tally project")
	assert.FileExists(t, filepath.Join(dir, "tally.yml"))

	_, stderr, err := runCLI(t, "init", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, stderr, "project already initialized")

	_, _, err = runCLI(t, "init", "--dir", dir, "--force")
	assert.NoError(t, err)
}

func TestInvalidConfig(t *testing.T) {
	cfg := writeConfig(t, "version: \"2.0\"\n")

	_, stderr, err := runCLI(t, "rows", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, stderr, "invalid configuration")
	assert.Contains(t, stderr, "unsupported version")
}
