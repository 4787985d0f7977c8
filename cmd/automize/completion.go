package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/automize/automize/internal/authapi"
	"github.com/automize/automize/internal/config"
	"github.com/automize/automize/internal/iac"
	"github.com/automize/automize/internal/library"
	"github.com/automize/automize/internal/logging"
	"github.com/automize/automize/internal/tokenstore"
	"github.com/automize/automize/internal/xdg"
	"github.com/spf13/cobra"
)

const completionCacheTTL = 5 * time.Second

// completeFieldKeys completes field keys as "key\tLabel". Inside a --set
// value it completes the key part and appends "=".
func completeFieldKeys(suffix string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if strings.Contains(toComplete, "=") {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		prefix := ""
		if i := strings.LastIndex(toComplete, ","); i >= 0 && suffix == "" {
			prefix = toComplete[:i+1]
		}
		var items []string
		for _, k := range iac.Keys() {
			items = append(items, prefix+k.String()+suffix+"\t"+k.Label())
		}
		directive := cobra.ShellCompDirectiveNoFileComp
		if suffix != "" {
			directive |= cobra.ShellCompDirectiveNoSpace
		}
		return items, directive
	}
}

// registerFormCompletions wires field-key completion into the form flags.
func registerFormCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("select", completeFieldKeys(""))
	_ = cmd.RegisterFlagCompletionFunc("set", completeFieldKeys("="))
}

// completeConfigIDs completes saved configuration IDs as "id\tname". It
// asks the Auth Service who the stored token belongs to, with a 2-second
// timeout, without touching the token slot.
func completeConfigIDs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	token, err := tokenstore.DefaultFileStore().Load()
	if err != nil || token == "" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cacheKey := "configs-" + tokenDigest(token)
	if cached := readCompletionCache(cacheKey); cached != nil {
		return cached, cobra.ShellCompDirectiveNoFileComp
	}
	items := listConfigIDsWithTimeout(cfg, token, 2*time.Second)
	writeCompletionCache(cacheKey, items)
	return items, cobra.ShellCompDirectiveNoFileComp
}

func listConfigIDsWithTimeout(cfg *config.Config, token string, timeout time.Duration) []string {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	user, err := authapi.New(cfg.APIURL).Me(ctx, token)
	if err != nil {
		return nil
	}
	lib, err := library.Open(cfg.DatabasePath, logging.Nop())
	if err != nil {
		return nil
	}
	defer lib.Close()
	configs, err := lib.List(ctx, user.ID.String())
	if err != nil {
		return nil
	}
	items := make([]string, 0, len(configs))
	for _, c := range configs {
		name := c.Name
		if len(name) > 40 {
			name = name[:40] + "..."
		}
		items = append(items, c.ID+"\t"+name)
	}
	return items
}

// tokenDigest keys the cache by account without writing the token to disk.
func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// completionCacheDir returns the directory for completion cache files.
func completionCacheDir() string {
	return filepath.Join(xdg.CacheDir(), "completion")
}

// readCompletionCache returns cached completions if the cache is fresh.
func readCompletionCache(key string) []string {
	path := filepath.Join(completionCacheDir(), key+".json")
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > completionCacheTTL {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return nil
	}
	return items
}

// writeCompletionCache writes completions to the cache.
func writeCompletionCache(key string, items []string) {
	dir := completionCacheDir()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = os.WriteFile(filepath.Join(dir, key+".json"), data, 0o600)
}
