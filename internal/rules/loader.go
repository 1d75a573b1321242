package rules

import (
	"context"
	"embed"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed presets/*.yaml
var embeddedPresets embed.FS

// DefaultPreset is extended when a configuration names no base.
const DefaultPreset = "default"

// maxRemoteSize limits rule files fetched over HTTPS.
const maxRemoteSize = 1 << 20

// File is the on-disk shape of a rule file. Extends entries are preset
// names, https URLs or paths relative to the file that names them.
type File struct {
	Extends []string       `yaml:"extends,omitempty" json:"extends,omitempty" toml:"extends,omitempty"`
	Rules   map[string]any `yaml:"rules,omitempty" json:"rules,omitempty" toml:"rules,omitempty"`
}

// Presets returns the names of the embedded presets.
func Presets() []string {
	entries, err := embeddedPresets.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// LoadPreset returns an embedded preset by name.
func LoadPreset(name string) (*File, error) {
	data, err := embeddedPresets.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownPreset, name, strings.Join(Presets(), ", "))
	}
	return ParseFile(data, ".yaml")
}

// ParseFile decodes a rule file. ext selects the decoder: ".toml" uses TOML,
// anything else YAML (which also reads JSON).
func ParseFile(data []byte, ext string) (*File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	return &f, nil
}

// Loader resolves extends chains into a single rule configuration.
type Loader struct {
	baseDir    string
	httpClient *http.Client
	cache      map[string]*File
}

// NewLoader creates a loader resolving relative paths against baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		baseDir: baseDir,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: make(map[string]*File),
	}
}

// Resolve merges the rules of every extends source, in order, then applies
// overrides. Later sources win per rule name. An empty extends list means
// no base.
func (l *Loader) Resolve(ctx context.Context, extends []string, overrides map[string]any) (map[string]any, error) {
	merged := make(map[string]any)
	for _, src := range extends {
		if err := l.merge(ctx, merged, src, l.baseDir, nil); err != nil {
			return nil, err
		}
	}
	for name, v := range overrides {
		merged[name] = v
	}
	return merged, nil
}

// Load resolves extends and overrides and builds the rule set.
func (l *Loader) Load(ctx context.Context, extends []string, overrides map[string]any) (*RuleSet, error) {
	merged, err := l.Resolve(ctx, extends, overrides)
	if err != nil {
		return nil, err
	}
	return FromConfig(merged)
}

func (l *Loader) merge(ctx context.Context, dst map[string]any, src, dir string, chain []string) error {
	key := sourceKey(src, dir)
	for _, seen := range chain {
		if seen == key {
			return fmt.Errorf("%w: %s", ErrExtendsCycle, strings.Join(append(chain, key), " -> "))
		}
	}
	chain = append(chain, key)

	f, err := l.loadSource(ctx, src, dir)
	if err != nil {
		return fmt.Errorf("extends %s: %w", src, err)
	}

	childDir := dir
	if !isURL(src) && !isPreset(src) {
		childDir = filepath.Dir(key)
	}
	for _, parent := range f.Extends {
		if err := l.merge(ctx, dst, parent, childDir, chain); err != nil {
			return err
		}
	}
	for name, v := range f.Rules {
		dst[name] = v
	}
	return nil
}

func (l *Loader) loadSource(ctx context.Context, src, dir string) (*File, error) {
	key := sourceKey(src, dir)
	if cached, ok := l.cache[key]; ok {
		return cached, nil
	}

	var (
		f   *File
		err error
	)
	switch {
	case isPreset(src):
		f, err = LoadPreset(src)
	case isURL(src):
		f, err = l.fetch(ctx, src)
	default:
		f, err = l.readFile(key)
	}
	if err != nil {
		return nil, err
	}

	l.cache[key] = f
	return f, nil
}

func (l *Loader) fetch(ctx context.Context, raw string) (*File, error) {
	if err := ValidateSource(raw); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "commitlint")
	req.Header.Set("Accept", "application/yaml, text/yaml, application/json, application/toml")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize))
	if err != nil {
		return nil, err
	}

	u, _ := url.Parse(raw)
	return ParseFile(data, path.Ext(u.Path))
}

func (l *Loader) readFile(p string) (*File, error) {
	data, err := os.ReadFile(p) //nolint:gosec // path comes from config
	if err != nil {
		return nil, err
	}
	return ParseFile(data, filepath.Ext(p))
}

// ValidateSource rejects empty sources and plain-HTTP URLs.
func ValidateSource(src string) error {
	if strings.TrimSpace(src) == "" {
		return fmt.Errorf("%w: empty extends entry", ErrInvalidValue)
	}
	if strings.HasPrefix(src, "http://") {
		return fmt.Errorf("%w: insecure URL (must use HTTPS): %s", ErrInvalidValue, src)
	}
	return nil
}

func sourceKey(src, dir string) string {
	if isPreset(src) || isURL(src) {
		return src
	}
	if !filepath.IsAbs(src) && dir != "" {
		src = filepath.Join(dir, src)
	}
	if abs, err := filepath.Abs(src); err == nil {
		return abs
	}
	return src
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// isPreset reports whether src names an embedded preset rather than a path.
func isPreset(src string) bool {
	if strings.ContainsAny(src, `/\.`) {
		return false
	}
	_, err := embeddedPresets.Open("presets/" + src + ".yaml")
	return err == nil
}
