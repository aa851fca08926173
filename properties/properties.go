// Package properties merges key=value overrides into a server.properties file
// without disturbing comments, ordering or unrelated keys.
package properties

import (
	"os"
	"strings"

	"emperror.dev/errors"
	"github.com/apex/log"
	javaprops "github.com/magiconair/properties"
	"github.com/sahilm/fuzzy"
)

// ErrInvalidOverride is returned for override strings that are not a single
// key=value line.
var ErrInvalidOverride = errors.NewPlain("property override must have the form key=value")

type Property struct {
	Key   string
	Value string
}

// Overrides is an ordered list of properties with unique keys.
type Overrides []Property

// Set replaces the value of an existing key in place or appends a new one.
func (o *Overrides) Set(key, value string) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = value
			return
		}
	}
	*o = append(*o, Property{Key: key, Value: value})
}

func (o Overrides) Lookup(key string) (string, bool) {
	for _, p := range o {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// ParseOverrides parses key=value strings. The key is trimmed, the value is kept
// as given. A repeated key keeps its first position and takes the last value.
// Keys starting with '#' and line breaks in keys or values are rejected, as they
// would not read back as the same single property line.
func ParseOverrides(pairs []string) (Overrides, error) {
	var o Overrides
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" || strings.HasPrefix(k, "#") || strings.ContainsAny(pair, "\r\n") {
			return nil, errors.WithDetails(errors.WithStack(ErrInvalidOverride), "value", pair)
		}
		o.Set(k, v)
	}
	return o, nil
}

// Seed renders the header followed by every default as key=value.
func Seed() string {
	lines := make([]string, 0, len(Header)+len(Defaults))
	lines = append(lines, Header...)
	for _, p := range Defaults {
		lines = append(lines, p.Key+"="+p.Value)
	}
	return strings.Join(lines, "\n") + "\n"
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Merge applies overrides to the properties text. Blank lines, comments and lines
// without '=' are copied unchanged. The first line of an overridden key is
// rewritten as key=value and any later line of the same key is dropped. Keys
// that never appeared are appended in override order.
func Merge(text string, overrides Overrides) string {
	lines := splitLines(text)
	out := make([]string, 0, len(lines)+len(overrides))
	applied := make(map[string]bool, len(overrides))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || !strings.Contains(line, "=") {
			out = append(out, line)
			continue
		}

		key, _, _ := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		value, ok := overrides.Lookup(key)
		switch {
		case !ok:
			out = append(out, line)
		case applied[key]:
			// duplicate of an overridden key
		default:
			out = append(out, key+"="+value)
			applied[key] = true
		}
	}

	for _, p := range overrides {
		if !applied[p.Key] {
			out = append(out, p.Key+"="+p.Value)
			applied[p.Key] = true
		}
	}
	return strings.Join(out, "\n") + "\n"
}

// MergeFile merges overrides into the file at path, seeding it with the defaults
// first when it does not exist. It reports whether the file content changed.
func MergeFile(path string, overrides Overrides) (bool, error) {
	logger := log.WithField("file", path)

	existing, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Info("server properties file not found, creating default properties")
		existing = []byte(Seed())
		if err := os.WriteFile(path, existing, 0644); err != nil {
			return false, errors.Wrap(err, "failed to write default server properties")
		}
	} else if err != nil {
		return false, errors.Wrap(err, "failed to read server properties")
	}

	warnUnknownKeys(overrides)

	merged := Merge(string(existing), overrides)
	if merged == string(existing) {
		logger.Debug("server properties already up to date")
		return false, nil
	}

	logChanges(logger, string(existing), merged, overrides)
	if err := os.WriteFile(path, []byte(merged), 0644); err != nil {
		return false, errors.Wrap(err, "failed to write server properties")
	}
	logger.WithField("overrides", len(overrides)).Info("merged server properties")
	return true, nil
}

// Load parses properties text the way the server does, with escapes resolved and
// without ${} expansion.
func Load(text string) (*javaprops.Properties, error) {
	l := &javaprops.Loader{Encoding: javaprops.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes([]byte(text))
	return p, errors.WithStack(err)
}

func logChanges(logger *log.Entry, before, after string, overrides Overrides) {
	old, err := Load(before)
	if err != nil {
		logger.WithError(err).Debug("could not parse previous server properties")
		old = javaprops.NewProperties()
	}
	updated, err := Load(after)
	if err != nil {
		logger.WithError(err).Warn("merged server properties do not parse as Java properties")
		return
	}

	for _, p := range overrides {
		prev, had := old.Get(p.Key)
		next, _ := updated.Get(p.Key)
		switch {
		case !had:
			logger.WithFields(log.Fields{"key": p.Key, "value": next}).Info("added server property")
		case prev != next:
			logger.WithFields(log.Fields{"key": p.Key, "old": prev, "new": next}).Info("changed server property")
		}
	}
}

func warnUnknownKeys(overrides Overrides) {
	known := defaultKeys()
	for _, p := range overrides {
		if isKnownKey(p.Key) {
			continue
		}
		entry := log.WithField("key", p.Key)
		if matches := fuzzy.Find(p.Key, known); len(matches) > 0 {
			entry = entry.WithField("suggestion", matches[0].Str)
		}
		entry.Warn("override key is not a default server property")
	}
}
