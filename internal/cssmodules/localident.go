package cssmodules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// IdentResolver computes the scoped identifier for a local name declared in
// the module at resourcePath.
type IdentResolver interface {
	LocalIdent(resourcePath, local string) string
}

// IdentResolverFunc adapts a function to IdentResolver.
type IdentResolverFunc func(resourcePath, local string) string

// LocalIdent calls f.
func (f IdentResolverFunc) LocalIdent(resourcePath, local string) string {
	return f(resourcePath, local)
}

// DefaultLocalIdentName is the template used when none is configured.
const DefaultLocalIdentName = "[path][name]__[local]"

const defaultIdentCacheSize = 4096

var (
	placeholderPattern = regexp.MustCompile(`\[(name|ext|path|file|folder|local|uniqueName|hash)(?::(\d+))?\]`)
	unsafeIdentChars   = regexp.MustCompile(`[^a-zA-Z0-9_\-\x{00A0}-\x{FFFF}]`)
)

// LocalIdentOptions configures a TemplateResolver.
type LocalIdentOptions struct {
	// Template may use [name], [ext], [path], [file], [folder], [local],
	// [uniqueName], [hash] and [hash:N].
	Template string
	// Context is the directory resource paths are made relative to.
	Context string
	// UniqueName distinguishes builds sharing a runtime.
	UniqueName string
	// HashLength truncates [hash]; zero keeps all 16 hex digits.
	HashLength int
	// HashSalt is mixed into every hash.
	HashSalt string
	// CacheSize bounds the memoized identifiers; zero picks a default.
	CacheSize int
}

// TemplateResolver renders local identifiers from a name template. Results
// are memoized; it is safe for concurrent use.
type TemplateResolver struct {
	opts  LocalIdentOptions
	cache *lru.Cache[string, string]
}

// NewTemplateResolver validates opts and returns a resolver.
func NewTemplateResolver(opts LocalIdentOptions) (*TemplateResolver, error) {
	if opts.Template == "" {
		opts.Template = DefaultLocalIdentName
	}
	if opts.HashLength < 0 || opts.HashLength > 16 {
		return nil, fmt.Errorf("hash length %d out of range [0,16]", opts.HashLength)
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultIdentCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("creating ident cache: %w", err)
	}
	return &TemplateResolver{opts: opts, cache: cache}, nil
}

// LocalIdent implements IdentResolver.
func (r *TemplateResolver) LocalIdent(resourcePath, local string) string {
	key := resourcePath + "\x00" + local
	if ident, ok := r.cache.Get(key); ok {
		return ident
	}
	ident := r.render(resourcePath, local)
	r.cache.Add(key, ident)
	return ident
}

func (r *TemplateResolver) render(resourcePath, local string) string {
	rel := r.relative(resourcePath)
	dir, file := splitPath(rel)
	ext := filepath.Ext(file)
	name := strings.TrimSuffix(file, ext)

	var hash string
	out := placeholderPattern.ReplaceAllStringFunc(r.opts.Template, func(m string) string {
		sub := placeholderPattern.FindStringSubmatch(m)
		switch sub[1] {
		case "name":
			return sanitizeIdent(name)
		case "ext":
			return sanitizeIdent(ext)
		case "path":
			if dir == "" {
				return ""
			}
			return sanitizeIdent(dir + "/")
		case "file":
			return sanitizeIdent(rel)
		case "folder":
			return sanitizeIdent(filepath.Base(dir))
		case "local":
			return local
		case "uniqueName":
			return sanitizeIdent(r.opts.UniqueName)
		case "hash":
			if hash == "" {
				hash = r.hash(rel, local)
			}
			n := r.opts.HashLength
			if sub[2] != "" {
				if v, err := strconv.Atoi(sub[2]); err == nil {
					n = v
				}
			}
			if n > 0 && n < len(hash) {
				return hash[:n]
			}
			return hash
		}
		return m
	})

	if startsWithDigit(out) || strings.HasPrefix(out, "--") {
		out = "_" + out
	}
	return out
}

func (r *TemplateResolver) relative(resourcePath string) string {
	p := resourcePath
	if r.opts.Context != "" {
		if rel, err := filepath.Rel(r.opts.Context, resourcePath); err == nil {
			p = rel
		}
	}
	return strings.TrimPrefix(filepath.ToSlash(p), "./")
}

func (r *TemplateResolver) hash(rel, local string) string {
	h := xxhash.New()
	_, _ = h.WriteString(r.opts.HashSalt)
	_, _ = h.WriteString(r.opts.UniqueName)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(rel)
	_, _ = h.WriteString("\x00")
	_, _ = h.WriteString(local)
	return fmt.Sprintf("%016x", h.Sum64())
}

func splitPath(rel string) (dir, file string) {
	i := strings.LastIndexByte(rel, '/')
	if i < 0 {
		return "", rel
	}
	return rel[:i], rel[i+1:]
}

func sanitizeIdent(s string) string {
	return unsafeIdentChars.ReplaceAllString(s, "-")
}
