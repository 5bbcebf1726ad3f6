// internal/hostmatch/path.go
//
// Path helpers shared by the matcher and the resolvers.
//
// • NormalizePath(p) ─ one leading slash, no empty segments, no trailing
//   slash.  The root stays "/".
// • Segments(p)      ─ the non-empty segments of p.
// • LastSegment(p)   ─ the final segment, "" for the root.
// • BuildPath(parts) ─ joins segments with a single "/" and guarantees
//   exactly one leading slash.
// • StripPrefix(p, mount) ─ removes a mount prefix on a segment boundary.
//
// Notes
// -----
// • "." and ".." are kept as literal segments.  Slugs never contain them,
//   so they simply fail to match any page.
// • Percent-decoding is net/http's job; these helpers see decoded paths.

package hostmatch

import "strings"

// Segments splits p on "/" and drops empty parts.
func Segments(p string) []string {
	raw := strings.Split(p, "/")
	out := raw[:0]
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NormalizePath returns the canonical form of p.
func NormalizePath(p string) string {
	return BuildPath(Segments(p)...)
}

// BuildPath joins parts ensuring exactly one leading slash and no duplicate
// separators.
func BuildPath(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(part)
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// LastSegment returns the final non-empty segment of p.
func LastSegment(p string) string {
	segs := Segments(p)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// FirstSegment returns the leading non-empty segment of p.
func FirstSegment(p string) string {
	segs := Segments(p)
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}

// IsRoot reports whether p names the root after normalisation.
func IsRoot(p string) bool { return len(Segments(p)) == 0 }

// StripPrefix removes mount from p when p equals mount or continues it on a
// segment boundary.  "/shop" strips from "/shop/a" but not from "/shopping".
func StripPrefix(p, mount string) (string, bool) {
	ps, ms := Segments(p), Segments(mount)
	if len(ms) > len(ps) {
		return p, false
	}
	for i := range ms {
		if ps[i] != ms[i] {
			return p, false
		}
	}
	return BuildPath(ps[len(ms):]...), true
}
